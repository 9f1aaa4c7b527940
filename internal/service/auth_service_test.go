package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
)

type throttleStub struct {
	counts  map[string]int
	getErr  error
	deleted []string
}

func newThrottleStub() *throttleStub {
	return &throttleStub{counts: map[string]int{}}
}

func (t *throttleStub) Get(ctx context.Context, key string, dest interface{}) error {
	if t.getErr != nil {
		return t.getErr
	}
	n, ok := t.counts[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*(dest.(*int)) = n
	return nil
}

func (t *throttleStub) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	t.counts[key]++
	return int64(t.counts[key]), nil
}

func (t *throttleStub) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(t.counts, k)
		t.deleted = append(t.deleted, k)
	}
	return nil
}

type auditStub struct {
	logs []*models.AuditLog
}

func (a *auditStub) Create(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newAuthServiceForTest(t *testing.T, passphrase string) (*AuthService, *throttleStub, *auditStub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.MinCost)
	require.NoError(t, err)
	throttle := newThrottleStub()
	audit := &auditStub{}
	svc := NewAuthService(throttle, audit, nil, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "clima-laboral-api",
		PassphraseHash:    string(hash),
		MaxLoginAttempts:  3,
		LoginWindow:       time.Minute,
	})
	return svc, throttle, audit
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, throttle, audit := newAuthServiceForTest(t, "clima2024")

	resp, err := svc.Login(context.Background(), models.AdminLoginRequest{Passphrase: "clima2024", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, models.AdminSubject, claims.Subject)

	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionLogin, audit.logs[0].Action)
	assert.Equal(t, []string{loginAttemptsKeyPrefix + "10.0.0.1"}, throttle.deleted)
}

func TestAuthServiceLoginWrongPassphrase(t *testing.T) {
	svc, throttle, audit := newAuthServiceForTest(t, "clima2024")

	_, err := svc.Login(context.Background(), models.AdminLoginRequest{Passphrase: "nope", IP: "10.0.0.2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
	assert.Equal(t, 1, throttle.counts[loginAttemptsKeyPrefix+"10.0.0.2"])
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionLoginFailed, audit.logs[0].Action)
	assert.JSONEq(t, `{"status":"invalid_passphrase"}`, string(audit.logs[0].Payload))
}

func TestAuthServiceLoginThrottlesPerIP(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, "clima2024")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, models.AdminLoginRequest{Passphrase: "bad", IP: "10.0.0.3"})
		require.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	}
	_, err := svc.Login(ctx, models.AdminLoginRequest{Passphrase: "clima2024", IP: "10.0.0.3"})
	assert.ErrorIs(t, err, appErrors.ErrTooManyAttempts)

	_, err = svc.Login(ctx, models.AdminLoginRequest{Passphrase: "clima2024", IP: "10.0.0.4"})
	assert.NoError(t, err)
}

func TestAuthServiceLoginAllowedWhenThrottleUnavailable(t *testing.T) {
	svc, throttle, _ := newAuthServiceForTest(t, "clima2024")
	throttle.getErr = errors.New("dial tcp: connection refused")
	throttle.counts[loginAttemptsKeyPrefix+"10.0.0.5"] = 99

	_, err := svc.Login(context.Background(), models.AdminLoginRequest{Passphrase: "clima2024", IP: "10.0.0.5"})
	assert.NoError(t, err)
}

func TestAuthServiceLoginWithoutConfiguredHash(t *testing.T) {
	svc := NewAuthService(nil, nil, nil, nil, zap.NewNop(), AuthConfig{AccessTokenSecret: "secret"})
	_, err := svc.Login(context.Background(), models.AdminLoginRequest{Passphrase: "anything"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, "clima2024")
	_, err := svc.Login(context.Background(), models.AdminLoginRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsOtherSecret(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t, "clima2024")
	resp, err := svc.Login(context.Background(), models.AdminLoginRequest{Passphrase: "clima2024", IP: "10.0.0.6"})
	require.NoError(t, err)

	other := NewAuthService(nil, nil, nil, nil, zap.NewNop(), AuthConfig{AccessTokenSecret: "different"})
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
