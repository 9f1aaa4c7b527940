package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
)

const loginAttemptsKeyPrefix = "auth:login:failures:"

type loginThrottle interface {
	Get(ctx context.Context, key string, dest interface{}) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, keys ...string) error
}

type auditRecorder interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// AuthConfig defines configuration for the admin login.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	PassphraseHash    string
	MaxLoginAttempts  int
	LoginWindow       time.Duration
}

// AuthService exchanges the shared admin passphrase for access tokens.
type AuthService struct {
	throttle  loginThrottle
	audit     auditRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService. throttle and audit may be nil.
func NewAuthService(throttle loginThrottle, audit auditRecorder, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 8 * time.Hour
	}
	if config.MaxLoginAttempts <= 0 {
		config.MaxLoginAttempts = 5
	}
	if config.LoginWindow <= 0 {
		config.LoginWindow = 15 * time.Minute
	}
	return &AuthService{
		throttle:  throttle,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       time.Now,
	}
}

// Login checks the passphrase and issues an ADMIN token. Failed attempts
// are counted per client IP; once MaxLoginAttempts is reached the IP is
// refused until LoginWindow passes.
func (s *AuthService) Login(ctx context.Context, req models.AdminLoginRequest) (*models.AdminLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}
	if s.config.PassphraseHash == "" {
		s.logger.Error("admin login attempted but no passphrase hash is configured")
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin access is not configured")
	}

	key := loginAttemptsKeyPrefix + req.IP
	if s.failedAttempts(ctx, key) >= s.config.MaxLoginAttempts {
		s.metrics.IncLogin("throttled")
		s.recordAttempt(ctx, req, models.AuditActionLoginFailed, "throttled")
		return nil, appErrors.ErrTooManyAttempts
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.config.PassphraseHash), []byte(req.Passphrase)); err != nil {
		s.countFailure(ctx, key)
		s.metrics.IncLogin("failure")
		s.recordAttempt(ctx, req, models.AuditActionLoginFailed, "invalid_passphrase")
		return nil, appErrors.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to reset login throttle", zap.Error(err))
		}
	}

	issuedAt := s.now().UTC()
	token, err := s.generateAccessToken(issuedAt)
	if err != nil {
		return nil, internalError(err, "failed to create access token")
	}
	s.metrics.IncLogin("success")
	s.recordAttempt(ctx, req, models.AuditActionLogin, "success")

	return &models.AdminLoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// failedAttempts returns 0 when the throttle store is absent or unreachable
// so an outage never locks the admin out.
func (s *AuthService) failedAttempts(ctx context.Context, key string) int {
	if s.throttle == nil {
		return 0
	}
	var count int
	if err := s.throttle.Get(ctx, key, &count); err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("login throttle unavailable", zap.Error(err))
		}
		return 0
	}
	return count
}

func (s *AuthService) countFailure(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	if _, err := s.throttle.IncrWithTTL(ctx, key, s.config.LoginWindow); err != nil {
		s.logger.Warn("failed to count login failure", zap.Error(err))
	}
}

func (s *AuthService) recordAttempt(ctx context.Context, req models.AdminLoginRequest, action, outcome string) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{"status": outcome})
	if err := s.audit.Create(ctx, &models.AuditLog{
		Actor:     models.AdminSubject,
		Action:    action,
		Resource:  "auth",
		Payload:   payload,
		IPAddress: req.IP,
		UserAgent: req.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record login audit log", zap.Error(err))
	}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token role not accepted")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   models.AdminSubject,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
}
