package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
)

type historyRepoStub struct {
	rows      []models.HistoricalSnapshot
	listErr   error
	upsertErr error
	upserted  []models.HistoricalSnapshot
}

func (r *historyRepoStub) List(ctx context.Context) ([]models.HistoricalSnapshot, error) {
	return r.rows, r.listErr
}

func (r *historyRepoStub) Upsert(ctx context.Context, snapshots []models.HistoricalSnapshot) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserted = snapshots
	r.rows = snapshots
	return nil
}

type dashboardStub struct {
	dashboard *models.DashboardStats
	err       error
}

func (d dashboardStub) Dashboard(ctx context.Context) (*models.DashboardStats, bool, error) {
	return d.dashboard, false, d.err
}

func TestSummarizeHistoryFillsEveryArea(t *testing.T) {
	blank := "  "
	label := "Bimestre 2"
	summary := SummarizeHistory(NewAreaMatcher(nil, nil), []models.HistoricalSnapshot{
		{Area: "calidad", Score: 70, Count: 4, PeriodLabel: &label},
		{Area: "almacen c", Score: 90, Count: 8, PeriodLabel: &blank},
	})

	assert.Len(t, summary.Areas, len(models.Areas()))
	assert.Equal(t, models.HistoryEntry{Score: 90, Count: 8, Filled: true}, summary.Areas[models.AreaAlmacenC])
	assert.Equal(t, models.HistoryEntry{Score: 70, Count: 4, Filled: true}, summary.Areas[models.AreaCalidad])
	assert.False(t, summary.Areas[models.AreaRecibo].Filled)
	assert.Equal(t, "Bimestre 2", summary.Label)
}

func TestHistoryServiceGetMissingTableIsEmpty(t *testing.T) {
	repo := &historyRepoStub{listErr: fmt.Errorf("list history: %w", &pq.Error{Code: "42P01"})}
	svc := NewHistoryService(repo, nil, nil, nil, zap.NewNop())

	summary, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Label)
	assert.False(t, summary.Areas[models.AreaRecibo].Filled)
}

func TestHistoryServiceGetOtherErrorFails(t *testing.T) {
	svc := NewHistoryService(&historyRepoStub{listErr: errors.New("timeout")}, nil, nil, nil, zap.NewNop())
	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestHistoryServiceSave(t *testing.T) {
	repo := &historyRepoStub{}
	svc := NewHistoryService(repo, nil, nil, nil, zap.NewNop())
	score := 85.5
	count := 12

	summary, err := svc.Save(context.Background(), models.SaveHistoryRequest{
		Label: " Bimestre 4 ",
		Areas: map[string]models.HistoryInput{
			"recibo":  {Score: &score, Count: &count},
			"Calidad": {},
		},
	})
	require.NoError(t, err)

	require.Len(t, repo.upserted, 2)
	assert.Equal(t, "Recibo", repo.upserted[0].Area)
	assert.Equal(t, 85.5, repo.upserted[0].Score)
	assert.Equal(t, 12, repo.upserted[0].Count)
	assert.Equal(t, "Calidad", repo.upserted[1].Area)
	assert.Equal(t, 0.0, repo.upserted[1].Score)
	require.NotNil(t, repo.upserted[1].PeriodLabel)
	assert.Equal(t, "Bimestre 4", *repo.upserted[1].PeriodLabel)

	assert.Equal(t, "Bimestre 4", summary.Label)
	assert.True(t, summary.Areas[models.AreaCalidad].Filled)
}

func TestHistoryServiceSaveRejectsUnknownArea(t *testing.T) {
	repo := &historyRepoStub{}
	svc := NewHistoryService(repo, nil, nil, nil, zap.NewNop())

	_, err := svc.Save(context.Background(), models.SaveHistoryRequest{
		Areas: map[string]models.HistoryInput{"Oficinas": {}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.upserted)
}

func TestHistoryServiceSaveRejectsDuplicateArea(t *testing.T) {
	repo := &historyRepoStub{}
	svc := NewHistoryService(repo, nil, nil, nil, zap.NewNop())
	high, low := 90.0, 10.0

	_, err := svc.Save(context.Background(), models.SaveHistoryRequest{
		Areas: map[string]models.HistoryInput{
			"Recibo":  {Score: &high},
			"recibo ": {Score: &low},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Contains(t, appErrors.FromError(err).Message, "Recibo")
	assert.Nil(t, repo.upserted)
}

func TestHistoryServiceSaveSurfacesStorageMessage(t *testing.T) {
	repo := &historyRepoStub{upsertErr: fmt.Errorf("upsert history: %w", &pq.Error{Code: "42P01", Message: `relation "historico_bimestral" does not exist`})}
	svc := NewHistoryService(repo, nil, nil, nil, zap.NewNop())

	_, err := svc.Save(context.Background(), models.SaveHistoryRequest{
		Areas: map[string]models.HistoryInput{"Recibo": {}},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrSchemaMissing.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "historico_bimestral")
}

func TestHistoryServiceProposal(t *testing.T) {
	updated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	label := "Bimestre 1"
	repo := &historyRepoStub{rows: []models.HistoricalSnapshot{
		{Area: "Maquila", Score: 40, Count: 3, PeriodLabel: &label, UpdatedAt: &updated},
	}}
	dashboard := EmptyDashboard(time.Now())
	dashboard.Areas[models.AreaRecibo] = models.AreaStats{Area: models.AreaRecibo, Total: 6, AverageScore: 7.46}
	svc := NewHistoryService(repo, dashboardStub{dashboard: dashboard}, nil, nil, zap.NewNop())

	proposal, err := svc.Proposal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bimestre 1", proposal.Label)
	assert.Equal(t, models.HistoryEntry{Score: 75, Count: 6, Filled: true}, proposal.Areas[models.AreaRecibo])
	assert.Equal(t, models.HistoryEntry{Score: 0, Count: 0, Filled: true}, proposal.Areas[models.AreaMaquila])
	assert.Nil(t, repo.upserted)
}
