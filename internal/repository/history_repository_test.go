package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/pkg/database"
)

var historyCols = []string{"id", "area", "score_anterior", "count_anterior", "periodo_label", "updated_at"}

func TestHistoryRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db, 0)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, COALESCE(area, '') AS area, COALESCE(score_anterior, 0) AS score_anterior, COALESCE(count_anterior, 0) AS count_anterior, periodo_label, updated_at FROM historico_bimestral")).
		WithArgs(DefaultPageSize, 0).
		WillReturnRows(sqlmock.NewRows(historyCols).
			AddRow(1, "Recibo", 72.5, 18, "Ene-Feb", now).
			AddRow(2, "Calidad", 60.0, 9, nil, nil).
			AddRow(3, "", 0.0, 0, nil, now))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "", rows[2].Area)
	assert.Zero(t, rows[2].Score)
	require.NotNil(t, rows[0].PeriodLabel)
	assert.Equal(t, "Ene-Feb", *rows[0].PeriodLabel)
	assert.Nil(t, rows[1].UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryListFallsBackWithoutLabelColumn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db, 0)

	mock.ExpectQuery(regexp.QuoteMeta("periodo_label, updated_at FROM historico_bimestral")).
		WillReturnError(&pq.Error{Code: "42703", Message: `column "periodo_label" does not exist`})
	mock.ExpectQuery(regexp.QuoteMeta("NULL AS periodo_label, updated_at FROM historico_bimestral")).
		WillReturnRows(sqlmock.NewRows(historyCols).AddRow(1, "Recibo", 70.0, 10, nil, time.Now()))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].PeriodLabel)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryListMissingTableKeepsCode(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db, 0)

	mock.ExpectQuery(regexp.QuoteMeta("FROM historico_bimestral")).
		WillReturnError(&pq.Error{Code: "42P01", Message: `relation "historico_bimestral" does not exist`})

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.True(t, database.IsUndefinedTable(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db, 0)
	label := "Mar-Abr"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (area) DO UPDATE SET score_anterior = EXCLUDED.score_anterior, count_anterior = EXCLUDED.count_anterior, periodo_label = EXCLUDED.periodo_label")).
		WithArgs("Recibo", 80.0, 12, label, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO historico_bimestral (area, score_anterior, count_anterior, periodo_label, updated_at)")).
		WithArgs("Calidad", 0.0, 0, label, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), []models.HistoricalSnapshot{
		{Area: "Recibo", Score: 80, Count: 12, PeriodLabel: &label},
		{Area: "Calidad", PeriodLabel: &label},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryUpsertRetriesWithoutLabel(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db, 0)
	label := "Mar-Abr"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO historico_bimestral (area, score_anterior, count_anterior, periodo_label, updated_at)")).
		WillReturnError(&pq.Error{Code: "42703"})
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO historico_bimestral (area, score_anterior, count_anterior, updated_at)")).
		WithArgs("Recibo", 80.0, 12, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), []models.HistoricalSnapshot{{Area: "Recibo", Score: 80, Count: 12, PeriodLabel: &label}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepositoryUpsertOtherErrorSurfaces(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHistoryRepository(db, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO historico_bimestral")).
		WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err := repo.Upsert(context.Background(), []models.HistoricalSnapshot{{Area: "Recibo"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	require.NoError(t, mock.ExpectationsWereMet())
}
