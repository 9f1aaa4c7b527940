package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

var reportJobCols = []string{"id", "type", "params", "status", "progress", "result_url", "created_by", "created_at", "finished_at", "error_message"}

func TestReportRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO report_jobs")).
		WithArgs(sqlmock.AnyArg(), "surveys", sqlmock.AnyArg(), "QUEUED", 0, nil, "admin", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{
		Type:      models.ReportTypeSurveys,
		Params:    models.ReportJobParams{Area: models.AreaGeneral, Format: models.ReportFormatXLSX},
		CreatedBy: "admin",
	}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NotEmpty(t, job.ID)
	assert.Equal(t, models.ReportStatusQueued, job.Status)

	rows := sqlmock.NewRows(reportJobCols).
		AddRow(job.ID, "surveys", `{"area":"Recibo","format":"xlsx"}`, "QUEUED", 0, nil, "admin", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + reportJobColumns + " FROM report_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Area("Recibo"), fetched.Params.Area)
	assert.Equal(t, models.ReportFormatXLSX, fetched.Params.Format)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdatePlacesArgumentsInOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now()
	status := models.ReportStatusFailed
	msg := "render failed"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $1, error_message = $2, finished_at = $3 WHERE id = $4")).
		WithArgs(status, msg, now, "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "job-1", UpdateReportJobParams{
		Status:       &status,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryUpdateNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateReportJobParams{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows(reportJobCols).
		AddRow("job-1", "area_summary", `{"area":"GENERAL","format":"pdf"}`, "QUEUED", 0, nil, "admin", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM report_jobs WHERE status = $1 ORDER BY created_at ASC LIMIT $2")).
		WithArgs("QUEUED", 20).
		WillReturnRows(rows)

	jobs, err := repo.ListByStatus(context.Background(), models.ReportStatusQueued, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.ReportTypeAreaSummary, jobs[0].Type)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListFinishedBeforeAndExpire(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows(reportJobCols).
		AddRow("job-1", "surveys", `{"area":"GENERAL","format":"csv"}`, "FINISHED", 100, "/api/v1/export/token", "admin", time.Now().Add(-48*time.Hour), time.Now().Add(-25*time.Hour), nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'FINISHED' AND finished_at IS NOT NULL AND finished_at < $1 ORDER BY finished_at ASC LIMIT $2")).
		WithArgs(sqlmock.AnyArg(), 50).
		WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $1, result_url = NULL WHERE id = $2")).
		WithArgs("EXPIRED", "job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	jobs, err := repo.ListFinishedBefore(context.Background(), time.Now(), 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NoError(t, repo.MarkExpired(context.Background(), jobs[0].ID))
	require.NoError(t, mock.ExpectationsWereMet())
}
