package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/pkg/storage"
)

func exportFixture() *statsRepoStub {
	comment := "  me siento presionado "
	surveys := []models.Survey{
		{ID: 1, RegisteredAt: timePtr(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)), Area: "recibo", Mood: "Bien", VulnerabilityText: &comment},
		{ID: 2, RegisteredAt: timePtr(time.Date(2024, 1, 11, 8, 0, 0, 0, time.UTC)), Area: "Oficina Central", Mood: "Mal"},
	}
	var answers []models.Answer
	for q := 1; q <= models.QuestionCount; q++ {
		answers = append(answers, models.Answer{SurveyID: 1, QuestionID: q, Response: "Siempre"})
	}
	answers = append(answers,
		models.Answer{SurveyID: 2, QuestionID: 1, Response: "A veces"},
		models.Answer{SurveyID: 2, QuestionID: 2, Response: "Nunca"},
		models.Answer{SurveyID: 99, QuestionID: 1, Response: "Siempre"},
	)
	return &statsRepoStub{surveys: surveys, answers: answers}
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := exportFixture()
	stats := NewStatsService(repo, nil, nil, nil, nil, time.Minute, zap.NewNop())
	svc := NewExportService(repo, stats, nil, store, storage.NewSignedURLSigner("secret", time.Hour), ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestBuildSurveyDataset(t *testing.T) {
	repo := exportFixture()
	dataset := BuildSurveyDataset(NewAreaMatcher(nil, nil), repo.surveys, repo.answers)

	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "ID Encuesta", dataset.Headers[0])
	assert.Equal(t, "Promedio Final", dataset.Headers[len(dataset.Headers)-1])
	assert.Len(t, dataset.Headers, 5+2*models.QuestionCount+1)

	first := dataset.Rows[0]
	assert.Equal(t, "Recibo", first["Área"])
	assert.Equal(t, "me siento presionado", first["Vulnerabilidad"])
	assert.Equal(t, 10, first["Score_P1"])
	assert.Equal(t, 0, first["Score_P14"])
	assert.Equal(t, "10.00", first["Promedio Final"])

	second := dataset.Rows[1]
	assert.Equal(t, "GENERAL", second["Área"])
	assert.Equal(t, "2.50", second["Promedio Final"])
	_, answered := second[answerHeader(3)]
	assert.False(t, answered)
}

func TestBuildSurveyDatasetAveragesLikeDashboard(t *testing.T) {
	matcher := NewAreaMatcher(nil, nil)
	surveys := []models.Survey{{ID: 5, Area: "Calidad", Mood: "Bien"}}
	answers := []models.Answer{
		{SurveyID: 5, QuestionID: 1, Response: "Siempre"},
		{SurveyID: 5, QuestionID: 0, Response: "Nunca"},
		{SurveyID: 5, QuestionID: 14, Response: "Si"},
	}

	dataset := BuildSurveyDataset(matcher, surveys, answers)
	require.Len(t, dataset.Rows, 1)
	row := dataset.Rows[0]
	assert.Equal(t, "5.00", row["Promedio Final"])
	assert.Nil(t, row["Fecha Registro"])
	_, listed := row[answerHeader(0)]
	assert.False(t, listed)

	agg := Aggregate(matcher, surveys, answers)
	stats := Finalize(models.AreaCalidad, agg.Nodes[models.AreaCalidad])
	assert.Equal(t, 5.0, stats.AverageScore)
}

func TestExportServiceSpreadsheetCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	file, err := svc.Spreadsheet(context.Background(), models.ReportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "CVDirecto_Data_Completa_2024-02-03.csv", file.Filename)

	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(file.Data, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Área", records[0][2])
	assert.Equal(t, "1", records[1][0])
}

func TestExportServiceSpreadsheetXLSXEmpty(t *testing.T) {
	repo := &statsRepoStub{}
	svc := NewExportService(repo, nil, nil, nil, nil, ExportConfig{}, zap.NewNop())

	file, err := svc.Spreadsheet(context.Background(), models.ReportFormatXLSX)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()
	value, err := wb.GetCellValue("Resultados Detallados", "A1")
	require.NoError(t, err)
	assert.Equal(t, "No hay datos registrados aún.", value)
}

func TestExportServiceAreaReport(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	file, err := svc.AreaReport(context.Background(), models.AreaMensajeriaDistribucion)
	require.NoError(t, err)
	assert.Equal(t, "Reporte_CVDirecto_Mensajer_a_y_Distribuci_n_2024-02-03.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestBuildAreaDocumentGeneralHasRanking(t *testing.T) {
	dashboard := FinalizeDashboard(Aggregate(nil, exportFixture().surveys, exportFixture().answers), time.Now())

	general := BuildAreaDocument(dashboard, models.AreaGeneral)
	recibo := BuildAreaDocument(dashboard, models.AreaRecibo)

	var g, r []string
	for _, s := range general.Sections {
		g = append(g, s.Heading)
	}
	for _, s := range recibo.Sections {
		r = append(r, s.Heading)
	}
	assert.Contains(t, g, "Ranking por áreas")
	assert.NotContains(t, r, "Ranking por áreas")
	assert.Contains(t, r, "Comentarios de vulnerabilidad")
}

func TestExportServiceGenerateAndOpen(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeSurveys,
		Params: models.ReportJobParams{Format: models.ReportFormatXLSX},
	}

	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "job-1/CVDirecto_Data_Completa_2024-02-03.xlsx", result.RelativePath)
	assert.Contains(t, result.URL, "/api/v1/export/")

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)

	f, err := svc.Open(relPath)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestExportServiceGenerateRejectsAreaSummaryAsCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	_, err := svc.Generate(context.Background(), &models.ReportJob{
		ID:     "job-2",
		Type:   models.ReportTypeAreaSummary,
		Params: models.ReportJobParams{Format: models.ReportFormatCSV},
	})
	require.Error(t, err)
}
