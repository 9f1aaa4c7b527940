package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clima-laboral-api/internal/middleware"
	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/internal/service"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
)

type reportServiceMock struct {
	createResp  *models.ReportJobResponse
	createErr   error
	lastActor   string
	lastRequest models.ReportRequest
	statusResp  *models.ReportStatusResponse
	statusErr   error
	download    *service.ReportDownload
	downloadErr error
}

func (m *reportServiceMock) CreateJob(ctx context.Context, req models.ReportRequest, actorID string) (*models.ReportJobResponse, error) {
	m.lastActor = actorID
	m.lastRequest = req
	return m.createResp, m.createErr
}

func (m *reportServiceMock) GetStatus(ctx context.Context, id string) (*models.ReportStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *reportServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error) {
	return m.download, m.downloadErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: models.AdminSubject}}
}

func TestReportHandlerGenerateReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		createResp: &models.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued},
	}
	handler := NewReportHandler(mockSvc, nil)

	payload, _ := json.Marshal(models.ReportRequest{Type: models.ReportTypeAreaSummary, Format: models.ReportFormatPDF, Area: "Recibo"})
	c, w := newGinContext(http.MethodPost, "/admin/reports", payload)
	c.Set(middleware.ContextUserKey, adminClaims())

	handler.GenerateReport(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, models.AdminSubject, mockSvc.lastActor)
	assert.Equal(t, "Recibo", mockSvc.lastRequest.Area)
}

func TestReportHandlerGenerateReportInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{}, nil)

	c, w := newGinContext(http.MethodPost, "/admin/reports", []byte(`{"type":`))
	handler.GenerateReport(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerReportStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{
		statusResp: &models.ReportStatusResponse{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100},
	}
	handler := NewReportHandler(mockSvc, nil)

	c, w := newGinContext(http.MethodGet, "/admin/reports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.ReportStatus(c)
	require.Equal(t, http.StatusOK, w.Code)

	mockSvc.statusErr = appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	c, w = newGinContext(http.MethodGet, "/admin/reports/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.ReportStatus(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerDownloadReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	file, err := os.CreateTemp(t.TempDir(), "report*.csv")
	require.NoError(t, err)
	_, _ = file.WriteString("data")
	_, _ = file.Seek(0, 0)

	mockSvc := &reportServiceMock{
		download: &service.ReportDownload{
			File:      file,
			Filename:  "CVDirecto_Data_Completa_2024-02-03.csv",
			Format:    models.ReportFormatCSV,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	handler := NewReportHandler(mockSvc, nil)

	c, w := newGinContext(http.MethodGet, "/api/v1/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.DownloadReport(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "data", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "CVDirecto_Data_Completa_2024-02-03.csv")
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestReportHandlerDownloadReportForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{downloadErr: appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")}, nil)

	c, w := newGinContext(http.MethodGet, "/api/v1/export/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}

	handler.DownloadReport(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
