package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
	"github.com/noah-isme/clima-laboral-api/pkg/response"
)

type surveyServiceMock struct {
	submitted  *models.SubmitSurveyRequest
	submitErr  error
	listFilter string
	surveys    []models.Survey
	detail     *models.SurveyDetail
	getErr     error
	updatedID  int64
	deletedID  int64
}

func (m *surveyServiceMock) Catalog() models.SurveyCatalog {
	return models.SurveyCatalog{Areas: models.Areas()}
}

func (m *surveyServiceMock) Submit(ctx context.Context, req models.SubmitSurveyRequest) (*models.SubmitSurveyResponse, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	m.submitted = &req
	return &models.SubmitSurveyResponse{ID: 9, Area: req.Area, ClosingMessage: "Gracias"}, nil
}

func (m *surveyServiceMock) List(ctx context.Context, areaFilter string) ([]models.Survey, error) {
	m.listFilter = areaFilter
	return m.surveys, nil
}

func (m *surveyServiceMock) Get(ctx context.Context, id int64) (*models.SurveyDetail, error) {
	return m.detail, m.getErr
}

func (m *surveyServiceMock) Update(ctx context.Context, id int64, req models.UpdateSurveyRequest) (*models.SurveyDetail, error) {
	m.updatedID = id
	return &models.SurveyDetail{Survey: models.Survey{ID: id, Area: req.Area, Mood: req.Mood}}, nil
}

func (m *surveyServiceMock) Delete(ctx context.Context, id int64) error {
	m.deletedID = id
	return nil
}

func decodeEnvelope(t *testing.T, body []byte) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestSurveyHandlerCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSurveyHandler(&surveyServiceMock{})

	c, w := newGinContext(http.MethodGet, "/api/v1/survey/catalog", nil)
	handler.Catalog(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mensajería y Distribución")
}

func TestSurveyHandlerSubmit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &surveyServiceMock{}
	handler := NewSurveyHandler(mockSvc)

	body := []byte(`{"area":"Recibo","mood":"Bien","answers":{"1":"Siempre","14":"Nada"}}`)
	c, w := newGinContext(http.MethodPost, "/api/v1/surveys", body)
	handler.Submit(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mockSvc.submitted)
	assert.Equal(t, "Siempre", mockSvc.submitted.Answers[1])
	assert.Equal(t, "Nada", mockSvc.submitted.Answers[14])
}

func TestSurveyHandlerSubmitErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewSurveyHandler(&surveyServiceMock{})
	c, w := newGinContext(http.MethodPost, "/api/v1/surveys", []byte(`not json`))
	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	handler = NewSurveyHandler(&surveyServiceMock{submitErr: appErrors.Clone(appErrors.ErrWriteFailed, "permission denied for table encuestas")})
	c, w = newGinContext(http.MethodPost, "/api/v1/surveys", []byte(`{"area":"Recibo","mood":"Bien"}`))
	handler.Submit(c)
	require.Equal(t, http.StatusBadGateway, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	require.NotNil(t, env.Error)
	assert.Equal(t, "permission denied for table encuestas", env.Error.Message)
}

func TestSurveyHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &surveyServiceMock{surveys: []models.Survey{{ID: 1, Area: "Recibo"}, {ID: 2, Area: "Recibo"}}}
	handler := NewSurveyHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/admin/surveys?area=Recibo", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recibo", mockSvc.listFilter)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.EqualValues(t, 2, env.Meta["total"])
}

func TestSurveyHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSurveyHandler(&surveyServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "survey not found")})

	c, w := newGinContext(http.MethodGet, "/admin/surveys/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodGet, "/admin/surveys/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSurveyHandlerUpdateAndDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &surveyServiceMock{}
	handler := NewSurveyHandler(mockSvc)

	c, w := newGinContext(http.MethodPut, "/admin/surveys/12", []byte(`{"area":"Calidad","mood":"Mal"}`))
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 12, mockSvc.updatedID)

	c, w = newGinContext(http.MethodDelete, "/admin/surveys/12", nil)
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.EqualValues(t, 12, mockSvc.deletedID)

	c, w = newGinContext(http.MethodDelete, "/admin/surveys/0", nil)
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
