package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
	"github.com/noah-isme/clima-laboral-api/pkg/response"
)

type surveyService interface {
	Catalog() models.SurveyCatalog
	Submit(ctx context.Context, req models.SubmitSurveyRequest) (*models.SubmitSurveyResponse, error)
	List(ctx context.Context, areaFilter string) ([]models.Survey, error)
	Get(ctx context.Context, id int64) (*models.SurveyDetail, error)
	Update(ctx context.Context, id int64, req models.UpdateSurveyRequest) (*models.SurveyDetail, error)
	Delete(ctx context.Context, id int64) error
}

// SurveyHandler serves the public form and admin submission management.
type SurveyHandler struct {
	service surveyService
}

// NewSurveyHandler constructs the handler.
func NewSurveyHandler(service surveyService) *SurveyHandler {
	return &SurveyHandler{service: service}
}

// Catalog godoc
// @Summary Survey form catalog
// @Description Areas, moods, questions and answer options needed to render the form
// @Tags Surveys
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /survey/catalog [get]
func (h *SurveyHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Catalog(), nil)
}

// Submit godoc
// @Summary Submit a survey
// @Tags Surveys
// @Accept json
// @Produce json
// @Param payload body models.SubmitSurveyRequest true "Survey submission"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /surveys [post]
func (h *SurveyHandler) Submit(c *gin.Context) {
	var req models.SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid survey payload"))
		return
	}

	res, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, res)
}

// List godoc
// @Summary List submissions
// @Tags Surveys
// @Produce json
// @Param area query string false "Area filter (blank or GENERAL for all)"
// @Success 200 {object} response.Envelope
// @Router /admin/surveys [get]
func (h *SurveyHandler) List(c *gin.Context) {
	surveys, err := h.service.List(c.Request.Context(), c.Query("area"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, surveys, map[string]interface{}{"total": len(surveys)})
}

// Get godoc
// @Summary Get one submission with its answers
// @Tags Surveys
// @Produce json
// @Param id path int true "Survey ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/surveys/{id} [get]
func (h *SurveyHandler) Get(c *gin.Context) {
	id, err := surveyIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Edit a submission
// @Tags Surveys
// @Accept json
// @Produce json
// @Param id path int true "Survey ID"
// @Param payload body models.UpdateSurveyRequest true "Updated fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/surveys/{id} [put]
func (h *SurveyHandler) Update(c *gin.Context) {
	id, err := surveyIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req models.UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid survey payload"))
		return
	}

	detail, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Delete godoc
// @Summary Delete a submission and its answers
// @Tags Surveys
// @Param id path int true "Survey ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/surveys/{id} [delete]
func (h *SurveyHandler) Delete(c *gin.Context) {
	id, err := surveyIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
