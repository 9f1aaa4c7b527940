package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
	"github.com/noah-isme/clima-laboral-api/pkg/response"
)

type historyService interface {
	Get(ctx context.Context) (*models.HistorySummary, error)
	Save(ctx context.Context, req models.SaveHistoryRequest) (*models.HistorySummary, error)
	Proposal(ctx context.Context) (*models.HistorySummary, error)
}

// HistoryHandler exposes the manually maintained previous period.
type HistoryHandler struct {
	service historyService
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(service historyService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// Get godoc
// @Summary Previous-period values per area
// @Tags History
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/history [get]
func (h *HistoryHandler) Get(c *gin.Context) {
	summary, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Save godoc
// @Summary Save previous-period values
// @Tags History
// @Accept json
// @Produce json
// @Param payload body models.SaveHistoryRequest true "Values per area"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /admin/history [put]
func (h *HistoryHandler) Save(c *gin.Context) {
	var req models.SaveHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid history payload"))
		return
	}
	summary, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Proposal godoc
// @Summary Current stats reshaped as a previous period
// @Description Nothing is stored; the result is meant to be reviewed and saved
// @Tags History
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/history/proposal [get]
func (h *HistoryHandler) Proposal(c *gin.Context) {
	summary, err := h.service.Proposal(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
