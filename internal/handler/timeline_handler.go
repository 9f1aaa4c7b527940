package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
	"github.com/noah-isme/clima-laboral-api/pkg/response"
)

type timelineService interface {
	Timeline(ctx context.Context) ([]models.TimelinePoint, error)
	Archive(ctx context.Context, req models.ArchiveRequest) (*models.ArchiveResult, error)
}

// TimelineHandler exposes period closes.
type TimelineHandler struct {
	service timelineService
}

// NewTimelineHandler constructs the handler.
func NewTimelineHandler(service timelineService) *TimelineHandler {
	return &TimelineHandler{service: service}
}

// Timeline godoc
// @Summary Historical closes merged with the previous-period reference
// @Tags Timeline
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/timeline [get]
func (h *TimelineHandler) Timeline(c *gin.Context) {
	points, err := h.service.Timeline(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, points, nil)
}

// Archive godoc
// @Summary Close the current period into the timeline
// @Tags Timeline
// @Accept json
// @Produce json
// @Param payload body models.ArchiveRequest false "Optional label"
// @Success 201 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /admin/timeline/archive [post]
func (h *TimelineHandler) Archive(c *gin.Context) {
	var req models.ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid archive payload"))
		return
	}
	result, err := h.service.Archive(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
