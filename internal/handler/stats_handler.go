package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clima-laboral-api/internal/middleware"
	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
	"github.com/noah-isme/clima-laboral-api/pkg/response"
)

type statsService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, bool, error)
	Area(ctx context.Context, raw string) (*models.AreaStats, bool, error)
	Ranking(ctx context.Context) ([]models.RankingEntry, error)
	Comparison(ctx context.Context, raw string) (*models.Comparison, error)
}

// StatsHandler wires the aggregation service to HTTP endpoints.
type StatsHandler struct {
	service statsService
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(service statsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Stats godoc
// @Summary Dashboard statistics
// @Description Every area plus GENERAL, or a single area when area is given
// @Tags Stats
// @Produce json
// @Param area query string false "Area name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()

	var (
		data     interface{}
		cacheHit bool
	)
	if area := strings.TrimSpace(c.Query("area")); area != "" {
		stats, hit, err := h.service.Area(c.Request.Context(), area)
		if err != nil {
			response.Error(c, err)
			return
		}
		data, cacheHit = stats, hit
	} else {
		dashboard, hit, err := h.service.Dashboard(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		if dashboard.Degraded {
			middleware.SetDegraded(c)
		}
		data, cacheHit = dashboard, hit
	}

	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, meta)
}

// Ranking godoc
// @Summary Area ranking by average score
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/stats/ranking [get]
func (h *StatsHandler) Ranking(c *gin.Context) {
	ranking, err := h.service.Ranking(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, nil)
}

// Comparison godoc
// @Summary Compare current stats with the previous period
// @Tags Stats
// @Produce json
// @Param area query string false "Area name, GENERAL when blank"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/stats/comparison [get]
func (h *StatsHandler) Comparison(c *gin.Context) {
	comparison, err := h.service.Comparison(c.Request.Context(), c.Query("area"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comparison, nil)
}
