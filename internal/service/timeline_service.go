package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/pkg/database"
)

type timelineRepository interface {
	List(ctx context.Context) ([]models.TimelineSnapshot, error)
	InsertBatch(ctx context.Context, snapshots []models.TimelineSnapshot) error
}

// TimelineService builds the evolution chart and archives period closes.
type TimelineService struct {
	repo         timelineRepository
	history      historyLister
	stats        dashboardSource
	matcher      *AreaMatcher
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	defaultLabel string
	now          func() time.Time
}

// NewTimelineService constructs the service. defaultLabel is used when an
// archive request carries none.
func NewTimelineService(repo timelineRepository, history historyLister, stats dashboardSource, matcher *AreaMatcher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, defaultLabel string) *TimelineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if matcher == nil {
		matcher = NewAreaMatcher(logger, metrics)
	}
	if strings.TrimSpace(defaultLabel) == "" {
		defaultLabel = "Cierre Manual"
	}
	return &TimelineService{
		repo:         repo,
		history:      history,
		stats:        stats,
		matcher:      matcher,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		defaultLabel: defaultLabel,
		now:          time.Now,
	}
}

// Timeline merges archived closes with the current previous-period
// reference. Read failures degrade to an empty source.
func (s *TimelineService) Timeline(ctx context.Context) ([]models.TimelinePoint, error) {
	archived, err := s.repo.List(ctx)
	if err != nil {
		s.logReadFailure("timeline", err)
		archived = nil
	}

	var history []models.HistoricalSnapshot
	if s.history != nil {
		history, err = s.history.List(ctx)
		if err != nil {
			s.logReadFailure("history", err)
			history = nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	return ReconcileTimeline(ArchivedRows(archived), ReferenceRowsFromHistory(s.matcher, history)), nil
}

func (s *TimelineService) logReadFailure(source string, err error) {
	if database.IsSchemaMismatch(err) {
		s.logger.Warn("table unavailable, skipping source", zap.String("source", source), zap.Error(err))
		return
	}
	s.logger.Error("failed to read timeline source", zap.String("source", source), zap.Error(err))
}

// Archive writes one row per canonical area stamped with a shared close
// time. Repeated calls create repeated closes.
func (s *TimelineService) Archive(ctx context.Context, req models.ArchiveRequest) (*models.ArchiveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid archive payload")
	}
	dashboard, _, err := s.stats.Dashboard(ctx)
	if err != nil {
		return nil, internalError(err, "failed to compute stats")
	}
	if dashboard.Degraded {
		return nil, internalError(errors.New("stats degraded"), "current stats are unavailable, nothing was archived")
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		label = s.defaultLabel
	}
	closedAt := s.now().UTC()

	rows := BuildArchiveRows(dashboard, closedAt, label)
	if err := s.repo.InsertBatch(ctx, rows); err != nil {
		s.logger.Error("failed to archive timeline", zap.Error(err))
		return nil, writeFailed("failed to archive current state", err)
	}
	s.metrics.IncArchive()
	s.logger.Info("timeline archived", zap.String("label", label), zap.Int("rows", len(rows)))

	return &models.ArchiveResult{ClosedAt: closedAt, Label: label, Rows: len(rows)}, nil
}

// BuildArchiveRows converts stats into timeline rows on the 0-100 scale.
func BuildArchiveRows(dashboard *models.DashboardStats, closedAt time.Time, label string) []models.TimelineSnapshot {
	rows := make([]models.TimelineSnapshot, 0, len(models.Areas()))
	for _, area := range models.Areas() {
		stats := dashboard.Areas[area]
		l, at := label, closedAt
		rows = append(rows, models.TimelineSnapshot{
			ClosedAt: &at,
			Area:     string(area),
			Score:    stats.AverageScore * 10,
			Count:    stats.Total,
			Label:    &l,
		})
	}
	return rows
}
