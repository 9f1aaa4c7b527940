package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/pkg/database"
)

type historyRepository interface {
	List(ctx context.Context) ([]models.HistoricalSnapshot, error)
	Upsert(ctx context.Context, snapshots []models.HistoricalSnapshot) error
}

type dashboardSource interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, bool, error)
}

// HistoryService manages the manually entered previous-period figures.
type HistoryService struct {
	repo      historyRepository
	stats     dashboardSource
	matcher   *AreaMatcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHistoryService constructs the service.
func NewHistoryService(repo historyRepository, stats dashboardSource, matcher *AreaMatcher, validate *validator.Validate, logger *zap.Logger) *HistoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if matcher == nil {
		matcher = NewAreaMatcher(logger, nil)
	}
	return &HistoryService{repo: repo, stats: stats, matcher: matcher, validator: validate, logger: logger}
}

// SummarizeHistory keys stored rows by canonical area and fills in empty
// entries for areas without one. The label is the first non-blank label in
// area order.
func SummarizeHistory(matcher *AreaMatcher, rows []models.HistoricalSnapshot) models.HistorySummary {
	byArea := make(map[models.Area]models.HistoricalSnapshot, len(rows))
	for _, row := range rows {
		byArea[matcher.Match(row.Area)] = row
	}

	summary := models.HistorySummary{Areas: make(map[models.Area]models.HistoryEntry, len(models.Areas()))}
	for _, area := range models.Areas() {
		row, ok := byArea[area]
		if !ok {
			summary.Areas[area] = models.HistoryEntry{}
			continue
		}
		summary.Areas[area] = models.HistoryEntry{Score: row.Score, Count: row.Count, Filled: true}
		if summary.Label == "" && row.PeriodLabel != nil {
			summary.Label = strings.TrimSpace(*row.PeriodLabel)
		}
	}
	return summary
}

// Get returns the stored previous period. A missing table reads as empty.
func (s *HistoryService) Get(ctx context.Context) (*models.HistorySummary, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		if !database.IsSchemaMismatch(err) {
			return nil, internalError(err, "failed to load history")
		}
		s.logger.Warn("history table unavailable, serving empty history", zap.Error(err))
		rows = nil
	}
	summary := SummarizeHistory(s.matcher, rows)
	return &summary, nil
}

// Save upserts the given areas under one shared label. Missing score or
// count is stored as 0.
func (s *HistoryService) Save(ctx context.Context, req models.SaveHistoryRequest) (*models.HistorySummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid history payload")
	}

	var label *string
	if trimmed := strings.TrimSpace(req.Label); trimmed != "" {
		label = &trimmed
	}
	now := time.Now().UTC()

	inputs := make(map[models.Area]models.HistoryInput, len(req.Areas))
	for raw, input := range req.Areas {
		area, ok := models.LookupArea(raw)
		if !ok {
			return nil, validationError(nil, fmt.Sprintf("unknown area %q", raw))
		}
		if _, dup := inputs[area]; dup {
			return nil, validationError(nil, fmt.Sprintf("area %q is given more than once", area))
		}
		inputs[area] = input
	}

	snapshots := make([]models.HistoricalSnapshot, 0, len(inputs))
	for _, area := range models.Areas() {
		input, ok := inputs[area]
		if !ok {
			continue
		}
		snap := models.HistoricalSnapshot{Area: string(area), PeriodLabel: label, UpdatedAt: &now}
		if input.Score != nil {
			snap.Score = *input.Score
		}
		if input.Count != nil {
			snap.Count = *input.Count
		}
		snapshots = append(snapshots, snap)
	}

	if err := s.repo.Upsert(ctx, snapshots); err != nil {
		s.logger.Error("failed to save history", zap.Int("areas", len(snapshots)), zap.Error(err))
		return nil, writeFailed("failed to save history", err)
	}
	return s.Get(ctx)
}

// Proposal reshapes current stats as a previous period (0-100 score and
// participant count) for the admin to review before saving. Nothing is
// stored.
func (s *HistoryService) Proposal(ctx context.Context) (*models.HistorySummary, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	dashboard, _, err := s.stats.Dashboard(ctx)
	if err != nil {
		return nil, internalError(err, "failed to compute stats")
	}

	proposal := &models.HistorySummary{
		Label: current.Label,
		Areas: make(map[models.Area]models.HistoryEntry, len(models.Areas())),
	}
	for _, area := range models.Areas() {
		stats, ok := dashboard.Areas[area]
		if !ok {
			proposal.Areas[area] = current.Areas[area]
			continue
		}
		proposal.Areas[area] = models.HistoryEntry{
			Score:  roundHalfUp(stats.AverageScore * 10),
			Count:  stats.Total,
			Filled: true,
		}
	}
	return proposal, nil
}
