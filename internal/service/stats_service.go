package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

const (
	statsCacheKey     = "stats:dashboard"
	statsCachePattern = "stats:*"
)

type statsRepository interface {
	ListSurveys(ctx context.Context) ([]models.Survey, error)
	ListAnswers(ctx context.Context) ([]models.Answer, error)
}

type historyLister interface {
	List(ctx context.Context) ([]models.HistoricalSnapshot, error)
}

// StatsService computes dashboard statistics from scratch on each call,
// optionally fronted by the Redis cache.
type StatsService struct {
	repo     statsRepository
	history  historyLister
	matcher  *AreaMatcher
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatsService constructs the service.
func NewStatsService(repo statsRepository, history historyLister, matcher *AreaMatcher, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if matcher == nil {
		matcher = NewAreaMatcher(logger, metrics)
	}
	return &StatsService{
		repo:     repo,
		history:  history,
		matcher:  matcher,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Dashboard returns stats for GENERAL and every area. A failed fetch yields
// zeroed stats flagged Degraded rather than an error. The bool reports a
// cache hit.
func (s *StatsService) Dashboard(ctx context.Context) (*models.DashboardStats, bool, error) {
	var cached models.DashboardStats
	if s.cache.Get(ctx, statsCacheKey, &cached) {
		return &cached, true, nil
	}

	surveys, answers, err := s.fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		s.logger.Error("dashboard data fetch failed, serving empty stats", zap.Error(err))
		return EmptyDashboard(s.now()), false, nil
	}

	stats := FinalizeDashboard(Aggregate(s.matcher, surveys, answers), s.now())
	s.cache.Set(ctx, statsCacheKey, stats, s.cacheTTL)
	return stats, false, nil
}

func (s *StatsService) fetch(ctx context.Context) ([]models.Survey, []models.Answer, error) {
	var (
		wg                  sync.WaitGroup
		surveys             []models.Survey
		answers             []models.Answer
		surveyErr, answerErr error
	)
	start := time.Now()
	wg.Add(2)
	go func() {
		defer wg.Done()
		surveys, surveyErr = s.repo.ListSurveys(ctx)
	}()
	go func() {
		defer wg.Done()
		answers, answerErr = s.repo.ListAnswers(ctx)
	}()
	wg.Wait()
	s.metrics.ObserveDBQuery("stats_fetch", time.Since(start))

	if surveyErr != nil {
		return nil, nil, surveyErr
	}
	if answerErr != nil {
		return nil, nil, answerErr
	}
	return surveys, answers, nil
}

// Area returns one area's stats. Blank or "general" selects GENERAL.
func (s *StatsService) Area(ctx context.Context, raw string) (*models.AreaStats, bool, error) {
	area, ok := models.ParseAreaFilter(raw)
	if !ok {
		return nil, false, validationError(nil, fmt.Sprintf("unknown area %q", raw))
	}
	dashboard, hit, err := s.Dashboard(ctx)
	if err != nil {
		return nil, false, internalError(err, "failed to compute stats")
	}
	stats := dashboard.Areas[area]
	return &stats, hit, nil
}

// Ranking orders areas with at least one submission by average score,
// highest first.
func (s *StatsService) Ranking(ctx context.Context) ([]models.RankingEntry, error) {
	dashboard, _, err := s.Dashboard(ctx)
	if err != nil {
		return nil, internalError(err, "failed to compute stats")
	}
	return RankAreas(dashboard), nil
}

// RankAreas builds the ranking from computed stats.
func RankAreas(dashboard *models.DashboardStats) []models.RankingEntry {
	entries := make([]models.RankingEntry, 0, len(models.Areas()))
	for _, area := range models.Areas() {
		stats, ok := dashboard.Areas[area]
		if !ok || stats.Total == 0 {
			continue
		}
		entries = append(entries, models.RankingEntry{Area: area, AverageScore: stats.AverageScore, Total: stats.Total})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AverageScore != entries[j].AverageScore {
			return entries[i].AverageScore > entries[j].AverageScore
		}
		return entries[i].Area < entries[j].Area
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// Comparison contrasts current stats with the stored previous period.
func (s *StatsService) Comparison(ctx context.Context, raw string) (*models.Comparison, error) {
	area, ok := models.ParseAreaFilter(raw)
	if !ok {
		return nil, validationError(nil, fmt.Sprintf("unknown area %q", raw))
	}
	dashboard, _, err := s.Dashboard(ctx)
	if err != nil {
		return nil, internalError(err, "failed to compute stats")
	}

	var summary models.HistorySummary
	if s.history != nil {
		rows, err := s.history.List(ctx)
		if err != nil {
			s.logger.Warn("history unavailable for comparison", zap.Error(err))
		}
		summary = SummarizeHistory(s.matcher, rows)
	} else {
		summary = SummarizeHistory(s.matcher, nil)
	}
	return CompareWithHistory(area, dashboard.Areas[area], summary), nil
}

// CompareWithHistory computes diffs between current and historical values.
// For GENERAL the historical score is the mean over areas that have one and
// the count is their sum. Historical scores are 0-100 and are scaled to 0-10.
func CompareWithHistory(area models.Area, current models.AreaStats, summary models.HistorySummary) *models.Comparison {
	var histScore float64
	var histCount int
	if area == models.AreaGeneral {
		filled := 0
		sum := 0.0
		for _, a := range models.Areas() {
			entry := summary.Areas[a]
			if !entry.Filled {
				continue
			}
			filled++
			sum += entry.Score
			histCount += entry.Count
		}
		if filled > 0 {
			histScore = sum / float64(filled)
		}
	} else {
		entry := summary.Areas[area]
		histScore = entry.Score
		histCount = entry.Count
	}

	scaled := histScore / 10
	out := &models.Comparison{
		Area:            area,
		CurrentScore:    current.AverageScore,
		CurrentCount:    current.Total,
		HistoricalScore: scaled,
		HistoricalCount: histCount,
		ScoreDiff:       current.AverageScore - scaled,
		CountDiff:       current.Total - histCount,
		PeriodLabel:     summary.Label,
	}
	out.ScoreLabel = fmt.Sprintf("%s%.1f vs ant.", sign(out.ScoreDiff), out.ScoreDiff)
	out.CountLabel = fmt.Sprintf("%s%d vs ant.", sign(float64(out.CountDiff)), out.CountDiff)
	return out
}

func sign(v float64) string {
	if v >= 0 {
		return "+"
	}
	return ""
}
