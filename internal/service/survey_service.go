package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	appErrors "github.com/noah-isme/clima-laboral-api/pkg/errors"
)

type surveyRepository interface {
	ListSurveys(ctx context.Context) ([]models.Survey, error)
	ListAnswers(ctx context.Context) ([]models.Answer, error)
	GetSurvey(ctx context.Context, id int64) (*models.Survey, error)
	ListAnswersBySurvey(ctx context.Context, surveyID int64) ([]models.Answer, error)
	Create(ctx context.Context, survey *models.Survey, answers []models.Answer) error
	Update(ctx context.Context, survey *models.Survey, answers []models.Answer) error
	Delete(ctx context.Context, id int64) error
}

type closingMessenger interface {
	For(mood string) string
}

// SurveyService handles submissions and their administration.
type SurveyService struct {
	repo      surveyRepository
	matcher   *AreaMatcher
	closing   closingMessenger
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSurveyService constructs the service.
func NewSurveyService(repo surveyRepository, matcher *AreaMatcher, closing closingMessenger, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SurveyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if matcher == nil {
		matcher = NewAreaMatcher(logger, metrics)
	}
	if closing == nil {
		closing = NewClosingMessages(nil)
	}
	return &SurveyService{
		repo:      repo,
		matcher:   matcher,
		closing:   closing,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Catalog lists everything a client needs to render the form.
func (s *SurveyService) Catalog() models.SurveyCatalog {
	moods := models.MoodOrder()
	return models.SurveyCatalog{
		Areas:       models.Areas(),
		Moods:       moods[:],
		Questions:   models.Questions(),
		Frequencies: append([]string{}, models.FrequencyOptions...),
	}
}

// Submit validates and stores a full submission.
func (s *SurveyService) Submit(ctx context.Context, req models.SubmitSurveyRequest) (*models.SubmitSurveyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid survey payload")
	}
	mood, ok := models.ParseMood(req.Mood)
	if !ok {
		return nil, validationError(nil, fmt.Sprintf("unknown mood %q", req.Mood))
	}
	for q := 1; q <= models.QuestionCount; q++ {
		if strings.TrimSpace(req.Answers[q]) == "" {
			return nil, validationError(nil, fmt.Sprintf("question %d is unanswered", q))
		}
	}
	registered, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	created := s.now().UTC()
	survey := &models.Survey{
		RegisteredAt:      &registered,
		Area:              s.matcher.StoredArea(req.Area),
		Mood:              string(mood),
		VulnerabilityText: optionalText(req.VulnerabilityText),
		CreatedAt:         &created,
	}
	answers := buildAnswers(req.Answers)

	start := time.Now()
	err = s.repo.Create(ctx, survey, answers)
	s.metrics.ObserveDBQuery("survey_create", time.Since(start))
	if err != nil {
		s.logger.Error("failed to store survey", zap.String("area", survey.Area), zap.Error(err))
		return nil, writeFailed("failed to save survey", err)
	}

	area, matched := s.matcher.Resolve(survey.Area)
	if !matched {
		s.matcher.ReportUnmatched(survey.Area)
	}
	s.metrics.IncSubmission(string(area))
	s.cache.Invalidate(ctx, statsCachePattern)

	return &models.SubmitSurveyResponse{
		ID:             survey.ID,
		Area:           survey.Area,
		ClosingMessage: s.closing.For(survey.Mood),
	}, nil
}

// List returns every header ordered by creation. GENERAL returns all.
func (s *SurveyService) List(ctx context.Context, areaFilter string) ([]models.Survey, error) {
	area, ok := models.ParseAreaFilter(areaFilter)
	if !ok {
		return nil, validationError(nil, fmt.Sprintf("unknown area %q", areaFilter))
	}

	start := time.Now()
	surveys, err := s.repo.ListSurveys(ctx)
	s.metrics.ObserveDBQuery("survey_list", time.Since(start))
	if err != nil {
		return nil, internalError(err, "failed to list surveys")
	}
	if area == models.AreaGeneral {
		return surveys, nil
	}

	filtered := make([]models.Survey, 0, len(surveys))
	for _, survey := range surveys {
		if s.matcher.Match(survey.Area) == area {
			filtered = append(filtered, survey)
		}
	}
	return filtered, nil
}

// Get returns a header with its answers.
func (s *SurveyService) Get(ctx context.Context, id int64) (*models.SurveyDetail, error) {
	survey, err := s.repo.GetSurvey(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, internalError(err, "failed to load survey")
	}
	answers, err := s.repo.ListAnswersBySurvey(ctx, id)
	if err != nil {
		return nil, internalError(err, "failed to load survey answers")
	}
	return &models.SurveyDetail{
		Survey:      *survey,
		MatchedArea: s.matcher.Match(survey.Area),
		Answers:     answers,
	}, nil
}

// Update edits a submission and rescores the provided answers.
func (s *SurveyService) Update(ctx context.Context, id int64, req models.UpdateSurveyRequest) (*models.SurveyDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid survey payload")
	}
	mood, ok := models.ParseMood(req.Mood)
	if !ok {
		return nil, validationError(nil, fmt.Sprintf("unknown mood %q", req.Mood))
	}

	existing, err := s.repo.GetSurvey(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		return nil, internalError(err, "failed to load survey")
	}

	existing.Area = s.matcher.StoredArea(req.Area)
	existing.Mood = string(mood)
	if req.VulnerabilityText != nil {
		existing.VulnerabilityText = optionalText(*req.VulnerabilityText)
	}

	if err := s.repo.Update(ctx, existing, buildAnswers(req.Answers)); err != nil {
		if isNotFound(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		s.logger.Error("failed to update survey", zap.Int64("id", id), zap.Error(err))
		return nil, writeFailed("failed to update survey", err)
	}
	s.cache.Invalidate(ctx, statsCachePattern)
	return s.Get(ctx, id)
}

// Delete removes a submission and its answers.
func (s *SurveyService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "survey not found")
		}
		s.logger.Error("failed to delete survey", zap.Int64("id", id), zap.Error(err))
		return writeFailed("failed to delete survey", err)
	}
	s.cache.Invalidate(ctx, statsCachePattern)
	return nil
}

// parseDate accepts RFC3339 or a plain date; blank means now.
func (s *SurveyService) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationError(nil, fmt.Sprintf("invalid date %q", raw))
}

// buildAnswers scores answers in question order.
func buildAnswers(raw map[int]string) []models.Answer {
	answers := make([]models.Answer, 0, len(raw))
	for q := 1; q <= models.QuestionCount; q++ {
		resp, ok := raw[q]
		if !ok {
			continue
		}
		resp = strings.TrimSpace(resp)
		answers = append(answers, models.Answer{
			QuestionID:   q,
			QuestionText: models.QuestionText(q),
			Response:     resp,
			Score:        Score(resp, q),
		})
	}
	return answers
}

func optionalText(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
