package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

// AreaMatcher resolves stored area strings to canonical areas. Unknown
// strings fall back to GENERAL. Matching is pure; unmatched submissions are
// logged and counted once, when they are stored.
type AreaMatcher struct {
	logger  *zap.Logger
	metrics *MetricsService
}

// NewAreaMatcher constructs a matcher; both arguments may be nil.
func NewAreaMatcher(logger *zap.Logger, metrics *MetricsService) *AreaMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AreaMatcher{logger: logger, metrics: metrics}
}

// Match returns the canonical area for raw, or GENERAL.
func (m *AreaMatcher) Match(raw string) models.Area {
	area, matched := m.Resolve(raw)
	if matched {
		return area
	}
	return models.AreaGeneral
}

// Resolve is Match plus whether a canonical area was found.
func (m *AreaMatcher) Resolve(raw string) (models.Area, bool) {
	if strings.TrimSpace(raw) == "" {
		return models.AreaGeneral, false
	}
	if area, ok := models.LookupArea(raw); ok {
		return area, true
	}
	return models.AreaGeneral, false
}

// ReportUnmatched records a newly stored submission whose area resolved to
// GENERAL.
func (m *AreaMatcher) ReportUnmatched(raw string) {
	if m == nil {
		return
	}
	m.logger.Warn("unrecognised area routed to GENERAL", zap.String("area", raw))
	m.metrics.IncUnmatchedArea()
}

// StoredArea is the value persisted for a submission: the canonical name
// when one matches, else the trimmed input.
func (m *AreaMatcher) StoredArea(raw string) string {
	if area, ok := models.LookupArea(raw); ok {
		return string(area)
	}
	return strings.TrimSpace(raw)
}
