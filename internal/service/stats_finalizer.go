package service

import (
	"math"
	"time"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

// roundHalfUp rounds x to the nearest integer, halves away from -inf.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(roundHalfUp(float64(part) * 100 / float64(total)))
}

// Finalize converts an accumulator into display values. Each percentage is
// rounded on its own, so a distribution may not add up to exactly 100.
func Finalize(area models.Area, acc AreaAccumulator) models.AreaStats {
	stats := models.AreaStats{
		Area:               area,
		Total:              acc.Total,
		VulnerabilityCount: acc.Vulnerability,
		Comments:           append([]models.Comment{}, acc.Comments...),
	}
	if acc.ScoreCount > 0 {
		stats.AverageScore = float64(acc.ScoreSum) / float64(acc.ScoreCount)
	}

	moodTotal := 0
	for _, n := range acc.Moods {
		moodTotal += n
	}
	stats.MoodDistribution = make([]models.MoodShare, 0, models.MoodCount)
	for i, mood := range models.MoodOrder() {
		stats.MoodDistribution = append(stats.MoodDistribution, models.MoodShare{
			Mood:    mood,
			Label:   mood.Label(),
			Count:   acc.Moods[i],
			Percent: percent(acc.Moods[i], moodTotal),
		})
	}

	stats.Questions = make([]models.QuestionBreakdown, 0, models.QuestionCount)
	for _, q := range models.Questions() {
		tally := acc.Questions[q.ID-1]
		counts := models.TriStateCounts{
			Affirmative: tally[TriAffirmative],
			Neutral:     tally[TriNeutral],
			Negative:    tally[TriNegative],
		}
		total := counts.Total()
		stats.Questions = append(stats.Questions, models.QuestionBreakdown{
			QuestionID:         q.ID,
			Text:               q.Text,
			AffirmativePercent: percent(counts.Affirmative, total),
			NeutralPercent:     percent(counts.Neutral, total),
			NegativePercent:    percent(counts.Negative, total),
			Counts:             counts,
		})
	}
	return stats
}

// FinalizeDashboard finalizes every node of agg.
func FinalizeDashboard(agg Aggregation, now time.Time) *models.DashboardStats {
	out := &models.DashboardStats{
		Areas:          make(map[models.Area]models.AreaStats, len(agg.Nodes)),
		UnmatchedAreas: agg.Unmatched,
		GeneratedAt:    now.UTC(),
	}
	for area, acc := range agg.Nodes {
		out.Areas[area] = Finalize(area, acc)
	}
	return out
}

// EmptyDashboard is the zeroed result served when data cannot be fetched.
func EmptyDashboard(now time.Time) *models.DashboardStats {
	out := FinalizeDashboard(Aggregate(nil, nil, nil), now)
	out.Degraded = true
	return out
}
