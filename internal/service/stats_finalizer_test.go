package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

func TestFinalizeEmptyAreaHasNoDivisionArtifacts(t *testing.T) {
	stats := Finalize(models.AreaMaquila, AreaAccumulator{})

	assert.Equal(t, 0.0, stats.AverageScore)
	require.Len(t, stats.MoodDistribution, models.MoodCount)
	for _, share := range stats.MoodDistribution {
		assert.Equal(t, 0, share.Percent)
	}
	require.Len(t, stats.Questions, models.QuestionCount)
	for _, q := range stats.Questions {
		assert.Zero(t, q.AffirmativePercent+q.NeutralPercent+q.NegativePercent)
	}
}

func TestFinalizeMoodOrderAndRounding(t *testing.T) {
	acc := AreaAccumulator{}
	acc.Moods[models.MoodMuyBien.Index()] = 1
	acc.Moods[models.MoodBien.Index()] = 1
	acc.Moods[models.MoodMal.Index()] = 6

	stats := Finalize(models.AreaRecibo, acc)
	labels := make([]string, 0, len(stats.MoodDistribution))
	for _, share := range stats.MoodDistribution {
		labels = append(labels, share.Label)
	}
	assert.Equal(t, []string{"Muy Bien", "Bien", "Regular", "Mal", "Muy Mal"}, labels)
	// 12.5 rounds up to 13, 75 stays.
	assert.Equal(t, 13, stats.MoodDistribution[0].Percent)
	assert.Equal(t, 13, stats.MoodDistribution[1].Percent)
	assert.Equal(t, 75, stats.MoodDistribution[3].Percent)
}

func TestFinalizeAverage(t *testing.T) {
	stats := Finalize(models.AreaRecibo, AreaAccumulator{ScoreSum: 25, ScoreCount: 4})
	assert.Equal(t, 6.25, stats.AverageScore)
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3.0, roundHalfUp(2.5))
	assert.Equal(t, 2.0, roundHalfUp(2.49))
	assert.Equal(t, 67, percent(2, 3))
}

func TestEmptyDashboardIsDegraded(t *testing.T) {
	out := EmptyDashboard(time.Now())
	assert.True(t, out.Degraded)
	assert.Len(t, out.Areas, len(models.Areas())+1)
	assert.Equal(t, 0, out.Areas[models.AreaGeneral].Total)
}
