package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func fullAnswers(surveyID int64, answer13, answer14 string) []models.Answer {
	out := make([]models.Answer, 0, models.QuestionCount)
	for q := 1; q <= models.QuestionCount; q++ {
		resp := answer13
		if q == models.ChangeQuestionID {
			resp = answer14
		}
		out = append(out, models.Answer{SurveyID: surveyID, QuestionID: q, Response: resp})
	}
	return out
}

func TestAggregateAlmacenCScenario(t *testing.T) {
	surveys := []models.Survey{{ID: 1, Area: "Almacén C", Mood: "Bien", VulnerabilityText: strPtr("")}}
	answers := fullAnswers(1, "Siempre", "Si")

	agg := Aggregate(NewAreaMatcher(nil, nil), surveys, answers)
	stats := Finalize(models.AreaAlmacenC, agg.Nodes[models.AreaAlmacenC])

	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 10.0, stats.AverageScore)
	assert.Equal(t, 13, agg.Nodes[models.AreaAlmacenC].ScoreCount)
	assert.Equal(t, 0, stats.VulnerabilityCount)

	q14 := stats.Questions[models.ChangeQuestionID-1]
	assert.Equal(t, 100, q14.AffirmativePercent)
	assert.Equal(t, 1, q14.Counts.Affirmative)
	assert.Equal(t, 130, agg.Nodes[models.AreaGeneral].ScoreSum)
}

func TestAggregateSkipsOrphanAnswers(t *testing.T) {
	surveys := []models.Survey{{ID: 1, Area: "Recibo", Mood: "Mal"}}
	answers := []models.Answer{
		{SurveyID: 1, QuestionID: 1, Response: "Nunca"},
		{SurveyID: 99, QuestionID: 1, Response: "Siempre"},
	}

	agg := Aggregate(nil, surveys, answers)
	for _, area := range []models.Area{models.AreaGeneral, models.AreaRecibo} {
		node := agg.Nodes[area]
		assert.Equal(t, 1, node.ScoreCount, area)
		assert.Equal(t, 0, node.ScoreSum, area)
		assert.Equal(t, 1, node.Questions[0][TriNegative], area)
		assert.Equal(t, 0, node.Questions[0][TriAffirmative], area)
	}
}

func TestAggregateUnmatchedAreaCountsGeneralOnce(t *testing.T) {
	matcher := NewAreaMatcher(nil, nil)
	surveys := []models.Survey{
		{ID: 1, Area: "Bodega Z", Mood: "Regular"},
		{ID: 2, Area: "  almacen f ", Mood: "Muy bien", VulnerabilityText: strPtr("  me gritan  "), RegisteredAt: timePtr(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))},
		{ID: 3, Area: "", Mood: "no se"},
	}

	agg := Aggregate(matcher, surveys, nil)

	assert.Len(t, agg.Nodes, len(models.Areas())+1)
	assert.Equal(t, 3, agg.Nodes[models.AreaGeneral].Total)
	assert.Equal(t, 1, agg.Nodes[models.AreaAlmacenF].Total)
	assert.Equal(t, 2, agg.Unmatched)

	general := agg.Nodes[models.AreaGeneral]
	assert.Equal(t, 1, general.Vulnerability)
	require.Len(t, general.Comments, 1)
	assert.Equal(t, "me gritan", general.Comments[0].Text)
	// unrecognised mood counts toward total only
	moods := 0
	for _, n := range general.Moods {
		moods += n
	}
	assert.Equal(t, 2, moods)
}

func TestTriStateCountsMatchAnswerRows(t *testing.T) {
	surveys := []models.Survey{{ID: 1, Area: "Calidad"}, {ID: 2, Area: "Calidad"}, {ID: 3, Area: "Maquila"}}
	answers := []models.Answer{
		{SurveyID: 1, QuestionID: 5, Response: "Siempre"},
		{SurveyID: 2, QuestionID: 5, Response: "a veces"},
		{SurveyID: 2, QuestionID: 5, Response: "???"},
		{SurveyID: 3, QuestionID: 5, Response: "Nunca"},
	}

	agg := Aggregate(nil, surveys, answers)
	calidad := Finalize(models.AreaCalidad, agg.Nodes[models.AreaCalidad])
	general := Finalize(models.AreaGeneral, agg.Nodes[models.AreaGeneral])

	assert.Equal(t, 3, calidad.Questions[4].Counts.Total())
	assert.Equal(t, 4, general.Questions[4].Counts.Total())
	assert.Equal(t, 33, calidad.Questions[4].AffirmativePercent)
	assert.Equal(t, 33, calidad.Questions[4].NeutralPercent)
	assert.Equal(t, 33, calidad.Questions[4].NegativePercent)
}

func TestFoldSurveyDoesNotShareComments(t *testing.T) {
	base := FoldSurvey(AreaAccumulator{}, models.Survey{VulnerabilityText: strPtr("uno")})
	a := FoldSurvey(base, models.Survey{VulnerabilityText: strPtr("dos")})
	b := FoldSurvey(base, models.Survey{VulnerabilityText: strPtr("tres")})

	require.Len(t, base.Comments, 1)
	assert.Equal(t, "dos", a.Comments[1].Text)
	assert.Equal(t, "tres", b.Comments[1].Text)
}
