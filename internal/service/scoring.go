package service

import (
	"strings"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/pkg/textnorm"
)

// TriState buckets a free-text answer.
type TriState int

const (
	TriNegative TriState = iota
	TriNeutral
	TriAffirmative
)

// Scores per bucket on the 0-10 scale.
const (
	ScoreAffirmative = 10
	ScoreNeutral     = 5
	ScoreNegative    = 0
)

// Classify buckets an answer. Text that matches none of the known forms is
// negative.
func Classify(answer string) TriState {
	n := textnorm.Normalize(answer)
	switch {
	case n == "":
		return TriNegative
	case n == "siempre" || n == "si" || n == "sí" || n == "s" || strings.Contains(n, "siempre"):
		return TriAffirmative
	case strings.Contains(n, "veces") || n == "n/a" || n == "na" || strings.Contains(n, "aplica") || strings.Contains(n, "regular"):
		return TriNeutral
	default:
		// "nunca", "no", "n" and anything unrecognised.
		return TriNegative
	}
}

// Score maps an answer to 0, 5 or 10. The change question always scores 0.
func Score(answer string, questionID int) int {
	if questionID == models.ChangeQuestionID {
		return 0
	}
	switch Classify(answer) {
	case TriAffirmative:
		return ScoreAffirmative
	case TriNeutral:
		return ScoreNeutral
	default:
		return ScoreNegative
	}
}

// countsTowardAverage is false for the change question.
func countsTowardAverage(questionID int) bool {
	return questionID != models.ChangeQuestionID
}
