package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

func TestClassify(t *testing.T) {
	cases := map[string]TriState{
		"Siempre":        TriAffirmative,
		" SÍ ":           TriAffirmative,
		"s":              TriAffirmative,
		"casi siempre":   TriAffirmative,
		"A veces":        TriNeutral,
		"aveces":         TriNeutral,
		"N/A":            TriNeutral,
		"na":             TriNeutral,
		"No aplica":      TriNeutral,
		"regular":        TriNeutral,
		"Nunca":          TriNegative,
		"no":             TriNegative,
		"N":              TriNegative,
		"casi nunca":     TriNegative,
		"":               TriNegative,
		"lorem ipsum ??": TriNegative,
	}
	for in, want := range cases {
		assert.Equal(t, want, Classify(in), in)
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, 10, Score("Siempre", 1))
	assert.Equal(t, 5, Score("A veces", 2))
	assert.Equal(t, 0, Score("Nunca", 3))
	assert.Equal(t, 0, Score("???", 4))
}

func TestScoreChangeQuestionAlwaysZero(t *testing.T) {
	for _, answer := range []string{"Siempre", "Si", "A veces", "N/A", "No"} {
		assert.Equal(t, 0, Score(answer, models.ChangeQuestionID), answer)
	}
	assert.Equal(t, TriAffirmative, Classify("Si"))
}

func TestScoreIsIdempotent(t *testing.T) {
	for _, answer := range []string{"Siempre", "a VECES", "nunca", "garbage"} {
		assert.Equal(t, Score(answer, 5), Score(answer, 5))
	}
}
