package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

func TestClosingMessagesPoolPerMood(t *testing.T) {
	for _, mood := range models.MoodOrder() {
		assert.Len(t, closingPhrases[mood], 10, mood)
	}
	assert.Len(t, fallbackPhrases, 2)
}

func TestClosingMessagesFor(t *testing.T) {
	msgs := NewClosingMessages(func(n int) int { return n - 1 })

	assert.Equal(t, closingPhrases[models.MoodMuyBien][9], msgs.For("muy bien"))
	assert.Equal(t, fallbackPhrases[1], msgs.For(""))
}

func TestClosingMessagesGuardsOutOfRange(t *testing.T) {
	msgs := NewClosingMessages(func(n int) int { return n + 5 })
	assert.Equal(t, closingPhrases[models.MoodMal][0], msgs.For("Mal"))
}

func TestClosingMessagesDefaultSource(t *testing.T) {
	msgs := NewClosingMessages(nil)
	assert.Contains(t, closingPhrases[models.MoodRegular], msgs.For("Regular"))
}
