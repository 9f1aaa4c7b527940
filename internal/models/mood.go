package models

import "github.com/noah-isme/clima-laboral-api/pkg/textnorm"

// Mood is the self-reported state chosen on the survey.
type Mood string

const (
	MoodMuyMal  Mood = "Muy mal"
	MoodMal     Mood = "Mal"
	MoodRegular Mood = "Regular"
	MoodBien    Mood = "Bien"
	MoodMuyBien Mood = "Muy bien"
)

// MoodCount is the number of recognised moods.
const MoodCount = 5

// moodOrder is the display order for distributions, best first.
var moodOrder = [MoodCount]Mood{MoodMuyBien, MoodBien, MoodRegular, MoodMal, MoodMuyMal}

var moodLabels = map[Mood]string{
	MoodMuyBien: "Muy Bien",
	MoodBien:    "Bien",
	MoodRegular: "Regular",
	MoodMal:     "Mal",
	MoodMuyMal:  "Muy Mal",
}

// MoodOrder returns moods in distribution display order.
func MoodOrder() [MoodCount]Mood {
	return moodOrder
}

// Index returns the mood's slot in MoodOrder, or -1.
func (m Mood) Index() int {
	for i, candidate := range moodOrder {
		if candidate == m {
			return i
		}
	}
	return -1
}

// Label is the title-cased display label.
func (m Mood) Label() string {
	if l, ok := moodLabels[m]; ok {
		return l
	}
	return string(m)
}

// ParseMood matches input against the five moods ignoring case, accents
// and surrounding space.
func ParseMood(raw string) (Mood, bool) {
	n := textnorm.Normalize(raw)
	for _, m := range moodOrder {
		if textnorm.Normalize(string(m)) == n {
			return m, true
		}
	}
	return "", false
}
