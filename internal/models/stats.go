package models

import "time"

// Comment is a non-blank vulnerability text with its submission date.
type Comment struct {
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// MoodShare is one slice of the mood distribution.
type MoodShare struct {
	Mood    Mood   `json:"mood"`
	Label   string `json:"label"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// TriStateCounts tallies classified answers for one question.
type TriStateCounts struct {
	Affirmative int `json:"affirmative"`
	Neutral     int `json:"neutral"`
	Negative    int `json:"negative"`
}

// Total is the number of tallied answers.
func (c TriStateCounts) Total() int {
	return c.Affirmative + c.Neutral + c.Negative
}

// QuestionBreakdown is the finalized distribution for one question.
type QuestionBreakdown struct {
	QuestionID         int            `json:"question_id"`
	Text               string         `json:"text"`
	AffirmativePercent int            `json:"affirmative_percent"`
	NeutralPercent     int            `json:"neutral_percent"`
	NegativePercent    int            `json:"negative_percent"`
	Counts             TriStateCounts `json:"counts"`
}

// AreaStats is the finalized dashboard block for one area or GENERAL.
// AverageScore is on a 0-10 scale.
type AreaStats struct {
	Area               Area                `json:"area"`
	Total              int                 `json:"total"`
	AverageScore       float64             `json:"average_score"`
	VulnerabilityCount int                 `json:"vulnerability_count"`
	Comments           []Comment           `json:"comments"`
	MoodDistribution   []MoodShare         `json:"mood_distribution"`
	Questions          []QuestionBreakdown `json:"questions"`
}

// DashboardStats holds every area plus GENERAL. Degraded is set when the
// underlying fetch failed and zeroed stats were returned instead.
type DashboardStats struct {
	Areas          map[Area]AreaStats `json:"areas"`
	UnmatchedAreas int                `json:"unmatched_areas"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Degraded       bool               `json:"degraded"`
}

// RankingEntry is one area in the score ranking.
type RankingEntry struct {
	Position     int     `json:"position"`
	Area         Area    `json:"area"`
	AverageScore float64 `json:"average_score"`
	Total        int     `json:"total"`
}

// Comparison contrasts current stats with the stored previous period.
type Comparison struct {
	Area            Area    `json:"area"`
	CurrentScore    float64 `json:"current_score"`
	CurrentCount    int     `json:"current_count"`
	HistoricalScore float64 `json:"historical_score"`
	HistoricalCount int     `json:"historical_count"`
	ScoreDiff       float64 `json:"score_diff"`
	CountDiff       int     `json:"count_diff"`
	ScoreLabel      string  `json:"score_label"`
	CountLabel      string  `json:"count_label"`
	PeriodLabel     string  `json:"period_label"`
}
