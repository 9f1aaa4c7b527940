package models

import "time"

// HistoricalSnapshot is the manually maintained previous-period figure for
// one area (historico_bimestral). Score is on a 0-100 scale.
type HistoricalSnapshot struct {
	ID          int64      `db:"id" json:"id"`
	Area        string     `db:"area" json:"area"`
	Score       float64    `db:"score_anterior" json:"score_anterior"`
	Count       int        `db:"count_anterior" json:"count_anterior"`
	PeriodLabel *string    `db:"periodo_label" json:"periodo_label,omitempty"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// HistoryEntry is the editable per-area pair. Filled is false for areas
// that have no stored snapshot.
type HistoryEntry struct {
	Score  float64 `json:"score"`
	Count  int     `json:"count"`
	Filled bool    `json:"filled"`
}

// HistorySummary is the previous period for every canonical area.
type HistorySummary struct {
	Label string                `json:"label"`
	Areas map[Area]HistoryEntry `json:"areas"`
}

// HistoryInput is one area's edited values. Nil fields are stored as 0.
type HistoryInput struct {
	Score *float64 `json:"score" validate:"omitempty,min=0,max=100"`
	Count *int     `json:"count" validate:"omitempty,min=0"`
}

// SaveHistoryRequest upserts previous-period values under a shared label.
type SaveHistoryRequest struct {
	Label string                  `json:"label" validate:"max=120"`
	Areas map[string]HistoryInput `json:"areas" validate:"required,min=1,dive"`
}
