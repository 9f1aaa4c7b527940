package models

import "time"

// TimelineSnapshot is one area's archived close (historico_timeline).
// Score is on a 0-100 scale. Rows without a close time are kept here and
// dropped by the reconciler.
type TimelineSnapshot struct {
	ID       int64      `db:"id" json:"id"`
	ClosedAt *time.Time `db:"fecha_cierre" json:"fecha_cierre,omitempty"`
	Area     string     `db:"area" json:"area"`
	Score    float64    `db:"score" json:"score"`
	Count    int        `db:"count" json:"count"`
	Label    *string    `db:"etiqueta" json:"etiqueta,omitempty"`
}

// TimelineRow is the reconciler input, built either from an archived
// snapshot or synthesized from the historical table.
type TimelineRow struct {
	ID        string
	Timestamp *time.Time
	Area      Area
	Score     float64
	Count     int
	Label     string
	Reference bool
}

// TimelinePoint is one closing event on the chart.
type TimelinePoint struct {
	Timestamp    time.Time `json:"timestamp"`
	Label        string    `json:"label"`
	DisplayLabel string    `json:"display_label"`
	MeanScore    float64   `json:"mean_score"`
	Rows         int       `json:"rows"`
	IsReference  bool      `json:"is_reference"`
}

// ArchiveRequest closes the current period into the timeline.
type ArchiveRequest struct {
	Label string `json:"label" validate:"max=120"`
}

// ArchiveResult reports what an archive wrote.
type ArchiveResult struct {
	ClosedAt time.Time `json:"closed_at"`
	Label    string    `json:"label"`
	Rows     int       `json:"rows"`
}
