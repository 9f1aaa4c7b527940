package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

const (
	referenceIDPrefix     = "temp_"
	defaultReferenceLabel = "Bimestre Anterior"
	timelineDisplayLayout = "2006-01-02 15:04"
)

var spanishMonths = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// ArchivedRows reshapes stored timeline snapshots into reconciler rows.
func ArchivedRows(snapshots []models.TimelineSnapshot) []models.TimelineRow {
	rows := make([]models.TimelineRow, 0, len(snapshots))
	for _, s := range snapshots {
		row := models.TimelineRow{
			ID:    strconv.FormatInt(s.ID, 10),
			Area:  models.Area(s.Area),
			Score: s.Score,
			Count: s.Count,
		}
		if s.ClosedAt != nil {
			ts := *s.ClosedAt
			row.Timestamp = &ts
		}
		if s.Label != nil {
			row.Label = strings.TrimSpace(*s.Label)
		}
		rows = append(rows, row)
	}
	return rows
}

// ReferenceRowsFromHistory turns the previous-period table into reference
// rows stamped with each snapshot's last update.
func ReferenceRowsFromHistory(matcher *AreaMatcher, history []models.HistoricalSnapshot) []models.TimelineRow {
	rows := make([]models.TimelineRow, 0, len(history))
	for _, h := range history {
		rows = append(rows, models.TimelineRow{
			ID:        referenceIDPrefix + strconv.FormatInt(h.ID, 10),
			Timestamp: h.UpdatedAt,
			Area:      matcher.Match(h.Area),
			Score:     h.Score,
			Count:     h.Count,
			Label:     referenceLabel(h),
			Reference: true,
		})
	}
	return rows
}

func referenceLabel(h models.HistoricalSnapshot) string {
	if h.PeriodLabel != nil {
		if label := strings.TrimSpace(*h.PeriodLabel); label != "" {
			return label
		}
	}
	if h.UpdatedAt != nil && !h.UpdatedAt.IsZero() {
		t := h.UpdatedAt.UTC()
		return fmt.Sprintf("%s %d", spanishMonths[t.Month()-1], t.Year())
	}
	return defaultReferenceLabel
}

type timelineGroup struct {
	timestamp time.Time
	label     string
	sum       float64
	rows      int
	reference bool
}

// ReconcileTimeline merges archived and reference rows into one point per
// minute, sorted by time. Rows without a timestamp are dropped.
func ReconcileTimeline(archived, reference []models.TimelineRow) []models.TimelinePoint {
	groups := make(map[time.Time]*timelineGroup)
	order := make([]time.Time, 0)

	add := func(row models.TimelineRow) {
		if row.Timestamp == nil || row.Timestamp.IsZero() {
			return
		}
		ts := row.Timestamp.UTC()
		key := ts.Truncate(time.Minute)
		g, ok := groups[key]
		if !ok {
			g = &timelineGroup{timestamp: ts, label: row.Label}
			groups[key] = g
			order = append(order, key)
		}
		g.sum += row.Score
		g.rows++
		if row.Reference || strings.HasPrefix(row.ID, referenceIDPrefix) {
			g.reference = true
		}
	}
	for _, row := range archived {
		add(row)
	}
	for _, row := range reference {
		add(row)
	}

	points := make([]models.TimelinePoint, 0, len(order))
	for _, key := range order {
		g := groups[key]
		display := g.label
		if display == "" {
			display = g.timestamp.Format(timelineDisplayLayout)
		}
		points = append(points, models.TimelinePoint{
			Timestamp:    g.timestamp,
			Label:        g.label,
			DisplayLabel: display,
			MeanScore:    g.sum / float64(g.rows),
			Rows:         g.rows,
			IsReference:  g.reference,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points
}
