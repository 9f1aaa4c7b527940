package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clima-laboral-api/internal/models"
)

// TimelineRepository appends and lists archived period closes
// (historico_timeline). Rows are never updated or deleted.
type TimelineRepository struct {
	db       *sqlx.DB
	pageSize int
}

// NewTimelineRepository constructs the repository.
func NewTimelineRepository(db *sqlx.DB, pageSize int) *TimelineRepository {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &TimelineRepository{db: db, pageSize: pageSize}
}

// List returns all archived rows ordered by close time. Rows without a
// close time come last with a nil ClosedAt.
func (r *TimelineRepository) List(ctx context.Context) ([]models.TimelineSnapshot, error) {
	const query = `SELECT id, fecha_cierre, COALESCE(area, '') AS area, COALESCE(score, 0) AS score, COALESCE(count, 0) AS count, etiqueta FROM historico_timeline ORDER BY fecha_cierre ASC, id ASC`
	rows, err := selectAllPages[models.TimelineSnapshot](ctx, r.db, query, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	return rows, nil
}

// InsertBatch stores one archive event atomically.
func (r *TimelineRepository) InsertBatch(ctx context.Context, snapshots []models.TimelineSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	const query = `INSERT INTO historico_timeline (fecha_cierre, area, score, count, etiqueta)
VALUES (:fecha_cierre, :area, :score, :count, :etiqueta)`
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, snapshots); err != nil {
			return fmt.Errorf("insert timeline: %w", err)
		}
		return nil
	})
}
