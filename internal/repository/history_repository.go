package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/clima-laboral-api/internal/models"
	"github.com/noah-isme/clima-laboral-api/pkg/database"
)

// HistoryRepository reads and upserts the previous-period snapshot per area
// (historico_bimestral).
type HistoryRepository struct {
	db       *sqlx.DB
	pageSize int
}

// NewHistoryRepository constructs the repository.
func NewHistoryRepository(db *sqlx.DB, pageSize int) *HistoryRepository {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &HistoryRepository{db: db, pageSize: pageSize}
}

// List returns every stored snapshot. Deployments created before the
// periodo_label column existed are read without it.
func (r *HistoryRepository) List(ctx context.Context) ([]models.HistoricalSnapshot, error) {
	const query = `SELECT id, COALESCE(area, '') AS area, COALESCE(score_anterior, 0) AS score_anterior, COALESCE(count_anterior, 0) AS count_anterior, periodo_label, updated_at FROM historico_bimestral ORDER BY area ASC, id ASC`
	rows, err := selectAllPages[models.HistoricalSnapshot](ctx, r.db, query, r.pageSize)
	if err == nil {
		return rows, nil
	}
	if !database.IsUndefinedColumn(err) {
		return nil, fmt.Errorf("list history: %w", err)
	}

	const legacy = `SELECT id, COALESCE(area, '') AS area, COALESCE(score_anterior, 0) AS score_anterior, COALESCE(count_anterior, 0) AS count_anterior, NULL AS periodo_label, updated_at FROM historico_bimestral ORDER BY area ASC, id ASC`
	rows, err = selectAllPages[models.HistoricalSnapshot](ctx, r.db, legacy, r.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return rows, nil
}

// Upsert writes all snapshots keyed by area in one transaction. When the
// periodo_label column is missing the batch is retried without it.
func (r *HistoryRepository) Upsert(ctx context.Context, snapshots []models.HistoricalSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range snapshots {
		if snapshots[i].UpdatedAt == nil {
			snapshots[i].UpdatedAt = &now
		}
	}

	const withLabel = `INSERT INTO historico_bimestral (area, score_anterior, count_anterior, periodo_label, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (area) DO UPDATE SET score_anterior = EXCLUDED.score_anterior, count_anterior = EXCLUDED.count_anterior, periodo_label = EXCLUDED.periodo_label, updated_at = EXCLUDED.updated_at`
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, s := range snapshots {
			if _, err := tx.ExecContext(ctx, withLabel, s.Area, s.Score, s.Count, s.PeriodLabel, s.UpdatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if !database.IsUndefinedColumn(err) {
		return fmt.Errorf("upsert history: %w", err)
	}

	const withoutLabel = `INSERT INTO historico_bimestral (area, score_anterior, count_anterior, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (area) DO UPDATE SET score_anterior = EXCLUDED.score_anterior, count_anterior = EXCLUDED.count_anterior, updated_at = EXCLUDED.updated_at`
	err = withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, s := range snapshots {
			if _, err := tx.ExecContext(ctx, withoutLabel, s.Area, s.Score, s.Count, s.UpdatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert history: %w", err)
	}
	return nil
}
