package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DefaultPageSize bounds every select-all listing.
const DefaultPageSize = 1000

// selectAllPages runs query with LIMIT/OFFSET appended until a page comes
// back short. query must carry a deterministic ORDER BY.
func selectAllPages[T any](ctx context.Context, q sqlx.QueryerContext, query string, pageSize int, args ...interface{}) ([]T, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	paged := fmt.Sprintf("%s LIMIT $%d OFFSET $%d", query, len(args)+1, len(args)+2)

	all := make([]T, 0)
	for offset := 0; ; offset += pageSize {
		pageArgs := make([]interface{}, 0, len(args)+2)
		pageArgs = append(pageArgs, args...)
		pageArgs = append(pageArgs, pageSize, offset)

		var page []T
		if err := sqlx.SelectContext(ctx, q, &page, paged, pageArgs...); err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// withTx runs fn inside a transaction, rolling back on error.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
