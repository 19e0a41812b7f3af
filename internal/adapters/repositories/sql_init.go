package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Initialize the Postgres schema for runs and the matrix cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		best_cost DOUBLE PRECISION NOT NULL,
		payload JSONB NOT NULL
	);
	`

	createMatrixCacheQuery := `
	CREATE TABLE IF NOT EXISTS matrix_cache (
		cache_key TEXT PRIMARY KEY,
		size INTEGER NOT NULL,
		distances JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_runs_created_at
	ON runs(created_at DESC);
	`

	statements := []string{
		createRunsQuery,
		createMatrixCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Delete runs created before now-age. Returns the number of rows removed.
func PruneRuns(ctx context.Context, db *sql.DB, age time.Duration) (int64, error) {
	if db == nil {
		return 0, errors.New("prune runs: DB is nil")
	}
	if age <= 0 {
		return 0, fmt.Errorf("prune runs: age must be positive, got %s", age)
	}

	res, err := db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < $1;`, time.Now().Add(-age))
	if err != nil {
		return 0, fmt.Errorf("prune runs: delete: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: rows affected: %w", err)
	}
	return n, nil
}
