package repositories

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"cvrp-route-service/internal/ports"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the RunRepository port. The full run is
// stored as JSONB next to the columns used for lookup and ordering.
type SQLRunRepository struct{ DB *sql.DB }

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

func (s *SQLRunRepository) SaveRun(ctx context.Context, run *domain.Run) (err error) {
	defer obs.Time(ctx, "runs.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("sql run repository: DB is nil")
	}
	if run == nil || run.ID == "" {
		return errors.New("save run: run id must not be empty")
	}

	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("save run: encode: %w", err)
	}

	query := `
	INSERT INTO runs (id, fingerprint, created_at, best_cost, payload)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET fingerprint = EXCLUDED.fingerprint,
		best_cost = EXCLUDED.best_cost,
		payload = EXCLUDED.payload;
	`
	if _, err := s.DB.ExecContext(ctx, query, run.ID, run.Fingerprint, run.CreatedAt, run.BestCost, payload); err != nil {
		return fmt.Errorf("save run id=%q: %w", run.ID, err)
	}

	return nil
}

func (s *SQLRunRepository) GetRun(ctx context.Context, id string) (_ *domain.Run, err error) {
	defer obs.Time(ctx, "runs.GetRun")(&err)

	if s.DB == nil {
		return nil, errors.New("sql run repository: DB is nil")
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = $1;`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run id=%q: %w", id, ports.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: query runs table: %w", err)
	}

	return decodeRun(payload)
}

func (s *SQLRunRepository) ListRuns(ctx context.Context, limit int) (_ []*domain.Run, err error) {
	defer obs.Time(ctx, "runs.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("sql run repository: DB is nil")
	}
	if limit <= 0 {
		return []*domain.Run{}, nil
	}

	query := `
	SELECT payload
	FROM runs
	ORDER BY created_at DESC, id
	LIMIT $1;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		run, err := decodeRun(payload)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}

func decodeRun(payload []byte) (*domain.Run, error) {
	var run domain.Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, fmt.Errorf("decode run: %w", err)
	}
	return &run, nil
}
