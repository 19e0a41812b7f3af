package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"cvrp-route-service/internal/platform/obs"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SQLMatrixCache is a Postgres-backed cache of whole distance matrices keyed
// by a fingerprint of the locations they were computed for.
type SQLMatrixCache struct {
	DB *sql.DB
}

func NewSQLMatrixCache(db *sql.DB) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db}
}

// Fetch the matrix stored under key. A miss is reported as ok=false.
func (s *SQLMatrixCache) Get(
	ctx context.Context,
	key string,
) (_ domain.DistanceMatrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	q := `
	SELECT size, distances
	FROM matrix_cache
	WHERE cache_key = $1;
	`

	var size int
	var raw []byte
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&size, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}

	m, err := decodeMatrix(raw, size)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache key=%q: %w", key, err)
	}

	return m, true, nil
}

// Store m under key, replacing any previous entry.
func (s *SQLMatrixCache) Put(
	ctx context.Context,
	key string,
	m domain.DistanceMatrix,
) (err error) {
	defer obs.Time(ctx, "matrix.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("insert matrix cache: encode matrix: %w", err)
	}

	q := `
	INSERT INTO matrix_cache (cache_key, size, distances)
	VALUES ($1, $2, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET size = EXCLUDED.size,
		distances = EXCLUDED.distances,
		created_at = now();
	`
	if _, err := s.DB.ExecContext(ctx, q, key, m.Size(), raw); err != nil {
		return fmt.Errorf("insert matrix cache key=%q: %w", key, err)
	}

	return nil
}

// decodeMatrix parses a stored matrix and re-validates it.
func decodeMatrix(raw []byte, size int) (domain.DistanceMatrix, error) {
	var rows [][]float64
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}
	if len(rows) != size {
		return nil, fmt.Errorf("decode matrix: stored size %d, got %d rows", size, len(rows))
	}
	return domain.NewDistanceMatrix(rows)
}
