package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("run not found")

// Port: a boundary for storing and retrieving optimization runs.
type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.Run) error
	// Return ErrRunNotFound when no run has the id.
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	// Most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]*domain.Run, error)
}

// Port: short-lived cache of finished runs keyed by instance and options fingerprint.
type SolutionCache interface {
	Get(ctx context.Context, key string) (*domain.Run, bool, error)
	Put(ctx context.Context, key string, run *domain.Run, ttl time.Duration) error
}
