package ports

import (
	"context"
	"cvrp-route-service/internal/domain"
)

// Contract for building the distance matrix of a customer list.
// The returned matrix must be indexed by customer id and satisfy
// domain.NewDistanceMatrix's preconditions.
type DistanceMatrixProvider interface {
	Matrix(ctx context.Context, customers []domain.Customer) (domain.DistanceMatrix, error)
}

// Persistent cache for whole distance matrices keyed by a caller-chosen fingerprint.
type MatrixCache interface {
	// Return the cached matrix and whether it was found.
	Get(ctx context.Context, key string) (domain.DistanceMatrix, bool, error)
	Put(ctx context.Context, key string, m domain.DistanceMatrix) error
}
