package distance

import (
	"context"
	"cvrp-route-service/internal/domain"
	"fmt"
	"math"
)

// EuclideanMatrixProvider computes straight-line distances between customer
// positions. With Round set, every entry is rounded to the nearest integer.
type EuclideanMatrixProvider struct {
	Round bool
}

func NewEuclideanMatrixProvider(round bool) *EuclideanMatrixProvider {
	return &EuclideanMatrixProvider{Round: round}
}

func (p *EuclideanMatrixProvider) Matrix(ctx context.Context, customers []domain.Customer) (domain.DistanceMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(customers)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := customers[i].Position.DistanceTo(customers[j].Position)
			if p.Round {
				d = math.Round(d)
			}
			rows[i][j] = d
			rows[j][i] = d
		}
	}

	m, err := domain.NewDistanceMatrix(rows)
	if err != nil {
		return nil, fmt.Errorf("euclidean matrix: %w", err)
	}
	return m, nil
}
