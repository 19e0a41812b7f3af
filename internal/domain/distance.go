package domain

import (
	"fmt"
	"math"
)

// symTol is the structural tolerance for symmetry and diagonal checks.
const symTol = 1e-9

// Square, symmetric, non-negative matrix of travel distances indexed by
// customer id. It is read-only once built.
type DistanceMatrix [][]float64

// NewDistanceMatrix validates rows and returns a private copy of them.
func NewDistanceMatrix(rows [][]float64) (DistanceMatrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: matrix is empty", ErrInvalidMatrix)
	}

	m := make(DistanceMatrix, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrInvalidMatrix, i, len(row), n)
		}
		m[i] = make([]float64, n)
		copy(m[i], row)
	}

	for i := 0; i < n; i++ {
		if math.Abs(m[i][i]) > symTol {
			return nil, fmt.Errorf("%w: entry [%d][%d]=%f", ErrNonZeroDiagonal, i, i, m[i][i])
		}
		for j := 0; j < n; j++ {
			v := m[i][j]
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: entry [%d][%d]=%f", ErrNegativeDistance, i, j, v)
			}
			if j > i && math.Abs(v-m[j][i]) > symTol {
				return nil, fmt.Errorf("%w: [%d][%d]=%f, [%d][%d]=%f", ErrAsymmetricMatrix, i, j, v, j, i, m[j][i])
			}
		}
	}

	return m, nil
}

func (m DistanceMatrix) Size() int { return len(m) }

// Distance between two customers.
func (m DistanceMatrix) Between(a, b Customer) float64 { return m[a.ID][b.ID] }
