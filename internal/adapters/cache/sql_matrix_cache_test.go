package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLMatrixCacheRequiresDB(t *testing.T) {
	c := NewSQLMatrixCache(nil)

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)

	m, err := domain.NewDistanceMatrix([][]float64{{0, 1}, {1, 0}})
	require.NoError(t, err)
	assert.Error(t, c.Put(context.Background(), "k", m))
}

func TestDecodeMatrix(t *testing.T) {
	m, err := decodeMatrix([]byte(`[[0,3],[3,0]]`), 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, m[0][1])

	_, err = decodeMatrix([]byte(`[[0,3],[3,0]]`), 3)
	assert.Error(t, err)

	_, err = decodeMatrix([]byte(`[[0,3],[4,0]]`), 2)
	assert.ErrorIs(t, err, domain.ErrAsymmetricMatrix)
}
