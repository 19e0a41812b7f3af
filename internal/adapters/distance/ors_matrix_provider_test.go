package distance

import (
	"context"
	"cvrp-route-service/internal/domain"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memMatrixCache struct {
	mu   sync.Mutex
	data map[string]domain.DistanceMatrix
}

func (c *memMatrixCache) Get(_ context.Context, key string) (domain.DistanceMatrix, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.data[key]
	return m, ok, nil
}

func (c *memMatrixCache) Put(_ context.Context, key string, m domain.DistanceMatrix) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = map[string]domain.DistanceMatrix{}
	}
	c.data[key] = m
	return nil
}

func threeStops() []domain.Customer {
	return []domain.Customer{
		{ID: 0, Position: domain.Coordinates{X: -112.1, Y: 33.4}},
		{ID: 1, Position: domain.Coordinates{X: -112.0, Y: 33.5}, Demand: 1},
		{ID: 2, Position: domain.Coordinates{X: -111.9, Y: 33.6}, Demand: 1},
	}
}

func newTestProvider(t *testing.T, url string, cache *memMatrixCache) *ORSMatrixProvider {
	t.Helper()
	var p *ORSMatrixProvider
	var err error
	if cache != nil {
		p, err = NewORSMatrixProvider("key", url, cache)
	} else {
		p, err = NewORSMatrixProvider("key", url, nil)
	}
	require.NoError(t, err)
	p.backoff = time.Millisecond
	return p
}

func TestORSMatrixProviderSymmetrizes(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v2/matrix/driving-car", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("Authorization"))

		var req matrixRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Locations, 3)
		assert.Equal(t, []string{"distance"}, req.Metrics)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"distances": [][]float64{
				{0, 100, 300},
				{120, 0, 200},
				{310, 180, 5},
			},
		})
	}))
	defer srv.Close()

	cache := &memMatrixCache{}
	p := newTestProvider(t, srv.URL, cache)

	m, err := p.Matrix(context.Background(), threeStops())
	require.NoError(t, err)

	assert.Equal(t, 110.0, m[0][1])
	assert.Equal(t, 110.0, m[1][0])
	assert.Equal(t, 305.0, m[0][2])
	assert.Equal(t, 190.0, m[2][1])
	assert.Zero(t, m[2][2])

	// Second call is served from the cache.
	_, err = p.Matrix(context.Background(), threeStops())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestORSMatrixProviderRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"distances": [][]float64{{0, 1, 2}, {1, 0, 3}, {2, 3, 0}},
		})
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	m, err := p.Matrix(context.Background(), threeStops())
	require.NoError(t, err)
	assert.Equal(t, 3.0, m[1][2])
	assert.Equal(t, int32(3), calls.Load())
}

func TestORSMatrixProviderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad locations", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	_, err := p.Matrix(context.Background(), threeStops())
	require.Error(t, err)

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestORSMatrixProviderRejectsUnroutablePairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"distances": [[0, 1, null], [1, 0, 2], [4, 2, 0]]}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL, nil)

	_, err := p.Matrix(context.Background(), threeStops())
	assert.ErrorContains(t, err, "no route")
}

func TestNewORSMatrixProviderRequiresKey(t *testing.T) {
	_, err := NewORSMatrixProvider("  ", "", nil)
	assert.Error(t, err)
}
