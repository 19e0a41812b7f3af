package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolutionCache(t *testing.T) (*RedisSolutionCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisSolutionCache(rdb), mr
}

func TestRedisSolutionCacheRoundTrip(t *testing.T) {
	c, _ := newTestSolutionCache(t)
	ctx := context.Background()

	run := &domain.Run{
		ID:            "run-1",
		Fingerprint:   "abc",
		Customers:     4,
		BestCost:      288.48,
		BestIteration: 3,
		Routes: []domain.RunRoute{
			{VehicleID: 1, Stops: []int{0, 2, 1, 0}, Load: 10, Cost: 144.24},
		},
	}
	require.NoError(t, c.Put(ctx, "abc", run, time.Minute))

	got, ok, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.BestIteration, got.BestIteration)
	assert.Equal(t, run.Routes, got.Routes)
}

func TestRedisSolutionCacheMiss(t *testing.T) {
	c, _ := newTestSolutionCache(t)

	got, ok, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisSolutionCacheExpires(t *testing.T) {
	c, mr := newTestSolutionCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", &domain.Run{ID: "r"}, 10*time.Second))
	mr.FastForward(11 * time.Second)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSolutionCacheRejectsNilRun(t *testing.T) {
	c, _ := newTestSolutionCache(t)
	assert.Error(t, c.Put(context.Background(), "k", nil, time.Minute))
}
