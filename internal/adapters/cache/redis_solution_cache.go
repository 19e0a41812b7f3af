package cache

import (
	"context"
	"cvrp-route-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const solutionKeyPrefix = "cvrp:solution:"

// RedisSolutionCache stores finished runs in Redis under their request
// fingerprint so identical solve requests can be answered without re-running.
type RedisSolutionCache struct {
	rdb *redis.Client
}

func NewRedisSolutionCache(rdb *redis.Client) *RedisSolutionCache {
	return &RedisSolutionCache{rdb: rdb}
}

// NewRedisSolutionCacheFromURL parses a redis:// URL and connects lazily.
func NewRedisSolutionCacheFromURL(url string) (*RedisSolutionCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("solution cache: parse redis url: %w", err)
	}
	return &RedisSolutionCache{rdb: redis.NewClient(opt)}, nil
}

func (c *RedisSolutionCache) Get(ctx context.Context, key string) (*domain.Run, bool, error) {
	data, err := c.rdb.Get(ctx, solutionKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("solution cache get: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, false, fmt.Errorf("solution cache decode key=%q: %w", key, err)
	}
	return &run, true, nil
}

// Put stores run under key; ttl <= 0 keeps the entry until evicted.
func (c *RedisSolutionCache) Put(ctx context.Context, key string, run *domain.Run, ttl time.Duration) error {
	if run == nil {
		return errors.New("solution cache put: run is nil")
	}
	if ttl < 0 {
		ttl = 0
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("solution cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, solutionKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("solution cache set: %w", err)
	}
	return nil
}

func (c *RedisSolutionCache) Close() error {
	return c.rdb.Close()
}
