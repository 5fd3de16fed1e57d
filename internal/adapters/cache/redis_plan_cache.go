package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPlanCache stores encoded planning results under a key prefix.
type RedisPlanCache struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisPlanCache(rdb redis.UniversalClient, prefix string) *RedisPlanCache {
	if prefix == "" {
		prefix = "fleetplan:"
	}
	return &RedisPlanCache{rdb: rdb, prefix: prefix}
}

// NewRedisPlanCacheFromURL connects using a redis:// URL.
func NewRedisPlanCacheFromURL(ctx context.Context, url, prefix string) (*RedisPlanCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis plan cache: parse url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis plan cache: ping: %w", err)
	}
	return NewRedisPlanCache(rdb, prefix), nil
}

func (c *RedisPlanCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis plan cache get: %w", err)
	}
	return b, true, nil
}

func (c *RedisPlanCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis plan cache set: %w", err)
	}
	return nil
}

func (c *RedisPlanCache) Close() error { return c.rdb.Close() }
