package ports

import (
	"context"
	"time"
)

// Persistent cache of road distances keyed by coordinate keys (see domain.Coordinates.Key).
type DistanceCache interface {
	// Return cached results for one origin, keyed by destination. Misses are absent.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	// Store results for one origin, keyed by destination.
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}

// Short-lived cache of encoded planning results.
type PlanCache interface {
	// Return the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
