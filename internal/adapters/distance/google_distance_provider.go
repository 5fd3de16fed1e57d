package distance

import (
	"context"
	"errors"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/platform/obs"
	"fleet-plan-service/internal/ports"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Distance Matrix accepts at most 25 destinations per origin row.
const maxDestinationsPerRequest = 25

// GoogleDistanceProvider implements RoadDistanceMatrixProvider using the
// Google Distance Matrix API, with an optional persistent distance cache.
//
// The provider is safe for concurrent use.
type GoogleDistanceProvider struct {
	session        *http.Client
	apiKey         string
	baseURL        string
	cache          ports.DistanceCache
	maxAttempts    int
	initialBackoff time.Duration
}

type GoogleOption func(*GoogleDistanceProvider)

// WithBaseURL points the provider at another endpoint, e.g. a test server.
func WithBaseURL(u string) GoogleOption {
	return func(g *GoogleDistanceProvider) { g.baseURL = u }
}

func WithHTTPClient(c *http.Client) GoogleOption {
	return func(g *GoogleDistanceProvider) { g.session = c }
}

func WithRetry(attempts int, backoff time.Duration) GoogleOption {
	return func(g *GoogleDistanceProvider) {
		g.maxAttempts = attempts
		g.initialBackoff = backoff
	}
}

func NewGoogleDistanceProvider(apiKey string, cache ports.DistanceCache, opts ...GoogleOption) (*GoogleDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	g := &GoogleDistanceProvider{
		session:        &http.Client{Timeout: 10 * time.Second},
		apiKey:         apiKey,
		baseURL:        "https://maps.googleapis.com/maps/api/distancematrix/json",
		cache:          cache,
		maxAttempts:    4,
		initialBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.maxAttempts < 1 {
		g.maxAttempts = 1
	}

	return g, nil
}

func (g *GoogleDistanceProvider) GetRoadDistance(ctx context.Context, from, to domain.Coordinates) (ports.DistanceResult, error) {
	results, err := g.GetRoadDistances(ctx, from, []domain.Coordinates{to})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("get road distance %s -> %s: %w", from.Key(), to.Key(), err)
	}
	return results[0], nil
}

// GetRoadDistances serves cached pairs first and fetches the rest in chunks.
func (g *GoogleDistanceProvider) GetRoadDistances(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (_ []ports.DistanceResult, err error) {
	defer obs.Time(ctx, "google.GetRoadDistances")(&err)

	if len(destinations) == 0 {
		return []ports.DistanceResult{}, nil
	}

	originKey := origin.Key()

	// Unique destination keys in first-seen order.
	byKey := make(map[string]domain.Coordinates, len(destinations))
	keys := make([]string, 0, len(destinations))
	for _, d := range destinations {
		k := d.Key()
		if _, ok := byKey[k]; ok {
			continue
		}
		byKey[k] = d
		keys = append(keys, k)
	}

	found := make(map[string]ports.DistanceResult, len(keys))
	found[originKey] = ports.DistanceResult{}

	if g.cache != nil {
		hits, err := g.cache.GetMany(ctx, originKey, keys)
		if err != nil {
			return nil, fmt.Errorf("google get distance cache: %w", err)
		}
		for k, v := range hits {
			found[k] = v
		}
	}

	misses := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := found[k]; !ok {
			misses = append(misses, k)
		}
	}

	fetched := make(map[string]ports.DistanceResult, len(misses))
	for start := 0; start < len(misses); start += maxDestinationsPerRequest {
		end := min(start+maxDestinationsPerRequest, len(misses))

		chunk := misses[start:end]
		coords := make([]domain.Coordinates, 0, len(chunk))
		for _, k := range chunk {
			coords = append(coords, byKey[k])
		}

		row, err := g.fetchMatrixRow(ctx, origin, coords)
		if err != nil {
			return nil, fmt.Errorf("fetching matrix row: %w", err)
		}
		for i, k := range chunk {
			fetched[k] = row[i]
			found[k] = row[i]
		}
	}

	if g.cache != nil && len(fetched) > 0 {
		if err := g.cache.PutMany(ctx, originKey, fetched); err != nil {
			log.Printf("distance cache write failed: %v", err)
		}
	}

	out := make([]ports.DistanceResult, len(destinations))
	for i, d := range destinations {
		out[i] = found[d.Key()]
	}
	return out, nil
}
