package ports

import (
	"context"
	"fleet-plan-service/internal/domain"
)

// Road distance and travel duration between two points.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving road distance between coordinates.
type RoadDistanceProvider interface {
	// Return road distance and estimated driving duration.
	GetRoadDistance(ctx context.Context, from, to domain.Coordinates) (DistanceResult, error)
}

// Optional extension of RoadDistanceProvider that supports batched lookups.
type RoadDistanceMatrixProvider interface {
	RoadDistanceProvider
	// Return distances from one origin to many destinations, index-aligned with destinations.
	GetRoadDistances(ctx context.Context, origin domain.Coordinates, destinations []domain.Coordinates) ([]DistanceResult, error)
}
