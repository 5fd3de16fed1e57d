package services

import (
	"context"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/ports"
	"log"
)

// RoadDistance is the answer to a road distance lookup.
type RoadDistance struct {
	DistanceKm    float64
	DurationHours float64
	// Estimated is set when the great-circle fallback answered.
	Estimated bool
}

// RoadDistances looks up driving distances, falling back to a great-circle
// estimate at road speed when no provider is configured or it fails.
type RoadDistances struct {
	Provider ports.RoadDistanceProvider
}

func estimateRoad(from, to domain.Coordinates) RoadDistance {
	km := domain.HaversineKm(from, to)
	return RoadDistance{DistanceKm: round2(km), DurationHours: round2(km / roadSpeedKmph), Estimated: true}
}

func fromResult(r ports.DistanceResult) RoadDistance {
	return RoadDistance{
		DistanceKm:    round2(float64(r.DistanceMeters) / 1000),
		DurationHours: round2(float64(r.DurationSeconds) / 3600),
	}
}

// Lookup returns the road distance between two points. Only ctx errors are returned.
func (r RoadDistances) Lookup(ctx context.Context, from, to domain.Coordinates) (RoadDistance, error) {
	if r.Provider == nil {
		return estimateRoad(from, to), nil
	}
	res, err := r.Provider.GetRoadDistance(ctx, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return RoadDistance{}, ctx.Err()
		}
		log.Printf("road distance lookup failed, using estimate: from=%s to=%s err=%v", from.Key(), to.Key(), err)
		return estimateRoad(from, to), nil
	}
	return fromResult(res), nil
}

// FillEdgeRows sets distance and time on road rows that have coordinates but
// no explicit distance. Lookups are batched per origin when the provider
// supports it. The returned slice is a copy; rows is not modified.
func (r RoadDistances) FillEdgeRows(ctx context.Context, rows []EdgeRow) ([]EdgeRow, error) {
	out := append([]EdgeRow(nil), rows...)

	type pending struct {
		idx  int
		dest domain.Coordinates
	}
	byOrigin := make(map[string][]pending)
	origins := make(map[string]domain.Coordinates)
	var order []string

	for i, row := range out {
		mode, err := domain.ParseMode(row.Mode)
		if err != nil || mode != domain.ModeRoad || row.DistanceKm != nil || row.FromCoord == nil || row.ToCoord == nil {
			continue
		}
		k := row.FromCoord.Key()
		if _, ok := byOrigin[k]; !ok {
			order = append(order, k)
			origins[k] = *row.FromCoord
		}
		byOrigin[k] = append(byOrigin[k], pending{idx: i, dest: *row.ToCoord})
	}

	for _, k := range order {
		group := byOrigin[k]
		answers := make([]RoadDistance, len(group))

		matrix, batched := r.Provider.(ports.RoadDistanceMatrixProvider)
		if batched {
			dests := make([]domain.Coordinates, len(group))
			for i, p := range group {
				dests[i] = p.dest
			}
			results, err := matrix.GetRoadDistances(ctx, origins[k], dests)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Printf("road distance matrix failed for origin=%s, looking up pairs: %v", k, err)
				batched = false
			} else {
				for i, res := range results {
					answers[i] = fromResult(res)
				}
			}
		}
		if !batched {
			for i, p := range group {
				d, err := r.Lookup(ctx, origins[k], p.dest)
				if err != nil {
					return nil, err
				}
				answers[i] = d
			}
		}

		for i, p := range group {
			km, hours := answers[i].DistanceKm, answers[i].DurationHours
			out[p.idx].DistanceKm = &km
			if out[p.idx].TimeHours == nil && !answers[i].Estimated {
				out[p.idx].TimeHours = &hours
			}
		}
	}

	return out, nil
}
