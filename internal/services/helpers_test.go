package services

import (
	"fleet-plan-service/internal/domain"
	"testing"
)

type edgeSpec struct {
	from, to string
	mode     domain.Mode
	km       float64
	hours    float64
	fuel     float64
}

func mustNetwork(t *testing.T, specs ...edgeSpec) *domain.Network {
	t.Helper()
	edges := make([]domain.Edge, 0, len(specs))
	for _, s := range specs {
		mode := s.mode
		if mode == "" {
			mode = domain.ModeRoad
		}
		edges = append(edges, domain.Edge{
			From:       domain.NewLocation(s.from, nil),
			To:         domain.NewLocation(s.to, nil),
			Mode:       mode,
			DistanceKm: s.km,
			TimeHours:  s.hours,
			FuelCost:   s.fuel,
		})
	}
	net, err := domain.NewNetwork(edges)
	if err != nil {
		t.Fatalf("build network: %v", err)
	}
	return net
}

func mustPool(t *testing.T, rows ...domain.VehicleRow) *domain.VehiclePool {
	t.Helper()
	pool, err := domain.NewVehiclePool(rows)
	if err != nil {
		t.Fatalf("build pool: %v", err)
	}
	return pool
}

func leg(from, to string, km float64) domain.Edge {
	return domain.Edge{
		From:       domain.NewLocation(from, nil),
		To:         domain.NewLocation(to, nil),
		Mode:       domain.ModeRoad,
		DistanceKm: km,
	}
}

func stops(r domain.Route) []string { return r.Stops() }

func vehicleIDs(a domain.VehicleAssignment) []string {
	out := make([]string, 0, len(a.Vehicles))
	for _, v := range a.Vehicles {
		out = append(out, v.Vehicle.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkLoads asserts the covering and per-vehicle capacity invariants.
func checkLoads(t *testing.T, a domain.VehicleAssignment, goods float64) {
	t.Helper()
	total := 0.0
	for _, lv := range a.Vehicles {
		if lv.LoadKg > lv.Vehicle.CapacityKg {
			t.Fatalf("%s load %.2f exceeds capacity %.2f", lv.Vehicle.ID, lv.LoadKg, lv.Vehicle.CapacityKg)
		}
		if !lv.Vehicle.Home.Is(a.Leg.From.Key) {
			t.Fatalf("%s based at %s used on leg from %s", lv.Vehicle.ID, lv.Vehicle.Home, a.Leg.From)
		}
		total += lv.LoadKg
	}
	if total < goods-1e-9 {
		t.Fatalf("total load %.2f below goods %.2f", total, goods)
	}
}
