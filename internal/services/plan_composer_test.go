package services

import (
	"context"
	"errors"
	"fleet-plan-service/internal/domain"
	"math"
	"sync"
	"testing"
	"time"
)

func composeFixture(t *testing.T) (*domain.Network, *domain.VehiclePool) {
	t.Helper()
	net := mustNetwork(t,
		edgeSpec{from: "A", to: "B", km: 100, hours: 2, fuel: 10},
		edgeSpec{from: "B", to: "C", km: 50, hours: 1, fuel: 5},
		edgeSpec{from: "C", to: "D", km: 20, hours: 0.5, fuel: 2},
	)
	pool := mustPool(t,
		domain.VehicleRow{Home: "A", Type: "truck", CapacityKg: 1000, Departure: "08:00"},
		domain.VehicleRow{Home: "B", Type: "van", CapacityKg: 1000, Departure: "10:00"},
	)
	return net, pool
}

func TestComposePlanChainsLegs(t *testing.T) {
	net, pool := composeFixture(t)
	ctx := context.Background()

	route, err := OptimizeRoute(ctx, net, RouteQuery{Source: "A", Destination: "C", Objective: domain.ObjectiveCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, parallelism := range []int{1, 4} {
		plan, err := ComposePlan(ctx, route, pool, 800, domain.ObjectiveCost, ComposeOptions{Parallelism: parallelism})
		if err != nil {
			t.Fatalf("parallelism %d: unexpected error: %v", parallelism, err)
		}

		if len(plan.Legs) != 2 {
			t.Fatalf("legs = %d, want 2", len(plan.Legs))
		}
		for i, a := range plan.Legs {
			if a.Leg.From.Key != route.Edges[i].From.Key {
				t.Fatalf("leg %d out of route order", i)
			}
			checkLoads(t, a, 800)
		}

		if plan.TotalDistanceKm != 150 || plan.TotalTimeHours != 3 || plan.TotalFuelCost != 15 {
			t.Fatalf("totals = %v km %v h %v fuel", plan.TotalDistanceKm, plan.TotalTimeHours, plan.TotalFuelCost)
		}
		if math.Abs(plan.TotalVehicleCost-70) > 1e-9 {
			t.Fatalf("vehicle cost = %v, want 70", plan.TotalVehicleCost)
		}
		if got := plan.FinalDeliveryTime.String(); got != "10:33" {
			t.Fatalf("final delivery = %s, want 10:33", got)
		}
		if !equalStrings(plan.Stops, []string{"A", "B", "C"}) {
			t.Fatalf("stops = %v", plan.Stops)
		}
	}
}

func TestComposePlanReportsFirstFailingLeg(t *testing.T) {
	net, _ := composeFixture(t)
	pool := mustPool(t, domain.VehicleRow{Home: "A", Type: "truck", CapacityKg: 1000})
	ctx := context.Background()

	route, err := OptimizeRoute(ctx, net, RouteQuery{Source: "A", Destination: "D", Objective: domain.ObjectiveCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, parallelism := range []int{1, 3} {
		_, err := ComposePlan(ctx, route, pool, 500, domain.ObjectiveTime, ComposeOptions{Parallelism: parallelism})

		var legErr *domain.LegError
		if !errors.As(err, &legErr) {
			t.Fatalf("err = %v, want LegError", err)
		}
		if legErr.Index != 1 || legErr.From != "B" || legErr.To != "C" {
			t.Fatalf("leg error = %+v, want index 1 B -> C", legErr)
		}

		var none *domain.NoVehiclesAvailableError
		if !errors.As(err, &none) {
			t.Fatalf("err = %v, want wrapped NoVehiclesAvailableError", err)
		}
	}
}

func TestComposePlanStopsAfterFailedLeg(t *testing.T) {
	net, pool := composeFixture(t)
	ctx := context.Background()

	route, err := OptimizeRoute(ctx, net, RouteQuery{Source: "A", Destination: "D", Objective: domain.ObjectiveCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var calls []string
	opt := ComposeOptions{
		Parallelism: 1,
		assign: func(ctx context.Context, pool *domain.VehiclePool, leg domain.Edge, goods float64, objective domain.Objective) (domain.VehicleAssignment, error) {
			calls = append(calls, leg.From.Name)
			if leg.From.Key == "b" {
				return domain.VehicleAssignment{}, &domain.NoVehiclesAvailableError{Location: leg.From.Name}
			}
			return domain.VehicleAssignment{Leg: leg}, nil
		},
	}

	_, err = ComposePlan(ctx, route, pool, 500, domain.ObjectiveCost, opt)
	var legErr *domain.LegError
	if !errors.As(err, &legErr) || legErr.Index != 1 {
		t.Fatalf("err = %v, want LegError at index 1", err)
	}
	if !equalStrings(calls, []string{"A", "B"}) {
		t.Fatalf("assigned legs from %v, want C -> D skipped", calls)
	}
}

// A later leg failing first must not cancel earlier legs or mask their result.
func TestComposePlanLaterFailureKeepsEarlierLegs(t *testing.T) {
	net, pool := composeFixture(t)
	ctx := context.Background()

	route, err := OptimizeRoute(ctx, net, RouteQuery{Source: "A", Destination: "D", Objective: domain.ObjectiveCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var (
		mu        sync.Mutex
		cancelled []string
	)
	failLast := errors.New("no route out of C")
	opt := ComposeOptions{
		Parallelism: 3,
		assign: func(ctx context.Context, pool *domain.VehiclePool, leg domain.Edge, goods float64, objective domain.Objective) (domain.VehicleAssignment, error) {
			if leg.From.Key == "c" {
				return domain.VehicleAssignment{}, failLast
			}
			select {
			case <-ctx.Done():
				mu.Lock()
				cancelled = append(cancelled, leg.From.Name)
				mu.Unlock()
				return domain.VehicleAssignment{}, ctx.Err()
			case <-time.After(20 * time.Millisecond):
				return domain.VehicleAssignment{Leg: leg}, nil
			}
		},
	}

	_, err = ComposePlan(ctx, route, pool, 500, domain.ObjectiveCost, opt)
	var legErr *domain.LegError
	if !errors.As(err, &legErr) || legErr.Index != 2 {
		t.Fatalf("err = %v, want LegError at index 2", err)
	}
	if !errors.Is(err, failLast) || errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want the C -> D failure", err)
	}
	if len(cancelled) != 0 {
		t.Fatalf("earlier legs cancelled: %v", cancelled)
	}
}

func TestComposePlanEmptyRoute(t *testing.T) {
	net, pool := composeFixture(t)
	ctx := context.Background()

	route, err := OptimizeRoute(ctx, net, RouteQuery{Source: "B", Destination: "B", Objective: domain.ObjectiveCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan, err := ComposePlan(ctx, route, pool, 500, domain.ObjectiveCost, ComposeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Legs) != 0 || plan.TotalDistanceKm != 0 || plan.TotalVehicleCost != 0 {
		t.Fatalf("plan = %+v, want empty", plan)
	}
	if plan.FinalDeliveryTime.IsSet() {
		t.Fatalf("final delivery = %s, want unset", plan.FinalDeliveryTime)
	}
}

func TestComposePlanZeroGoods(t *testing.T) {
	net, _ := composeFixture(t)
	ctx := context.Background()

	route, err := OptimizeRoute(ctx, net, RouteQuery{Source: "A", Destination: "D", Objective: domain.ObjectiveCost})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan, err := ComposePlan(ctx, route, nil, 0, domain.ObjectiveCost, ComposeOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Legs) != 3 || plan.FinalDeliveryTime.IsSet() {
		t.Fatalf("plan = %+v, want three empty legs and no delivery time", plan)
	}
	for _, a := range plan.Legs {
		if len(a.Vehicles) != 0 {
			t.Fatalf("leg %s has vehicles for zero goods", a.Leg)
		}
	}
}
