package services

import (
	"context"
	"errors"
	"fleet-plan-service/internal/adapters/cache"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/platform/obs"
	"fleet-plan-service/internal/state"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
)

func loadedStore(t *testing.T) *state.Store {
	t.Helper()
	net, pool := composeFixture(t)
	s := state.NewStore()
	s.ReplaceNetwork(net, "US")
	s.ReplaceFleet(pool)
	return s
}

func TestPlannerRequiresLoadedState(t *testing.T) {
	p := &Planner{}
	ctx := context.Background()
	empty := state.NewStore().Current()

	if _, err := p.PlanRoute(ctx, empty, RouteQuery{Source: "A", Destination: "B"}); !errors.Is(err, domain.ErrNetworkNotLoaded) {
		t.Fatalf("PlanRoute err = %v, want ErrNetworkNotLoaded", err)
	}

	s := state.NewStore()
	net, _ := composeFixture(t)
	s.ReplaceNetwork(net, "US")
	if _, err := p.PlanShipment(ctx, s.Current(), ShipmentQuery{Route: RouteQuery{Source: "A", Destination: "B"}}); !errors.Is(err, domain.ErrFleetNotLoaded) {
		t.Fatalf("PlanShipment err = %v, want ErrFleetNotLoaded", err)
	}
	if _, err := p.AssignLegs(ctx, s.Current(), nil, 1, domain.ObjectiveCost); !errors.Is(err, domain.ErrFleetNotLoaded) {
		t.Fatalf("AssignLegs err = %v, want ErrFleetNotLoaded", err)
	}
}

func TestPlanShipmentDefaultsGoods(t *testing.T) {
	p := &Planner{}
	snap := loadedStore(t).Current()

	res, err := p.PlanShipment(context.Background(), snap, ShipmentQuery{
		Route: RouteQuery{Source: "A", Destination: "C", Objective: domain.ObjectiveDistance},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Plan.GoodsKg != DefaultGoodsKg {
		t.Fatalf("goods = %v, want %v", res.Plan.GoodsKg, DefaultGoodsKg)
	}
	if res.Plan.Objective != domain.ObjectiveCost {
		t.Fatalf("assignment objective = %s, want cost", res.Plan.Objective)
	}
	if res.Summary.TotalDistanceKm != 150 || len(res.Plan.Legs) != 2 {
		t.Fatalf("result = %+v", res.Summary)
	}
	for _, a := range res.Plan.Legs {
		checkLoads(t, a, DefaultGoodsKg)
	}
}

func TestPlanShipmentRejectsBadGoods(t *testing.T) {
	p := &Planner{}
	snap := loadedStore(t).Current()
	bad := -5.0

	_, err := p.PlanShipment(context.Background(), snap, ShipmentQuery{
		Route:   RouteQuery{Source: "A", Destination: "C", Objective: domain.ObjectiveCost},
		GoodsKg: &bad,
	})
	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidInputError", err)
	}
}

func TestPlanShipmentUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reg := prometheus.NewRegistry()
	metrics, err := obs.NewCollector(reg)
	if err != nil {
		t.Fatalf("collector: %v", err)
	}

	p := &Planner{Cache: cache.NewRedisPlanCache(rdb, "test:"), Metrics: metrics}
	store := loadedStore(t)
	q := ShipmentQuery{Route: RouteQuery{Source: "a", Destination: "C", Objective: domain.ObjectiveTime}}
	ctx := context.Background()

	first, err := p.PlanShipment(ctx, store.Current(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Fatalf("first answer marked cached")
	}

	second, err := p.PlanShipment(ctx, store.Current(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached {
		t.Fatalf("second answer not served from cache")
	}
	if second.Plan.FinalDeliveryTime != first.Plan.FinalDeliveryTime ||
		second.Plan.TotalVehicleCost != first.Plan.TotalVehicleCost ||
		!equalStrings(second.Plan.Stops, first.Plan.Stops) ||
		!equalStrings(vehicleIDs(second.Plan.Legs[0]), vehicleIDs(first.Plan.Legs[0])) {
		t.Fatalf("cached plan differs:\n%+v\n%+v", second.Plan, first.Plan)
	}

	if got := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("miss")); got != 1 {
		t.Fatalf("cache misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Fatalf("cache hits = %v, want 1", got)
	}

	// A new fleet version invalidates the entry.
	_, pool := composeFixture(t)
	store.ReplaceFleet(pool)
	third, err := p.PlanShipment(ctx, store.Current(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.Cached {
		t.Fatalf("stale entry served after fleet replacement")
	}
}

func TestAssignLegsContinuesPastFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := obs.NewCollector(reg)
	if err != nil {
		t.Fatalf("collector: %v", err)
	}
	p := &Planner{Metrics: metrics}
	snap := loadedStore(t).Current()

	legs := []domain.Edge{leg("A", "B", 100), leg("C", "D", 20), leg("B", "C", 50)}
	out, err := p.AssignLegs(context.Background(), snap, legs, 500, domain.ObjectiveCost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(out))
	}

	if out[0].Assignment == nil || out[0].Err != nil {
		t.Fatalf("leg 0 = %+v, want assignment", out[0])
	}
	var none *domain.NoVehiclesAvailableError
	if out[1].Assignment != nil || !errors.As(out[1].Err, &none) {
		t.Fatalf("leg 1 = %+v, want NoVehiclesAvailableError", out[1])
	}
	if out[2].Assignment == nil || out[2].Index != 2 {
		t.Fatalf("leg 2 = %+v, want assignment", out[2])
	}

	if got := testutil.ToFloat64(metrics.Optimizations.WithLabelValues("capacity", "no_vehicles")); got != 1 {
		t.Fatalf("no_vehicles count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Optimizations.WithLabelValues("capacity", "ok")); got != 2 {
		t.Fatalf("ok count = %v, want 2", got)
	}
}

func TestErrorClass(t *testing.T) {
	cases := map[string]error{
		"ok":                    nil,
		"unknown_location":      &domain.UnknownLocationError{Name: "x"},
		"no_route":              &domain.LegError{Err: &domain.NoRouteFoundError{From: "a", To: "b"}},
		"insufficient_capacity": &domain.InsufficientCapacityError{RequiredKg: 2, AvailableKg: 1},
		"invalid_input":         &domain.TooManyWaypointsError{Count: 9, Max: 6},
		"canceled":              context.DeadlineExceeded,
		"error":                 errors.New("boom"),
	}
	for want, err := range cases {
		if got := ErrorClass(err); got != want {
			t.Fatalf("ErrorClass(%v) = %s, want %s", err, got, want)
		}
	}
}
