package services

import (
	"context"
	"fleet-plan-service/internal/domain"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ComposeOptions tunes ComposePlan.
type ComposeOptions struct {
	Capacity CapacityOptimizer
	// Parallelism bounds how many legs are assigned at once. Values below 2
	// assign legs one after another.
	Parallelism int

	// assign replaces Capacity.Assign in tests.
	assign func(context.Context, *domain.VehiclePool, domain.Edge, float64, domain.Objective) (domain.VehicleAssignment, error)
}

// ComposePlan assigns vehicles to every leg of a route.
//
// Legs draw only on vehicles based at their own origin, so they are solved
// independently. If any leg fails, the error of the first failing leg in route
// order is returned as a *domain.LegError and no plan is produced. A failure
// cancels the legs after it and skips those not yet started; earlier legs run
// on, since one of them may be the first to fail.
func ComposePlan(
	ctx context.Context,
	route domain.Route,
	pool *domain.VehiclePool,
	goodsKg float64,
	objective domain.Objective,
	opt ComposeOptions,
) (domain.TransportPlan, error) {
	if objective != domain.ObjectiveCost && objective != domain.ObjectiveTime {
		return domain.TransportPlan{}, &domain.InvalidObjectiveError{
			Token:   string(objective),
			Allowed: []domain.Objective{domain.ObjectiveCost, domain.ObjectiveTime},
		}
	}
	if err := checkGoods(goodsKg); err != nil {
		return domain.TransportPlan{}, err
	}

	plan := domain.TransportPlan{
		Legs:      make([]domain.VehicleAssignment, len(route.Edges)),
		GoodsKg:   goodsKg,
		Objective: objective,
		Stops:     route.Stops(),
	}
	if len(route.Edges) == 0 {
		return plan, nil
	}

	assign := opt.assign
	if assign == nil {
		assign = opt.Capacity.Assign
	}

	errs := make([]error, len(route.Edges))
	cancels := make([]context.CancelFunc, len(route.Edges))
	defer func() {
		for _, cancel := range cancels {
			if cancel != nil {
				cancel()
			}
		}
	}()

	var (
		mu        sync.Mutex
		firstFail = len(route.Edges)
	)
	// fail records a failed leg and cancels every leg after it.
	fail := func(i int) {
		mu.Lock()
		defer mu.Unlock()
		if i >= firstFail {
			return
		}
		firstFail = i
		for _, cancel := range cancels[i+1:] {
			if cancel != nil {
				cancel()
			}
		}
	}

	var g errgroup.Group
	limit := opt.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, leg := range route.Edges {
		mu.Lock()
		skip := firstFail < i
		var legCtx context.Context
		if !skip {
			legCtx, cancels[i] = context.WithCancel(ctx)
		}
		mu.Unlock()
		if skip {
			break
		}

		g.Go(func() error {
			// Cancelled while queued behind the limit.
			if legCtx.Err() != nil {
				return nil
			}
			a, err := assign(legCtx, pool, leg, goodsKg, objective)
			if err != nil {
				errs[i] = err
				fail(i)
				return err
			}
			plan.Legs[i] = a
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.TransportPlan{}, fmt.Errorf("compose plan: %w", err)
	}
	// Legs only see cancellation after an earlier leg failed, so the lowest
	// recorded error is a real one.
	for i, err := range errs {
		if err != nil {
			leg := route.Edges[i]
			return domain.TransportPlan{}, &domain.LegError{Index: i, From: leg.From.Name, To: leg.To.Name, Err: err}
		}
	}

	for _, a := range plan.Legs {
		plan.TotalDistanceKm += a.Leg.DistanceKm
		plan.TotalTimeHours += a.Leg.TimeHours
		plan.TotalFuelCost += a.Leg.FuelCost
		plan.TotalVehicleCost += a.TotalCost()
	}
	plan.FinalDeliveryTime = plan.Legs[len(plan.Legs)-1].LastArrival

	return plan, nil
}
