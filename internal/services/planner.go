package services

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-plan-service/internal/domain"
	"fleet-plan-service/internal/platform/obs"
	"fleet-plan-service/internal/ports"
	"fleet-plan-service/internal/state"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// DefaultGoodsKg is the shipment weight used when a query names none.
const DefaultGoodsKg = 1000.0

// Planner answers routing and shipment queries against a state snapshot.
type Planner struct {
	Routes      RouteOptimizer
	Capacity    CapacityOptimizer
	Parallelism int
	Cache       ports.PlanCache
	CacheTTL    time.Duration
	Metrics     *obs.Collector
}

type RouteResult struct {
	Route   domain.Route
	Summary domain.RouteSummary
}

// ShipmentQuery is a routing query plus the weight to move along the route.
type ShipmentQuery struct {
	Route   RouteQuery
	GoodsKg *float64
}

type ShipmentResult struct {
	Route   domain.Route
	Summary domain.RouteSummary
	Plan    domain.TransportPlan
	Cached  bool `json:"-"`
}

// LegOutcome is the result of one leg in a batch assignment.
// Exactly one of Assignment and Err is set.
type LegOutcome struct {
	Index      int
	Leg        domain.Edge
	Assignment *domain.VehicleAssignment
	Err        error
}

// PlanRoute computes the optimal route and its summary.
func (p *Planner) PlanRoute(ctx context.Context, snap *state.Snapshot, q RouteQuery) (_ RouteResult, err error) {
	defer obs.Time(ctx, "planner.PlanRoute")(&err)

	if snap == nil || snap.Network == nil {
		return RouteResult{}, domain.ErrNetworkNotLoaded
	}

	route, err := p.route(ctx, snap.Network, q)
	if err != nil {
		return RouteResult{}, err
	}
	return RouteResult{Route: route, Summary: SummarizeRoute(route)}, nil
}

// PlanShipment routes the query and assigns vehicles to every leg.
func (p *Planner) PlanShipment(ctx context.Context, snap *state.Snapshot, q ShipmentQuery) (_ ShipmentResult, err error) {
	defer obs.Time(ctx, "planner.PlanShipment")(&err)

	if snap == nil || snap.Network == nil {
		return ShipmentResult{}, domain.ErrNetworkNotLoaded
	}
	if snap.Pool == nil {
		return ShipmentResult{}, domain.ErrFleetNotLoaded
	}

	goods := DefaultGoodsKg
	if q.GoodsKg != nil {
		goods = *q.GoodsKg
	}
	if err := checkGoods(goods); err != nil {
		return ShipmentResult{}, err
	}

	key := shipmentKey(snap, q.Route, goods)
	if res, ok := p.cached(ctx, key); ok {
		return res, nil
	}

	route, err := p.route(ctx, snap.Network, q.Route)
	if err != nil {
		return ShipmentResult{}, err
	}

	start := time.Now()
	plan, err := ComposePlan(ctx, route, snap.Pool, goods, q.Route.Objective.AssignmentObjective(), ComposeOptions{
		Capacity:    p.Capacity,
		Parallelism: p.Parallelism,
	})
	p.Metrics.ObserveSolve("plan", ErrorClass(err), time.Since(start))
	if err != nil {
		return ShipmentResult{}, fmt.Errorf("plan shipment: %w", err)
	}

	res := ShipmentResult{Route: route, Summary: SummarizeRoute(route), Plan: plan}
	p.store(ctx, key, res)
	return res, nil
}

// AssignLegs staffs each leg independently and reports every outcome; a
// failing leg does not stop the others.
func (p *Planner) AssignLegs(
	ctx context.Context,
	snap *state.Snapshot,
	legs []domain.Edge,
	goodsKg float64,
	objective domain.Objective,
) (_ []LegOutcome, err error) {
	defer obs.Time(ctx, "planner.AssignLegs")(&err)

	if snap == nil || snap.Pool == nil {
		return nil, domain.ErrFleetNotLoaded
	}
	if objective != domain.ObjectiveCost && objective != domain.ObjectiveTime {
		return nil, &domain.InvalidObjectiveError{
			Token:   string(objective),
			Allowed: []domain.Objective{domain.ObjectiveCost, domain.ObjectiveTime},
		}
	}
	if err := checkGoods(goodsKg); err != nil {
		return nil, err
	}

	out := make([]LegOutcome, 0, len(legs))
	for i, leg := range legs {
		start := time.Now()
		a, err := p.Capacity.Assign(ctx, snap.Pool, leg, goodsKg, objective)
		p.Metrics.ObserveSolve("capacity", ErrorClass(err), time.Since(start))

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("assign legs: %w", ctxErr)
		}
		o := LegOutcome{Index: i, Leg: leg}
		if err != nil {
			o.Err = err
		} else {
			o.Assignment = &a
		}
		out = append(out, o)
	}
	return out, nil
}

func (p *Planner) route(ctx context.Context, net *domain.Network, q RouteQuery) (domain.Route, error) {
	start := time.Now()
	route, err := p.Routes.Optimize(ctx, net, q)
	p.Metrics.ObserveSolve("route", ErrorClass(err), time.Since(start))
	return route, err
}

func (p *Planner) cached(ctx context.Context, key string) (ShipmentResult, bool) {
	if p.Cache == nil {
		return ShipmentResult{}, false
	}

	b, ok, err := p.Cache.Get(ctx, key)
	if err != nil {
		p.Metrics.ObserveCache("error")
		log.Printf("req_id=%s plan cache get failed: %v", obs.RequestID(ctx), err)
		return ShipmentResult{}, false
	}
	if !ok {
		p.Metrics.ObserveCache("miss")
		return ShipmentResult{}, false
	}

	var res ShipmentResult
	if err := json.Unmarshal(b, &res); err != nil {
		p.Metrics.ObserveCache("error")
		log.Printf("req_id=%s plan cache decode failed: %v", obs.RequestID(ctx), err)
		return ShipmentResult{}, false
	}
	p.Metrics.ObserveCache("hit")
	res.Cached = true
	return res, true
}

func (p *Planner) store(ctx context.Context, key string, res ShipmentResult) {
	if p.Cache == nil {
		return
	}
	b, err := json.Marshal(res)
	if err != nil {
		log.Printf("req_id=%s plan cache encode failed: %v", obs.RequestID(ctx), err)
		return
	}
	ttl := p.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if err := p.Cache.Set(ctx, key, b, ttl); err != nil {
		log.Printf("req_id=%s plan cache set failed: %v", obs.RequestID(ctx), err)
	}
}

// shipmentKey identifies a shipment query against one network and fleet version.
func shipmentKey(snap *state.Snapshot, q RouteQuery, goods float64) string {
	var b strings.Builder
	b.WriteString(snap.NetworkVersion)
	b.WriteByte('|')
	b.WriteString(snap.FleetVersion)
	b.WriteByte('|')
	b.WriteString(string(q.Objective))
	b.WriteByte('|')
	b.WriteString(domain.NormalizeName(q.Source))
	b.WriteByte('|')
	b.WriteString(domain.NormalizeName(q.Destination))
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(goods, 'g', -1, 64))
	b.WriteByte('|')
	b.WriteString(strconv.FormatBool(q.OrderedWaypoints))
	for _, w := range q.Waypoints {
		b.WriteByte('|')
		b.WriteString(domain.NormalizeName(w))
	}
	return "plan:" + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}

// ErrorClass names an error for metric labels.
func ErrorClass(err error) string {
	var (
		unknown      *domain.UnknownLocationError
		noRoute      *domain.NoRouteFoundError
		noVehicles   *domain.NoVehiclesAvailableError
		insufficient *domain.InsufficientCapacityError
		objective    *domain.InvalidObjectiveError
		input        *domain.InvalidInputError
		waypoints    *domain.TooManyWaypointsError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &unknown):
		return "unknown_location"
	case errors.As(err, &noRoute):
		return "no_route"
	case errors.As(err, &noVehicles):
		return "no_vehicles"
	case errors.As(err, &insufficient):
		return "insufficient_capacity"
	case errors.As(err, &objective), errors.As(err, &input), errors.As(err, &waypoints):
		return "invalid_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
