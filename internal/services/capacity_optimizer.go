package services

import (
	"context"
	"fleet-plan-service/internal/domain"
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	DefaultMaxExactVehicles = 24
	DefaultSolveBudget      = 250 * time.Millisecond

	// Search nodes visited between deadline checks.
	budgetCheckInterval = 512
)

// CapacityOptimizer selects the vehicles that carry a shipment over one leg.
//
// Pools of up to MaxExactVehicles candidates are solved exactly by
// branch and bound. Larger pools, and searches that exceed Budget, fall back
// to a greedy selection; the better of the greedy set and the best exact set
// found so far is returned.
type CapacityOptimizer struct {
	MaxExactVehicles int
	Budget           time.Duration
}

// AssignVehicles runs a CapacityOptimizer with default bounds.
func AssignVehicles(
	ctx context.Context,
	pool *domain.VehiclePool,
	leg domain.Edge,
	goodsKg float64,
	objective domain.Objective,
) (domain.VehicleAssignment, error) {
	return CapacityOptimizer{}.Assign(ctx, pool, leg, goodsKg, objective)
}

// Assign picks a covering vehicle subset based at leg.From.
//
// A zero weight yields an assignment with no vehicles and an unset LastArrival.
func (o CapacityOptimizer) Assign(
	ctx context.Context,
	pool *domain.VehiclePool,
	leg domain.Edge,
	goodsKg float64,
	objective domain.Objective,
) (domain.VehicleAssignment, error) {
	if objective != domain.ObjectiveCost && objective != domain.ObjectiveTime {
		return domain.VehicleAssignment{}, &domain.InvalidObjectiveError{
			Token:   string(objective),
			Allowed: []domain.Objective{domain.ObjectiveCost, domain.ObjectiveTime},
		}
	}
	if err := checkGoods(goodsKg); err != nil {
		return domain.VehicleAssignment{}, err
	}

	out := domain.VehicleAssignment{
		Leg:           leg,
		GoodsKg:       goodsKg,
		Objective:     objective,
		Vehicles:      []domain.LoadedVehicle{},
		LegDistanceKm: leg.DistanceKm,
		LegTimeHours:  leg.TimeHours,
		Solver:        domain.SolverExact,
	}
	if goodsKg == 0 {
		return out, nil
	}

	available := pool.VehiclesAt(leg.From.Key)
	if len(available) == 0 {
		return domain.VehicleAssignment{}, &domain.NoVehiclesAvailableError{Location: leg.From.Name}
	}

	sort.Slice(available, func(i, j int) bool { return available[i].ID < available[j].ID })

	p := coverProblem{
		vehicles:  available,
		goods:     goodsKg,
		distance:  leg.DistanceKm,
		objective: objective,
	}

	// Summed in ID order, the order the search accumulates capacity in.
	totalCap := 0.0
	for _, v := range available {
		totalCap += v.CapacityKg
	}
	if !p.covers(totalCap) {
		return domain.VehicleAssignment{}, p.insufficient(leg, totalCap)
	}

	maxExact := o.MaxExactVehicles
	if maxExact <= 0 {
		maxExact = DefaultMaxExactVehicles
	}
	budget := o.Budget
	if budget <= 0 {
		budget = DefaultSolveBudget
	}

	var selected []int
	if len(available) <= maxExact {
		best, complete := p.solveExact(ctx, time.Now().Add(budget))
		if err := ctx.Err(); err != nil {
			return domain.VehicleAssignment{}, fmt.Errorf("assign vehicles: %w", err)
		}
		selected = best.members
		if !complete {
			out.Solver = domain.SolverGreedy
			if g := p.solveGreedy(); best.members == nil || p.better(g, best) {
				selected = g.members
			}
		}
	} else {
		out.Solver = domain.SolverGreedy
		selected = p.solveGreedy().members
	}

	// Never report an uncovered selection as a plan.
	if picked := p.capacityOf(selected); len(selected) == 0 || !p.covers(picked) {
		return domain.VehicleAssignment{}, p.insufficient(leg, totalCap)
	}

	out.Vehicles = p.load(selected)
	for _, lv := range out.Vehicles {
		out.LastArrival = domain.MaxClock(out.LastArrival, lv.Arrival)
	}
	return out, nil
}

func checkGoods(goodsKg float64) error {
	if math.IsNaN(goodsKg) || math.IsInf(goodsKg, 0) {
		return &domain.InvalidInputError{Field: "goods_kg", Reason: "must be a finite number"}
	}
	if goodsKg < 0 {
		return &domain.InvalidInputError{Field: "goods_kg", Reason: fmt.Sprintf("must be non-negative, got %v", goodsKg)}
	}
	return nil
}

// load fills the selected vehicles largest first until the goods are placed.
// Vehicles left empty are dropped.
func (p *coverProblem) load(selected []int) []domain.LoadedVehicle {
	chosen := make([]domain.Vehicle, 0, len(selected))
	for _, i := range selected {
		chosen = append(chosen, p.vehicles[i])
	}
	sort.SliceStable(chosen, func(i, j int) bool {
		if chosen[i].CapacityKg != chosen[j].CapacityKg {
			return chosen[i].CapacityKg > chosen[j].CapacityKg
		}
		return chosen[i].ID < chosen[j].ID
	})

	out := make([]domain.LoadedVehicle, 0, len(chosen))
	remaining := p.goods
	for _, v := range chosen {
		if remaining <= p.slack() {
			break
		}
		load := math.Min(v.CapacityKg, remaining)
		remaining -= load

		hours := v.TravelHours(p.distance)
		out = append(out, domain.LoadedVehicle{
			Vehicle:     v,
			LoadKg:      load,
			Departure:   v.Departure,
			Arrival:     v.Departure.AddHours(hours),
			TravelHours: hours,
			Cost:        v.TripCost(p.distance),
		})
	}
	return out
}

// coverProblem is one covering instance: pick vehicles whose capacity sum
// reaches goods, minimizing total trip cost or the slowest trip time.
type coverProblem struct {
	vehicles  []domain.Vehicle // sorted by ID
	goods     float64
	distance  float64
	objective domain.Objective
}

type cover struct {
	members []int // ascending indices into vehicles
	value   float64
}

// slack absorbs rounding in capacity sums, which depend on summation order.
func (p *coverProblem) slack() float64 {
	return weightEpsilon * math.Max(1, p.goods)
}

func (p *coverProblem) covers(capacity float64) bool {
	return capacity >= p.goods-p.slack()
}

func (p *coverProblem) capacityOf(members []int) float64 {
	sum := 0.0
	for _, i := range members {
		sum += p.vehicles[i].CapacityKg
	}
	return sum
}

func (p *coverProblem) insufficient(leg domain.Edge, available float64) error {
	return &domain.InsufficientCapacityError{
		Location:    leg.From.Name,
		RequiredKg:  p.goods,
		AvailableKg: available,
	}
}

func (p *coverProblem) weight(i int) float64 {
	v := p.vehicles[i]
	if p.objective == domain.ObjectiveTime {
		return v.TravelHours(p.distance)
	}
	return v.TripCost(p.distance)
}

// combine folds a vehicle's weight into a partial objective value.
func (p *coverProblem) combine(acc, w float64) float64 {
	if p.objective == domain.ObjectiveTime {
		return math.Max(acc, w)
	}
	return acc + w
}

// better orders covers by objective value, then size, then member IDs.
func (p *coverProblem) better(a, b cover) bool {
	if math.Abs(a.value-b.value) > weightEpsilon {
		return a.value < b.value
	}
	if len(a.members) != len(b.members) {
		return len(a.members) < len(b.members)
	}
	for i := range a.members {
		if a.members[i] != b.members[i] {
			return a.members[i] < b.members[i]
		}
	}
	return false
}

// solveExact runs a depth-first branch and bound, including each vehicle before
// excluding it. It reports false when the deadline or ctx cut the search short;
// a complete search with no members means nothing covers the goods.
//
// Vehicles with equal capacity and weight are interchangeable. Once one is
// excluded, later ones of its kind are too: swapping them in would give the
// same value and size with higher IDs.
func (p *coverProblem) solveExact(ctx context.Context, deadline time.Time) (cover, bool) {
	n := len(p.vehicles)
	suffixCap := make([]float64, n+1)
	for i := n - 1; i >= 0; i-- {
		suffixCap[i] = suffixCap[i+1] + p.vehicles[i].CapacityKg
	}

	type kind struct{ capacity, weight float64 }
	kinds := make(map[kind]int)
	kindOf := make([]int, n)
	for i, v := range p.vehicles {
		k := kind{v.CapacityKg, p.weight(i)}
		id, ok := kinds[k]
		if !ok {
			id = len(kinds)
			kinds[k] = id
		}
		kindOf[i] = id
	}
	excluded := make([]int, len(kinds))

	var (
		best    cover
		found   bool
		aborted bool
		visited int
		members = make([]int, 0, n)
	)

	var search func(i int, capacity, value float64)
	search = func(i int, capacity, value float64) {
		if aborted {
			return
		}
		visited++
		if visited%budgetCheckInterval == 0 && (ctx.Err() != nil || time.Now().After(deadline)) {
			aborted = true
			return
		}

		if p.covers(capacity) {
			c := cover{members: members, value: value}
			if !found || p.better(c, best) {
				best = cover{members: append([]int(nil), members...), value: value}
				found = true
			}
			return
		}
		if i == n || !p.covers(capacity+suffixCap[i]) {
			return
		}
		// Objectives only grow as vehicles are added.
		if found && value > best.value+weightEpsilon {
			return
		}

		if excluded[kindOf[i]] == 0 {
			members = append(members, i)
			search(i+1, capacity+p.vehicles[i].CapacityKg, p.combine(value, p.weight(i)))
			members = members[:len(members)-1]
		}

		excluded[kindOf[i]]++
		search(i+1, capacity, value)
		excluded[kindOf[i]]--
	}
	search(0, 0, 0)

	return best, !aborted
}

// solveGreedy takes vehicles in order of usefulness until the goods are
// covered, then drops any pick the rest can do without.
func (p *coverProblem) solveGreedy() cover {
	order := make([]int, len(p.vehicles))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(a, b int) bool {
		va, vb := p.vehicles[order[a]], p.vehicles[order[b]]
		if p.objective == domain.ObjectiveTime {
			if va.SpeedKmph != vb.SpeedKmph {
				return va.SpeedKmph > vb.SpeedKmph
			}
		} else if ra, rb := va.CapacityKg/va.CostPerKm, vb.CapacityKg/vb.CostPerKm; ra != rb {
			return ra > rb
		}
		if va.CapacityKg != vb.CapacityKg {
			return va.CapacityKg > vb.CapacityKg
		}
		return order[a] < order[b]
	})

	var picked []int
	capacity := 0.0
	for _, i := range order {
		if p.covers(capacity) {
			break
		}
		picked = append(picked, i)
		capacity += p.vehicles[i].CapacityKg
	}

	// Least useful picks are the last ones taken.
	for k := len(picked) - 1; k >= 0; k-- {
		if c := p.vehicles[picked[k]].CapacityKg; p.covers(capacity-c) {
			capacity -= c
			picked = append(picked[:k], picked[k+1:]...)
		}
	}

	sort.Ints(picked)
	value := 0.0
	for _, i := range picked {
		value = p.combine(value, p.weight(i))
	}
	return cover{members: picked, value: value}
}
