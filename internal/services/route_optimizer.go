package services

import (
	"container/heap"
	"context"
	"fleet-plan-service/internal/domain"
	"fmt"
	"math"
)

// DefaultMaxWaypoints bounds the unordered waypoint permutation search (6! = 720 chains).
const DefaultMaxWaypoints = 6

const weightEpsilon = 1e-9

// RouteQuery is a resolved routing request.
type RouteQuery struct {
	Source      string
	Destination string
	Objective   domain.Objective
	Waypoints   []string
	// OrderedWaypoints visits Waypoints in the given order. Otherwise every
	// ordering is tried and the cheapest wins.
	OrderedWaypoints bool
}

// RouteOptimizer finds minimum-weight routes over a Network.
type RouteOptimizer struct {
	MaxWaypoints int
}

// OptimizeRoute runs a RouteOptimizer with default bounds.
func OptimizeRoute(ctx context.Context, net *domain.Network, q RouteQuery) (domain.Route, error) {
	return RouteOptimizer{}.Optimize(ctx, net, q)
}

// Optimize computes the minimum-weight route for q.
//
// Each source/waypoint/destination segment is solved with Dijkstra over the
// objective's edge weight. Among equal-weight paths the one discovered first
// under load-order edge iteration wins, so results are reproducible.
func (o RouteOptimizer) Optimize(ctx context.Context, net *domain.Network, q RouteQuery) (domain.Route, error) {
	if net == nil {
		return domain.Route{}, domain.ErrNetworkNotLoaded
	}
	if err := checkRouteObjective(q.Objective); err != nil {
		return domain.Route{}, err
	}

	src, err := net.Resolve(q.Source, "source")
	if err != nil {
		return domain.Route{}, err
	}
	dst, err := net.Resolve(q.Destination, "destination")
	if err != nil {
		return domain.Route{}, err
	}

	waypoints := make([]domain.Location, 0, len(q.Waypoints))
	for _, w := range q.Waypoints {
		loc, err := net.Resolve(w, "waypoint")
		if err != nil {
			return domain.Route{}, err
		}
		waypoints = append(waypoints, loc)
	}

	maxWaypoints := o.MaxWaypoints
	if maxWaypoints <= 0 {
		maxWaypoints = DefaultMaxWaypoints
	}
	if !q.OrderedWaypoints && len(waypoints) > maxWaypoints {
		return domain.Route{}, &domain.TooManyWaypointsError{Count: len(waypoints), Max: maxWaypoints}
	}

	route := domain.Route{Source: src, Destination: dst, Objective: q.Objective, Edges: []domain.Edge{}}
	if src.Key == dst.Key && len(waypoints) == 0 {
		return route, nil
	}

	// One shortest-path tree per segment origin.
	trees := make(map[string]*pathTree, len(waypoints)+1)
	treeFrom := func(loc domain.Location) *pathTree {
		t, ok := trees[loc.Key]
		if !ok {
			t = shortestPaths(net, loc.Key, q.Objective)
			trees[loc.Key] = t
		}
		return t
	}

	noRoute := func() error {
		names := make([]string, 0, len(waypoints))
		for _, w := range waypoints {
			names = append(names, w.Name)
		}
		return &domain.NoRouteFoundError{From: src.Name, To: dst.Name, Waypoints: names}
	}

	chain := func(order []int) ([]domain.Edge, float64, bool) {
		stops := make([]domain.Location, 0, len(order)+2)
		stops = append(stops, src)
		for _, i := range order {
			stops = append(stops, waypoints[i])
		}
		stops = append(stops, dst)

		var edges []domain.Edge
		total := 0.0
		for i := 0; i+1 < len(stops); i++ {
			tree := treeFrom(stops[i])
			seg, ok := tree.pathTo(stops[i+1].Key)
			if !ok {
				return nil, 0, false
			}
			edges = append(edges, seg...)
			total += tree.dist[stops[i+1].Key]
		}
		return edges, total, true
	}

	order := make([]int, len(waypoints))
	for i := range order {
		order[i] = i
	}

	if q.OrderedWaypoints || len(waypoints) < 2 {
		edges, _, ok := chain(order)
		if !ok {
			return domain.Route{}, noRoute()
		}
		route.Edges = append(route.Edges, edges...)
		return route, nil
	}

	var (
		best      []domain.Edge
		bestTotal = math.Inf(1)
		found     bool
	)
	// Permutations run in lexicographic order starting from input order, and
	// only a strictly lower total replaces the incumbent.
	for {
		if err := ctx.Err(); err != nil {
			return domain.Route{}, fmt.Errorf("optimize route: %w", err)
		}
		if edges, total, ok := chain(order); ok && (!found || total < bestTotal-weightEpsilon) {
			best, bestTotal, found = edges, total, true
		}
		if !nextPermutation(order) {
			break
		}
	}
	if !found {
		return domain.Route{}, noRoute()
	}

	route.Edges = append(route.Edges, best...)
	return route, nil
}

func checkRouteObjective(o domain.Objective) error {
	switch o {
	case domain.ObjectiveCost, domain.ObjectiveTime, domain.ObjectiveDistance:
		return nil
	}
	return &domain.InvalidObjectiveError{
		Token:   string(o),
		Allowed: []domain.Objective{domain.ObjectiveCost, domain.ObjectiveTime, domain.ObjectiveDistance},
	}
}

// pathTree is a single-source shortest-path tree.
type pathTree struct {
	source string
	dist   map[string]float64
	via    map[string]domain.Edge
}

func (t *pathTree) pathTo(key string) ([]domain.Edge, bool) {
	if _, ok := t.dist[key]; !ok {
		return nil, false
	}
	var rev []domain.Edge
	for cur := key; cur != t.source; {
		e := t.via[cur]
		rev = append(rev, e)
		cur = e.From.Key
	}
	out := make([]domain.Edge, len(rev))
	for i, e := range rev {
		out[len(rev)-1-i] = e
	}
	return out, true
}

func shortestPaths(net *domain.Network, source string, o domain.Objective) *pathTree {
	t := &pathTree{
		source: source,
		dist:   map[string]float64{source: 0},
		via:    make(map[string]domain.Edge),
	}
	done := make(map[string]bool)

	pq := &nodeQueue{}
	seq := 0
	heap.Push(pq, &queued{key: source, dist: 0, seq: seq})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*queued)
		if done[cur.key] {
			continue
		}
		done[cur.key] = true

		for _, e := range net.Neighbors(cur.key) {
			next := e.To.Key
			if done[next] {
				continue
			}
			d := cur.dist + e.Weight(o)
			if old, ok := t.dist[next]; ok && d >= old {
				continue
			}
			t.dist[next] = d
			t.via[next] = e
			seq++
			heap.Push(pq, &queued{key: next, dist: d, seq: seq})
		}
	}
	return t
}

type queued struct {
	key  string
	dist float64
	seq  int
}

// nodeQueue is a min-heap on distance; push order breaks ties.
type nodeQueue []*queued

func (q nodeQueue) Len() int { return len(q) }
func (q nodeQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*queued)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// nextPermutation advances p to the next lexicographic permutation.
// It reports false once p is the last permutation.
func nextPermutation(p []int) bool {
	i := len(p) - 2
	for i >= 0 && p[i] >= p[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(p) - 1
	for p[j] <= p[i] {
		j--
	}
	p[i], p[j] = p[j], p[i]
	for l, r := i+1, len(p)-1; l < r; l, r = l+1, r-1 {
		p[l], p[r] = p[r], p[l]
	}
	return true
}

// SummarizeRoute totals a route's edge attributes. Modes are listed in order
// of first use.
func SummarizeRoute(route domain.Route) domain.RouteSummary {
	s := domain.RouteSummary{Modes: []domain.Mode{}}
	seen := make(map[domain.Mode]bool)
	for _, e := range route.Edges {
		s.TotalDistanceKm += e.DistanceKm
		s.TotalTimeHours += e.TimeHours
		s.TotalFuelCost += e.FuelCost
		s.SegmentCount++
		if !seen[e.Mode] {
			seen[e.Mode] = true
			s.Modes = append(s.Modes, e.Mode)
		}
	}
	s.TotalDistanceKm = round2(s.TotalDistanceKm)
	s.TotalTimeHours = round2(s.TotalTimeHours)
	s.TotalFuelCost = round2(s.TotalFuelCost)
	return s
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
