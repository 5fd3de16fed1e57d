package domain

import (
	"errors"
	"fmt"
	"math"
)

// Network is an immutable adjacency list of directed edges.
// All parallel edges are retained; the optimizer picks between them per query.
type Network struct {
	locations map[string]Location
	order     []string
	adjacency map[string][]Edge
	edgeCount int
}

// NewNetwork builds a Network from a set of edges. Endpoint locations are
// registered from the edges themselves, so every edge endpoint is known.
func NewNetwork(edges []Edge) (*Network, error) {
	n := &Network{
		locations: make(map[string]Location),
		adjacency: make(map[string][]Edge),
	}

	for i, e := range edges {
		if e.From.Key == "" || e.To.Key == "" {
			return nil, fmt.Errorf("new network: edge #%d: endpoints must be non-empty", i+1)
		}
		if e.Mode != ModeRoad && e.Mode != ModeAir {
			return nil, fmt.Errorf("new network: edge #%d: unknown mode %q", i+1, e.Mode)
		}
		if err := checkNonNegative(e); err != nil {
			return nil, fmt.Errorf("new network: edge #%d %s: %w", i+1, e, err)
		}

		e.From = n.register(e.From)
		e.To = n.register(e.To)
		n.adjacency[e.From.Key] = append(n.adjacency[e.From.Key], e)
		n.edgeCount++
	}

	// A coordinate may first appear on a later edge; point every edge at the
	// registered location.
	for k, out := range n.adjacency {
		for j := range out {
			out[j].From = n.locations[out[j].From.Key]
			out[j].To = n.locations[out[j].To.Key]
		}
		n.adjacency[k] = out
	}

	return n, nil
}

func (n *Network) register(l Location) Location {
	if known, ok := n.locations[l.Key]; ok {
		if known.Coord == nil && l.Coord != nil {
			known.Coord = l.Coord
			n.locations[l.Key] = known
		}
		return n.locations[l.Key]
	}
	n.locations[l.Key] = l
	n.order = append(n.order, l.Key)
	return l
}

func checkNonNegative(e Edge) error {
	for _, v := range []float64{e.DistanceKm, e.TimeHours, e.FuelCost} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("distance, time and fuel cost must be finite and non-negative")
		}
	}
	return nil
}

// Neighbors returns the outgoing edges of a location in load order.
// Unknown locations have no neighbors.
func (n *Network) Neighbors(name string) []Edge {
	if n == nil {
		return nil
	}
	return n.adjacency[NormalizeName(name)]
}

// Location looks up a location by name.
func (n *Network) Location(name string) (Location, bool) {
	if n == nil {
		return Location{}, false
	}
	l, ok := n.locations[NormalizeName(name)]
	return l, ok
}

// Resolve looks up a location and reports an UnknownLocationError when absent.
func (n *Network) Resolve(name, role string) (Location, error) {
	l, ok := n.Location(name)
	if !ok {
		return Location{}, &UnknownLocationError{Name: name, Role: role}
	}
	return l, nil
}

// Locations returns all locations in first-seen order.
func (n *Network) Locations() []Location {
	if n == nil {
		return nil
	}
	out := make([]Location, 0, len(n.order))
	for _, k := range n.order {
		out = append(out, n.locations[k])
	}
	return out
}

// Edges returns every edge, grouped by origin in first-seen order.
func (n *Network) Edges() []Edge {
	if n == nil {
		return nil
	}
	out := make([]Edge, 0, n.edgeCount)
	for _, k := range n.order {
		out = append(out, n.adjacency[k]...)
	}
	return out
}

func (n *Network) EdgeCount() int {
	if n == nil {
		return 0
	}
	return n.edgeCount
}

func (n *Network) LocationCount() int {
	if n == nil {
		return 0
	}
	return len(n.order)
}
