package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNetworkNotLoaded = errors.New("network not loaded")
	ErrFleetNotLoaded   = errors.New("vehicle fleet not loaded")
)

// UnknownLocationError reports a query location absent from the network.
type UnknownLocationError struct {
	Name string
	Role string // source, destination, waypoint
}

func (e *UnknownLocationError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("unknown location %q", e.Name)
	}
	return fmt.Sprintf("unknown %s location %q", e.Role, e.Name)
}

// NoRouteFoundError reports that no path connects the requested locations.
type NoRouteFoundError struct {
	From      string
	To        string
	Waypoints []string
}

func (e *NoRouteFoundError) Error() string {
	if len(e.Waypoints) > 0 {
		return fmt.Sprintf("no route from %q to %q via %s", e.From, e.To, strings.Join(e.Waypoints, ", "))
	}
	return fmt.Sprintf("no route from %q to %q", e.From, e.To)
}

// NoVehiclesAvailableError reports that no vehicle is based at a leg's origin.
type NoVehiclesAvailableError struct {
	Location string
}

func (e *NoVehiclesAvailableError) Error() string {
	return fmt.Sprintf("no vehicles available at %q", e.Location)
}

// InsufficientCapacityError reports that the vehicles at a location cannot
// carry the requested weight even when all of them are used.
type InsufficientCapacityError struct {
	Location    string
	RequiredKg  float64
	AvailableKg float64
}

// Shortfall is the weight in kg that cannot be carried.
func (e *InsufficientCapacityError) Shortfall() float64 { return e.RequiredKg - e.AvailableKg }

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf(
		"insufficient capacity at %q: need %.2f kg, have %.2f kg (short %.2f kg)",
		e.Location, e.RequiredKg, e.AvailableKg, e.Shortfall(),
	)
}

// InvalidObjectiveError reports an unrecognized objective token.
type InvalidObjectiveError struct {
	Token   string
	Allowed []Objective
}

func (e *InvalidObjectiveError) Error() string {
	allowed := make([]string, 0, len(e.Allowed))
	for _, o := range e.Allowed {
		allowed = append(allowed, string(o))
	}
	return fmt.Sprintf("invalid objective %q (allowed: %s)", e.Token, strings.Join(allowed, ", "))
}

// InvalidInputError reports a malformed argument such as a negative weight.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TooManyWaypointsError reports an unordered waypoint set larger than the
// permutation search bound.
type TooManyWaypointsError struct {
	Count int
	Max   int
}

func (e *TooManyWaypointsError) Error() string {
	return fmt.Sprintf("too many unordered waypoints: %d (max %d)", e.Count, e.Max)
}

// LegError attaches the failing leg to a capacity-assignment error.
type LegError struct {
	Index int
	From  string
	To    string
	Err   error
}

func (e *LegError) Error() string {
	return fmt.Sprintf("leg %d (%s -> %s): %v", e.Index, e.From, e.To, e.Err)
}

func (e *LegError) Unwrap() error { return e.Err }
