package domain

import (
	"fmt"
	"strings"
)

// Mode is the transport mode of an edge.
type Mode string

const (
	ModeRoad Mode = "road"
	ModeAir  Mode = "air"
)

// ParseMode accepts "road" and "air" case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRoad:
		return ModeRoad, nil
	case ModeAir:
		return ModeAir, nil
	}
	return "", fmt.Errorf("unknown transport mode %q", s)
}

// Edge is a directed transport link between two locations.
// Reverse connectivity needs its own edge.
type Edge struct {
	From       Location
	To         Location
	Mode       Mode
	DistanceKm float64
	TimeHours  float64
	FuelCost   float64
	Geometry   [][2]float64 // (lat, lon) points, passed through for map rendering
}

// Weight returns the edge weight for a routing objective.
func (e Edge) Weight(o Objective) float64 {
	switch o {
	case ObjectiveTime:
		return e.TimeHours
	case ObjectiveDistance:
		return e.DistanceKm
	default:
		return e.FuelCost
	}
}

func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s (%s)", e.From, e.To, e.Mode)
}
