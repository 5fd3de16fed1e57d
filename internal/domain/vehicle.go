package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// VehicleType enumerates the supported vehicle kinds.
type VehicleType string

const (
	VehicleTruck VehicleType = "truck"
	VehicleVan   VehicleType = "van"
	VehicleCar   VehicleType = "car"
	VehicleAuto  VehicleType = "auto"
	VehicleBike  VehicleType = "bike"
	VehiclePlane VehicleType = "plane"
)

// VehicleSpec is the inherent speed and running cost of a vehicle type.
type VehicleSpec struct {
	SpeedKmph float64
	CostPerKm float64
}

var vehicleSpecs = map[VehicleType]VehicleSpec{
	VehicleTruck: {SpeedKmph: 80, CostPerKm: 0.50},
	VehicleVan:   {SpeedKmph: 90, CostPerKm: 0.40},
	VehicleCar:   {SpeedKmph: 100, CostPerKm: 0.30},
	VehicleAuto:  {SpeedKmph: 60, CostPerKm: 0.20},
	VehicleBike:  {SpeedKmph: 80, CostPerKm: 0.10},
	VehiclePlane: {SpeedKmph: 900, CostPerKm: 2.00},
}

// VehicleSpecs returns a copy of the type-to-spec table.
func VehicleSpecs() map[VehicleType]VehicleSpec {
	out := make(map[VehicleType]VehicleSpec, len(vehicleSpecs))
	for k, v := range vehicleSpecs {
		out[k] = v
	}
	return out
}

// ParseVehicleType accepts the known type names case-insensitively.
func ParseVehicleType(s string) (VehicleType, error) {
	t := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := vehicleSpecs[t]; !ok {
		return "", fmt.Errorf("unknown vehicle type %q", s)
	}
	return t, nil
}

// DefaultDeparture is used when a vehicle row carries no departure time.
var DefaultDeparture = NewClockTime(8, 0)

// Vehicle is an immutable fleet record.
type Vehicle struct {
	ID         string
	Home       Location
	Type       VehicleType
	CapacityKg float64
	Departure  ClockTime
	SpeedKmph  float64
	CostPerKm  float64
}

// TravelHours is the time needed to cover a distance.
func (v Vehicle) TravelHours(distanceKm float64) float64 { return distanceKm / v.SpeedKmph }

// TripCost is the running cost of covering a distance.
func (v Vehicle) TripCost(distanceKm float64) float64 { return v.CostPerKm * distanceKm }

// VehicleRow is one already-validated row of the uploaded vehicles table.
type VehicleRow struct {
	Home       string
	Type       string
	CapacityKg float64
	Departure  string
}

// VehiclePool is the ordered fleet. It is never mutated after construction.
type VehiclePool struct {
	vehicles []Vehicle
	byHome   map[string][]int
	homes    []string
}

// NewVehiclePool derives speed, cost and IDs for each row. IDs carry a
// per-home sequence counter: the third truck-or-van row of "Mumbai" is MUM-xxx-03.
func NewVehiclePool(rows []VehicleRow) (*VehiclePool, error) {
	p := &VehiclePool{
		vehicles: make([]Vehicle, 0, len(rows)),
		byHome:   make(map[string][]int),
	}

	for i, r := range rows {
		home := NewLocation(r.Home, nil)
		if home.Key == "" {
			return nil, fmt.Errorf("new vehicle pool: row %d: home location must be non-empty", i+1)
		}

		vt, err := ParseVehicleType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("new vehicle pool: row %d: %w", i+1, err)
		}

		if r.CapacityKg <= 0 || math.IsNaN(r.CapacityKg) || math.IsInf(r.CapacityKg, 0) {
			return nil, fmt.Errorf("new vehicle pool: row %d: capacity must be positive, got %v", i+1, r.CapacityKg)
		}

		departure := DefaultDeparture
		if strings.TrimSpace(r.Departure) != "" {
			departure, err = ParseClockTime(r.Departure)
			if err != nil {
				return nil, fmt.Errorf("new vehicle pool: row %d: %w", i+1, err)
			}
		}

		if _, ok := p.byHome[home.Key]; !ok {
			p.homes = append(p.homes, home.Key)
		}
		seq := len(p.byHome[home.Key]) + 1
		spec := vehicleSpecs[vt]

		p.byHome[home.Key] = append(p.byHome[home.Key], len(p.vehicles))
		p.vehicles = append(p.vehicles, Vehicle{
			ID:         vehicleID(home.Key, vt, seq),
			Home:       home,
			Type:       vt,
			CapacityKg: r.CapacityKg,
			Departure:  departure,
			SpeedKmph:  spec.SpeedKmph,
			CostPerKm:  spec.CostPerKm,
		})
	}

	return p, nil
}

func vehicleID(homeKey string, vt VehicleType, seq int) string {
	return fmt.Sprintf("%s-%s-%02d", prefix3(homeKey), prefix3(string(vt)), seq)
}

func prefix3(s string) string {
	r := []rune(strings.ToUpper(s))
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// VehiclesAt returns the vehicles whose home matches the location name, in load order.
func (p *VehiclePool) VehiclesAt(name string) []Vehicle {
	if p == nil {
		return nil
	}
	idx := p.byHome[NormalizeName(name)]
	out := make([]Vehicle, 0, len(idx))
	for _, i := range idx {
		out = append(out, p.vehicles[i])
	}
	return out
}

// Vehicles returns every vehicle in load order.
func (p *VehiclePool) Vehicles() []Vehicle {
	if p == nil {
		return nil
	}
	return append([]Vehicle(nil), p.vehicles...)
}

// Homes returns the distinct home location keys, sorted.
func (p *VehiclePool) Homes() []string {
	if p == nil {
		return nil
	}
	out := append([]string(nil), p.homes...)
	sort.Strings(out)
	return out
}

func (p *VehiclePool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.vehicles)
}
