package services

import (
	"fleet-plan-service/internal/domain"
	"fmt"
	"strings"
)

// Movement model used when an edge row carries no explicit time or fuel cost.
const (
	roadSpeedKmph    = 50.0
	roadKmPerLitre   = 4.0 // diesel
	airSpeedKmph     = 800.0
	airLitresPerKm   = 5.0 // jet fuel
	defaultDieselUSD = 1.2
	defaultJetUSD    = 0.9
)

// FuelPrice is the per-litre price of each fuel type in one country.
type FuelPrice struct {
	Diesel float64 `yaml:"diesel"`
	Jet    float64 `yaml:"jet"`
}

// FuelPrices maps an upper-case country code to its fuel prices.
type FuelPrices map[string]FuelPrice

func DefaultFuelPrices() FuelPrices {
	return FuelPrices{
		"US": {Diesel: 1.2, Jet: 0.9},
		"IN": {Diesel: 0.85, Jet: 0.75},
		"UK": {Diesel: 1.5, Jet: 1.1},
		"DE": {Diesel: 1.6, Jet: 1.15},
		"AU": {Diesel: 1.4, Jet: 0.95},
	}
}

// For returns the prices for a country, falling back to the default prices.
func (p FuelPrices) For(country string) FuelPrice {
	if fp, ok := p[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return fp
	}
	return FuelPrice{Diesel: defaultDieselUSD, Jet: defaultJetUSD}
}

// EdgeRow is one already-validated row of an uploaded air or road table.
// Optional measures left nil are derived from the coordinates.
type EdgeRow struct {
	From       string
	To         string
	Mode       string
	FromCoord  *domain.Coordinates
	ToCoord    *domain.Coordinates
	DistanceKm *float64
	TimeHours  *float64
	FuelCost   *float64
	Geometry   [][2]float64
}

// BuildEdges converts table rows into network edges for one country.
func BuildEdges(rows []EdgeRow, prices FuelPrices, country string) ([]domain.Edge, error) {
	fuel := prices.For(country)
	edges := make([]domain.Edge, 0, len(rows))

	for i, r := range rows {
		mode, err := domain.ParseMode(r.Mode)
		if err != nil {
			return nil, fmt.Errorf("build edges: row %d: %w", i+1, err)
		}

		var dist float64
		switch {
		case r.DistanceKm != nil:
			dist = *r.DistanceKm
		case r.FromCoord != nil && r.ToCoord != nil:
			dist = domain.HaversineKm(*r.FromCoord, *r.ToCoord)
		default:
			return nil, fmt.Errorf("build edges: row %d (%s -> %s): need distance_km or both coordinates", i+1, r.From, r.To)
		}

		hours, cost := travelModel(mode, dist, fuel)
		if r.TimeHours != nil {
			hours = *r.TimeHours
		}
		if r.FuelCost != nil {
			cost = *r.FuelCost
		}

		geometry := r.Geometry
		if len(geometry) == 0 && r.FromCoord != nil && r.ToCoord != nil {
			geometry = [][2]float64{r.FromCoord.LatLon(), r.ToCoord.LatLon()}
		}

		edges = append(edges, domain.Edge{
			From:       domain.NewLocation(r.From, r.FromCoord),
			To:         domain.NewLocation(r.To, r.ToCoord),
			Mode:       mode,
			DistanceKm: round2(dist),
			TimeHours:  round2(hours),
			FuelCost:   round2(cost),
			Geometry:   geometry,
		})
	}

	return edges, nil
}

// BuildNetwork builds edges and loads them into a new Network.
func BuildNetwork(rows []EdgeRow, prices FuelPrices, country string) (*domain.Network, error) {
	edges, err := BuildEdges(rows, prices, country)
	if err != nil {
		return nil, err
	}
	return domain.NewNetwork(edges)
}

func travelModel(mode domain.Mode, distanceKm float64, fuel FuelPrice) (hours, cost float64) {
	if mode == domain.ModeAir {
		return distanceKm / airSpeedKmph, distanceKm * airLitresPerKm * fuel.Jet
	}
	return distanceKm / roadSpeedKmph, distanceKm / roadKmPerLitre * fuel.Diesel
}
