package api

import (
	"fleet-plan-service/internal/api/handlers"
	"fleet-plan-service/internal/platform/obs"
	"fleet-plan-service/internal/services"
	"fleet-plan-service/internal/state"
	"net/http"

	"golang.org/x/time/rate"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Store     *state.Store
	Planner   *services.Planner
	Distances services.RoadDistances
	Fuel      services.FuelPrices
	Metrics   *obs.Collector

	// RateLimit is the sustained request rate per second; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	networkHandler := &handlers.NetworkHandler{
		Store:     d.Store,
		Distances: d.Distances,
		Fuel:      d.Fuel,
		Metrics:   d.Metrics,
	}
	vehicleHandler := &handlers.VehicleHandler{Store: d.Store, Metrics: d.Metrics}
	planHandler := &handlers.PlanHandler{Store: d.Store, Planner: d.Planner}
	distanceHandler := &handlers.DistanceHandler{Distances: d.Distances}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", d.Metrics.Handler())
	mux.HandleFunc("/network", networkHandler.Network)
	mux.HandleFunc("/vehicles", vehicleHandler.Vehicles)
	mux.HandleFunc("/vehicle-specs", vehicleHandler.Specs)
	mux.HandleFunc("/routes", planHandler.Route)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/legs/assign", planHandler.AssignLegs)
	mux.HandleFunc("/road-distance", distanceHandler.RoadDistance)

	var h http.Handler = loggingMiddleware(mux, d.Metrics)
	if d.RateLimit > 0 {
		burst := d.RateBurst
		if burst < 1 {
			burst = 1
		}
		h = rateLimitMiddleware(h, rate.NewLimiter(rate.Limit(d.RateLimit), burst))
	}
	return requestIDMiddleware(h)
}
