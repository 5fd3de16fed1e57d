package obs

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service's Prometheus metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	Optimizations *prometheus.CounterVec
	SolveSeconds  *prometheus.HistogramVec
	CacheLookups  *prometheus.CounterVec

	NetworkLocations prometheus.Gauge
	NetworkEdges     prometheus.Gauge
	FleetVehicles    prometheus.Gauge
}

// NewCollector registers metrics against reg. A fresh registry carrying the Go
// and process collectors is created when reg is nil.
func NewCollector(reg *prometheus.Registry) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	httpRequests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"}), "http_requests_total")
	if err != nil {
		return nil, err
	}

	httpDurations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"}), "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	optimizations, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_optimizations_total",
		Help: "Optimizer runs by stage (route, capacity, plan) and outcome.",
	}, []string{"stage", "outcome"}), "fleet_optimizations_total")
	if err != nil {
		return nil, err
	}

	solveSeconds, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleet_solve_duration_seconds",
		Help:    "Optimizer solve latency in seconds by stage.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"stage"}), "fleet_solve_duration_seconds")
	if err != nil {
		return nil, err
	}

	cacheLookups, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_plan_cache_lookups_total",
		Help: "Plan cache lookups by result (hit, miss, error).",
	}, []string{"result"}), "fleet_plan_cache_lookups_total")
	if err != nil {
		return nil, err
	}

	locations, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_network_locations",
		Help: "Locations in the loaded network.",
	}), "fleet_network_locations")
	if err != nil {
		return nil, err
	}
	edges, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_network_edges",
		Help: "Edges in the loaded network.",
	}), "fleet_network_edges")
	if err != nil {
		return nil, err
	}
	vehicles, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_vehicles",
		Help: "Vehicles in the loaded fleet.",
	}), "fleet_vehicles")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         reg,
		HTTPRequests:     httpRequests,
		HTTPDurations:    httpDurations,
		Optimizations:    optimizations,
		SolveSeconds:     solveSeconds,
		CacheLookups:     cacheLookups,
		NetworkLocations: locations,
		NetworkEdges:     edges,
		FleetVehicles:    vehicles,
	}, nil
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, dur time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDurations.WithLabelValues(method, route).Observe(dur.Seconds())
}

// ObserveSolve records one optimizer run. Outcome is "ok" or an error class.
func (c *Collector) ObserveSolve(stage, outcome string, dur time.Duration) {
	if c == nil {
		return
	}
	c.Optimizations.WithLabelValues(stage, outcome).Inc()
	c.SolveSeconds.WithLabelValues(stage).Observe(dur.Seconds())
}

// ObserveCache records a plan cache lookup result.
func (c *Collector) ObserveCache(result string) {
	if c == nil {
		return
	}
	c.CacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) SetNetworkSize(locations, edges int) {
	if c == nil {
		return
	}
	c.NetworkLocations.Set(float64(locations))
	c.NetworkEdges.Set(float64(edges))
}

func (c *Collector) SetFleetSize(vehicles int) {
	if c == nil {
		return
	}
	c.FleetVehicles.Set(float64(vehicles))
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
