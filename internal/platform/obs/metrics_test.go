package obs

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.ObserveSolve("capacity", "ok", 3*time.Millisecond)
	c.ObserveSolve("capacity", "ok", time.Millisecond)
	c.ObserveHTTP("POST", "/plans", 200, 10*time.Millisecond)
	c.ObserveCache("hit")
	c.SetNetworkSize(4, 7)
	c.SetFleetSize(3)

	if got := testutil.ToFloat64(c.Optimizations.WithLabelValues("capacity", "ok")); got != 2 {
		t.Fatalf("optimizations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.HTTPRequests.WithLabelValues("POST", "/plans", "200")); got != 1 {
		t.Fatalf("http requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Fatalf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.NetworkEdges); got != 7 {
		t.Fatalf("edges gauge = %v, want 7", got)
	}
	if got := testutil.ToFloat64(c.FleetVehicles); got != 3 {
		t.Fatalf("vehicles gauge = %v, want 3", got)
	}
}

func TestCollectorReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}

	first.ObserveCache("miss")
	if got := testutil.ToFloat64(second.CacheLookups.WithLabelValues("miss")); got != 1 {
		t.Fatalf("shared counter = %v, want 1", got)
	}
}

func TestCollectorHandlerExposesMetrics(t *testing.T) {
	c, err := NewCollector(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.SetFleetSize(5)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "fleet_vehicles 5") {
		t.Fatalf("metrics output missing fleet_vehicles gauge:\n%s", body)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveSolve("route", "ok", time.Millisecond)
	c.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	c.SetNetworkSize(1, 1)
}
