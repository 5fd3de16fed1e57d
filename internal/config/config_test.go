package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetFallbacks(t *testing.T) {
	t.Setenv("FLEET_TEST_STR", "  value ")
	t.Setenv("FLEET_TEST_INT", "12")
	t.Setenv("FLEET_TEST_BAD_INT", "twelve")
	t.Setenv("FLEET_TEST_DUR", "750ms")

	if got := Get("FLEET_TEST_STR", "x"); got != "value" {
		t.Fatalf("Get = %q, want value", got)
	}
	if got := Get("FLEET_TEST_MISSING", "x"); got != "x" {
		t.Fatalf("Get missing = %q, want x", got)
	}
	if got := GetInt("FLEET_TEST_INT", 1); got != 12 {
		t.Fatalf("GetInt = %d, want 12", got)
	}
	if got := GetInt("FLEET_TEST_BAD_INT", 3); got != 3 {
		t.Fatalf("GetInt bad = %d, want fallback 3", got)
	}
	if got := GetDuration("FLEET_TEST_DUR", time.Second); got != 750*time.Millisecond {
		t.Fatalf("GetDuration = %v", got)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	body := []byte(`
fuel_prices:
  fr:
    diesel: 1.7
    jet: 1.2
  US:
    diesel: 1.3
    jet: 0.95
solve_budget: 500ms
max_waypoints: 5
leg_parallelism: 8
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.FuelPrices.For("FR").Diesel != 1.7 || cfg.FuelPrices.For("us").Diesel != 1.3 {
		t.Fatalf("fuel prices = %+v", cfg.FuelPrices)
	}
	if cfg.FuelPrices.For("IN").Diesel != 0.85 {
		t.Fatalf("default country prices dropped")
	}
	if cfg.SolveBudget != 500*time.Millisecond || cfg.MaxWaypoints != 5 || cfg.LegParallelism != 8 {
		t.Fatalf("tuning = %+v", cfg)
	}

	def := DefaultTuning()
	if cfg.MaxExactVehicles != def.MaxExactVehicles || cfg.RateLimit != def.RateLimit {
		t.Fatalf("unset keys did not keep defaults: %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("max_waypoints: [1"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}

	cfg, err := LoadFile("")
	if err != nil || cfg.MaxWaypoints != DefaultTuning().MaxWaypoints {
		t.Fatalf("empty path = %+v, %v", cfg, err)
	}
}
