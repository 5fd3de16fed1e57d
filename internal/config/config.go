// Package config reads process configuration from the environment, an
// optional .env file and an optional YAML tuning file.
package config

import (
	"fleet-plan-service/internal/platform/obs"
	"fleet-plan-service/internal/services"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a .env file into the environment when one exists.
func Load(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
}

// Get returns the value of an environment variable or the fallback when unset.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return f
}

func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return b
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, v, err)
		return fallback
	}
	return d
}

// Tuning holds the solver and server knobs that may come from the YAML file.
type Tuning struct {
	FuelPrices       services.FuelPrices `yaml:"fuel_prices"`
	SolveBudget      time.Duration       `yaml:"solve_budget"`
	MaxWaypoints     int                 `yaml:"max_waypoints"`
	MaxExactVehicles int                 `yaml:"max_exact_vehicles"`
	LegParallelism   int                 `yaml:"leg_parallelism"`
	RateLimit        float64             `yaml:"rate_limit"`
	RateBurst        int                 `yaml:"rate_burst"`
	PlanCacheTTL     time.Duration       `yaml:"plan_cache_ttl"`
}

func DefaultTuning() Tuning {
	return Tuning{
		FuelPrices:       services.DefaultFuelPrices(),
		SolveBudget:      services.DefaultSolveBudget,
		MaxWaypoints:     services.DefaultMaxWaypoints,
		MaxExactVehicles: services.DefaultMaxExactVehicles,
		LegParallelism:   4,
		RateLimit:        50,
		RateBurst:        100,
		PlanCacheTTL:     10 * time.Minute,
	}
}

// LoadFile overlays the YAML file at path onto the defaults. Fuel prices in
// the file are merged per country. An empty path returns the defaults.
func LoadFile(path string) (Tuning, error) {
	t := DefaultTuning()
	if strings.TrimSpace(path) == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("load config %q: %w", path, err)
	}

	var file Tuning
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Tuning{}, fmt.Errorf("load config %q: parse yaml: %w", path, err)
	}

	for country, p := range file.FuelPrices {
		t.FuelPrices[strings.ToUpper(strings.TrimSpace(country))] = p
	}
	if file.SolveBudget > 0 {
		t.SolveBudget = file.SolveBudget
	}
	if file.MaxWaypoints > 0 {
		t.MaxWaypoints = file.MaxWaypoints
	}
	if file.MaxExactVehicles > 0 {
		t.MaxExactVehicles = file.MaxExactVehicles
	}
	if file.LegParallelism > 0 {
		t.LegParallelism = file.LegParallelism
	}
	if file.RateLimit > 0 {
		t.RateLimit = file.RateLimit
	}
	if file.RateBurst > 0 {
		t.RateBurst = file.RateBurst
	}
	if file.PlanCacheTTL > 0 {
		t.PlanCacheTTL = file.PlanCacheTTL
	}

	return t, nil
}

// Tracing reads the OpenTelemetry settings from OTEL_* variables.
func Tracing() obs.TracingConfig {
	return obs.TracingConfig{
		Enabled:     GetBool("OTEL_TRACING_ENABLED", false),
		ServiceName: Get("OTEL_SERVICE_NAME", "fleet-plan-service"),
		Exporter:    Get("OTEL_TRACES_EXPORTER", "stdout"),
		Endpoint:    Get("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SampleRatio: GetFloat("OTEL_TRACES_SAMPLER_ARG", 1),
	}
}
