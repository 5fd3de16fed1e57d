package main

import (
	"context"
	"database/sql"
	"errors"
	"fleet-plan-service/internal/adapters/cache"
	"fleet-plan-service/internal/adapters/distance"
	"fleet-plan-service/internal/adapters/repositories"
	"fleet-plan-service/internal/api"
	"fleet-plan-service/internal/config"
	"fleet-plan-service/internal/platform/db"
	"fleet-plan-service/internal/platform/obs"
	"fleet-plan-service/internal/ports"
	"fleet-plan-service/internal/services"
	"fleet-plan-service/internal/state"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Google) behind ports and starts the HTTP server.
func main() {
	config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tuning, err := config.LoadFile(config.Get("FLEET_CONFIG_PATH", ""))
	if err != nil {
		log.Fatal(err)
	}

	shutdownTracing, err := obs.InitTracing(ctx, config.Tracing())
	if err != nil {
		log.Fatal(err)
	}
	defer obs.ShutdownTracing(shutdownTracing)

	metrics, err := obs.NewCollector(nil)
	if err != nil {
		log.Fatal(err)
	}

	// Road distances come from Google when a key is set, otherwise from the
	// great-circle estimate. Postgres, when configured, caches provider answers.
	var distances services.RoadDistances
	if apiKey := config.Get("GOOGLE_MAPS_API_KEY", ""); apiKey != "" {
		var distanceCache ports.DistanceCache
		if databaseURL := config.Get("DATABASE_URL", ""); databaseURL != "" {
			conn, err := openCacheDB(databaseURL)
			if err != nil {
				log.Fatal(err)
			}
			defer conn.Close()
			distanceCache = cache.NewSQLDistanceCache(conn, config.GetDuration("DISTANCE_CACHE_MAX_AGE", 30*24*time.Hour))
		}

		provider, err := distance.NewGoogleDistanceProvider(apiKey, distanceCache)
		if err != nil {
			log.Fatal(err)
		}
		distances.Provider = provider
	} else {
		log.Println("GOOGLE_MAPS_API_KEY not set (road distances are great-circle estimates)")
	}

	planner := &services.Planner{
		Routes: services.RouteOptimizer{MaxWaypoints: tuning.MaxWaypoints},
		Capacity: services.CapacityOptimizer{
			MaxExactVehicles: tuning.MaxExactVehicles,
			Budget:           tuning.SolveBudget,
		},
		Parallelism: tuning.LegParallelism,
		CacheTTL:    tuning.PlanCacheTTL,
		Metrics:     metrics,
	}
	if redisURL := config.Get("REDIS_URL", ""); redisURL != "" {
		planCache, err := cache.NewRedisPlanCacheFromURL(ctx, redisURL, config.Get("REDIS_PREFIX", "fleet:"))
		if err != nil {
			log.Fatal(err)
		}
		defer planCache.Close()
		planner.Cache = planCache
	}

	router := api.NewRouter(api.Deps{
		Store:     state.NewStore(),
		Planner:   planner,
		Distances: distances,
		Fuel:      tuning.FuelPrices,
		Metrics:   metrics,
		RateLimit: tuning.RateLimit,
		RateBurst: tuning.RateBurst,
	})

	port := config.Get("PORT", "8080")

	// Timeouts leave room for road distance lookups during network uploads.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown failed: %v", err)
	}
}

func openCacheDB(databaseURL string) (*sql.DB, error) {
	conn, err := db.Open(databaseURL)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
