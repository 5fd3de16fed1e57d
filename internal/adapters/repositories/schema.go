package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fleet-plan-service/internal/domain"
	"fmt"
	"math"
	"os"
)

// InitSchema creates the Postgres road distance cache tables.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS road_distance_cache (
		origin_key TEXT NOT NULL,
		destination_key TEXT NOT NULL,
		distance_meters INTEGER NOT NULL,
		duration_seconds INTEGER NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin_key, destination_key)
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_road_distance_cache_fetched_at
	ON road_distance_cache(fetched_at);
	`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}
	return nil
}

type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceSeed is one known road distance, e.g. exported from an earlier run.
type DistanceSeed struct {
	From            point `json:"from"`
	To              point `json:"to"`
	DistanceMeters  int   `json:"distance_meters"`
	DurationSeconds int   `json:"duration_seconds"`
}

func (p point) coordinates() (domain.Coordinates, error) {
	if math.Abs(p.Lat) > 90 || math.Abs(p.Lon) > 180 {
		return domain.Coordinates{}, fmt.Errorf("coordinate out of range: %v,%v", p.Lat, p.Lon)
	}
	return domain.Coordinates{Lat: p.Lat, Lon: p.Lon}, nil
}

// SeedFromJSON loads road distances from a JSON array of DistanceSeed into the cache.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed distances: read %q: %w", jsonPath, err)
	}

	var data []DistanceSeed
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("seed distances: parse json: %w", err)
	}

	type row struct {
		origin, dest    string
		meters, seconds int
	}
	rows := make([]row, 0, len(data))
	for i, item := range data {
		from, err := item.From.coordinates()
		if err != nil {
			return fmt.Errorf("seed distances: item %d from: %w", i+1, err)
		}
		to, err := item.To.coordinates()
		if err != nil {
			return fmt.Errorf("seed distances: item %d to: %w", i+1, err)
		}
		if item.DistanceMeters < 0 || item.DurationSeconds < 0 {
			return fmt.Errorf("seed distances: item %d: distance and duration must be non-negative", i+1)
		}
		rows = append(rows, row{from.Key(), to.Key(), item.DistanceMeters, item.DurationSeconds})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed distances: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT INTO road_distance_cache (origin_key, destination_key, distance_meters, duration_seconds)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (origin_key, destination_key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		fetched_at = now();
	`)
	if err != nil {
		return fmt.Errorf("seed distances: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.origin, r.dest, r.meters, r.seconds); err != nil {
			return fmt.Errorf("seed distances: insert %s -> %s: %w", r.origin, r.dest, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed distances: commit tx: %w", err)
	}
	return nil
}
