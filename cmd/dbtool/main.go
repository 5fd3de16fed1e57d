package main

import (
	"database/sql"
	"fleet-plan-service/internal/adapters/repositories"
	"fleet-plan-service/internal/config"
	"fleet-plan-service/internal/platform/db"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// dbtool prepares the road distance cache: it creates the schema and loads
// known distances from a JSON seed file.
func main() {
	config.Load()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/road_distances.json")
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(db *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(db); err != nil {
		return err
	}
	log.Println("Schema ready.")

	log.Printf("Seeding road distances from %s...", seedPath)
	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
