package main

import (
	"context"
	"flag"
	"log"

	"labattend/internal/config"
	"labattend/internal/store"
)

// resetdb drops and recreates every table. Development only.
func main() {
	yes := flag.Bool("yes", false, "confirm that all data in DB_PATH may be destroyed")
	flag.Parse()

	cfg := config.Load()
	if !*yes {
		log.Fatalf("refusing to recreate %s without -yes", cfg.DBPath)
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := db.Recreate(context.Background()); err != nil {
		log.Fatalf("recreate failed: %v", err)
	}
	log.Printf("Database recreated at %s", cfg.DBPath)
}
