package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/shinjidev/shinji-catalog/internal/config"
	"github.com/shinjidev/shinji-catalog/internal/database"
	"github.com/shinjidev/shinji-catalog/internal/importer"
	"github.com/shinjidev/shinji-catalog/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.OpenDB(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	imp := &importer.Importer{
		FeedURL:  cfg.FeedURL,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Store:    store.NewImportStore(db),
		PageSize: 100,
	}

	log.Printf("Importing catalog from %s...", cfg.FeedURL)
	if err := imp.Run(context.Background()); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Println("Import finished successfully")
}
