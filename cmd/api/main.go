package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/shinjidev/shinji-catalog/internal/config"
	"github.com/shinjidev/shinji-catalog/internal/database"
	"github.com/shinjidev/shinji-catalog/internal/handlers"
	"github.com/shinjidev/shinji-catalog/internal/routes"
	"github.com/shinjidev/shinji-catalog/internal/storage"
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

	bucket, err := storage.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	app := &handlers.Handlers{
		Products:      store.NewProductStore(db),
		Categories:    store.NewCategoryStore(db),
		Storage:       bucket,
		QueryTimeout:  cfg.QueryTimeout,
		UploadTimeout: cfg.UploadTimeout,
	}

	router := routes.SetupRouter(app)

	log.Printf("Starting catalog API server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
