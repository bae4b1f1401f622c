package main

import (
	"canvas-studio-backend/internal/api"
	"canvas-studio-backend/internal/api/routes"
	v1 "canvas-studio-backend/internal/api/routes/v1"
	"canvas-studio-backend/internal/config"
	"canvas-studio-backend/internal/libraries"
	"canvas-studio-backend/internal/repo"
	"canvas-studio-backend/internal/services"
	"context"
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	var boardRepo repo.BoardRepoInterface
	var boardDataRepo repo.BoardDataRepoInterface
	if cfg.StoreDriver == config.StoreDriverPostgres {
		// Connect to database
		if err := config.ConnectDB(cfg.DBURL); err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer config.CloseDB()

		// Run migrations
		if err := config.MigrateAllModels(cfg.RunMigrations); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		boardRepo = repo.NewBoardRepository(config.DB)
		boardDataRepo = repo.NewBoardDataRepository(config.DB)
	} else {
		log.Println("🧠 Using in-memory store, boards are lost on restart")
		boardRepo = repo.NewMemoryBoardRepository()
		boardDataRepo = repo.NewMemoryBoardDataRepository()
	}

	opts := []services.Option{
		services.WithTextMeasurer(libraries.NewFontMeasurer()),
		services.WithSnapThreshold(cfg.SnapThreshold),
	}
	if cfg.SnapshotsEnabled() {
		clients, err := libraries.NewClients(context.Background(), cfg.GCPServiceCredentials, cfg.GCSBucket)
		if err != nil {
			log.Printf("Warning: snapshot export disabled: %v", err)
		} else {
			defer clients.Close()
			opts = append(opts, services.WithSnapshotExporter(libraries.NewGCSSnapshotExporter(clients)))
			log.Printf("☁️ Snapshots export to gs://%s", cfg.GCSBucket)
		}
	}
	service := services.NewBoardService(boardDataRepo, opts...)

	hub := libraries.NewHub()
	go hub.Run()

	// Create and configure Fiber app
	app := api.NewServer()

	// Register routes
	routes.Register(app, v1.Dependencies{
		BoardRepo: boardRepo,
		Service:   service,
		Hub:       hub,
	})

	// Start server
	if err := api.StartServer(app, cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
