package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/taskdeck/taskdeck/db"
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if cfg.Seed {
		if err := db.Seed(database); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	r := router.New(database, tokens, cfg)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
