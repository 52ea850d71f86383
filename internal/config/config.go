package config

import (
	"fmt"
	"os"
)

// Config carries everything the application needs from the
// environment, loaded once in main and passed down explicitly.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	Domain      string
	Seed        bool
}

func Load() (Config, error) {
	cfg := Config{
		Port:        os.Getenv("PORT"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Domain:      os.Getenv("DOMAIN"),
		Seed:        os.Getenv("SEED") == "true",
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return cfg, nil
}
