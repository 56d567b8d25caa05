package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"travel-matrix-service/internal/domain"
)

type Config struct {
	Port        string
	DBPath      string
	DatabaseURL string

	// Server-side fallback key; requests may still carry their own.
	GoogleMapsAPIKey string
	DefaultMode      domain.Mode

	MetricsAddr     string
	NATSURL         string
	LogNATSSubjects bool
}

func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.DBPath = getenvDefault("DB_PATH", "data/app.db")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.GoogleMapsAPIKey = strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY"))

	mode, err := domain.ParseMode(getenvDefault("DEFAULT_MODE", "driving"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MODE: %w", err)
	}
	cfg.DefaultMode = mode

	// Metrics listen address (e.g., ":9102"). Empty disables the metrics server.
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	// NATS URL. Empty disables run event publishing.
	cfg.NATSURL = os.Getenv("NATS_URL")

	if v := os.Getenv("LOG_NATS_SUBJECTS"); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			cfg.LogNATSSubjects = true
		default:
			cfg.LogNATSSubjects = false
		}
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
