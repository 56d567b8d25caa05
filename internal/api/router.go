package api

import (
	"net/http"

	"travel-matrix-service/internal/api/handlers"
	"travel-matrix-service/internal/domain"
	"travel-matrix-service/internal/metrics"
	"travel-matrix-service/internal/ports"
	"travel-matrix-service/internal/publisher"
)

// RouterOptions carries the dependencies handlers are wired with.
// Metrics and Events may be nil; both concerns degrade to no-ops.
type RouterOptions struct {
	Repo           ports.RunRepository
	NewProvider    func(apiKey string) (ports.TravelProvider, error)
	DefaultMode    domain.Mode
	FallbackAPIKey string
	Metrics        *metrics.Collector
	Events         *publisher.NATSPublisher
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(opts RouterOptions) http.Handler {
	mux := http.NewServeMux()

	matrixHandler := &handlers.MatrixHandler{
		Repo:           opts.Repo,
		NewProvider:    opts.NewProvider,
		DefaultMode:    opts.DefaultMode,
		FallbackAPIKey: opts.FallbackAPIKey,
		Metrics:        opts.Metrics,
		Events:         opts.Events,
	}
	runsHandler := &handlers.RunsHandler{Repo: opts.Repo}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/v1/matrix", matrixHandler.Compute)
	mux.HandleFunc("/api/v1/runs", runsHandler.List)
	mux.HandleFunc("/api/v1/runs/", runsHandler.Item)

	return requestIDMiddleware(loggingMiddleware(mux))
}
