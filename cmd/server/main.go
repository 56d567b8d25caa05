package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"travel-matrix-service/internal/adapters/googlemaps"
	"travel-matrix-service/internal/adapters/repositories"
	"travel-matrix-service/internal/api"
	"travel-matrix-service/internal/config"
	"travel-matrix-service/internal/metrics"
	"travel-matrix-service/internal/platform/db"
	"travel-matrix-service/internal/ports"
	"travel-matrix-service/internal/publisher"
)

// main is the application composition root.
// It wires concrete adapters (storage, Google Maps) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	sqlDB, repo, err := openRunStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	// Metrics are optional; unset METRICS_ADDR leaves the collector nil and
	// every metrics hook a no-op.
	var col *metrics.Collector
	if cfg.MetricsAddr != "" {
		col = metrics.NewCollector()
		col.Serve(cfg.MetricsAddr)
	}

	var events *publisher.NATSPublisher
	if cfg.NATSURL != "" {
		events, err = publisher.NewNATSPublisher(cfg.NATSURL, cfg.LogNATSSubjects, wrapPublisherMetrics(col))
		if err != nil {
			log.Fatalf("nats error: %v", err)
		}
		defer events.Close()
	}

	// Each request may carry its own API key, so providers are built per run.
	newProvider := func(apiKey string) (ports.TravelProvider, error) {
		client, err := googlemaps.NewClient(apiKey)
		if err != nil {
			return nil, err
		}
		return wrapProviderMetrics(client, col), nil
	}

	router := api.NewRouter(api.RouterOptions{
		Repo:           repo,
		NewProvider:    newProvider,
		DefaultMode:    cfg.DefaultMode,
		FallbackAPIKey: cfg.GoogleMapsAPIKey,
		Metrics:        col,
		Events:         events,
	})

	// Write timeout covers worst-case sequential row processing against the
	// external API.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openRunStore picks Postgres when DATABASE_URL is set, SQLite otherwise,
// and initializes the matching schema.
func openRunStore(cfg *config.Config) (*sql.DB, ports.RunRepository, error) {
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(sqlDB); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("open run store: %w", err)
		}
		return sqlDB, repositories.NewSQLRunRepository(sqlDB), nil
	}

	sqlDB, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("open run store: %w", err)
	}
	return sqlDB, repositories.NewSqliteRunRepository(sqlDB), nil
}

// wrapPublisherMetrics adapts the Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) NATSPublishedInc()              { p.c.NATSPublished.Inc() }
func (p *pubMetrics) NATSPublishErrInc()             { p.c.NATSPublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}

// wrapProviderMetrics times every provider lookup. With a nil collector the
// provider is returned unwrapped.
func wrapProviderMetrics(next ports.TravelProvider, c *metrics.Collector) ports.TravelProvider {
	if c == nil {
		return next
	}
	return &measuredProvider{next: next, c: c}
}

type measuredProvider struct {
	next ports.TravelProvider
	c    *metrics.Collector
}

func (p *measuredProvider) FetchTravel(ctx context.Context, q ports.TravelQuery) (*ports.TravelElement, error) {
	start := time.Now()
	el, err := p.next.FetchTravel(ctx, q)
	p.c.ProviderRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.c.ProviderRequestErrs.Inc()
	}
	return el, err
}
