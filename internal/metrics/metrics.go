package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	RunsCompleted prometheus.Counter
	RowsProcessed prometheus.Counter
	RowsSkipped   *prometheus.CounterVec // stage label: transform|query|status|extract

	ProviderRequestErrs prometheus.Counter

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge

	RunDuration             prometheus.Histogram
	ProviderRequestDuration prometheus.Histogram
	PublishDuration         prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_matrix_runs_total",
			Help: "Total matrix runs completed.",
		}),
		RowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_matrix_rows_processed_total",
			Help: "Total rows that produced a result.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travel_matrix_rows_skipped_total",
			Help: "Total rows skipped, by pipeline stage.",
		}, []string{"stage"}),
		ProviderRequestErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_matrix_provider_request_errors_total",
			Help: "Total failed travel provider lookups.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_matrix_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travel_matrix_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "travel_matrix_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "travel_matrix_run_duration_seconds",
			Help:    "Duration of full matrix runs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 15),
		}),
		ProviderRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "travel_matrix_provider_request_duration_seconds",
			Help:    "Duration of individual travel provider lookups.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "travel_matrix_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
	}

	// Register
	reg.MustRegister(
		c.RunsCompleted, c.RowsProcessed, c.RowsSkipped,
		c.ProviderRequestErrs,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
		c.RunDuration, c.ProviderRequestDuration, c.PublishDuration,
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
