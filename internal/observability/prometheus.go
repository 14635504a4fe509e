package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Kiran-879/ResumePilot/internal/config"
	apperrors "github.com/Kiran-879/ResumePilot/internal/errors"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// SetupPrometheusExporter creates a Prometheus metrics reader registered on
// the default registry, which is the registry promhttp.Handler serves.
func SetupPrometheusExporter() (metric.Reader, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}
	return exporter, nil
}

// StartPrometheusServer serves the /metrics endpoint in the background. It is
// only started in dashboard watch mode; one-shot commands have no scrape
// target worth exposing. The returned shutdown func stops the server.
func StartPrometheusServer(cfg config.PrometheusConfig, logger *apperrors.Logger) func(context.Context) error {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "/metrics"
	}
	port := cfg.Port
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Prometheus metrics server starting",
			"addr", server.Addr,
			"endpoint", endpoint)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogError(err, "Prometheus server stopped")
		}
	}()

	return server.Shutdown
}
