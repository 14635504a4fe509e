package observability

import (
	"context"
	"fmt"

	"github.com/Kiran-879/ResumePilot/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Metrics holds the custom metrics for the ResumePilot client. HTTP-level
// spans and request metrics come from the otelhttp transport; these cover the
// domain above it.
type Metrics struct {
	UploadsStarted     metric.Int64Counter
	DownloadsCompleted metric.Int64Counter
	DownloadBytes      metric.Int64Histogram
	LoginAttempts      metric.Int64Counter
	DashboardRefreshes metric.Int64Counter
	SessionExpiries    metric.Int64Counter
}

// Manager manages OpenTelemetry setup for the client.
type Manager struct {
	config         config.ObservabilityConfig
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewManager wires tracing and metrics per configuration. When observability
// is disabled it returns an inert manager whose accessors are safe to use.
func NewManager(cfg config.ObservabilityConfig) (*Manager, error) {
	m := &Manager{config: cfg}
	if !cfg.Enabled {
		return m, nil
	}

	res, err := m.buildResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := m.initTracing(res); err != nil {
		return nil, err
	}
	if err := m.initMetrics(res); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) buildResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.config.ServiceName),
			semconv.ServiceVersion(m.config.ServiceVersion),
		),
	)
}

// initTracing sets up the tracer provider behind the global otel API, which
// is where the otelhttp client transport finds it.
func (m *Manager) initTracing(res *resource.Resource) error {
	if !m.config.Tracing.Enabled {
		return nil
	}

	var exporter trace.SpanExporter
	var err error

	switch {
	case m.config.ConsoleOutput || m.config.Console.Enabled:
		opts := []stdouttrace.Option{}
		if m.config.Console.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(opts...)
	case m.config.OTLP.Enabled:
		exporter, err = m.createOTLPTraceExporter()
	default:
		exporter = &noOpSpanExporter{}
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	sampleRate := m.config.Tracing.SampleRate
	if sampleRate <= 0 {
		sampleRate = m.config.SampleRate
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(sampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

// initMetrics sets up the meter provider and custom metrics.
func (m *Manager) initMetrics(res *resource.Resource) error {
	if !m.config.Metrics.Enabled {
		return nil
	}

	var readers []sdkmetric.Reader

	if m.config.ConsoleOutput || m.config.Console.Enabled {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(m.config.Metrics.CollectionInterval)))
	}

	if m.config.OTLP.Enabled {
		reader, err := m.createOTLPMetricsReader()
		if err != nil {
			return fmt.Errorf("failed to create OTLP metrics reader: %w", err)
		}
		readers = append(readers, reader)
	}

	if m.config.Prometheus.Enabled {
		reader, err := SetupPrometheusExporter()
		if err != nil {
			return fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		readers = append(readers, reader)
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	options := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		options = append(options, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(options...)
	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	return m.initCustomMetrics()
}

func (m *Manager) initCustomMetrics() error {
	meter := m.meterProvider.Meter(m.config.ServiceName)
	m.metrics = &Metrics{}
	var err error

	if m.metrics.UploadsStarted, err = meter.Int64Counter(
		"resumepilot_uploads_total",
		metric.WithDescription("Resume and job description uploads started"),
	); err != nil {
		return err
	}
	if m.metrics.DownloadsCompleted, err = meter.Int64Counter(
		"resumepilot_downloads_total",
		metric.WithDescription("Binary downloads completed"),
	); err != nil {
		return err
	}
	if m.metrics.DownloadBytes, err = meter.Int64Histogram(
		"resumepilot_download_bytes",
		metric.WithDescription("Size of completed binary downloads"),
		metric.WithUnit("By"),
	); err != nil {
		return err
	}
	if m.metrics.LoginAttempts, err = meter.Int64Counter(
		"resumepilot_login_attempts_total",
		metric.WithDescription("Login attempts by outcome"),
	); err != nil {
		return err
	}
	if m.metrics.DashboardRefreshes, err = meter.Int64Counter(
		"resumepilot_dashboard_refreshes_total",
		metric.WithDescription("Dashboard data refreshes in watch mode"),
	); err != nil {
		return err
	}
	if m.metrics.SessionExpiries, err = meter.Int64Counter(
		"resumepilot_session_expiries_total",
		metric.WithDescription("Sessions ended by a 401 from the API"),
	); err != nil {
		return err
	}
	return nil
}

// GetMetrics returns the custom metrics, or nil when metrics are disabled.
func (m *Manager) GetMetrics() *Metrics {
	return m.metrics
}

// Tracer returns a tracer, falling back to a no-op when tracing is disabled.
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if m.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// Shutdown flushes and stops all providers.
func (m *Manager) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, fn := range m.shutdownFuncs {
		if err := fn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Manager) createOTLPTraceExporter() (trace.SpanExporter, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(m.config.OTLP.Endpoint),
	}
	if m.config.OTLP.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(m.config.OTLP.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(m.config.OTLP.Headers))
	}
	return otlptracehttp.New(context.Background(), opts...)
}

func (m *Manager) createOTLPMetricsReader() (sdkmetric.Reader, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(m.config.OTLP.Endpoint),
	}
	if m.config.OTLP.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(m.config.OTLP.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(m.config.OTLP.Headers))
	}
	exporter, err := otlpmetrichttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithInterval(m.config.Metrics.CollectionInterval)), nil
}

// noOpSpanExporter drops spans when no exporter is configured.
type noOpSpanExporter struct{}

func (e *noOpSpanExporter) ExportSpans(context.Context, []trace.ReadOnlySpan) error {
	return nil
}

func (e *noOpSpanExporter) Shutdown(context.Context) error {
	return nil
}
