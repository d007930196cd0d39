package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	ServiceName    = "gridpulse"
	ServiceVersion = "1.2.0"
	MeterName      = "gridpulse"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableMetrics  bool
	EnableTracing  bool
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	PrometheusHTTP http.Handler
	Logger         *slog.Logger
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: ServiceVersion,
		Environment:    env,
		EnableMetrics:  true,
		EnableTracing:  true,
		SampleRatio:    1.0,
	}
}

// InitializeOTel initializes OpenTelemetry metrics and tracing.
// Metrics are exported through a Prometheus registry served by the
// returned handler; traces go to stdout for development use.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attribute.String("environment", cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	providers := &OTelProviders{Logger: logger}

	if cfg.EnableMetrics {
		// dedicated registry so repeated initialization never collides
		// with the process-global default registerer
		registry := promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		providers.MeterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		otel.SetMeterProvider(providers.MeterProvider)
		providers.Meter = providers.MeterProvider.Meter(MeterName)
		providers.PrometheusHTTP = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	if cfg.EnableTracing {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		providers.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		)
		otel.SetTracerProvider(providers.TracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		providers.Tracer = providers.TracerProvider.Tracer(ServiceName)
	}

	logger.Info("OpenTelemetry initialized",
		slog.Bool("metrics", cfg.EnableMetrics),
		slog.Bool("tracing", cfg.EnableTracing),
		slog.String("environment", cfg.Environment))

	return providers, nil
}

// Shutdown flushes and stops the providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown tracer provider: %w", err)
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown meter provider: %w", err)
		}
	}
	return nil
}

// HTTPMetrics bundles the HTTP server instruments recorded by the
// request middleware.
type HTTPMetrics struct {
	RequestsTotal   metric.Int64Counter
	RequestDuration metric.Float64Histogram
	ActiveRequests  metric.Int64UpDownCounter
}

// CreateHTTPMetrics creates the HTTP instruments on the given meter.
func CreateHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter("gridpulse_http_requests_total",
		metric.WithDescription("HTTP requests served"))
	if err != nil {
		return nil, fmt.Errorf("create http requests counter: %w", err)
	}

	duration, err := meter.Float64Histogram("gridpulse_http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create http duration histogram: %w", err)
	}

	active, err := meter.Int64UpDownCounter("gridpulse_http_active_requests",
		metric.WithDescription("In-flight HTTP requests"))
	if err != nil {
		return nil, fmt.Errorf("create active requests counter: %w", err)
	}

	return &HTTPMetrics{
		RequestsTotal:   requests,
		RequestDuration: duration,
		ActiveRequests:  active,
	}, nil
}

// PipelineMetrics bundles the domain instruments recorded by the
// services and the pipeline manager.
type PipelineMetrics struct {
	DatasetLoads       metric.Int64Counter
	Extractions        metric.Int64Counter
	ExtractionDuration metric.Float64Histogram
	IntensityRequests  metric.Int64Counter
}

// NewPipelineMetrics creates the domain instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	loads, err := meter.Int64Counter("gridpulse_dataset_loads_total",
		metric.WithDescription("Bulk dataset load operations"))
	if err != nil {
		return nil, fmt.Errorf("create dataset loads counter: %w", err)
	}

	extractions, err := meter.Int64Counter("gridpulse_extractions_total",
		metric.WithDescription("Range extractions performed"))
	if err != nil {
		return nil, fmt.Errorf("create extractions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("gridpulse_extraction_duration_seconds",
		metric.WithDescription("Range extraction latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("create extraction duration histogram: %w", err)
	}

	requests, err := meter.Int64Counter("gridpulse_intensity_requests_total",
		metric.WithDescription("Carbon intensity computations served"))
	if err != nil {
		return nil, fmt.Errorf("create intensity requests counter: %w", err)
	}

	return &PipelineMetrics{
		DatasetLoads:       loads,
		Extractions:        extractions,
		ExtractionDuration: duration,
		IntensityRequests:  requests,
	}, nil
}

// RecordExtraction records one extraction with its latency and authority.
func (m *PipelineMetrics) RecordExtraction(ctx context.Context, authority string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("authority", authority))
	m.Extractions.Add(ctx, 1, attrs)
	m.ExtractionDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordIntensityRequest counts one served intensity computation.
func (m *PipelineMetrics) RecordIntensityRequest(ctx context.Context, authority string) {
	if m == nil {
		return
	}
	m.IntensityRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("authority", authority)))
}

// RecordDatasetLoad counts one bulk dataset load.
func (m *PipelineMetrics) RecordDatasetLoad(ctx context.Context) {
	if m == nil {
		return
	}
	m.DatasetLoads.Add(ctx, 1)
}
