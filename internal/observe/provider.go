package observe

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ProviderConfig configures the OpenTelemetry SDK providers.
type ProviderConfig struct {
	// ServiceName is the service name reported in telemetry.
	// Default: "taskmill".
	ServiceName string

	// ServiceVersion is the service version reported in telemetry.
	ServiceVersion string

	// Registry is the Prometheus registry metrics are exported into. When
	// nil a new registry is created; retrieve it from the returned Setup to
	// serve /metrics.
	Registry *prometheus.Registry
}

// Setup is the result of [InitProvider]: the Prometheus registry to scrape
// and a shutdown function flushing the SDK, to be deferred from main.
type Setup struct {
	Registry *prometheus.Registry
	Shutdown func(context.Context) error
}

// InitProvider initialises the OTel metrics SDK with a Prometheus exporter
// bridge and registers it as the global meter provider, so instruments built
// via [DefaultMetrics] or [NewMetrics] on the global provider are scrapable
// from /metrics.
func InitProvider(ctx context.Context, cfg ProviderConfig) (*Setup, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "taskmill"
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(cfg.Registry))
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	return &Setup{
		Registry: cfg.Registry,
		Shutdown: mp.Shutdown,
	}, nil
}
