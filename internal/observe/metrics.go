// Package observe provides application-wide observability primitives:
// OpenTelemetry metrics and HTTP middleware tying them to structured logs.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so metrics can be scraped
// from the standard /metrics endpoint. A package-level default [Metrics]
// instance ([DefaultMetrics]) is provided for convenience; tests should use
// [NewMetrics] with a custom [metric.MeterProvider] to avoid cross-test
// pollution.
package observe

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope name used for all taskmill metrics.
const meterName = "github.com/taskmill/taskmill"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// ExtractionDuration tracks end-to-end extraction latency per
	// transcript. Use with attribute.String("extractor", ...).
	ExtractionDuration metric.Float64Histogram

	// ProviderRequests counts completion-service calls. Use with attributes:
	//   attribute.String("model", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// ProviderErrors counts completion-service failures by kind. Use with:
	//   attribute.String("model", ...), attribute.String("kind", ...)
	ProviderErrors metric.Int64Counter

	// TasksExtracted counts tasks produced per extraction. Use with
	// attribute.String("extractor", ...).
	TasksExtracted metric.Int64Counter

	// TasksUnassigned counts dispositions by unassigned reason. Use with
	// attribute.String("reason", ...).
	TasksUnassigned metric.Int64Counter

	// HTTPRequestDuration tracks HTTP handler latency in seconds.
	HTTPRequestDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments on the given meter provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}

	var err error
	if m.ExtractionDuration, err = meter.Float64Histogram(
		"taskmill.extraction.duration",
		metric.WithDescription("End-to-end transcript extraction latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.ProviderRequests, err = meter.Int64Counter(
		"taskmill.provider.requests",
		metric.WithDescription("Completion-service calls"),
	); err != nil {
		return nil, err
	}
	if m.ProviderErrors, err = meter.Int64Counter(
		"taskmill.provider.errors",
		metric.WithDescription("Completion-service failures"),
	); err != nil {
		return nil, err
	}
	if m.TasksExtracted, err = meter.Int64Counter(
		"taskmill.tasks.extracted",
		metric.WithDescription("Tasks produced by extraction"),
	); err != nil {
		return nil, err
	}
	if m.TasksUnassigned, err = meter.Int64Counter(
		"taskmill.tasks.unassigned",
		metric.WithDescription("Unassigned dispositions by reason"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"taskmill.http.request.duration",
		metric.WithDescription("HTTP handler latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the process-wide [Metrics] instance built on the
// global OTel meter provider. Call [InitProvider] first so the global
// provider exports somewhere useful.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			// Instrument creation only fails on invalid names; fall back
			// to no-op instruments rather than crashing.
			m, _ = NewMetrics(noop.NewMeterProvider())
		}
		defaultMetrics = m
	})
	return defaultMetrics
}
