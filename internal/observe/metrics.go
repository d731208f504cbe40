// Package observe provides observability primitives for Phonoglyph:
// OpenTelemetry metrics and a Prometheus exporter bridge.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Phonoglyph metrics.
const meterName = "github.com/MrWong99/phonoglyph"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// PhonemizeDuration tracks end-to-end phonemize call latency.
	PhonemizeDuration metric.Float64Histogram

	// BackendDuration tracks per-segment grapheme-to-phoneme conversion
	// latency.
	BackendDuration metric.Float64Histogram

	// SegmentsPerCall tracks how many segments the chunker produced per call.
	SegmentsPerCall metric.Int64Histogram

	// PhonemizeRequests counts phonemize calls. Use with attributes:
	//   attribute.String("dialect", ...), attribute.String("status", ...)
	PhonemizeRequests metric.Int64Counter

	// BackendErrors counts failed backend conversions. Use with attribute:
	//   attribute.String("dialect", ...)
	BackendErrors metric.Int64Counter

	// ActiveStreams tracks the number of open streaming connections.
	ActiveStreams metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for text-pipeline latencies: in-process calls land in the sub-10 ms
// buckets, networked backends in the 25–500 ms range.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// segmentBuckets defines bucket boundaries for segments-per-call counts.
var segmentBuckets = []float64{
	1, 2, 4, 8, 16, 32, 64, 128,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.PhonemizeDuration, err = m.Float64Histogram("phonoglyph.phonemize.duration",
		metric.WithDescription("End-to-end latency of phonemize calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.BackendDuration, err = m.Float64Histogram("phonoglyph.backend.duration",
		metric.WithDescription("Latency of per-segment grapheme-to-phoneme conversion."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SegmentsPerCall, err = m.Int64Histogram("phonoglyph.phonemize.segments",
		metric.WithDescription("Segments produced by the chunker per phonemize call."),
		metric.WithExplicitBucketBoundaries(segmentBuckets...),
	); err != nil {
		return nil, err
	}

	if met.PhonemizeRequests, err = m.Int64Counter("phonoglyph.phonemize.requests",
		metric.WithDescription("Total phonemize calls by dialect and status."),
	); err != nil {
		return nil, err
	}
	if met.BackendErrors, err = m.Int64Counter("phonoglyph.backend.errors",
		metric.WithDescription("Total failed backend conversions by dialect."),
	); err != nil {
		return nil, err
	}

	if met.ActiveStreams, err = m.Int64UpDownCounter("phonoglyph.active_streams",
		metric.WithDescription("Number of open streaming phonemization connections."),
	); err != nil {
		return nil, err
	}

	if met.HTTPRequestDuration, err = m.Float64Histogram("phonoglyph.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordPhonemizeRequest records a phonemize call counter increment with the
// standard attribute set.
func (m *Metrics) RecordPhonemizeRequest(ctx context.Context, dialect, status string) {
	m.PhonemizeRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("dialect", dialect),
			attribute.String("status", status),
		),
	)
}

// RecordBackendError records a backend error counter increment.
func (m *Metrics) RecordBackendError(ctx context.Context, dialect string) {
	m.BackendErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("dialect", dialect)),
	)
}
