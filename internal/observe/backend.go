package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/MrWong99/phonoglyph/pkg/g2p"
)

// Compile-time interface assertion.
var _ g2p.Backend = (*TimedBackend)(nil)

// TimedBackend decorates a [g2p.Backend] with conversion metrics: a latency
// histogram per dialect and an error counter. It adds no behaviour beyond
// recording and is safe for concurrent use whenever the wrapped backend is.
type TimedBackend struct {
	next    g2p.Backend
	metrics *Metrics
}

// WrapBackend returns next decorated with conversion metrics recorded on m.
func WrapBackend(next g2p.Backend, m *Metrics) *TimedBackend {
	return &TimedBackend{next: next, metrics: m}
}

// Convert delegates to the wrapped backend and records the outcome.
func (b *TimedBackend) Convert(ctx context.Context, text string, dialect g2p.Dialect) (string, error) {
	start := time.Now()
	out, err := b.next.Convert(ctx, text, dialect)
	b.metrics.BackendDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("dialect", string(dialect))),
	)
	if err != nil {
		b.metrics.RecordBackendError(ctx, string(dialect))
	}
	return out, err
}
