package provider

import (
	"context"
	"time"

	"github.com/kbukum/aligner/observability"
)

// WithMetrics records the count and duration of Execute calls. A nil
// metrics set makes it a passthrough.
func WithMetrics[I, O any](metrics *observability.Metrics) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if metrics == nil {
			return inner
		}
		return &metricsRR[I, O]{inner: inner, metrics: metrics}
	}
}

type metricsRR[I, O any] struct {
	inner   RequestResponse[I, O]
	metrics *observability.Metrics
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
	}
	m.metrics.RecordProviderCall(ctx, m.inner.Name(), status, time.Since(start))
	return output, err
}
