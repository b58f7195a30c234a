package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/aligner/alignment"
	"github.com/kbukum/aligner/logger"
)

// Status attribute values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// InitMeter installs a global meter provider exporting over OTLP/HTTP.
func InitMeter(ctx context.Context, cfg Config, svc ServiceInfo) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(svc)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))
	return mp, nil
}

// Meter returns a meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the alignment service instruments. All methods are safe on
// a nil receiver.
type Metrics struct {
	requests         metric.Int64Counter
	requestDuration  metric.Float64Histogram
	providerCalls    metric.Int64Counter
	providerDuration metric.Float64Histogram
	segments         metric.Int64Counter
	confidence       metric.Float64Histogram
	cacheLookups     metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.requests, err = meter.Int64Counter("aligner.requests",
		metric.WithDescription("Alignment requests by outcome")); err != nil {
		return nil, fmt.Errorf("creating aligner.requests: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("aligner.request.duration",
		metric.WithDescription("End-to-end alignment duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating aligner.request.duration: %w", err)
	}
	if m.providerCalls, err = meter.Int64Counter("aligner.provider.calls",
		metric.WithDescription("Forced-alignment provider calls by provider and outcome")); err != nil {
		return nil, fmt.Errorf("creating aligner.provider.calls: %w", err)
	}
	if m.providerDuration, err = meter.Float64Histogram("aligner.provider.duration",
		metric.WithDescription("Forced-alignment provider call duration"), metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("creating aligner.provider.duration: %w", err)
	}
	if m.segments, err = meter.Int64Counter("aligner.segments",
		metric.WithDescription("Aligned segments by outcome")); err != nil {
		return nil, fmt.Errorf("creating aligner.segments: %w", err)
	}
	if m.confidence, err = meter.Float64Histogram("aligner.segment.confidence",
		metric.WithDescription("Per-segment alignment confidence"),
		metric.WithExplicitBucketBoundaries(0, 0.2, 0.4, 0.5, 0.6, 0.8, 0.9, 1)); err != nil {
		return nil, fmt.Errorf("creating aligner.segment.confidence: %w", err)
	}
	if m.cacheLookups, err = meter.Int64Counter("aligner.cache.lookups",
		metric.WithDescription("Word stream cache lookups by result")); err != nil {
		return nil, fmt.Errorf("creating aligner.cache.lookups: %w", err)
	}
	return &m, nil
}

// RecordRequest records one finished alignment request.
func (m *Metrics) RecordRequest(ctx context.Context, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.requestDuration.Record(ctx, d.Seconds())
}

// RecordProviderCall records one forced-alignment provider call.
func (m *Metrics) RecordProviderCall(ctx context.Context, provider, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
	m.providerDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("provider", provider)))
}

// RecordAlignment records segment outcomes and confidences of a result.
func (m *Metrics) RecordAlignment(ctx context.Context, res alignment.Result) {
	if m == nil {
		return
	}
	s := res.Summary
	for outcome, n := range map[string]int{"matched": s.Matched, "unmatched": s.Unmatched, "repaired": s.Repaired} {
		if n > 0 {
			m.segments.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", outcome)))
		}
	}
	for _, seg := range res.Segments {
		m.confidence.Record(ctx, seg.Confidence)
	}
}

// RecordCacheLookup records a word stream cache hit or miss.
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
