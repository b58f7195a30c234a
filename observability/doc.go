// Package observability wires OpenTelemetry tracing and metrics for the
// alignment service.
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{Name: "alignment-service"})
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter())
//	metrics.RecordAlignment(ctx, result)
//
// When export is disabled the global no-op providers are used, so spans
// and instruments can be created unconditionally.
package observability
