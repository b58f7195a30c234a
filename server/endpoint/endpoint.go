// Package endpoint provides the operational HTTP handlers.
package endpoint

import (
	"context"

	"github.com/kbukum/aligner/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// HealthExtra adds a top-level field to the /health body.
type HealthExtra func(ctx context.Context) (key string, value any)

// StatsFunc returns a JSON-encodable snapshot for /metrics.
type StatsFunc func() any

// Config wires the endpoints to the application.
type Config struct {
	ServiceName string
	Checker     HealthChecker
	Extras      []HealthExtra
	// Stats are reported under their key in /metrics.
	Stats map[string]StatsFunc
}
