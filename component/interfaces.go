package component

import "context"

// HealthStatus is the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is a component's health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a piece of infrastructure with a start/stop lifecycle.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is the one-line summary a component reports at startup.
type Description struct {
	// Name defaults to the component's Name() when empty.
	Name string
	// Type is a category such as "server" or "cache".
	Type string
	// Details is a short configuration summary, e.g. "localhost:6379 db=0".
	Details string
}

// Describable is implemented by components that report a startup summary.
type Describable interface {
	Describe() Description
}
