// Package provider defines swappable request/response backends and the
// middleware that wraps them.
//
// Backends are registered by name and built from their configuration
// section:
//
//	reg := provider.NewRegistry[forcedalign.Provider]()
//	reg.RegisterFactory("replicate", replicate.Factory)
//	p, err := reg.Create("replicate", settings)
//
// Cross-cutting concerns are layered with Chain. The first middleware is
// the outermost:
//
//	wrapped := provider.Chain(
//	    provider.WithTracing[In, Out](),
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTimeout[In, Out](2*time.Minute),
//	)(provider.WithResilience(p, provider.ResilienceFromConfig("replicate", cfg)))
package provider
