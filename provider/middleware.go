package provider

import (
	"context"
	"time"
)

// Middleware wraps a RequestResponse provider with cross-cutting behavior.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares so that the first one is outermost:
// Chain(a, b, c)(p) == a(b(c(p))).
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for i := len(middlewares) - 1; i >= 0; i-- {
			inner = middlewares[i](inner)
		}
		return inner
	}
}

// WithTimeout bounds every Execute call by d. A non-positive d disables it.
func WithTimeout[I, O any](d time.Duration) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		if d <= 0 {
			return inner
		}
		return &timeoutRR[I, O]{inner: inner, timeout: d}
	}
}

type timeoutRR[I, O any] struct {
	inner   RequestResponse[I, O]
	timeout time.Duration
}

func (t *timeoutRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *timeoutRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *timeoutRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Execute(ctx, input)
}
