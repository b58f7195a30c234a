package provider

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/resilience"
)

// ResilienceConfig selects the policies applied around a provider. Nil
// fields are skipped.
type ResilienceConfig struct {
	Bulkhead       *resilience.BulkheadConfig
	CircuitBreaker *resilience.CircuitBreakerConfig
	Retry          *resilience.RetryConfig
}

// IsEmpty reports whether no policy is configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.Bulkhead == nil && c.CircuitBreaker == nil && c.Retry == nil
}

// ResilienceFromConfig builds a ResilienceConfig for the named provider from
// file settings. A disabled config yields an empty one.
func ResilienceFromConfig(name string, cfg resilience.Config) ResilienceConfig {
	if !cfg.Enabled {
		return ResilienceConfig{}
	}
	cfg.ApplyDefaults()
	bh := cfg.BulkheadConfig(name)
	cb := cfg.CircuitBreakerConfig(name)
	retry := cfg.RetryConfig()
	return ResilienceConfig{Bulkhead: &bh, CircuitBreaker: &cb, Retry: &retry}
}

// WithResilience wraps p so that each call passes through
// Bulkhead, then CircuitBreaker, then Retry. An empty config returns p.
func WithResilience[I, O any](p RequestResponse[I, O], cfg ResilienceConfig) RequestResponse[I, O] {
	if cfg.IsEmpty() {
		return p
	}
	r := &resilientRR[I, O]{inner: p, retry: cfg.Retry}
	if cfg.Bulkhead != nil {
		r.bh = resilience.NewBulkhead(*cfg.Bulkhead)
	}
	if cfg.CircuitBreaker != nil {
		r.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	return r
}

type resilientRR[I, O any] struct {
	inner RequestResponse[I, O]
	bh    *resilience.Bulkhead
	cb    *resilience.CircuitBreaker
	retry *resilience.RetryConfig
}

func (r *resilientRR[I, O]) Name() string { return r.inner.Name() }

// IsAvailable is false while the circuit is open.
func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool {
	if r.cb != nil && r.cb.State() == resilience.StateOpen {
		return false
	}
	return r.inner.IsAvailable(ctx)
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	call := func() (O, error) { return r.inner.Execute(ctx, input) }

	if r.retry != nil {
		inner := call
		call = func() (O, error) { return resilience.Retry(ctx, *r.retry, inner) }
	}
	if r.cb != nil {
		inner := call
		call = func() (O, error) {
			var out O
			err := r.cb.Execute(func() error {
				var err error
				out, err = inner()
				return err
			})
			return out, err
		}
	}
	if r.bh != nil {
		inner := call
		call = func() (O, error) {
			var out O
			err := r.bh.Execute(ctx, func() error {
				var err error
				out, err = inner()
				return err
			})
			return out, err
		}
	}

	out, err := call()
	return out, wrapResilienceError(r.inner.Name(), err)
}

// wrapResilienceError maps resilience sentinels and context errors to
// AppErrors. Errors that already are AppErrors pass through.
func wrapResilienceError(name string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return apperrors.ServiceUnavailable(name).WithCause(err).WithDetail("reason", "circuit_open")
	case errors.Is(err, resilience.ErrBulkheadFull), errors.Is(err, resilience.ErrBulkheadTimeout):
		return apperrors.ServiceUnavailable(name).WithCause(err).WithDetail("reason", "concurrency_limit")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.ProviderTimeout(name, err)
	default:
		return err
	}
}
