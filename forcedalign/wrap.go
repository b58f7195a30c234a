package forcedalign

import (
	"context"
	"time"

	apperrors "github.com/kbukum/aligner/errors"
	"github.com/kbukum/aligner/logger"
	"github.com/kbukum/aligner/observability"
	"github.com/kbukum/aligner/provider"
)

// WrapOptions selects the middleware applied by Wrap. Zero values disable
// the corresponding layer, except tracing which is always on.
type WrapOptions struct {
	Logger     *logger.Logger
	Metrics    *observability.Metrics
	Timeout    time.Duration
	Resilience provider.ResilienceConfig
}

// Wrap applies the standard stack around p, outermost first: tracing,
// logging, metrics, timeout, the empty-stream check, then resilience.
func Wrap(p Provider, opts WrapOptions) Provider {
	mws := []provider.Middleware[Request, *Response]{provider.WithTracing[Request, *Response]()}
	if opts.Logger != nil {
		mws = append(mws, provider.WithLogging[Request, *Response](opts.Logger))
	}
	mws = append(mws,
		provider.WithMetrics[Request, *Response](opts.Metrics),
		provider.WithTimeout[Request, *Response](opts.Timeout),
		RequireWords(),
	)
	return provider.Chain(mws...)(provider.WithResilience(p, opts.Resilience))
}

// RequireWords turns a successful call without any words into an
// EmptyWordStream failure.
func RequireWords() provider.Middleware[Request, *Response] {
	return func(inner Provider) Provider {
		return &requireWords{inner: inner}
	}
}

type requireWords struct {
	inner Provider
}

func (r *requireWords) Name() string                         { return r.inner.Name() }
func (r *requireWords) IsAvailable(ctx context.Context) bool { return r.inner.IsAvailable(ctx) }

func (r *requireWords) Execute(ctx context.Context, req Request) (*Response, error) {
	resp, err := r.inner.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Words) == 0 {
		return nil, apperrors.EmptyWordStream(r.inner.Name())
	}
	return resp, nil
}
