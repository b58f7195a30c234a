// Package resilience guards calls to slow or flaky upstreams such as the
// forced-alignment providers.
//
// Three patterns are available and can be stacked:
//   - Retry: re-runs an operation with exponential backoff while the error
//     is classified as retryable.
//   - CircuitBreaker: fails fast once an upstream keeps failing.
//   - Bulkhead: caps the number of concurrent calls into an upstream.
//
// A Config groups the settings for all three so they can be loaded from the
// service configuration file:
//
//	cfg := resilience.DefaultConfig()
//	cb := resilience.NewCircuitBreaker(cfg.CircuitBreakerConfig("replicate"))
//	bh := resilience.NewBulkhead(cfg.BulkheadConfig("replicate"))
//
//	err := cb.Execute(func() error {
//	    return bh.Execute(ctx, func() error {
//	        return resilience.RetryFunc(ctx, cfg.RetryConfig(), call)
//	    })
//	})
package resilience
