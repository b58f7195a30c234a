package provider

import "context"

// Provider is implemented by every swappable backend.
type Provider interface {
	Name() string
	// IsAvailable reports whether the backend is configured and reachable
	// enough to accept calls.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider that maps one input to one output, such as
// an HTTP inference call or a local subprocess run.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Factory creates a provider from its raw configuration section.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// Func adapts a plain function to RequestResponse. The provider is always
// available.
func Func[I, O any](name string, fn func(ctx context.Context, input I) (O, error)) RequestResponse[I, O] {
	return &funcRR[I, O]{name: name, fn: fn}
}

type funcRR[I, O any] struct {
	name string
	fn   func(ctx context.Context, input I) (O, error)
}

func (f *funcRR[I, O]) Name() string                       { return f.name }
func (f *funcRR[I, O]) IsAvailable(_ context.Context) bool { return true }
func (f *funcRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.fn(ctx, input)
}
