// Package errors provides the structured error type shared by the service.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable code, an HTTP status and a retryable flag. Handlers render
// it with ToResponse; providers and the resilience layer use the retryable
// flag to decide whether another attempt makes sense.
//
// Provider-side failures use ErrCodeProviderFailure. Request validation
// failures use ErrCodeInvalidInput. A missing credential is ErrCodeNotConfigured.
package errors
