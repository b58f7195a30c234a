package errors

import "net/http"

// InvalidInput rejects a request. field is omitted from the details when empty.
func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: %s", reason)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation is an InvalidInput with a preformatted message.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, "%s", message)
}

func PayloadTooLarge(limit int64) *AppError {
	return New(ErrCodePayloadTooLarge, "Request body exceeds %d bytes.", limit).
		WithDetail("limit_bytes", limit)
}

func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, "%s", reason)
}

func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "Invalid or expired authentication token.")
}

// ProviderFailure wraps a failed forced-alignment call.
func ProviderFailure(provider string, cause error) *AppError {
	return New(ErrCodeProviderFailure, "Forced alignment via %s failed.", provider).
		WithDetail("provider", provider).
		WithCause(cause)
}

// ProviderTimeout is a ProviderFailure for a call that timed out or was
// cancelled. It maps to 504.
func ProviderTimeout(provider string, cause error) *AppError {
	e := ProviderFailure(provider, cause)
	e.Message = "Forced alignment via " + provider + " timed out."
	e.HTTPStatus = http.StatusGatewayTimeout
	return e.WithDetail("reason", "timeout")
}

// EmptyWordStream is a ProviderFailure for a provider that answered without
// any usable words. Asking again gives the same answer.
func EmptyWordStream(provider string) *AppError {
	e := ProviderFailure(provider, nil)
	e.Message = "Forced alignment via " + provider + " returned no words."
	e.Retryable = false
	return e.WithDetail("reason", "empty_word_stream")
}

// ServiceUnavailable reports a provider that is shedding load.
func ServiceUnavailable(provider string) *AppError {
	return New(ErrCodeServiceUnavailable, "The %s provider is temporarily unavailable. Please try again.", provider).
		WithDetail("service", provider)
}

func NotConfigured(setting string) *AppError {
	return New(ErrCodeNotConfigured, "%s is not configured.", setting).
		WithDetail("setting", setting)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An unexpected error occurred. Please try again or contact support.").
		WithCause(cause)
}
