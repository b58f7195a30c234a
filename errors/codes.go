package errors

import "net/http"

// ErrorCode is the machine-readable code sent to clients.
type ErrorCode string

const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken    ErrorCode = "INVALID_TOKEN"

	// ErrCodeProviderFailure covers a forced-alignment call that failed,
	// timed out or returned an unusable word stream.
	ErrCodeProviderFailure ErrorCode = "PROVIDER_FAILURE"
	// ErrCodeServiceUnavailable is returned while a provider's circuit is
	// open or its concurrency limit is reached.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeNotConfigured means a required setting such as a provider
	// credential is missing.
	ErrCodeNotConfigured ErrorCode = "NOT_CONFIGURED"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

type codeInfo struct {
	status    int
	retryable bool
}

var catalog = map[ErrorCode]codeInfo{
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodePayloadTooLarge:    {http.StatusRequestEntityTooLarge, false},
	ErrCodeUnauthorized:       {http.StatusUnauthorized, false},
	ErrCodeInvalidToken:       {http.StatusUnauthorized, false},
	ErrCodeProviderFailure:    {http.StatusBadGateway, true},
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeNotConfigured:      {http.StatusInternalServerError, false},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
}

// IsRetryableCode reports whether errors with code are worth another attempt.
func IsRetryableCode(code ErrorCode) bool {
	return catalog[code].retryable
}

// StatusFor returns the HTTP status for code, 500 for unknown codes.
func StatusFor(code ErrorCode) int {
	if info, ok := catalog[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}
