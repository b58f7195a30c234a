package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode classifies client errors.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	ErrCodeAuth
	ErrCodeNotFound
	ErrCodeRateLimit
	ErrCodeValidation
	ErrCodeServer
	ErrCodeResponseTooLarge
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	case ErrCodeResponseTooLarge:
		return "response_too_large"
	default:
		return "unknown"
	}
}

// Error is a classified HTTP client error.
type Error struct {
	// StatusCode is 0 for transport-level failures.
	StatusCode int
	Code       ErrorCode
	Message    string
	Retryable  bool
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewResponseTooLargeError reports a body that exceeded limit bytes. It is
// not retryable: the upstream will send the same document again.
func NewResponseTooLargeError(statusCode int, limit int64) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeResponseTooLarge,
		Message:    fmt.Sprintf("response body exceeds %d bytes", limit),
	}
}

func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode converts a non-2xx status into an *Error. The message
// is taken from a JSON "detail", "error" or "message" field when present.
// It returns nil for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	e := &Error{StatusCode: statusCode, Message: bodyMessage(statusCode, body), Body: body}
	switch {
	case statusCode == 401 || statusCode == 403:
		e.Code = ErrCodeAuth
	case statusCode == 404:
		e.Code = ErrCodeNotFound
	case statusCode == 429:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeValidation
	case statusCode >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

func bodyMessage(statusCode int, body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		for _, m := range []string{payload.Detail, payload.Error, payload.Message} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

func is(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsTimeout(err error) bool     { return is(err, ErrCodeTimeout) }
func IsConnection(err error) bool  { return is(err, ErrCodeConnection) }
func IsAuth(err error) bool        { return is(err, ErrCodeAuth) }
func IsNotFound(err error) bool    { return is(err, ErrCodeNotFound) }
func IsRateLimit(err error) bool   { return is(err, ErrCodeRateLimit) }
func IsServerError(err error) bool { return is(err, ErrCodeServer) }

// IsRetryable reports whether err is an *Error marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
