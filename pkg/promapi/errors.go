package promapi

import (
	"errors"
	"fmt"
	"time"
)

// Error type values reported by the Prometheus API in the errorType field
// of an error envelope.
const (
	ErrBadData     = "bad_data"
	ErrTimeout     = "timeout"
	ErrCanceled    = "canceled"
	ErrExec        = "execution"
	ErrInternal    = "internal"
	ErrUnavailable = "unavailable"
	ErrNotFound    = "not_found"
)

// APIError represents an error reported by the Prometheus server.
// It carries the errorType and error fields of the response envelope
// along with the HTTP status code.
type APIError struct {
	// ErrorType is the server-side error classification (bad_data,
	// execution, timeout, internal, unavailable, not_found)
	ErrorType string

	// Message is the error message from the server
	Message string

	// StatusCode is the HTTP status code of the response
	StatusCode int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.ErrorType != "" {
		return fmt.Sprintf("server error (%s): %s", e.ErrorType, e.Message)
	}
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
}

// TransportError represents a network-level failure reaching the server.
// The request never produced an HTTP response.
type TransportError struct {
	// URL is the request URL that failed
	URL string

	// Cause is the underlying network error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// AuthError represents an authentication failure.
// This occurs when the server rejects the credentials (HTTP 401 or 403).
type AuthError struct {
	// StatusCode is 401 or 403
	StatusCode int

	// Message is the response body from the server
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): %s", e.StatusCode, e.Message)
}

// RateLimitError represents a rate limit rejection. It is returned both
// for HTTP 429 responses and for client-side limiter rejections.
type RateLimitError struct {
	// RetryAfter is the duration to wait before retrying (if known)
	RetryAfter time.Duration

	// Message is the error message
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded (retry after %s): %s", e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("rate limit exceeded: %s", e.Message)
}

// TimeoutError represents a request that exceeded the configured timeout.
type TimeoutError struct {
	// Timeout is the configured timeout duration
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Timeout)
}

// ParseError represents a response parsing failure.
// This occurs when the server returns a malformed response body.
type ParseError struct {
	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("response parse error: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// UnknownStatusError represents a response envelope whose status field is
// neither "success" nor "error".
type UnknownStatusError struct {
	// Status is the unrecognized status value
	Status string
}

// Error implements the error interface.
func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown response status %q", e.Status)
}

// ResultTypeError represents a query result of an unexpected type.
// It is returned when the server reports a resultType the client does
// not know, or when a typed accessor is used on a mismatched result.
type ResultTypeError struct {
	// Expected is the result type the caller asked for (empty when the
	// server reported a type the client does not recognize)
	Expected string

	// Actual is the result type that was present
	Actual string
}

// Error implements the error interface.
func (e *ResultTypeError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("unexpected result type %q", e.Actual)
	}
	return fmt.Sprintf("expected %s result, got %s", e.Expected, e.Actual)
}

// ValidationError represents a request validation failure.
// This occurs when request parameters are invalid before sending to the
// server.
type ValidationError struct {
	// Field is the name of the invalid parameter
	Field string

	// Message describes what is invalid about the parameter
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// ConfigError represents a client configuration error.
type ConfigError struct {
	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for field %q: %s", e.Field, e.Message)
}

// IsRetryable reports whether the error is transient and a retry may
// succeed. Transport errors and 5xx server errors are retryable;
// authentication, validation, rate limit, and parse errors are not.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 500 {
			return true
		}
		return apiErr.ErrorType == ErrUnavailable || apiErr.ErrorType == ErrInternal
	}

	return false
}

// AsAPIError extracts the server-reported API error from an error
// chain, so callers can branch on the server's error type without
// declaring the target variable themselves.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
