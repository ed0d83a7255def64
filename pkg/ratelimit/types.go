package ratelimit

import "time"

// Config contains client-side rate limiting configuration.
// Zero values disable the corresponding limit.
type Config struct {
	// QueriesPerSecond limits the average query rate using a token bucket.
	QueriesPerSecond float64

	// Burst is the maximum burst size for the query rate limit.
	// Defaults to twice the per-second rate when zero.
	Burst int

	// MaxConcurrent limits simultaneous in-flight requests.
	MaxConcurrent int
}

// CheckResult describes the outcome of a limit check.
type CheckResult struct {
	// Allowed indicates if the request is permitted.
	Allowed bool

	// Reason explains why the request was rejected (if Allowed=false).
	Reason string

	// Limit is the configured limit value.
	Limit int64

	// Remaining is how many slots or tokens remain.
	Remaining int64

	// RetryAfter suggests how long to wait before retrying.
	RetryAfter time.Duration
}

// LimitError is returned by Acquire when a limit cannot be satisfied.
type LimitError struct {
	Result *CheckResult
}

// Error implements the error interface.
func (e *LimitError) Error() string {
	return "rate limit exceeded: " + e.Result.Reason
}
