package promapi

import (
	"context"
	"net/http"
	"time"
)

// RequestEvent describes a completed API request. One event is emitted
// per logical operation, after all retry attempts have finished.
type RequestEvent struct {
	// ID is the unique request identifier sent as X-Request-ID
	ID string

	// Endpoint is the logical endpoint name (query, query_range, series, ...)
	Endpoint string

	// Method is the HTTP method used
	Method string

	// Expr is the PromQL expression, when the operation carries one
	Expr string

	// StatusCode is the final HTTP status code (0 if no response was received)
	StatusCode int

	// ResultType is the result type of a successful query (vector, matrix, ...)
	ResultType string

	// WarningCount is the number of warnings attached to the response
	WarningCount int

	// Err is the terminal error, nil on success
	Err error

	// RangeStart and RangeEnd bound the queried time window for range
	// queries and time-filtered metadata lookups, zero otherwise
	RangeStart time.Time
	RangeEnd   time.Time

	// Step is the resolution step of a range query, zero otherwise
	Step time.Duration

	// Start is when the operation began
	Start time.Time

	// Duration is the total elapsed time including retries
	Duration time.Duration

	// Attempts is the number of HTTP attempts made
	Attempts int
}

// RequestObserver receives an event for every completed API request.
// Implementations must be safe for concurrent use and must not block.
type RequestObserver interface {
	ObserveRequest(ctx context.Context, event RequestEvent)
}

// RequestStartObserver is an optional extension of RequestObserver.
// Observers that implement it are additionally notified when a request
// is about to be sent, before the first attempt. Every start
// notification is matched by exactly one completion notification, so
// the pair can drive in-flight gauges.
type RequestStartObserver interface {
	ObserveRequestStart(ctx context.Context, event RequestEvent)
}

// Tracer starts spans around API operations. StartSpan receives the
// event for the operation; fields filled in during the request, such as
// the status code and attempt count, are readable when the finish
// function runs. The finish function must be called exactly once with
// the terminal error.
//
// The interface decouples the client from any particular tracing
// backend; the telemetry/tracing package provides an OpenTelemetry
// implementation.
type Tracer interface {
	StartSpan(ctx context.Context, event *RequestEvent) (context.Context, func(err error))
}

// HeaderInjector is an optional extension of Tracer. When the
// configured tracer implements it, trace context is injected into the
// headers of every outgoing request.
type HeaderInjector interface {
	InjectHeaders(ctx context.Context, header http.Header)
}

// ObserverFunc adapts a function to the RequestObserver interface.
type ObserverFunc func(ctx context.Context, event RequestEvent)

// ObserveRequest implements RequestObserver.
func (f ObserverFunc) ObserveRequest(ctx context.Context, event RequestEvent) {
	f(ctx, event)
}
