package tracing

import (
	"fmt"

	"mercator-hq/galileo/pkg/promapi"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span Attribute Helpers
//
// These functions provide a convenient way to set common attributes on
// spans. Standard keys follow OpenTelemetry semantic conventions where
// applicable (http.*); custom keys use the "galileo.*" namespace.

// Common attribute keys used throughout the system
const (
	// Request attributes
	AttrEndpoint  = "galileo.endpoint"
	AttrRequestID = "galileo.request_id"
	AttrQueryExpr = "galileo.query.expr"

	// Response attributes
	AttrStatusCode   = "http.status_code"
	AttrResultType   = "galileo.result_type"
	AttrWarningCount = "galileo.warnings"
	AttrRetryCount   = "galileo.retry_count"

	// Error attributes
	AttrErrorType    = "galileo.error.type"
	AttrErrorMessage = "error.message"
)

// maxExprAttributeLength caps the recorded query expression so a large
// generated query cannot bloat the span.
const maxExprAttributeLength = 2048

// SetRequestAttributes sets request-side attributes on a span from the
// event as it exists before the request is sent.
func SetRequestAttributes(span trace.Span, event *promapi.RequestEvent) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrEndpoint, event.Endpoint),
		attribute.String(AttrRequestID, event.ID),
		attribute.String("http.method", event.Method),
	}

	if event.Expr != "" {
		expr := event.Expr
		if len(expr) > maxExprAttributeLength {
			expr = expr[:maxExprAttributeLength] + "..."
		}
		attrs = append(attrs, attribute.String(AttrQueryExpr, expr))
	}

	span.SetAttributes(attrs...)
}

// SetResponseAttributes sets response-side attributes on a span from
// the event fields populated during the request.
func SetResponseAttributes(span trace.Span, event *promapi.RequestEvent) {
	attrs := []attribute.KeyValue{
		attribute.Int(AttrStatusCode, event.StatusCode),
	}

	if event.Attempts > 1 {
		attrs = append(attrs, attribute.Int(AttrRetryCount, event.Attempts-1))
	}
	if event.ResultType != "" {
		attrs = append(attrs, attribute.String(AttrResultType, event.ResultType))
	}
	if event.WarningCount > 0 {
		attrs = append(attrs, attribute.Int(AttrWarningCount, event.WarningCount))
	}

	span.SetAttributes(attrs...)
}

// SetErrorAttributes sets error-related attributes on a span.
// This also records the error using span.RecordError() and sets the span status.
//
// Example:
//
//	SetErrorAttributes(span, err, "rate_limit")
func SetErrorAttributes(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}

	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String(AttrErrorType, errorType),
		attribute.String(AttrErrorMessage, err.Error()),
	)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddEvent adds a named event to the span with optional attributes.
// Events represent interesting points in the span's lifetime.
//
// Example:
//
//	AddEvent(span, "retry_scheduled",
//	    attribute.Int("attempt", 2),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AttributeBuilder provides a fluent interface for building span attributes.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithEndpoint adds endpoint and request ID attributes.
func (ab *AttributeBuilder) WithEndpoint(endpoint, requestID string) *AttributeBuilder {
	ab.attrs = append(ab.attrs,
		attribute.String(AttrEndpoint, endpoint),
		attribute.String(AttrRequestID, requestID),
	)
	return ab
}

// WithQuery adds the query expression attribute.
func (ab *AttributeBuilder) WithQuery(expr string) *AttributeBuilder {
	if expr != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrQueryExpr, expr))
	}
	return ab
}

// WithStatus adds the HTTP status code attribute.
func (ab *AttributeBuilder) WithStatus(statusCode int) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.Int(AttrStatusCode, statusCode))
	return ab
}

// WithCustom adds a custom attribute.
func (ab *AttributeBuilder) WithCustom(key string, value interface{}) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	default:
		// Fall back to string representation
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the built attributes as a trace.SpanStartOption.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply applies the attributes to a span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
