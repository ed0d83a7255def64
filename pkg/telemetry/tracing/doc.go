// Package tracing provides OpenTelemetry distributed tracing for Galileo.
//
// # Overview
//
// The tracing package exports one span per Prometheus API operation to an
// OTLP gRPC collector. A span records the endpoint, the query expression,
// the HTTP status code, the retry count, and the terminal error, so a
// slow or failing query can be followed from the caller into the server.
//
// # Wiring
//
// Tracer implements promapi.Tracer and promapi.HeaderInjector, so it
// plugs into a client through its configuration:
//
//	tracer, err := tracing.New(&tracing.Config{
//	    Enabled:     true,
//	    ServiceName: "galileo",
//	    Endpoint:    "localhost:4317",
//	    Insecure:    true,
//	    Sampler:     "ratio",
//	    SampleRatio: 0.1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	client, err := promapi.New(promapi.Config{
//	    BaseURL: "http://localhost:9090",
//	    Tracer:  tracer,
//	})
//
// Every client operation then runs inside a span named after its
// endpoint, and the W3C traceparent header is injected into the
// outgoing request so a traced Prometheus deployment can join the
// trace.
//
// # Trace Context Propagation
//
// The package implements W3C Trace Context (https://www.w3.org/TR/trace-context/)
// for propagating trace context across HTTP boundaries:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//	tracestate: congo=t61rcWkgMzE
//
// # Sampling Strategies
//
// Three sampling strategies are supported:
//   - always: Sample all traces (development/debugging)
//   - never: Sample no traces (tracing disabled)
//   - ratio: Sample a percentage of traces (production)
//
// All strategies respect an incoming parent sampling decision.
//
// # Span Attributes
//
// Spans carry attributes under the galileo.* namespace:
//
//	galileo.endpoint     API endpoint name ("query", "query_range", ...)
//	galileo.request_id   client-assigned request ID
//	galileo.query.expr   PromQL expression, capped at 2048 characters
//	galileo.result_type  decoded result type ("vector", "matrix", ...)
//	galileo.warnings     number of server warnings
//	galileo.retry_count  retries performed after the first attempt
//	http.method          request method
//	http.status_code     final HTTP status
//
// # Performance
//
// When tracing is disabled, New returns a tracer backed by a noop
// provider, so StartSpan costs under a microsecond and no goroutines or
// network connections are created.
package tracing
