package tracing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mercator-hq/galileo/pkg/promapi"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

// Config controls trace collection and export.
type Config struct {
	// Enabled turns tracing on. When false, all spans are noops.
	Enabled bool

	// ServiceName identifies this process in traces (default "galileo")
	ServiceName string

	// Endpoint is the OTLP gRPC collector endpoint (default "localhost:4317")
	Endpoint string

	// Insecure disables TLS on the collector connection
	Insecure bool

	// Timeout is the export timeout for the OTLP exporter
	Timeout time.Duration

	// Sampler is the sampling strategy ("always", "never", "ratio")
	Sampler string

	// SampleRatio is the sampling ratio for the "ratio" strategy (0.0 to 1.0)
	SampleRatio float64
}

// Tracer wraps the OpenTelemetry tracer and implements promapi.Tracer,
// so it is wired into a client through Config.Tracer. Spans carry the
// endpoint, query expression, HTTP status, and retry count of each
// request, and trace context is injected into outgoing request headers.
type Tracer struct {
	config     *Config
	tracer     trace.Tracer
	provider   *sdktrace.TracerProvider
	sampler    sdktrace.Sampler
	propagator propagation.TextMapPropagator
	enabled    bool
}

// New creates a new Tracer with the given configuration.
// It initializes the OpenTelemetry SDK, sets up the OTLP gRPC exporter,
// and returns a ready-to-use tracer.
//
// If tracing is disabled in the config, a noop tracer is returned that
// adds minimal overhead per operation.
//
// The tracer must be shut down when no longer needed:
//
//	defer tracer.Shutdown(context.Background())
func New(cfg *Config) (*Tracer, error) {
	if cfg == nil {
		return nil, errors.New("tracing config is nil")
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "galileo"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.Sampler == "" {
		cfg.Sampler = SamplerAlways
	}

	t := &Tracer{
		config:  cfg,
		enabled: cfg.Enabled,
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}

	// If tracing is disabled, return noop tracer
	if !cfg.Enabled {
		t.tracer = noop.NewTracerProvider().Tracer(cfg.ServiceName)
		return t, nil
	}

	// Create sampler
	sampler, err := createSampler(cfg.Sampler, cfg.SampleRatio)
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}
	t.sampler = sampler

	// Create exporter
	exporter, err := createOTLPExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	// Create resource
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(promapi.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Create trace provider
	t.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	// Set global trace provider and W3C Trace Context propagator
	otel.SetTracerProvider(t.provider)
	otel.SetTextMapPropagator(t.propagator)

	t.tracer = t.provider.Tracer(cfg.ServiceName)

	return t, nil
}

// StartSpan implements promapi.Tracer. It opens a client span named
// after the endpoint, records the request attributes, and returns a
// finish function that sets the span status from the terminal error.
// Fields that are populated during the request, such as the status code
// and attempt count, are read when the finish function runs.
func (t *Tracer) StartSpan(ctx context.Context, event *promapi.RequestEvent) (context.Context, func(err error)) {
	ctx, span := t.tracer.Start(ctx, event.Endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	SetRequestAttributes(span, event)

	return ctx, func(err error) {
		SetResponseAttributes(span, event)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// InjectHeaders implements promapi.HeaderInjector. It serializes the
// trace context from ctx into the traceparent and tracestate headers of
// an outgoing request.
func (t *Tracer) InjectHeaders(ctx context.Context, header http.Header) {
	t.propagator.Inject(ctx, propagation.HeaderCarrier(header))
}

// Start creates a new span with the given name and options.
// The span is automatically linked to the parent span from the context.
//
// The returned span must be ended when the operation completes:
//
//	ctx, span := tracer.Start(ctx, "operation")
//	defer span.End()
func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// Shutdown flushes any pending spans and shuts down the tracer.
// It should be called before application exit, typically with defer:
//
//	defer tracer.Shutdown(context.Background())
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.enabled || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Enabled returns whether tracing is enabled.
func (t *Tracer) Enabled() bool {
	return t.enabled
}

// createOTLPExporter creates an OTLP gRPC exporter. The connection is
// established lazily, so the collector does not need to be reachable at
// startup.
func createOTLPExporter(cfg *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	}

	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
	}

	if cfg.Timeout > 0 {
		opts = append(opts, otlptracegrpc.WithTimeout(cfg.Timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := otlptracegrpc.NewClient(opts...)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	return exporter, nil
}

// SpanFromContext returns the current span from the context.
// If no span exists, a noop span is returned.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// ContextWithSpan returns a new context with the given span.
func ContextWithSpan(ctx context.Context, span trace.Span) context.Context {
	return trace.ContextWithSpan(ctx, span)
}

// SpanContext returns the span context from the given context.
// Returns an invalid span context if no span exists.
func SpanContext(ctx context.Context) trace.SpanContext {
	return trace.SpanFromContext(ctx).SpanContext()
}

// TraceID returns the trace ID from the context as a string.
// Returns empty string if no trace context exists.
func TraceID(ctx context.Context) string {
	sc := SpanContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanID returns the span ID from the context as a string.
// Returns empty string if no span context exists.
func SpanID(ctx context.Context) string {
	sc := SpanContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}

// IsSampled returns whether the current trace is sampled.
func IsSampled(ctx context.Context) bool {
	return SpanContext(ctx).IsSampled()
}
