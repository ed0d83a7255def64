// Package telemetry provides observability for Galileo clients.
//
// # Overview
//
// The telemetry subpackages implement structured logging, Prometheus
// metrics, and OpenTelemetry distributed tracing for the API client.
// Everything plugs into the client through its observer and tracer
// hooks, so none of it is mandatory: a client with no telemetry
// configured carries no overhead beyond a nil check per request.
//
// # Components
//
//   - logging: slog-based structured logging with text and JSON handlers
//   - metrics: Prometheus metrics observing client requests
//   - tracing: OpenTelemetry spans around API operations
//
// # Usage
//
//	// Set up logging from configuration
//	logger, err := logging.Setup(logging.Config{Level: "info", Format: "json"})
//
//	// Observe client requests with Prometheus metrics
//	m := metrics.NewClientMetrics(&metrics.Config{Namespace: "galileo"}, nil)
//
//	// Trace API operations
//	tracer, err := tracing.New(&tracing.Config{ServiceName: "galileo"})
//
//	client, err := promapi.New(promapi.Config{
//		BaseURL:   "http://localhost:9090",
//		Observers: []promapi.RequestObserver{m},
//		Tracer:    tracer,
//	})
package telemetry
