package metrics

import (
	"context"
	"errors"

	"mercator-hq/galileo/pkg/promapi"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls metric registration and naming.
type Config struct {
	// Enabled turns metric collection on. When false, all observer
	// callbacks are no-ops.
	Enabled bool

	// Namespace is the metric name prefix (default "galileo")
	Namespace string

	// Subsystem is the metric name subsystem (default "client")
	Subsystem string

	// DurationBuckets are the histogram buckets for request durations
	// in seconds. Defaults cover 10ms to 30s.
	DurationBuckets []float64
}

// ClientMetrics tracks metrics for API client requests. It implements
// promapi.RequestObserver and promapi.RequestStartObserver, so it is
// wired into a client through Config.Observers.
//
// Metrics:
//   - galileo_client_requests_total: Total request count by endpoint, status
//   - galileo_client_request_duration_seconds: Request duration histogram
//   - galileo_client_retries_total: Retry attempt count by endpoint
//   - galileo_client_errors_total: Error count by endpoint, error_type
//   - galileo_client_in_flight_requests: Requests currently in flight
type ClientMetrics struct {
	config   *Config
	registry *prometheus.Registry

	// Total request count
	requestsTotal *prometheus.CounterVec

	// Request duration histogram, including retries
	requestDuration *prometheus.HistogramVec

	// Retry attempts beyond the first request
	retriesTotal *prometheus.CounterVec

	// Error counter by classified error type
	errorsTotal *prometheus.CounterVec

	// Requests currently in flight
	inFlight prometheus.Gauge
}

// NewClientMetrics creates and registers client metrics with the
// provided registry. If registry is nil, a new registry is created.
//
// Example:
//
//	cfg := &metrics.Config{Enabled: true}
//	cm := metrics.NewClientMetrics(cfg, nil)
//	client, err := promapi.New(promapi.Config{
//		BaseURL:   "http://localhost:9090",
//		Observers: []promapi.RequestObserver{cm},
//	})
func NewClientMetrics(cfg *Config, registry *prometheus.Registry) *ClientMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = "galileo"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "client"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	}

	cm := &ClientMetrics{
		config:   cfg,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of API requests in seconds, including retries",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"endpoint"},
		),

		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "retries_total",
				Help:      "Total number of retry attempts by endpoint",
			},
			[]string{"endpoint"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "errors_total",
				Help:      "Total number of request errors by endpoint and error type",
			},
			[]string{"endpoint", "error_type"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "in_flight_requests",
				Help:      "Number of API requests currently in flight",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		cm.requestsTotal,
		cm.requestDuration,
		cm.retriesTotal,
		cm.errorsTotal,
		cm.inFlight,
	)

	return cm
}

// ObserveRequestStart implements promapi.RequestStartObserver.
func (cm *ClientMetrics) ObserveRequestStart(_ context.Context, _ promapi.RequestEvent) {
	if !cm.config.Enabled {
		return
	}

	cm.inFlight.Inc()
}

// ObserveRequest implements promapi.RequestObserver. It records the
// outcome of a completed request.
func (cm *ClientMetrics) ObserveRequest(_ context.Context, event promapi.RequestEvent) {
	if !cm.config.Enabled {
		return
	}

	cm.inFlight.Dec()

	status := "success"
	if event.Err != nil {
		status = "error"
	}

	cm.requestsTotal.WithLabelValues(event.Endpoint, status).Inc()
	cm.requestDuration.WithLabelValues(event.Endpoint).Observe(event.Duration.Seconds())

	if event.Attempts > 1 {
		cm.retriesTotal.WithLabelValues(event.Endpoint).Add(float64(event.Attempts - 1))
	}

	if event.Err != nil {
		cm.errorsTotal.WithLabelValues(event.Endpoint, errorTypeLabel(event.Err)).Inc()
	}
}

// Registry returns the Prometheus registry used by these metrics.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		cm.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (cm *ClientMetrics) Registry() *prometheus.Registry {
	return cm.registry
}

// knownErrorTypes are the server-side error classifications we pass
// through as labels. Anything else is aggregated to keep cardinality
// bounded.
var knownErrorTypes = map[string]bool{
	promapi.ErrBadData:     true,
	promapi.ErrTimeout:     true,
	promapi.ErrCanceled:    true,
	promapi.ErrExec:        true,
	promapi.ErrInternal:    true,
	promapi.ErrUnavailable: true,
	promapi.ErrNotFound:    true,
}

// errorTypeLabel classifies an error for the error_type label.
//
// Labels:
//   - "auth": Authentication/authorization failure (401/403)
//   - "rate_limit": Rate limit exceeded (client- or server-side)
//   - "timeout": Request timeout
//   - "network": Network connectivity error
//   - "parse": Response parsing error
//   - bad_data, execution, ...: Known server error classifications
//   - "server_error"/"client_error": API errors of unknown classification
//   - "other": Anything else
func errorTypeLabel(err error) string {
	var (
		authErr      *promapi.AuthError
		rateErr      *promapi.RateLimitError
		timeoutErr   *promapi.TimeoutError
		transportErr *promapi.TransportError
		parseErr     *promapi.ParseError
		apiErr       *promapi.APIError
	)

	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &rateErr):
		return "rate_limit"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &transportErr):
		return "network"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &apiErr):
		if knownErrorTypes[apiErr.ErrorType] {
			return apiErr.ErrorType
		}
		if apiErr.StatusCode >= 500 {
			return "server_error"
		}
		return "client_error"
	default:
		return "other"
	}
}
