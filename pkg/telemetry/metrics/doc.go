// Package metrics provides Prometheus self-instrumentation for the
// Galileo API client.
//
// # Overview
//
// The metrics package tracks request counts, durations, retries,
// errors, and in-flight requests for every API call the client makes.
// It plugs into the client through the promapi observer interfaces, so
// the client itself stays free of any metrics dependency.
//
// # Usage
//
//	// Create metrics and wire them into a client
//	cm := metrics.NewClientMetrics(&metrics.Config{Enabled: true}, nil)
//	client, err := promapi.New(promapi.Config{
//		BaseURL:   "http://localhost:9090",
//		Observers: []promapi.RequestObserver{cm},
//	})
//
//	// Expose the metrics endpoint
//	http.Handle("/metrics", cm.Handler())
//
// # Metrics
//
// All metrics use the galileo_client_* prefix by default:
//
//	# HELP galileo_client_requests_total Total number of API requests by endpoint and status
//	# TYPE galileo_client_requests_total counter
//	galileo_client_requests_total{endpoint="query",status="success"} 1234
//
//   - galileo_client_requests_total{endpoint,status}
//   - galileo_client_request_duration_seconds{endpoint}
//   - galileo_client_retries_total{endpoint}
//   - galileo_client_errors_total{endpoint,error_type}
//   - galileo_client_in_flight_requests
//
// # Cardinality
//
// Label values are bounded. Endpoints come from the fixed API surface,
// status is success or error, and error_type passes through only the
// known server error classifications, aggregating everything else.
package metrics
