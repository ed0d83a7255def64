package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
//
// This handler exposes all registered metrics in the standard Prometheus
// exposition format.
//
// Example:
//
//	cm := metrics.NewClientMetrics(cfg, nil)
//	http.Handle("/metrics", cm.Handler())
//	http.ListenAndServe(":8080", nil)
func (cm *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		cm.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}

// HandlerWithOptions returns an HTTP handler with custom options, for
// callers that need a collection timeout, a concurrent scrape limit, or
// different error handling.
//
// Example:
//
//	handler := cm.HandlerWithOptions(promhttp.HandlerOpts{
//		Timeout: 10 * time.Second,
//		MaxRequestsInFlight: 5,
//		ErrorHandling: promhttp.HTTPErrorOnError,
//	})
//	http.Handle("/metrics", handler)
func (cm *ClientMetrics) HandlerWithOptions(opts promhttp.HandlerOpts) http.Handler {
	return promhttp.HandlerFor(cm.registry, opts)
}
