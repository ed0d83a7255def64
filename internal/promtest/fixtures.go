package promtest

import (
	"fmt"
	"net/http"
	"time"
)

// Envelope wraps data in a successful Prometheus API response envelope.
func Envelope(data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"status": "success",
		"data":   data,
	}
}

// WarningsEnvelope wraps data in a successful envelope carrying warnings.
func WarningsEnvelope(data interface{}, warnings ...string) map[string]interface{} {
	return map[string]interface{}{
		"status":   "success",
		"data":     data,
		"warnings": warnings,
	}
}

// ErrorEnvelope builds a Prometheus API error envelope.
func ErrorEnvelope(errorType, message string) map[string]interface{} {
	return map[string]interface{}{
		"status":    "error",
		"errorType": errorType,
		"error":     message,
	}
}

// OK wraps data in a success envelope behind a 200 response.
func OK(data interface{}) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       Envelope(data),
	}
}

// APIError builds an error envelope behind the given status code.
func APIError(statusCode int, errorType, message string) MockResponse {
	return MockResponse{
		StatusCode: statusCode,
		Body:       ErrorEnvelope(errorType, message),
	}
}

// BadData builds the 400 response Prometheus returns for invalid expressions.
func BadData(message string) MockResponse {
	return APIError(http.StatusBadRequest, "bad_data", message)
}

// AuthError builds a 401 response.
func AuthError() MockResponse {
	return MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       "Unauthorized",
	}
}

// RateLimited builds a 429 response with a Retry-After header.
func RateLimited(retryAfter int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       "Too Many Requests",
		Headers: map[string]string{
			"Retry-After": fmt.Sprintf("%d", retryAfter),
		},
	}
}

// ServerError builds a 500 response with an error envelope.
func ServerError() MockResponse {
	return APIError(http.StatusInternalServerError, "internal", "unexpected error")
}

// SlowResponse wraps a response with an artificial delay to exercise timeouts.
func SlowResponse(response MockResponse, delay time.Duration) MockResponse {
	response.Delay = delay
	return response
}

// ============================================================================
// Query result fixtures
// ============================================================================

// Metric builds a metric label map including the __name__ label.
func Metric(name string, labels map[string]string) map[string]string {
	m := map[string]string{"__name__": name}
	for k, v := range labels {
		m[k] = v
	}
	return m
}

// VectorResult builds an instant vector query result.
//
// Each sample is a map with "metric" and "value" keys as produced by
// VectorSample.
func VectorResult(samples ...map[string]interface{}) map[string]interface{} {
	if samples == nil {
		samples = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"resultType": "vector",
		"result":     samples,
	}
}

// VectorSample builds one instant vector sample. The value is rendered as
// a quoted string, matching the wire format.
func VectorSample(metric map[string]string, timestamp float64, value string) map[string]interface{} {
	return map[string]interface{}{
		"metric": metric,
		"value":  []interface{}{timestamp, value},
	}
}

// MatrixResult builds a range query result.
func MatrixResult(series ...map[string]interface{}) map[string]interface{} {
	if series == nil {
		series = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"resultType": "matrix",
		"result":     series,
	}
}

// MatrixSeries builds one matrix series. Values alternate timestamp and
// quoted sample value: MatrixSeries(m, 1659268100, "1", 1659268160, "0").
func MatrixSeries(metric map[string]string, pairs ...interface{}) map[string]interface{} {
	values := make([][]interface{}, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		values = append(values, []interface{}{pairs[i], pairs[i+1]})
	}
	return map[string]interface{}{
		"metric": metric,
		"values": values,
	}
}

// ScalarResult builds a scalar query result.
func ScalarResult(timestamp float64, value string) map[string]interface{} {
	return map[string]interface{}{
		"resultType": "scalar",
		"result":     []interface{}{timestamp, value},
	}
}

// StringResult builds a string query result.
func StringResult(timestamp float64, value string) map[string]interface{} {
	return map[string]interface{}{
		"resultType": "string",
		"result":     []interface{}{timestamp, value},
	}
}

// UpVector returns the canonical "up" instant vector with one healthy
// prometheus target and one down node exporter.
func UpVector() map[string]interface{} {
	return VectorResult(
		VectorSample(Metric("up", map[string]string{
			"job":      "prometheus",
			"instance": "localhost:9090",
		}), 1435781451.781, "1"),
		VectorSample(Metric("up", map[string]string{
			"job":      "node",
			"instance": "localhost:9100",
		}), 1435781451.781, "0"),
	)
}

// UpMatrix returns the canonical "up" range result with four steps.
func UpMatrix() map[string]interface{} {
	return MatrixResult(
		MatrixSeries(Metric("up", map[string]string{
			"job":      "prometheus",
			"instance": "localhost:9090",
		}), 1659268100, "1", 1659268160, "1", 1659268220, "1", 1659268280, "1"),
	)
}

// QueryStats returns execution statistics as returned with stats=all.
func QueryStats() map[string]interface{} {
	return map[string]interface{}{
		"timings": map[string]interface{}{
			"evalTotalTime":        0.000102139,
			"resultSortTime":       8.7e-07,
			"queryPreparationTime": 5.4169e-05,
			"innerEvalTime":        3.787e-05,
			"execQueueTime":        4.07e-05,
			"execTotalTime":        0.000151989,
		},
		"samples": map[string]interface{}{
			"totalQueryableSamples": 4,
			"peakSamples":           4,
		},
	}
}

// WithStats attaches execution statistics to a query result.
func WithStats(data map[string]interface{}, stats map[string]interface{}) map[string]interface{} {
	data["stats"] = stats
	return data
}

// ============================================================================
// Metadata endpoint fixtures
// ============================================================================

// SeriesData returns two series for the canonical "up" metric.
func SeriesData() []map[string]string {
	return []map[string]string{
		{"__name__": "up", "job": "prometheus", "instance": "localhost:9090"},
		{"__name__": "up", "job": "node", "instance": "localhost:9100"},
	}
}

// LabelNamesData returns a typical label name listing.
func LabelNamesData() []string {
	return []string{"__name__", "instance", "job"}
}

// LabelValuesData returns typical values for the job label.
func LabelValuesData() []string {
	return []string{"node", "prometheus"}
}

// TargetsData returns scrape target discovery data with one active and
// one dropped target.
func TargetsData() map[string]interface{} {
	return map[string]interface{}{
		"activeTargets": []map[string]interface{}{
			{
				"discoveredLabels": map[string]string{
					"__address__":      "127.0.0.1:9090",
					"__metrics_path__": "/metrics",
					"__scheme__":       "http",
					"job":              "prometheus",
				},
				"labels": map[string]string{
					"instance": "127.0.0.1:9090",
					"job":      "prometheus",
				},
				"scrapePool":         "prometheus",
				"scrapeUrl":          "http://127.0.0.1:9090/metrics",
				"globalUrl":          "http://example-prometheus:9090/metrics",
				"lastError":          "",
				"lastScrape":         "2017-01-17T15:07:44.723715405+01:00",
				"lastScrapeDuration": 0.050688943,
				"health":             "up",
				"scrapeInterval":     "1m",
				"scrapeTimeout":      "10s",
			},
		},
		"droppedTargets": []map[string]interface{}{
			{
				"discoveredLabels": map[string]string{
					"__address__":         "127.0.0.1:9100",
					"__metrics_path__":    "/metrics",
					"__scheme__":          "http",
					"__scrape_interval__": "1m",
					"__scrape_timeout__":  "10s",
					"job":                 "node",
				},
			},
		},
	}
}

// TargetMetadataData returns per-target metric metadata entries.
func TargetMetadataData() []map[string]interface{} {
	return []map[string]interface{}{
		{
			"target": map[string]string{
				"instance": "127.0.0.1:9090",
				"job":      "prometheus",
			},
			"type": "gauge",
			"help": "Number of goroutines that currently exist.",
			"unit": "",
		},
		{
			"target": map[string]string{
				"instance": "localhost:9090",
				"job":      "prometheus",
			},
			"metric": "process_virtual_memory_bytes",
			"type":   "gauge",
			"help":   "Virtual memory size in bytes.",
			"unit":   "",
		},
		{
			"target": map[string]string{
				"instance": "localhost:9090",
				"job":      "prometheus",
			},
			"metric": "prometheus_http_response_size_bytes",
			"type":   "histogram",
			"help":   "Histogram of response size for HTTP requests.",
			"unit":   "",
		},
	}
}

// MetricMetadataData returns metric metadata keyed by metric name.
func MetricMetadataData() map[string]interface{} {
	return map[string]interface{}{
		"cortex_ring_tokens": []map[string]interface{}{
			{
				"type": "gauge",
				"help": "Number of tokens in the ring",
				"unit": "",
			},
		},
		"http_requests_total": []map[string]interface{}{
			{
				"type": "counter",
				"help": "Number of HTTP requests",
				"unit": "",
			},
			{
				"type": "counter",
				"help": "Amount of HTTP requests",
				"unit": "",
			},
		},
	}
}

// ============================================================================
// Rules and alerts fixtures
// ============================================================================

// RulesData returns one rule group with an alerting and a recording rule.
func RulesData() map[string]interface{} {
	return map[string]interface{}{
		"groups": []map[string]interface{}{
			{
				"rules": []map[string]interface{}{
					{
						"alerts": []map[string]interface{}{
							{
								"activeAt": "2018-07-04T20:27:12.60602144+02:00",
								"annotations": map[string]string{
									"summary": "High request latency",
								},
								"labels": map[string]string{
									"alertname": "HighRequestLatency",
									"severity":  "page",
								},
								"state": "firing",
								"value": "1e+00",
							},
						},
						"annotations": map[string]string{
							"summary": "High request latency",
						},
						"duration": 600,
						"health":   "ok",
						"labels": map[string]string{
							"severity": "page",
						},
						"name":           "HighRequestLatency",
						"query":          `job:request_latency_seconds:mean5m{job="myjob"} > 0.5`,
						"type":           "alerting",
						"evaluationTime": 0.000312805,
						"lastEvaluation": "2023-10-05T19:51:25.462004334+02:00",
						"keepFiringFor":  60,
					},
					{
						"health":         "ok",
						"name":           "job:http_inprogress_requests:sum",
						"query":          "sum by (job) (http_inprogress_requests)",
						"type":           "recording",
						"evaluationTime": 0.000256946,
						"lastEvaluation": "2023-10-05T19:51:25.052982522+02:00",
					},
				},
				"file":           "/rules.yaml",
				"interval":       60,
				"limit":          0,
				"name":           "example",
				"evaluationTime": 0.000267716,
				"lastEvaluation": "2023-10-05T19:51:25.052974842+02:00",
			},
		},
	}
}

// AlertsData returns one firing alert.
func AlertsData() map[string]interface{} {
	return map[string]interface{}{
		"alerts": []map[string]interface{}{
			{
				"activeAt":    "2018-07-04T20:27:12.60602144+02:00",
				"annotations": map[string]string{},
				"labels": map[string]string{
					"alertname": "my-alert",
				},
				"state": "firing",
				"value": "1e+00",
			},
		},
	}
}

// AlertmanagersData returns one active and one dropped Alertmanager.
func AlertmanagersData() map[string]interface{} {
	return map[string]interface{}{
		"activeAlertmanagers": []map[string]interface{}{
			{"url": "http://127.0.0.1:9093/api/v2/alerts"},
		},
		"droppedAlertmanagers": []map[string]interface{}{
			{"url": "http://127.0.0.1:9094/api/v2/alerts"},
		},
	}
}

// ============================================================================
// Status endpoint fixtures
// ============================================================================

// BuildInfoData returns server build information.
func BuildInfoData() map[string]interface{} {
	return map[string]interface{}{
		"version":   "2.13.1",
		"revision":  "cb7cbad5f9a2823a622aaa668833ca04f50a0ea7",
		"branch":    "master",
		"buildUser": "julius@desktop",
		"buildDate": "20191102-16:19:51",
		"goVersion": "go1.13.1",
	}
}

// RuntimeInfoData returns server runtime information.
func RuntimeInfoData() map[string]interface{} {
	return map[string]interface{}{
		"startTime":           "2019-11-02T17:23:59.301361365+01:00",
		"CWD":                 "/",
		"reloadConfigSuccess": true,
		"lastConfigTime":      "2019-11-02T17:23:59+01:00",
		"timeSeriesCount":     873,
		"corruptionCount":     0,
		"goroutineCount":      48,
		"GOMAXPROCS":          4,
		"GOGC":                "",
		"GODEBUG":             "",
		"storageRetention":    "15d",
	}
}

// FlagsData returns a subset of server flag values.
func FlagsData() map[string]string {
	return map[string]string{
		"alertmanager.notification-queue-capacity": "10000",
		"query.timeout":               "2m",
		"storage.tsdb.path":           "/prometheus",
		"storage.tsdb.retention.time": "15d",
		"web.enable-admin-api":        "true",
	}
}

// ConfigData returns the loaded configuration file content.
func ConfigData() map[string]interface{} {
	return map[string]interface{}{
		"yaml": "global:\n  scrape_interval: 15s\n  evaluation_interval: 15s\nscrape_configs:\n- job_name: prometheus\n  static_configs:\n  - targets:\n    - localhost:9090\n",
	}
}

// TSDBStatsData returns head block statistics and cardinality listings.
func TSDBStatsData() map[string]interface{} {
	return map[string]interface{}{
		"headStats": map[string]interface{}{
			"numSeries":  508,
			"chunkCount": 937,
			"minTime":    1591516800000,
			"maxTime":    1598896800143,
		},
		"seriesCountByMetricName": []map[string]interface{}{
			{"name": "net_conntrack_dialer_conn_failed_total", "value": 20},
			{"name": "prometheus_http_request_duration_seconds_bucket", "value": 20},
		},
		"labelValueCountByLabelName": []map[string]interface{}{
			{"name": "__name__", "value": 211},
			{"name": "event", "value": 3},
		},
		"memoryInBytesByLabelName": []map[string]interface{}{
			{"name": "__name__", "value": 8266},
			{"name": "instance", "value": 28},
		},
		"seriesCountByLabelValuePair": []map[string]interface{}{
			{"name": "job=prometheus", "value": 425},
			{"name": "instance=localhost:9090", "value": 425},
		},
	}
}

// WALReplayData returns WAL replay progress.
func WALReplayData(state string) map[string]interface{} {
	data := map[string]interface{}{
		"min":     2,
		"max":     5,
		"current": 4,
	}
	if state != "" {
		data["state"] = state
	}
	return data
}

// SnapshotData returns the response of an admin snapshot request.
func SnapshotData() map[string]interface{} {
	return map[string]interface{}{
		"name": "20250824T142132Z-3f21b0b11a3b3f41",
	}
}
