/*
Package promapi implements an HTTP client for the Prometheus query API.

The client covers the full v1 read surface: instant and range queries,
series and label lookups, scrape target state, rules and alerts, server
status, and the TSDB admin endpoints. Responses are decoded into the
types of github.com/prometheus/common/model so results compose with the
rest of the Prometheus ecosystem.

# Basic Usage

Create a client with a base URL and run queries:

	client, err := promapi.New(promapi.Config{
		BaseURL: "http://localhost:9090",
	})
	if err != nil {
		return err
	}
	defer client.Close()

	result, err := client.Query(ctx, `up{job="node"}`, time.Time{})
	if err != nil {
		return err
	}

	vector, err := result.AsVector()
	if err != nil {
		return err
	}
	for _, sample := range vector {
		fmt.Printf("%s = %v\n", sample.Metric, sample.Value)
	}

Range queries return a matrix:

	result, err := client.QueryRange(ctx, "rate(http_requests_total[5m])", promapi.Range{
		Start: time.Now().Add(-time.Hour),
		End:   time.Now(),
		Step:  time.Minute,
	})

# Result Types

Query responses carry one of four result types depending on the
expression: vector, matrix, scalar, or string. QueryResult exposes the
typed value through AsVector, AsMatrix, AsScalar, and AsString; using
the wrong accessor returns a ResultTypeError naming both types.

# Error Handling

All failures are typed. Server-reported errors become an APIError with
the errorType and message from the response envelope. Network failures
become a TransportError wrapping the underlying error. Authentication,
rate limiting, timeouts, and malformed responses each have their own
type so callers can branch with errors.As:

	var apiErr *promapi.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorType == promapi.ErrBadData {
		// invalid query expression
	}

# Retries

Setting Config.Retry enables retries for transient failures (network
errors and 5xx responses) with exponential backoff. Client errors,
authentication failures, and rate limit rejections are never retried.
The client also tracks connection health across requests; Health
returns a snapshot including consecutive failure counts.

# Authentication and TLS

Bearer token and basic auth credentials are resolved through
credentials.Source on every request, so rotated tokens are picked up
without recreating the client. TLS is configured through the
security/tls package; when a client certificate with a reload interval
is configured, the certificate is re-read from disk as it changes.

# Observability

Config.Observers receives a RequestEvent for every completed operation
with timing, attempt count, status, and result type. Config.Tracer
wraps each operation in a span. Both are interfaces; the
telemetry/metrics and telemetry/tracing packages provide Prometheus and
OpenTelemetry implementations.
*/
package promapi
