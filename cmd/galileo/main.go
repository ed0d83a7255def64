// Galileo is a command line client for the Prometheus HTTP API.
//
// It wraps the query, metadata, and status endpoints of a Prometheus
// server, providing:
//   - Instant and range PromQL queries with typed results
//   - Label, series, and metric metadata lookups
//   - Scrape target, rule, and alert state inspection
//   - Server status, TSDB statistics, and health probes
//   - Client-side PromQL linting
//   - A local archive of executed queries for later review
//
// Usage:
//
//	# Evaluate an instant query
//	galileo query instant 'up'
//
//	# Evaluate a range query
//	galileo query range 'rate(http_requests_total[5m])' \
//	    --start 2026-08-01T00:00:00Z --end 2026-08-01T06:00:00Z --step 1m
//
//	# List label values
//	galileo labels job
//
//	# Check server health
//	galileo ping
//
//	# Lint an expression without contacting the server
//	galileo lint 'sum(rate(http_requests_total[5m])) by (job)'
//
//	# Export the local query archive
//	galileo archive export --format json --out queries.json
//
// For complete documentation, see: https://github.com/mercator-hq/galileo
package main

func main() {
	Execute()
}
