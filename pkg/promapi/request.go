package promapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/common/model"
)

// API endpoint paths.
const (
	epQuery           = "/api/v1/query"
	epQueryRange      = "/api/v1/query_range"
	epSeries          = "/api/v1/series"
	epLabels          = "/api/v1/labels"
	epLabelValues     = "/api/v1/label/%s/values"
	epTargets         = "/api/v1/targets"
	epTargetsMetadata = "/api/v1/targets/metadata"
	epMetadata        = "/api/v1/metadata"
	epRules           = "/api/v1/rules"
	epAlerts          = "/api/v1/alerts"
	epAlertmanagers   = "/api/v1/alertmanagers"

	epStatusBuildInfo   = "/api/v1/status/buildinfo"
	epStatusRuntimeInfo = "/api/v1/status/runtimeinfo"
	epStatusFlags       = "/api/v1/status/flags"
	epStatusConfig      = "/api/v1/status/config"
	epStatusTSDB        = "/api/v1/status/tsdb"
	epStatusWALReplay   = "/api/v1/status/walreplay"

	epHealthy = "/-/healthy"
	epReady   = "/-/ready"

	epDeleteSeries    = "/api/v1/admin/tsdb/delete_series"
	epCleanTombstones = "/api/v1/admin/tsdb/clean_tombstones"
	epSnapshot        = "/api/v1/admin/tsdb/snapshot"
)

// formatTime renders a timestamp as a Unix epoch with fractional
// seconds, the form the API accepts for time parameters.
func formatTime(t time.Time) string {
	return strconv.FormatFloat(float64(t.Unix())+float64(t.Nanosecond())/1e9, 'f', -1, 64)
}

// formatDuration renders a duration in the duration syntax the API
// accepts for step and timeout parameters (e.g. 30s, 5m, 1h30m).
func formatDuration(d time.Duration) string {
	return model.Duration(d).String()
}

// formatInt renders an integer parameter value.
func formatInt(n int) string {
	return strconv.Itoa(n)
}

// labelValuesPath builds the per-label values path, escaping the label
// name for safe inclusion in the URL.
func labelValuesPath(label string) string {
	return fmt.Sprintf(epLabelValues, url.PathEscape(label))
}

// resolvePath joins the base URL with an endpoint path, preserving any
// path prefix on the base URL (e.g. behind a reverse proxy).
func resolvePath(base *url.URL, path string) *url.URL {
	u := *base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return &u
}

// addTimeRange sets optional start and end parameters. Zero times are
// omitted so the server applies its own defaults.
func addTimeRange(params url.Values, start, end time.Time) {
	if !start.IsZero() {
		params.Set("start", formatTime(start))
	}
	if !end.IsZero() {
		params.Set("end", formatTime(end))
	}
}

// addMatchers appends match[] parameters.
func addMatchers(params url.Values, matchers []string) {
	for _, m := range matchers {
		params.Add("match[]", m)
	}
}

// validateTimeRange rejects ranges that end before they start. Zero
// values are allowed since they are omitted from the request.
func validateTimeRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(start) {
		return &ValidationError{Field: "end", Message: "end time must not be before start time"}
	}
	return nil
}
