package promapi

import (
	"context"
	"net/url"
	"time"

	"github.com/prometheus/common/model"
)

// TargetState filters which scrape targets the server returns.
type TargetState string

// Target state filter values.
const (
	TargetStateActive  TargetState = "active"
	TargetStateDropped TargetState = "dropped"
	TargetStateAny     TargetState = "any"
)

// TargetHealth is the scrape health of a target.
type TargetHealth string

// Target health values.
const (
	HealthGood    TargetHealth = "up"
	HealthBad     TargetHealth = "down"
	HealthUnknown TargetHealth = "unknown"
)

// MetricType is the type of a metric as exposed by its source.
type MetricType string

// Metric type values.
const (
	MetricTypeCounter        MetricType = "counter"
	MetricTypeGauge          MetricType = "gauge"
	MetricTypeHistogram      MetricType = "histogram"
	MetricTypeGaugeHistogram MetricType = "gaugehistogram"
	MetricTypeSummary        MetricType = "summary"
	MetricTypeInfo           MetricType = "info"
	MetricTypeStateset       MetricType = "stateset"
	MetricTypeUnknown        MetricType = "unknown"
)

// ActiveTarget is a target currently being scraped.
type ActiveTarget struct {
	DiscoveredLabels   map[string]string `json:"discoveredLabels"`
	Labels             model.LabelSet    `json:"labels"`
	ScrapePool         string            `json:"scrapePool"`
	ScrapeURL          string            `json:"scrapeUrl"`
	GlobalURL          string            `json:"globalUrl"`
	LastError          string            `json:"lastError"`
	LastScrape         time.Time         `json:"lastScrape"`
	LastScrapeDuration float64           `json:"lastScrapeDuration"`
	Health             TargetHealth      `json:"health"`
	ScrapeInterval     model.Duration    `json:"scrapeInterval"`
	ScrapeTimeout      model.Duration    `json:"scrapeTimeout"`
}

// DroppedTarget is a target discarded by relabeling.
type DroppedTarget struct {
	DiscoveredLabels map[string]string `json:"discoveredLabels"`
}

// TargetDiscovery is the full target state of the server.
type TargetDiscovery struct {
	Active  []ActiveTarget  `json:"activeTargets"`
	Dropped []DroppedTarget `json:"droppedTargets"`
}

// TargetMetadata is metadata for one metric on one target.
type TargetMetadata struct {
	Target map[string]string `json:"target"`
	Metric string            `json:"metric,omitempty"`
	Type   MetricType        `json:"type"`
	Help   string            `json:"help"`
	Unit   string            `json:"unit"`
}

// MetricMetadata is metadata for a metric name, as aggregated over all
// targets exposing it.
type MetricMetadata struct {
	Type MetricType `json:"type"`
	Help string     `json:"help"`
	Unit string     `json:"unit"`
}

// Targets returns the current scrape target state. An empty state
// returns both active and dropped targets.
func (c *Client) Targets(ctx context.Context, state TargetState) (*TargetDiscovery, error) {
	params := url.Values{}
	if state != "" {
		params.Set("state", string(state))
	}

	var discovery TargetDiscovery
	if err := c.getJSON(ctx, "targets", epTargets, params, &discovery); err != nil {
		return nil, err
	}
	return &discovery, nil
}

// TargetMetadata returns metric metadata from targets matched by the
// matchTarget selector. Empty arguments are omitted so the server
// applies no filter; a zero limit returns all entries.
func (c *Client) TargetMetadata(ctx context.Context, matchTarget, metric string, limit int) ([]TargetMetadata, error) {
	params := url.Values{}
	if matchTarget != "" {
		params.Set("match_target", matchTarget)
	}
	if metric != "" {
		params.Set("metric", metric)
	}
	if limit > 0 {
		params.Set("limit", formatInt(limit))
	}

	var metadata []TargetMetadata
	if err := c.getJSON(ctx, "targets_metadata", epTargetsMetadata, params, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// MetricMetadata returns metadata keyed by metric name. A non-empty
// metric restricts the result to that name; a zero limit returns all
// entries.
func (c *Client) MetricMetadata(ctx context.Context, metric string, limit int) (map[string][]MetricMetadata, error) {
	params := url.Values{}
	if metric != "" {
		params.Set("metric", metric)
	}
	if limit > 0 {
		params.Set("limit", formatInt(limit))
	}

	var metadata map[string][]MetricMetadata
	if err := c.getJSON(ctx, "metadata", epMetadata, params, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
