package promapi

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// SnapshotResult holds the name of a created TSDB snapshot.
type SnapshotResult struct {
	Name string `json:"name"`
}

// DeleteSeries deletes data for series matching the given matchers in
// the given time range. At least one matcher is required. Zero times
// delete over the full retention window.
//
// Requires the server to run with the admin API enabled.
func (c *Client) DeleteSeries(ctx context.Context, matchers []string, start, end time.Time) error {
	if len(matchers) == 0 {
		return &ValidationError{Field: "match[]", Message: "at least one series matcher is required"}
	}
	if err := c.validateSelectors(matchers); err != nil {
		return err
	}
	if err := validateTimeRange(start, end); err != nil {
		return err
	}

	params := url.Values{}
	addMatchers(params, matchers)
	addTimeRange(params, start, end)

	event := c.newEvent("delete_series", http.MethodPost, "")
	defer c.observe(ctx, event)

	// Success is a 204 with an empty body, so the envelope is not decoded.
	_, err := c.callRaw(ctx, event, http.MethodPost, epDeleteSeries, params)
	return err
}

// CleanTombstones removes deleted data from disk and drops the
// tombstone files created by DeleteSeries.
//
// Requires the server to run with the admin API enabled.
func (c *Client) CleanTombstones(ctx context.Context) error {
	event := c.newEvent("clean_tombstones", http.MethodPost, "")
	defer c.observe(ctx, event)

	_, err := c.callRaw(ctx, event, http.MethodPost, epCleanTombstones, nil)
	return err
}

// Snapshot creates a snapshot of all current data in the snapshots
// directory of the server. When skipHead is true, data in the head
// block is excluded.
//
// Requires the server to run with the admin API enabled.
func (c *Client) Snapshot(ctx context.Context, skipHead bool) (*SnapshotResult, error) {
	params := url.Values{}
	if skipHead {
		params.Set("skip_head", "true")
	}

	event := c.newEvent("snapshot", http.MethodPost, "")
	defer c.observe(ctx, event)

	env, err := c.call(ctx, event, http.MethodPost, epSnapshot, params)
	if err != nil {
		return nil, err
	}

	var result SnapshotResult
	if err := decodeData(env, &result); err != nil {
		event.Err = err
		return nil, err
	}
	return &result, nil
}
