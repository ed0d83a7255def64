package promapi

import (
	"context"
	"net/url"
	"time"
)

// Range describes the time window and resolution of a range query.
type Range struct {
	// Start is the beginning of the window (inclusive)
	Start time.Time

	// End is the end of the window (inclusive)
	End time.Time

	// Step is the query resolution
	Step time.Duration
}

// queryOptions holds per-query settings applied through QueryOption.
type queryOptions struct {
	timeout time.Duration
	stats   bool
	limit   int
}

// QueryOption configures a single query or query_range call.
type QueryOption func(*queryOptions)

// WithTimeout sets a server-side evaluation timeout for the query.
func WithTimeout(d time.Duration) QueryOption {
	return func(o *queryOptions) {
		o.timeout = d
	}
}

// WithStats requests query execution statistics with the result.
func WithStats() QueryOption {
	return func(o *queryOptions) {
		o.stats = true
	}
}

// WithLimit caps the number of returned series. Zero means no limit.
func WithLimit(n int) QueryOption {
	return func(o *queryOptions) {
		o.limit = n
	}
}

// addTo applies the options as request parameters.
func (o *queryOptions) addTo(params url.Values) {
	if o.timeout > 0 {
		params.Set("timeout", formatDuration(o.timeout))
	}
	if o.stats {
		params.Set("stats", "all")
	}
	if o.limit > 0 {
		params.Set("limit", formatInt(o.limit))
	}
}

func applyQueryOptions(opts []QueryOption) *queryOptions {
	o := &queryOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Query evaluates an instant query at the given time. A zero ts omits
// the time parameter so the server evaluates at its current time.
func (c *Client) Query(ctx context.Context, expr string, ts time.Time, opts ...QueryOption) (*QueryResult, error) {
	if err := c.validateExpr(expr); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", expr)
	if !ts.IsZero() {
		params.Set("time", formatTime(ts))
	}
	applyQueryOptions(opts).addTo(params)

	event := c.newEvent("query", c.queryMethod(), expr)
	defer c.observe(ctx, event)

	env, err := c.call(ctx, event, event.Method, epQuery, params)
	if err != nil {
		return nil, err
	}

	result, err := decodeQueryResult(env)
	if err != nil {
		event.Err = err
		return nil, err
	}

	event.ResultType = result.ResultType().String()
	return result, nil
}

// QueryRange evaluates an expression over a time range. The result is
// a matrix with one sample per step for each matching series.
func (c *Client) QueryRange(ctx context.Context, expr string, r Range, opts ...QueryOption) (*QueryResult, error) {
	if err := c.validateExpr(expr); err != nil {
		return nil, err
	}
	if r.Step <= 0 {
		return nil, &ValidationError{Field: "step", Message: "step must be greater than zero"}
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return nil, &ValidationError{Field: "start", Message: "start and end times are required"}
	}
	if r.End.Before(r.Start) {
		return nil, &ValidationError{Field: "end", Message: "end time must not be before start time"}
	}

	params := url.Values{}
	params.Set("query", expr)
	params.Set("start", formatTime(r.Start))
	params.Set("end", formatTime(r.End))
	params.Set("step", formatDuration(r.Step))
	applyQueryOptions(opts).addTo(params)

	event := c.newEvent("query_range", c.queryMethod(), expr)
	event.RangeStart = r.Start
	event.RangeEnd = r.End
	event.Step = r.Step
	defer c.observe(ctx, event)

	env, err := c.call(ctx, event, event.Method, epQueryRange, params)
	if err != nil {
		return nil, err
	}

	result, err := decodeQueryResult(env)
	if err != nil {
		event.Err = err
		return nil, err
	}

	event.ResultType = result.ResultType().String()
	return result, nil
}
