package promapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/common/model"
)

// Warnings are non-fatal messages the server attaches to a response.
type Warnings []string

// Series finds series matching the given label matchers. At least one
// matcher is required. Zero start or end times are omitted.
func (c *Client) Series(ctx context.Context, matchers []string, start, end time.Time) ([]model.LabelSet, Warnings, error) {
	if len(matchers) == 0 {
		return nil, nil, &ValidationError{Field: "match[]", Message: "at least one series matcher is required"}
	}
	if err := c.validateSelectors(matchers); err != nil {
		return nil, nil, err
	}
	if err := validateTimeRange(start, end); err != nil {
		return nil, nil, err
	}

	params := url.Values{}
	addMatchers(params, matchers)
	addTimeRange(params, start, end)

	event := c.newEvent("series", c.queryMethod(), "")
	event.RangeStart = start
	event.RangeEnd = end
	defer c.observe(ctx, event)

	env, err := c.call(ctx, event, event.Method, epSeries, params)
	if err != nil {
		return nil, nil, err
	}

	var series []model.LabelSet
	if err := decodeData(env, &series); err != nil {
		event.Err = err
		return nil, nil, err
	}

	return series, env.Warnings, nil
}

// LabelNames returns the names of all known labels, optionally limited
// to series matching the given matchers and time range.
func (c *Client) LabelNames(ctx context.Context, matchers []string, start, end time.Time) ([]string, Warnings, error) {
	if err := c.validateSelectors(matchers); err != nil {
		return nil, nil, err
	}
	if err := validateTimeRange(start, end); err != nil {
		return nil, nil, err
	}

	params := url.Values{}
	addMatchers(params, matchers)
	addTimeRange(params, start, end)

	event := c.newEvent("labels", c.queryMethod(), "")
	event.RangeStart = start
	event.RangeEnd = end
	defer c.observe(ctx, event)

	env, err := c.call(ctx, event, event.Method, epLabels, params)
	if err != nil {
		return nil, nil, err
	}

	var names []string
	if err := decodeData(env, &names); err != nil {
		event.Err = err
		return nil, nil, err
	}

	return names, env.Warnings, nil
}

// LabelValues returns the known values for a label, optionally limited
// to series matching the given matchers and time range.
func (c *Client) LabelValues(ctx context.Context, label string, matchers []string, start, end time.Time) (model.LabelValues, Warnings, error) {
	if !model.LabelName(label).IsValid() {
		return nil, nil, &ValidationError{Field: "label", Message: "invalid label name: " + label}
	}
	if err := c.validateSelectors(matchers); err != nil {
		return nil, nil, err
	}
	if err := validateTimeRange(start, end); err != nil {
		return nil, nil, err
	}

	params := url.Values{}
	addMatchers(params, matchers)
	addTimeRange(params, start, end)

	event := c.newEvent("label_values", http.MethodGet, "")
	event.RangeStart = start
	event.RangeEnd = end
	defer c.observe(ctx, event)

	env, err := c.call(ctx, event, http.MethodGet, labelValuesPath(label), params)
	if err != nil {
		return nil, nil, err
	}

	var values model.LabelValues
	if err := decodeData(env, &values); err != nil {
		event.Err = err
		return nil, nil, err
	}

	return values, env.Warnings, nil
}
