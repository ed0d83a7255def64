package promapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/prometheus/common/model"
)

// RuleType filters which rules the server returns.
type RuleType string

// Rule type filter values.
const (
	RuleTypeAlert  RuleType = "alert"
	RuleTypeRecord RuleType = "record"
)

// RuleHealth is the evaluation health of a rule.
type RuleHealth string

// Rule health values.
const (
	RuleHealthGood    RuleHealth = "ok"
	RuleHealthBad     RuleHealth = "err"
	RuleHealthUnknown RuleHealth = "unknown"
)

// AlertState is the activation state of an alert.
type AlertState string

// Alert state values.
const (
	AlertStateInactive AlertState = "inactive"
	AlertStatePending  AlertState = "pending"
	AlertStateFiring   AlertState = "firing"
)

// Alert is one active alert instance.
type Alert struct {
	ActiveAt    time.Time      `json:"activeAt"`
	Annotations model.LabelSet `json:"annotations"`
	Labels      model.LabelSet `json:"labels"`
	State       AlertState     `json:"state"`
	Value       string         `json:"value"`
}

// RuleGroups is the data field of a rules response.
type RuleGroups struct {
	Groups []RuleGroup `json:"groups"`
}

// RuleGroup is one evaluation group from a rule file.
type RuleGroup struct {
	Name           string    `json:"name"`
	File           string    `json:"file"`
	Interval       float64   `json:"interval"`
	Limit          int       `json:"limit"`
	Rules          Rules     `json:"rules"`
	EvaluationTime float64   `json:"evaluationTime"`
	LastEvaluation time.Time `json:"lastEvaluation"`
}

// Rule is either an AlertingRule or a RecordingRule.
type Rule interface{}

// Rules is a list of rules decoded by their type discriminator.
type Rules []Rule

// AlertingRule is a rule that fires alerts.
type AlertingRule struct {
	Name           string         `json:"name"`
	Query          string         `json:"query"`
	Duration       float64        `json:"duration"`
	KeepFiringFor  float64        `json:"keepFiringFor"`
	Labels         model.LabelSet `json:"labels"`
	Annotations    model.LabelSet `json:"annotations"`
	Alerts         []*Alert       `json:"alerts"`
	State          AlertState     `json:"state"`
	Health         RuleHealth     `json:"health"`
	LastError      string         `json:"lastError"`
	EvaluationTime float64        `json:"evaluationTime"`
	LastEvaluation time.Time      `json:"lastEvaluation"`
}

// RecordingRule is a rule that precomputes a new series.
type RecordingRule struct {
	Name           string         `json:"name"`
	Query          string         `json:"query"`
	Labels         model.LabelSet `json:"labels"`
	Health         RuleHealth     `json:"health"`
	LastError      string         `json:"lastError"`
	EvaluationTime float64        `json:"evaluationTime"`
	LastEvaluation time.Time      `json:"lastEvaluation"`
}

// UnmarshalJSON decodes each rule into its concrete type using the
// type discriminator field.
func (rs *Rules) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	rules := make(Rules, 0, len(raw))
	for _, r := range raw {
		var header struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(r, &header); err != nil {
			return err
		}

		switch header.Type {
		case "alerting":
			var rule AlertingRule
			if err := json.Unmarshal(r, &rule); err != nil {
				return err
			}
			rules = append(rules, rule)
		case "recording":
			var rule RecordingRule
			if err := json.Unmarshal(r, &rule); err != nil {
				return err
			}
			rules = append(rules, rule)
		default:
			return fmt.Errorf("unknown rule type %q", header.Type)
		}
	}

	*rs = rules
	return nil
}

// AlertManager is one discovered Alertmanager instance.
type AlertManager struct {
	URL string `json:"url"`
}

// AlertManagersResult is the data field of an alertmanagers response.
type AlertManagersResult struct {
	Active  []AlertManager `json:"activeAlertmanagers"`
	Dropped []AlertManager `json:"droppedAlertmanagers"`
}

// alertsData is the data field of an alerts response.
type alertsData struct {
	Alerts []Alert `json:"alerts"`
}

// Rules returns the currently loaded rule groups. An empty ruleType
// returns both alerting and recording rules.
func (c *Client) Rules(ctx context.Context, ruleType RuleType) (*RuleGroups, error) {
	params := url.Values{}
	if ruleType != "" {
		params.Set("type", string(ruleType))
	}

	var groups RuleGroups
	if err := c.getJSON(ctx, "rules", epRules, params, &groups); err != nil {
		return nil, err
	}
	return &groups, nil
}

// Alerts returns all currently active alerts.
func (c *Client) Alerts(ctx context.Context) ([]Alert, error) {
	var data alertsData
	if err := c.getJSON(ctx, "alerts", epAlerts, nil, &data); err != nil {
		return nil, err
	}
	return data.Alerts, nil
}

// AlertManagers returns the Alertmanager instances the server knows.
func (c *Client) AlertManagers(ctx context.Context) (*AlertManagersResult, error) {
	var result AlertManagersResult
	if err := c.getJSON(ctx, "alertmanagers", epAlertmanagers, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
