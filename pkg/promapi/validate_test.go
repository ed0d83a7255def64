package promapi

import (
	"errors"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name        string
		expr        string
		expectError bool
	}{
		{"metric name", "up", false},
		{"selector", `up{job="prometheus"}`, false},
		{"rate over range", `rate(http_requests_total[5m])`, false},
		{"aggregation", `sum by (job) (rate(http_requests_total[5m]))`, false},
		{"binary expression", `node_memory_MemFree_bytes / node_memory_MemTotal_bytes`, false},
		{"unclosed selector", `up{job="prometheus"`, true},
		{"unclosed range", `rate(http_requests_total[5m)`, true},
		{"trailing operator", `up +`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.expr)
			if tt.expectError {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if validationErr.Field != "query" {
					t.Errorf("Field = %q, expected %q", validationErr.Field, "query")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateMatchers(t *testing.T) {
	tests := []struct {
		name        string
		matchers    []string
		expectError bool
	}{
		{"single matcher", []string{`up`}, false},
		{"selector matcher", []string{`up{job="prometheus"}`}, false},
		{"multiple matchers", []string{`up`, `{__name__=~"node_.*"}`}, false},
		{"empty list", nil, false},
		{"invalid matcher", []string{`up{job=}`}, true},
		{"valid then invalid", []string{`up`, `{job=`}, true},
		{"expression not selector", []string{`rate(up[5m])`}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMatchers(tt.matchers)
			if tt.expectError {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if validationErr.Field != "match[]" {
					t.Errorf("Field = %q, expected %q", validationErr.Field, "match[]")
				}
				if !contains(validationErr.Message, "invalid matcher") {
					t.Errorf("Message = %q, expected matcher context", validationErr.Message)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFormatQuery(t *testing.T) {
	formatted, err := FormatQuery(`sum by (job) (rate(http_requests_total[5m]))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !contains(formatted, "sum by (job)") {
		t.Errorf("formatted query missing aggregation: %q", formatted)
	}
	if !contains(formatted, "http_requests_total[5m]") {
		t.Errorf("formatted query missing selector: %q", formatted)
	}
}

func TestFormatQuery_Invalid(t *testing.T) {
	_, err := FormatQuery(`sum by (`)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
