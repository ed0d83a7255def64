package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLintQueriesValidExpr(t *testing.T) {
	// Set flags
	lintFlags.file = ""
	lintFlags.pretty = false

	// Run lint command
	err := lintQueries(nil, []string{"rate(http_requests_total[5m])"})
	if err != nil {
		t.Errorf("lintQueries() with valid expression returned error: %v", err)
	}
}

func TestLintQueriesInvalidExpr(t *testing.T) {
	// Set flags
	lintFlags.file = ""
	lintFlags.pretty = false

	// Run lint command - should return error for invalid expression
	err := lintQueries(nil, []string{"up{"})
	if err == nil {
		t.Error("lintQueries() with invalid expression should return error")
	}
}

func TestLintQueriesMixed(t *testing.T) {
	// Set flags
	lintFlags.file = ""
	lintFlags.pretty = false

	// One invalid expression fails the whole run
	err := lintQueries(nil, []string{"up", "sum(rate("})
	if err == nil {
		t.Error("lintQueries() with one invalid expression should return error")
	}
}

func TestLintQueriesNoInput(t *testing.T) {
	// Set flags - neither args nor file specified
	lintFlags.file = ""
	lintFlags.pretty = false

	// Run lint command - should return error
	err := lintQueries(nil, []string{})
	if err == nil {
		t.Error("lintQueries() without expressions should return error")
	}
}

func TestLintQueriesJSONFormat(t *testing.T) {
	origFormat := outputFormat
	defer func() { outputFormat = origFormat }()
	outputFormat = "json"

	lintFlags.file = ""
	lintFlags.pretty = false

	if err := lintQueries(nil, []string{"up"}); err != nil {
		t.Errorf("lintQueries() with JSON format returned error: %v", err)
	}

	// Invalid expressions still fail the run in JSON mode
	if err := lintQueries(nil, []string{"up{"}); err == nil {
		t.Error("lintQueries() with invalid expression should return error in JSON mode")
	}
}

func TestLintQueriesFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	exprFile := filepath.Join(tmpDir, "queries.txt")
	content := "up\nrate(http_requests_total[5m])\n\nsum(up) by (job)\n"
	if err := os.WriteFile(exprFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lintFlags.file = exprFile
	lintFlags.pretty = false
	defer func() { lintFlags.file = "" }()

	if err := lintQueries(nil, []string{}); err != nil {
		t.Errorf("lintQueries() with expression file returned error: %v", err)
	}
}

func TestLintQueriesNonexistentFile(t *testing.T) {
	lintFlags.file = "testdata/nonexistent.txt"
	lintFlags.pretty = false
	defer func() { lintFlags.file = "" }()

	if err := lintQueries(nil, []string{}); err == nil {
		t.Error("lintQueries() with nonexistent file should return error")
	}
}

func TestLintExpr(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		wantValid bool
	}{
		{
			name:      "simple selector",
			expr:      "up",
			wantValid: true,
		},
		{
			name:      "aggregation",
			expr:      "sum by (job) (rate(http_requests_total[5m]))",
			wantValid: true,
		},
		{
			name:      "unclosed brace",
			expr:      "up{",
			wantValid: false,
		},
		{
			name:      "unclosed paren",
			expr:      "sum(up",
			wantValid: false,
		},
		{
			name:      "empty expression",
			expr:      "",
			wantValid: false,
		},
	}

	lintFlags.pretty = false

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := lintExpr(tt.expr)
			if result.Valid != tt.wantValid {
				t.Errorf("lintExpr(%q).Valid = %v, want %v", tt.expr, result.Valid, tt.wantValid)
			}
			if !tt.wantValid && result.Error == "" {
				t.Errorf("lintExpr(%q).Error should not be empty for invalid expression", tt.expr)
			}
		})
	}
}

func TestLintExprPretty(t *testing.T) {
	lintFlags.pretty = true
	defer func() { lintFlags.pretty = false }()

	result := lintExpr("sum by (job) (rate(http_requests_total[5m]))")
	if !result.Valid {
		t.Fatalf("lintExpr() returned invalid: %s", result.Error)
	}
	if result.Pretty == "" {
		t.Error("lintExpr() with pretty enabled should fill Pretty")
	}
}
