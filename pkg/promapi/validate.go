package promapi

import (
	"fmt"

	"github.com/prometheus/prometheus/promql/parser"
)

// ValidateQuery parses expr as PromQL and returns a ValidationError if
// it is not a valid expression. The server would reject the expression
// as bad_data; validating client-side saves the round trip.
func ValidateQuery(expr string) error {
	if _, err := parser.ParseExpr(expr); err != nil {
		return &ValidationError{Field: "query", Message: err.Error()}
	}
	return nil
}

// ValidateMatchers parses each matcher as a series selector.
func ValidateMatchers(matchers []string) error {
	for _, m := range matchers {
		if _, err := parser.ParseMetricSelector(m); err != nil {
			return &ValidationError{Field: "match[]", Message: fmt.Sprintf("invalid matcher %q: %s", m, err)}
		}
	}
	return nil
}

// FormatQuery parses a PromQL expression and renders it in the
// canonical multi-line form.
func FormatQuery(expr string) (string, error) {
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		return "", &ValidationError{Field: "query", Message: err.Error()}
	}
	return parsed.Pretty(0), nil
}
