package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/promapi"
)

var lintFlags struct {
	file   string
	pretty bool
}

var lintCmd = &cobra.Command{
	Use:   "lint [EXPR...]",
	Short: "Validate PromQL expressions",
	Long: `Validate PromQL expressions without contacting a server.

Expressions are parsed with the Prometheus PromQL parser, so anything
that passes lint will be accepted by the server. Invalid expressions
are reported with the parser's position information.

Expressions come from the command line, or one per line from a file
given with --file ("-" reads standard input).

Examples:
  # Lint a single expression
  galileo lint 'rate(http_requests_total[5m])'

  # Lint several expressions
  galileo lint 'up' 'sum(rate(errors[5m])) by (job)'

  # Lint expressions from a file, one per line
  galileo lint --file queries.txt

  # Print the canonical formatting of valid expressions
  galileo lint --pretty 'sum(rate(http_requests_total[5m])) by (job)'

  # JSON output for CI
  galileo lint -o json 'up{'`,
	RunE: lintQueries,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "file of expressions, one per line (\"-\" for stdin)")
	lintCmd.Flags().BoolVar(&lintFlags.pretty, "pretty", false, "print the canonical formatting of valid expressions")
}

// LintResult is the validation outcome for a single expression.
type LintResult struct {
	Expr   string `json:"expr"`
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
	Pretty string `json:"pretty,omitempty"`
}

func lintQueries(cmd *cobra.Command, args []string) error {
	exprs := append([]string(nil), args...)

	if lintFlags.file != "" {
		fromFile, err := readExprFile(lintFlags.file)
		if err != nil {
			return err
		}
		exprs = append(exprs, fromFile...)
	}

	if len(exprs) == 0 {
		return fmt.Errorf("no expressions to lint: pass them as arguments or with --file")
	}

	results := make([]LintResult, 0, len(exprs))
	for _, expr := range exprs {
		results = append(results, lintExpr(expr))
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
		return lintStatus(results)
	}
	return lintText(results)
}

func lintExpr(expr string) LintResult {
	result := LintResult{Expr: expr, Valid: true}

	if err := promapi.ValidateQuery(expr); err != nil {
		result.Valid = false
		var verr *promapi.ValidationError
		if errors.As(err, &verr) {
			result.Error = verr.Message
		} else {
			result.Error = err.Error()
		}
		return result
	}

	if lintFlags.pretty {
		pretty, err := promapi.FormatQuery(expr)
		if err == nil {
			result.Pretty = pretty
		}
	}
	return result
}

func lintText(results []LintResult) error {
	invalid := 0

	for _, result := range results {
		if result.Valid {
			fmt.Printf("✓ %s\n", result.Expr)
			if result.Pretty != "" && result.Pretty != result.Expr {
				fmt.Println(result.Pretty)
			}
		} else {
			fmt.Printf("✗ %s\n", result.Expr)
			fmt.Printf("  %s\n", result.Error)
			invalid++
		}
	}

	fmt.Println()
	fmt.Printf("Summary: %d expression(s), %d invalid\n", len(results), invalid)

	return lintStatus(results)
}

func lintStatus(results []LintResult) error {
	for _, result := range results {
		if !result.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}

func readExprFile(path string) ([]string, error) {
	var r *os.File
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read expressions: %w", err)
		}
		defer f.Close()
		r = f
	}

	var exprs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		exprs = append(exprs, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expressions: %w", err)
	}
	return exprs, nil
}
