package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/promapi"
)

var queryFlags struct {
	time    string
	start   string
	end     string
	step    string
	timeout string
	stats   bool
	limit   int
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Evaluate PromQL expressions",
	Long: `Evaluate PromQL expressions against the server.

Subcommands:
  instant - Evaluate an expression at a single point in time
  range   - Evaluate an expression over a time range

Examples:
  # Current value of every up series
  galileo query instant 'up'

  # Request rate over the last six hours at one minute resolution
  galileo query range 'rate(http_requests_total[5m])' \
      --start 2026-08-01T00:00:00Z --end 2026-08-01T06:00:00Z --step 1m`,
}

var queryInstantCmd = &cobra.Command{
	Use:   "instant EXPR",
	Short: "Evaluate an instant query",
	Long: `Evaluate a PromQL expression at a single point in time.

Without --time the server evaluates at its current time.

Examples:
  # Evaluate now
  galileo query instant 'up'

  # Evaluate at a specific time
  galileo query instant 'up' --time 2026-08-01T12:00:00Z

  # Request execution statistics
  galileo query instant 'sum(rate(http_requests_total[5m]))' --stats`,
	Args: cobra.ExactArgs(1),
	RunE: runInstantQuery,
}

var queryRangeCmd = &cobra.Command{
	Use:   "range EXPR",
	Short: "Evaluate a range query",
	Long: `Evaluate a PromQL expression over a time range.

The result is a matrix with one sample per step for each matching
series. Start, end, and step are required.

Examples:
  # One hour of request rates at 30s resolution
  galileo query range 'rate(http_requests_total[5m])' \
      --start 2026-08-01T00:00:00Z --end 2026-08-01T01:00:00Z --step 30s

  # Unix timestamps work too
  galileo query range 'up' --start 1754006400 --end 1754010000 --step 1m`,
	Args: cobra.ExactArgs(1),
	RunE: runRangeQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(queryInstantCmd, queryRangeCmd)

	queryInstantCmd.Flags().StringVar(&queryFlags.time, "time", "", "evaluation time (RFC 3339 or Unix timestamp, default: server now)")
	queryInstantCmd.Flags().StringVar(&queryFlags.timeout, "timeout", "", "server-side evaluation timeout (e.g. 30s)")
	queryInstantCmd.Flags().BoolVar(&queryFlags.stats, "stats", false, "request query execution statistics")
	queryInstantCmd.Flags().IntVar(&queryFlags.limit, "limit", 0, "maximum number of returned series (0 = no limit)")

	queryRangeCmd.Flags().StringVar(&queryFlags.start, "start", "", "range start (RFC 3339 or Unix timestamp)")
	queryRangeCmd.Flags().StringVar(&queryFlags.end, "end", "", "range end (RFC 3339 or Unix timestamp)")
	queryRangeCmd.Flags().StringVar(&queryFlags.step, "step", "", "query resolution step (e.g. 30s, 5m)")
	queryRangeCmd.Flags().StringVar(&queryFlags.timeout, "timeout", "", "server-side evaluation timeout (e.g. 30s)")
	queryRangeCmd.Flags().BoolVar(&queryFlags.stats, "stats", false, "request query execution statistics")
	queryRangeCmd.Flags().IntVar(&queryFlags.limit, "limit", 0, "maximum number of returned series (0 = no limit)")
	_ = queryRangeCmd.MarkFlagRequired("start")
	_ = queryRangeCmd.MarkFlagRequired("end")
	_ = queryRangeCmd.MarkFlagRequired("step")
}

func runInstantQuery(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	var ts time.Time
	if queryFlags.time != "" {
		ts, err = parseTime(queryFlags.time)
		if err != nil {
			return err
		}
	}

	opts, err := buildQueryOptions()
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()
	result, err := client.Query(ctx, args[0], ts, opts...)
	if err != nil {
		return err
	}

	return printQueryResult(result)
}

func runRangeQuery(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	start, err := parseTime(queryFlags.start)
	if err != nil {
		return err
	}
	end, err := parseTime(queryFlags.end)
	if err != nil {
		return err
	}
	step, err := parseDuration(queryFlags.step)
	if err != nil {
		return err
	}

	opts, err := buildQueryOptions()
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()
	result, err := client.QueryRange(ctx, args[0], promapi.Range{
		Start: start,
		End:   end,
		Step:  step,
	}, opts...)
	if err != nil {
		return err
	}

	return printQueryResult(result)
}

func buildQueryOptions() ([]promapi.QueryOption, error) {
	var opts []promapi.QueryOption
	if queryFlags.timeout != "" {
		timeout, err := parseDuration(queryFlags.timeout)
		if err != nil {
			return nil, err
		}
		opts = append(opts, promapi.WithTimeout(timeout))
	}
	if queryFlags.stats {
		opts = append(opts, promapi.WithStats())
	}
	if queryFlags.limit > 0 {
		opts = append(opts, promapi.WithLimit(queryFlags.limit))
	}
	return opts, nil
}

func printQueryResult(result *promapi.QueryResult) error {
	f, err := newFormatter()
	if err != nil {
		return err
	}
	if err := f.FormatTo(os.Stdout, result); err != nil {
		return err
	}

	// Statistics render as extra text lines; JSON and CSV output carry
	// them inside the result itself.
	if queryFlags.stats && result.Stats != nil && outputFormat == "text" {
		printQueryStats(result.Stats)
	}
	return nil
}

func printQueryStats(stats *promapi.QueryStats) {
	fmt.Println()
	fmt.Println("Query statistics:")
	fmt.Printf("  Exec total time:   %gs\n", stats.Timings.ExecTotalTime)
	fmt.Printf("  Queue time:        %gs\n", stats.Timings.ExecQueueTime)
	fmt.Printf("  Eval total time:   %gs\n", stats.Timings.EvalTotalTime)
	fmt.Printf("  Queryable samples: %d\n", stats.Samples.TotalQueryableSamples)
	fmt.Printf("  Peak samples:      %d\n", stats.Samples.PeakSamples)
}
