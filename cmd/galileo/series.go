package main

import (
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
)

var seriesFlags struct {
	matchers []string
	start    string
	end      string
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Find series by label matchers",
	Long: `Find time series matching label matchers.

At least one --match is required. Each matched series prints as its
full label set.

Examples:
  # All up series
  galileo series --match 'up'

  # Series of two selectors
  galileo series --match 'up{job="prometheus"}' --match 'process_start_time_seconds'

  # Restrict to a time window
  galileo series --match 'up' --start 2026-08-01T00:00:00Z --end 2026-08-02T00:00:00Z`,
	RunE: runSeries,
}

func init() {
	rootCmd.AddCommand(seriesCmd)

	seriesCmd.Flags().StringArrayVar(&seriesFlags.matchers, "match", nil, "series matcher (repeatable, at least one required)")
	seriesCmd.Flags().StringVar(&seriesFlags.start, "start", "", "window start (RFC 3339 or Unix timestamp)")
	seriesCmd.Flags().StringVar(&seriesFlags.end, "end", "", "window end (RFC 3339 or Unix timestamp)")
	_ = seriesCmd.MarkFlagRequired("match")
}

func runSeries(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	start, end, err := parseWindow(seriesFlags.start, seriesFlags.end)
	if err != nil {
		return err
	}

	f, err := newFormatter()
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()
	sets, warnings, err := client.Series(ctx, seriesFlags.matchers, start, end)
	if err != nil {
		return err
	}

	printWarnings(warnings)
	return f.FormatTo(os.Stdout, sets)
}
