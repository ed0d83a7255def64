package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
)

var labelsFlags struct {
	matchers []string
	start    string
	end      string
}

var labelsCmd = &cobra.Command{
	Use:   "labels [LABEL]",
	Short: "List label names or label values",
	Long: `List label names, or the values of one label.

Without an argument, lists every label name the server knows. With a
label name argument, lists that label's values. Series matchers and a
time window restrict which series are considered.

Examples:
  # All label names
  galileo labels

  # All values of the job label
  galileo labels job

  # Values of instance on one job's series
  galileo labels instance --match 'up{job="prometheus"}'

  # Restrict to a time window
  galileo labels job --start 2026-08-01T00:00:00Z --end 2026-08-02T00:00:00Z`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)

	labelsCmd.Flags().StringArrayVar(&labelsFlags.matchers, "match", nil, "series matcher (repeatable)")
	labelsCmd.Flags().StringVar(&labelsFlags.start, "start", "", "window start (RFC 3339 or Unix timestamp)")
	labelsCmd.Flags().StringVar(&labelsFlags.end, "end", "", "window end (RFC 3339 or Unix timestamp)")
}

func runLabels(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	start, end, err := parseWindow(labelsFlags.start, labelsFlags.end)
	if err != nil {
		return err
	}

	f, err := newFormatter()
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()

	if len(args) == 1 {
		values, warnings, err := client.LabelValues(ctx, args[0], labelsFlags.matchers, start, end)
		if err != nil {
			return err
		}
		printWarnings(warnings)
		return f.FormatTo(os.Stdout, values)
	}

	names, warnings, err := client.LabelNames(ctx, labelsFlags.matchers, start, end)
	if err != nil {
		return err
	}
	printWarnings(warnings)
	return f.FormatTo(os.Stdout, names)
}

// parseWindow parses an optional start/end pair. Empty strings produce
// zero times, which the client omits from the request.
func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, err = parseTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		end, err = parseTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}
