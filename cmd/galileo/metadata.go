package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/promapi"
)

var metadataFlags struct {
	matchTarget string
	metric      string
	limit       int
}

var metadataCmd = &cobra.Command{
	Use:   "metadata [METRIC]",
	Short: "Show metric metadata",
	Long: `Show metric metadata: type, help text, and unit.

Without flags, metadata is aggregated over all targets; an optional
METRIC argument restricts the result to one metric name. With
--match-target, metadata comes from the matched targets instead and
each entry names the target it came from.

Examples:
  # All metric metadata
  galileo metadata

  # One metric
  galileo metadata http_requests_total

  # Metadata from the targets of one job
  galileo metadata --match-target '{job="prometheus"}'

  # One metric on matched targets
  galileo metadata --match-target '{job="prometheus"}' --metric go_goroutines`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMetadata,
}

func init() {
	rootCmd.AddCommand(metadataCmd)

	metadataCmd.Flags().StringVar(&metadataFlags.matchTarget, "match-target", "", "target selector (switches to per-target metadata)")
	metadataCmd.Flags().StringVar(&metadataFlags.metric, "metric", "", "metric name filter for per-target metadata")
	metadataCmd.Flags().IntVar(&metadataFlags.limit, "limit", 0, "maximum number of entries (0 = no limit)")
}

func runMetadata(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()

	if metadataFlags.matchTarget != "" {
		metadata, err := client.TargetMetadata(ctx, metadataFlags.matchTarget, metadataFlags.metric, metadataFlags.limit)
		if err != nil {
			return err
		}
		return printTargetMetadata(metadata)
	}

	metric := ""
	if len(args) == 1 {
		metric = args[0]
	}

	metadata, err := client.MetricMetadata(ctx, metric, metadataFlags.limit)
	if err != nil {
		return err
	}
	return printMetricMetadata(metadata)
}

func printTargetMetadata(metadata []promapi.TargetMetadata) error {
	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, metadata)
	}

	if len(metadata) == 0 {
		fmt.Println("No metadata found.")
		return nil
	}

	for _, entry := range metadata {
		fmt.Printf("%s (%s)\n", entry.Metric, entry.Type)
		if entry.Help != "" {
			fmt.Printf("  help:   %s\n", entry.Help)
		}
		if entry.Unit != "" {
			fmt.Printf("  unit:   %s\n", entry.Unit)
		}
		fmt.Printf("  target: %v\n", entry.Target)
	}
	return nil
}

func printMetricMetadata(metadata map[string][]promapi.MetricMetadata) error {
	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, metadata)
	}

	if len(metadata) == 0 {
		fmt.Println("No metadata found.")
		return nil
	}

	names := make([]string, 0, len(metadata))
	for name := range metadata {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, entry := range metadata[name] {
			fmt.Printf("%s (%s)\n", name, entry.Type)
			if entry.Help != "" {
				fmt.Printf("  help: %s\n", entry.Help)
			}
			if entry.Unit != "" {
				fmt.Printf("  unit: %s\n", entry.Unit)
			}
		}
	}
	return nil
}
