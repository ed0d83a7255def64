package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/promapi"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	Long: `Show server status.

Available subcommands:
  buildinfo   - Build version, revision, and Go version
  runtimeinfo - Runtime state: uptime, series count, goroutines
  flags       - Command line flags the server was started with
  config      - Loaded configuration file as YAML
  tsdb        - TSDB head statistics and cardinality rankings
  walreplay   - Write-ahead log replay progress

Examples:
  # What version is the server running?
  galileo status buildinfo

  # How many series does it hold?
  galileo status runtimeinfo

  # Which metrics have the highest cardinality?
  galileo status tsdb`,
}

var statusBuildInfoCmd = &cobra.Command{
	Use:   "buildinfo",
	Short: "Show server build information",
	RunE:  runStatusBuildInfo,
}

var statusRuntimeInfoCmd = &cobra.Command{
	Use:   "runtimeinfo",
	Short: "Show server runtime information",
	RunE:  runStatusRuntimeInfo,
}

var statusFlagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Show server command line flags",
	RunE:  runStatusFlags,
}

var statusConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the loaded server configuration",
	RunE:  runStatusConfig,
}

var statusTSDBCmd = &cobra.Command{
	Use:   "tsdb",
	Short: "Show TSDB cardinality statistics",
	RunE:  runStatusTSDB,
}

var statusWALReplayCmd = &cobra.Command{
	Use:   "walreplay",
	Short: "Show WAL replay progress",
	RunE:  runStatusWALReplay,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.AddCommand(statusBuildInfoCmd)
	statusCmd.AddCommand(statusRuntimeInfoCmd)
	statusCmd.AddCommand(statusFlagsCmd)
	statusCmd.AddCommand(statusConfigCmd)
	statusCmd.AddCommand(statusTSDBCmd)
	statusCmd.AddCommand(statusWALReplayCmd)
}

func runStatusBuildInfo(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()

	info, err := client.BuildInfo(ctx)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, info)
	}

	fmt.Printf("Version:    %s\n", info.Version)
	fmt.Printf("Revision:   %s\n", info.Revision)
	fmt.Printf("Branch:     %s\n", info.Branch)
	fmt.Printf("Build Date: %s\n", info.BuildDate)
	fmt.Printf("Go Version: %s\n", info.GoVersion)
	return nil
}

func runStatusRuntimeInfo(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()

	info, err := client.RuntimeInfo(ctx)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, info)
	}

	fmt.Printf("Start Time:        %s (up %s)\n", info.StartTime.Format(time.RFC3339), time.Since(info.StartTime).Round(time.Second))
	fmt.Printf("Working Directory: %s\n", info.CWD)
	fmt.Printf("Config Reload OK:  %t\n", info.ReloadConfigSuccess)
	fmt.Printf("Last Config Time:  %s\n", info.LastConfigTime.Format(time.RFC3339))
	fmt.Printf("Time Series:       %d\n", info.TimeSeriesCount)
	fmt.Printf("Chunks:            %d\n", info.ChunkCount)
	fmt.Printf("Corruptions:       %d\n", info.CorruptionCount)
	fmt.Printf("Goroutines:        %d\n", info.GoroutineCount)
	fmt.Printf("GOMAXPROCS:        %d\n", info.GOMAXPROCS)
	fmt.Printf("Storage Retention: %s\n", info.StorageRetention)
	return nil
}

func runStatusFlags(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()

	flags, err := client.Flags(ctx)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, flags)
	}

	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s = %s\n", name, flags[name])
	}
	return nil
}

func runStatusConfig(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()

	result, err := client.ServerConfig(ctx)
	if err != nil {
		return err
	}

	// The configuration is already YAML text; printing it raw keeps it
	// usable with promtool and diff regardless of the output format.
	fmt.Print(result.YAML)
	if len(result.YAML) > 0 && result.YAML[len(result.YAML)-1] != '\n' {
		fmt.Println()
	}
	return nil
}

func runStatusTSDB(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()

	stats, err := client.TSDBStats(ctx)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, stats)
	}

	fmt.Printf("Head Series:      %d\n", stats.HeadStats.NumSeries)
	fmt.Printf("Head Chunks:      %d\n", stats.HeadStats.ChunkCount)
	fmt.Printf("Head Label Pairs: %d\n", stats.HeadStats.NumLabelPairs)
	fmt.Printf("Head Min Time:    %s\n", formatTSDBTime(stats.HeadStats.MinTime))
	fmt.Printf("Head Max Time:    %s\n", formatTSDBTime(stats.HeadStats.MaxTime))

	printTSDBRanking("Series count by metric name", stats.SeriesCountByMetricName)
	printTSDBRanking("Label value count by label name", stats.LabelValueCountByLabelName)
	printTSDBRanking("Memory in bytes by label name", stats.MemoryInBytesByLabelName)
	printTSDBRanking("Series count by label value pair", stats.SeriesCountByLabelValuePair)
	return nil
}

func runStatusWALReplay(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()

	status, err := client.WALReplay(ctx)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, status)
	}

	if status.InProgress() {
		fmt.Printf("WAL replay in progress: segment %d of %d (started at %d)\n", status.Current, status.Max, status.Min)
	} else {
		fmt.Printf("WAL replay done: %d segments\n", status.Max)
	}
	if status.State != "" {
		fmt.Printf("State: %s\n", status.State)
	}
	return nil
}

func printTSDBRanking(title string, stats []promapi.TSDBStat) {
	if len(stats) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, stat := range stats {
		fmt.Printf("  %-50s %d\n", stat.Name, stat.Value)
	}
}

// formatTSDBTime renders a TSDB boundary timestamp. The head block
// reports milliseconds since epoch, with math.MinInt64 standing in for
// an empty head.
func formatTSDBTime(ms int64) string {
	if ms <= 0 {
		return "none"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
