package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/cli"
)

var adminFlags struct {
	matchers []string
	start    string
	end      string
	skipHead bool
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "TSDB administration",
	Long: `Administer the server's time series database.

These commands call the admin API, which is disabled by default; the
server must run with --web.enable-admin-api.

Subcommands:
  delete-series    - Mark series data for deletion
  clean-tombstones - Remove deleted data from disk
  snapshot         - Snapshot current data to the snapshots directory

Examples:
  # Drop a noisy metric for one day, then reclaim the space
  galileo admin delete-series --match 'noisy_metric' \
      --start 2026-08-22T00:00:00Z --end 2026-08-23T00:00:00Z
  galileo admin clean-tombstones

  # Back up before an upgrade
  galileo admin snapshot`,
}

var adminDeleteSeriesCmd = &cobra.Command{
	Use:   "delete-series",
	Short: "Mark series data for deletion",
	Long: `Mark data of series matching the matchers for deletion.

Deletion writes tombstones; the data stays on disk until the next
compaction or a clean-tombstones run. Without a time window the whole
retention period of the matched series is deleted.

Examples:
  # One series, full retention
  galileo admin delete-series --match 'up{job="dead-job"}'

  # A time window of one metric
  galileo admin delete-series --match 'noisy_metric' \
      --start 2026-08-22T00:00:00Z --end 2026-08-23T00:00:00Z`,
	RunE: runAdminDeleteSeries,
}

var adminCleanTombstonesCmd = &cobra.Command{
	Use:   "clean-tombstones",
	Short: "Remove deleted data from disk",
	RunE:  runAdminCleanTombstones,
}

var adminSnapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Snapshot current data",
	Long: `Create a snapshot of all current data.

The server writes the snapshot into its data/snapshots directory and
reports the snapshot name. With --skip-head, data still in the head
block (not yet compacted) is excluded.`,
	RunE: runAdminSnapshot,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminDeleteSeriesCmd, adminCleanTombstonesCmd, adminSnapshotCmd)

	adminDeleteSeriesCmd.Flags().StringArrayVar(&adminFlags.matchers, "match", nil, "series matcher (repeatable, at least one required)")
	adminDeleteSeriesCmd.Flags().StringVar(&adminFlags.start, "start", "", "window start (RFC 3339 or Unix timestamp, default: beginning of retention)")
	adminDeleteSeriesCmd.Flags().StringVar(&adminFlags.end, "end", "", "window end (RFC 3339 or Unix timestamp, default: now)")
	_ = adminDeleteSeriesCmd.MarkFlagRequired("match")

	adminSnapshotCmd.Flags().BoolVar(&adminFlags.skipHead, "skip-head", false, "exclude data in the head block")
}

func runAdminDeleteSeries(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	start, end, err := parseWindow(adminFlags.start, adminFlags.end)
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()
	if err := client.DeleteSeries(ctx, adminFlags.matchers, start, end); err != nil {
		return err
	}

	fmt.Println("Series marked for deletion.")
	fmt.Println("Data stays on disk until the next compaction; run 'galileo admin clean-tombstones' to remove it now.")
	return nil
}

func runAdminCleanTombstones(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()
	if err := client.CleanTombstones(ctx); err != nil {
		return err
	}

	fmt.Println("Tombstones cleaned.")
	return nil
}

func runAdminSnapshot(cmd *cobra.Command, args []string) error {
	client, cleanup, err := newClient()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cli.SetupSignalHandler()
	result, err := client.Snapshot(ctx, adminFlags.skipHead)
	if err != nil {
		return err
	}

	if outputFormat != "text" {
		f, err := newFormatter()
		if err != nil {
			return err
		}
		return f.FormatTo(os.Stdout, result)
	}

	fmt.Printf("Snapshot created: %s\n", result.Name)
	fmt.Println("Find it under the server's data/snapshots directory.")
	return nil
}
