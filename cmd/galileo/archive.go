package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/galileo/pkg/archive"
	"mercator-hq/galileo/pkg/archive/export"
	"mercator-hq/galileo/pkg/archive/retention"
	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/config"
)

var archiveFlags struct {
	backend    string
	endpoint   string
	status     string
	errorType  string
	start      string
	end        string
	limit      int
	offset     int
	sortBy     string
	sortOrder  string
	format     string
	out        string
	olderThan  int
	maxRecords int64
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect the local query archive",
	Long: `Inspect the local archive of executed queries.

When archiving is enabled in the configuration, every API call is
recorded with its expression, timing, and outcome. The archive
subcommands read that database directly; no server is contacted.

Subcommands:
  list   - List archived records with filters
  export - Export records as JSON or CSV
  stats  - Summarize the archive contents
  prune  - Delete records past the retention policy

Examples:
  # Recent failed queries
  galileo archive list --status error

  # Export one day of records to a file
  galileo archive export --start 2026-08-22T00:00:00Z --end 2026-08-23T00:00:00Z --out day.json

  # Enforce retention now instead of waiting for the schedule
  galileo archive prune`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived query records",
	Long: `List archived query records with filters.

Times accept RFC 3339 or Unix timestamps and bound the execution time
of the recorded query.

Examples:
  # Most recent records
  galileo archive list

  # Failed range queries
  galileo archive list --endpoint query_range --status error

  # Page through a time window, oldest first
  galileo archive list --start 2026-08-20T00:00:00Z --sort-order asc --limit 50 --offset 50`,
	RunE: runArchiveList,
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived records",
	Long: `Export archived query records as JSON or CSV.

Records are streamed from storage, so exports of large archives do not
load everything into memory. Without --out the export goes to stdout.

Examples:
  # Everything, as JSON on stdout
  galileo archive export

  # Failed queries of the last week, as CSV
  galileo archive export --format csv --status error --start 2026-08-16T00:00:00Z --out failures.csv`,
	RunE: runArchiveExport,
}

var archiveStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the archive contents",
	RunE:  runArchiveStats,
}

var archivePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records past the retention policy",
	Long: `Delete archived records past the retention policy.

By default the retention settings from the configuration apply; the
flags override them for this run. Age-based pruning removes records
older than the retention period, and count-based pruning removes the
oldest records above the maximum count. Export-before-delete from the
configuration is honored.

Examples:
  # Apply the configured retention policy now
  galileo archive prune

  # Keep only the last 30 days
  galileo archive prune --older-than 30

  # Cap the archive at one million records
  galileo archive prune --max-records 1000000`,
	RunE: runArchivePrune,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd, archiveExportCmd, archiveStatsCmd, archivePruneCmd)

	archiveCmd.PersistentFlags().StringVar(&archiveFlags.backend, "backend", "", "archive backend: sqlite, memory (uses config if not specified)")

	// Flags for list command
	archiveListCmd.Flags().StringVar(&archiveFlags.endpoint, "endpoint", "", "filter by endpoint (query, query_range, series, ...)")
	archiveListCmd.Flags().StringVar(&archiveFlags.status, "status", "", "filter by status (success, error)")
	archiveListCmd.Flags().StringVar(&archiveFlags.errorType, "error-type", "", "filter by error classification")
	archiveListCmd.Flags().StringVar(&archiveFlags.start, "start", "", "earliest execution time (RFC 3339 or Unix timestamp)")
	archiveListCmd.Flags().StringVar(&archiveFlags.end, "end", "", "latest execution time (RFC 3339 or Unix timestamp)")
	archiveListCmd.Flags().IntVar(&archiveFlags.limit, "limit", 100, "max results")
	archiveListCmd.Flags().IntVar(&archiveFlags.offset, "offset", 0, "pagination offset")
	archiveListCmd.Flags().StringVar(&archiveFlags.sortBy, "sort-by", "", "sort field: executed_at, duration, endpoint")
	archiveListCmd.Flags().StringVar(&archiveFlags.sortOrder, "sort-order", "", "sort order: asc, desc")

	// Flags for export command
	archiveExportCmd.Flags().StringVar(&archiveFlags.endpoint, "endpoint", "", "filter by endpoint")
	archiveExportCmd.Flags().StringVar(&archiveFlags.status, "status", "", "filter by status (success, error)")
	archiveExportCmd.Flags().StringVar(&archiveFlags.start, "start", "", "earliest execution time (RFC 3339 or Unix timestamp)")
	archiveExportCmd.Flags().StringVar(&archiveFlags.end, "end", "", "latest execution time (RFC 3339 or Unix timestamp)")
	archiveExportCmd.Flags().StringVar(&archiveFlags.format, "format", "json", "export format: json, csv")
	archiveExportCmd.Flags().StringVar(&archiveFlags.out, "out", "", "output file (default: stdout)")

	// Flags for prune command
	archivePruneCmd.Flags().IntVar(&archiveFlags.olderThan, "older-than", 0, "delete records older than this many days (overrides config)")
	archivePruneCmd.Flags().Int64Var(&archiveFlags.maxRecords, "max-records", 0, "keep at most this many records (overrides config)")
}

// openArchive loads the configuration and opens the storage backend for
// the archive subcommands.
func openArchive() (*config.Config, archive.Storage, error) {
	cfg, err := setup()
	if err != nil {
		return nil, nil, err
	}

	if archiveFlags.backend != "" {
		cfg.Archive.Backend = archiveFlags.backend
	}

	store, err := openArchiveStorage(cfg)
	if err != nil {
		return nil, nil, cli.NewCommandError("archive", err)
	}
	return cfg, store, nil
}

// buildArchiveFilter translates the filter flags into a storage filter.
func buildArchiveFilter() (*archive.Filter, error) {
	filter := &archive.Filter{
		Endpoint:  archiveFlags.endpoint,
		Status:    archiveFlags.status,
		ErrorType: archiveFlags.errorType,
		Limit:     archiveFlags.limit,
		Offset:    archiveFlags.offset,
		SortBy:    archiveFlags.sortBy,
		SortOrder: archiveFlags.sortOrder,
	}

	if archiveFlags.start != "" {
		t, err := parseTime(archiveFlags.start)
		if err != nil {
			return nil, err
		}
		filter.StartTime = &t
	}
	if archiveFlags.end != "" {
		t, err := parseTime(archiveFlags.end)
		if err != nil {
			return nil, err
		}
		filter.EndTime = &t
	}

	return filter, nil
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	_, store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	filter, err := buildArchiveFilter()
	if err != nil {
		return err
	}

	ctx := cli.SetupSignalHandler()

	records, err := store.Query(ctx, filter)
	if err != nil {
		return cli.NewCommandError("archive", fmt.Errorf("query failed: %w", err))
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"total_records": len(records),
			"records":       records,
		})
	}
	return printArchiveRecords(records)
}

func printArchiveRecords(records []*archive.QueryRecord) error {
	fmt.Printf("Total records: %d\n", len(records))
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	for i, record := range records {
		if i > 0 {
			fmt.Println()
		}

		fmt.Printf("Record ID: %s\n", record.ID)
		fmt.Printf("Executed:  %s (%s)\n", record.ExecutedAt.Format(time.RFC3339), record.Duration.Round(time.Millisecond))
		fmt.Printf("Endpoint:  %s\n", record.Endpoint)
		if record.Expr != "" {
			fmt.Printf("Expr:      %s\n", record.Expr)
		}
		fmt.Printf("Status:    %s", record.Status)
		if record.StatusCode > 0 {
			fmt.Printf(" (HTTP %d)", record.StatusCode)
		}
		if record.Attempts > 1 {
			fmt.Printf(" after %d attempts", record.Attempts)
		}
		fmt.Println()
		if record.Error != "" {
			fmt.Printf("Error:     %s [%s]\n", record.Error, record.ErrorType)
		}
		if record.ResultType != "" {
			fmt.Printf("Result:    %s\n", record.ResultType)
		}
		if record.WarningCount > 0 {
			fmt.Printf("Warnings:  %d\n", record.WarningCount)
		}

		// Show limited output for large result sets
		if i >= 9 && len(records) > 10 {
			remaining := len(records) - 10
			fmt.Println()
			fmt.Printf("... and %d more records\n", remaining)
			fmt.Printf("Use --limit and --offset for pagination.\n")
			break
		}
	}

	return nil
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	var exportStream func(ctx context.Context, recordsCh <-chan *archive.QueryRecord, w io.Writer) error
	switch archiveFlags.format {
	case "json":
		exportStream = export.NewJSONExporter(true).ExportStream
	case "csv":
		exportStream = export.NewCSVExporter(true).ExportStream
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, csv)", archiveFlags.format)
	}

	_, store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	filter, err := buildArchiveFilter()
	if err != nil {
		return err
	}

	out := os.Stdout
	toFile := archiveFlags.out != ""
	if toFile {
		out, err = os.Create(archiveFlags.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer out.Close()
	}

	ctx := cli.SetupSignalHandler()

	recordsCh, errCh, err := store.QueryStream(ctx, filter)
	if err != nil {
		return cli.NewCommandError("archive", fmt.Errorf("export failed: %w", err))
	}

	// With stdout free, report progress on stderr while streaming. The
	// record count is unknown up front, so the reporter runs in
	// indeterminate mode.
	var progress cli.ProgressReporter
	exportCh := recordsCh
	if toFile {
		progress = cli.NewProgressReporter(os.Stderr)
		progress.Start(0)

		counted := make(chan *archive.QueryRecord)
		go func() {
			defer close(counted)
			for record := range recordsCh {
				progress.Increment()
				counted <- record
			}
		}()
		exportCh = counted
	}

	if err := exportStream(ctx, exportCh, out); err != nil {
		if progress != nil {
			progress.Error(err)
		}
		return cli.NewCommandError("archive", fmt.Errorf("export failed: %w", err))
	}
	if err := <-errCh; err != nil {
		if progress != nil {
			progress.Error(err)
		}
		return cli.NewCommandError("archive", fmt.Errorf("export failed: %w", err))
	}

	if progress != nil {
		progress.Finish()
	}
	return nil
}

// ArchiveStats summarizes the archive contents.
type ArchiveStats struct {
	TotalRecords int64            `json:"total_records"`
	Succeeded    int64            `json:"succeeded"`
	Failed       int64            `json:"failed"`
	ByEndpoint   map[string]int64 `json:"by_endpoint,omitempty"`
	OldestRecord *time.Time       `json:"oldest_record,omitempty"`
	NewestRecord *time.Time       `json:"newest_record,omitempty"`
}

func runArchiveStats(cmd *cobra.Command, args []string) error {
	_, store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()

	stats, err := collectArchiveStats(ctx, store)
	if err != nil {
		return cli.NewCommandError("archive", fmt.Errorf("stats failed: %w", err))
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	}

	fmt.Printf("Total records: %d\n", stats.TotalRecords)
	if stats.TotalRecords == 0 {
		return nil
	}

	pct := func(n int64) float64 {
		return float64(n) / float64(stats.TotalRecords) * 100
	}
	fmt.Printf("  success: %d (%.0f%%)\n", stats.Succeeded, pct(stats.Succeeded))
	fmt.Printf("  error:   %d (%.0f%%)\n", stats.Failed, pct(stats.Failed))

	if stats.OldestRecord != nil && stats.NewestRecord != nil {
		fmt.Println()
		fmt.Printf("Time range: %s to %s\n",
			stats.OldestRecord.Format(time.RFC3339),
			stats.NewestRecord.Format(time.RFC3339))
	}

	if len(stats.ByEndpoint) > 0 {
		fmt.Println()
		fmt.Println("By endpoint:")
		for _, endpoint := range sortedKeys(stats.ByEndpoint) {
			fmt.Printf("  %-15s %d\n", endpoint, stats.ByEndpoint[endpoint])
		}
	}
	return nil
}

func collectArchiveStats(ctx context.Context, store archive.Storage) (*ArchiveStats, error) {
	stats := &ArchiveStats{ByEndpoint: make(map[string]int64)}

	total, err := store.Count(ctx, &archive.Filter{})
	if err != nil {
		return nil, err
	}
	stats.TotalRecords = total

	if total == 0 {
		return stats, nil
	}

	succeeded, err := store.Count(ctx, &archive.Filter{Status: archive.StatusSuccess})
	if err != nil {
		return nil, err
	}
	stats.Succeeded = succeeded
	stats.Failed = total - succeeded

	// Endpoint distribution and the time bounds come from a streaming
	// pass; Count cannot group.
	recordsCh, errCh, err := store.QueryStream(ctx, &archive.Filter{})
	if err != nil {
		return nil, err
	}
	for record := range recordsCh {
		stats.ByEndpoint[record.Endpoint]++
		executed := record.ExecutedAt
		if stats.OldestRecord == nil || executed.Before(*stats.OldestRecord) {
			t := executed
			stats.OldestRecord = &t
		}
		if stats.NewestRecord == nil || executed.After(*stats.NewestRecord) {
			t := executed
			stats.NewestRecord = &t
		}
	}
	if err := <-errCh; err != nil {
		return nil, err
	}

	return stats, nil
}

func runArchivePrune(cmd *cobra.Command, args []string) error {
	cfg, store, err := openArchive()
	if err != nil {
		return err
	}
	defer store.Close()

	retentionCfg := &retention.Config{
		RetentionDays:      cfg.Archive.Retention.Days,
		ExportBeforeDelete: cfg.Archive.Retention.ExportBeforeDelete,
		ExportPath:         cfg.Archive.Retention.ExportPath,
		MaxRecords:         cfg.Archive.Retention.MaxRecords,
	}
	if archiveFlags.olderThan > 0 {
		retentionCfg.RetentionDays = archiveFlags.olderThan
	}
	if archiveFlags.maxRecords > 0 {
		retentionCfg.MaxRecords = archiveFlags.maxRecords
	}

	if retentionCfg.RetentionDays == 0 && retentionCfg.MaxRecords == 0 {
		return fmt.Errorf("nothing to prune: set retention in the config or pass --older-than or --max-records")
	}

	ctx := cli.SetupSignalHandler()

	pruner := retention.NewPruner(store, retentionCfg)
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("archive", fmt.Errorf("prune failed: %w", err))
	}

	fmt.Printf("Deleted %d record(s)\n", deleted)
	return nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
