package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mercator-hq/galileo/pkg/archive"
	"mercator-hq/galileo/pkg/archive/export"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain records.
	// 0 means keep records forever (no age-based pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// ExportBeforeDelete enables exporting records to JSON before
	// deletion.
	ExportBeforeDelete bool

	// ExportPath is the directory for pre-deletion exports.
	ExportPath string

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:      90,
		PruneSchedule:      "0 3 * * *",
		ExportBeforeDelete: false,
		ExportPath:         "data/exports/",
		MaxRecords:         0,
	}
}

// Pruner enforces retention policies on archived query records.
type Pruner struct {
	storage   archive.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(storage archive.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "archive.retention"),
	}

	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes records older than the retention period or exceeding
// the maximum record count.
//
// Pruning happens in two phases:
//  1. Age-based: delete records older than RetentionDays
//  2. Count-based: if total records > MaxRecords, delete oldest
//
// Both can run together. Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if totalDeleted == 0 {
		p.logger.Debug("no records pruned",
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Info("archive pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes records older than the retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)

	p.logger.Debug("pruning by age",
		"cutoff_time", cutoff,
		"retention_days", p.config.RetentionDays,
	)

	filter := &archive.Filter{
		EndTime: &cutoff,
	}

	if p.config.ExportBeforeDelete {
		records, err := p.storage.Query(ctx, filter)
		if err != nil {
			return 0, archive.NewRetentionError(p.config.RetentionDays,
				fmt.Errorf("failed to query records for export: %w", err))
		}
		if err := p.exportRecords(ctx, records, "age"); err != nil {
			return 0, archive.NewRetentionError(p.config.RetentionDays, err)
		}
	}

	deleted, err := p.storage.Delete(ctx, filter)
	if err != nil {
		return 0, archive.NewRetentionError(p.config.RetentionDays, err)
	}

	return deleted, nil
}

// pruneByCount deletes the oldest records when the total count exceeds
// MaxRecords.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &archive.Filter{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	if count <= p.config.MaxRecords {
		p.logger.Debug("record count within limit",
			"current", count,
			"max", p.config.MaxRecords,
		)
		return 0, nil
	}

	toDelete := count - p.config.MaxRecords

	p.logger.Info("record count exceeds limit, pruning oldest",
		"current_count", count,
		"max_records", p.config.MaxRecords,
		"to_delete", toDelete,
	)

	// Fetch the oldest records that must go. Their newest execution
	// time becomes the deletion cutoff.
	oldest, err := p.storage.Query(ctx, &archive.Filter{
		SortBy:    "executed_at",
		SortOrder: "asc",
		Limit:     int(toDelete),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query oldest records: %w", err)
	}

	if len(oldest) == 0 {
		p.logger.Debug("no records found to delete")
		return 0, nil
	}

	cutoff := oldest[len(oldest)-1].ExecutedAt

	p.logger.Debug("calculated cutoff for count-based pruning",
		"cutoff_time", cutoff,
		"records_to_delete", len(oldest),
	)

	if p.config.ExportBeforeDelete {
		if err := p.exportRecords(ctx, oldest, "count"); err != nil {
			return 0, fmt.Errorf("export failed: %w", err)
		}
	}

	deleted, err := p.storage.Delete(ctx, &archive.Filter{
		EndTime: &cutoff,
	})
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	return deleted, nil
}

// exportRecords writes records to a timestamped JSON file in the export
// directory before they are deleted.
func (p *Pruner) exportRecords(ctx context.Context, records []*archive.QueryRecord, reason string) error {
	if len(records) == 0 {
		return nil
	}

	p.logger.Info("exporting records before deletion",
		"record_count", len(records),
		"reason", reason,
	)

	if err := os.MkdirAll(p.config.ExportPath, 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	exportFile := filepath.Join(p.config.ExportPath,
		fmt.Sprintf("archive-%s-%s.json", reason, time.Now().Format("2006-01-02-150405")))
	f, err := os.Create(exportFile)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	exporter := export.NewJSONExporter(true)
	if err := exporter.Export(ctx, records, f); err != nil {
		return fmt.Errorf("failed to export records: %w", err)
	}

	p.logger.Info("records exported",
		"export_file", exportFile,
		"record_count", len(records),
	)

	return nil
}

// Start starts the automatic pruning scheduler.
// Call this when starting the application.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
