// Package retention provides retention policy enforcement for the
// query archive.
//
// # Retention Policy
//
// Old records are pruned automatically:
//
//   - Configurable retention period (days)
//   - Configurable max record count
//   - Scheduled pruning (cron expression)
//   - Optional export to JSON before deletion
//
// # Basic Usage
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays:      90,
//	    PruneSchedule:      "0 3 * * *", // daily at 3 AM
//	    ExportBeforeDelete: true,
//	    ExportPath:         "data/exports/",
//	})
//
//	if err := pruner.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pruner.Stop()
//
//	// Check next scheduled pruning time
//	if next := pruner.NextPruning(); next != nil {
//	    log.Printf("next pruning scheduled for %s", next)
//	}
//
// # Manual Pruning
//
// Pruning can also be triggered manually, which is what the
// `galileo archive prune` command does:
//
//	deleted, err := pruner.Prune(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("deleted %d records", deleted)
//
// # Scheduling
//
// The pruner runs on a standard five-field cron schedule:
//
//   - "0 3 * * *": daily at 3 AM (default)
//   - "0 0 * * 0": weekly on Sunday at midnight
//   - "0 */6 * * *": every 6 hours
//
// If no schedule is configured (empty PruneSchedule), the scheduler
// does nothing and Start() returns immediately without error. The
// scheduler shuts down gracefully, waiting for a running pruning job
// to finish.
package retention
