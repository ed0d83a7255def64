// Package archive provides an optional local audit trail of executed
// queries. Every completed API operation can be recorded as an
// immutable QueryRecord, so past queries can be reviewed, exported,
// and pruned.
//
// # Architecture
//
// The archive consists of three layers:
//
//  1. Recorder - builds records from client request events
//  2. Storage backend - persists records (SQLite or in-memory)
//  3. Retention - prunes records by age and count on a schedule
//
// # Query Records
//
// Each record captures:
//   - What was asked (endpoint, expression, time range, step)
//   - When it ran (execution time, duration, attempt count)
//   - How it went (status, HTTP status code, result type, warnings)
//   - Error information if the operation failed
//
// # Recording Flow
//
// Records are written asynchronously so archiving never blocks a query:
//
//	Client Operation → RequestEvent
//	     ↓
//	Recorder (buffered channel, single worker)
//	     ↓
//	Storage Backend (SQLite, WAL mode)
//
// # Basic Usage
//
//	// Initialize storage backend
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:    "data/archive.db",
//	    WALMode: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	// Create the recorder and register it as a client observer
//	rec := recorder.NewRecorder(store, &recorder.Config{
//	    Enabled:   true,
//	    ServerURL: "http://localhost:9090",
//	})
//	defer rec.Close()
//
//	client, err := promapi.New(promapi.Config{
//	    BaseURL:   "http://localhost:9090",
//	    Observers: []promapi.RequestObserver{rec},
//	})
//
// # Querying the Archive
//
//	filter := &archive.Filter{
//	    StartTime: &startTime,
//	    Endpoint:  "query_range",
//	    Status:    archive.StatusError,
//	    Limit:     100,
//	}
//
//	records, err := store.Query(ctx, filter)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Export to JSON
//	exporter := export.NewJSONExporter(true) // pretty-print
//	exporter.Export(ctx, records, os.Stdout)
//
// # Retention
//
// Records can be pruned automatically by age and total count:
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays: 90,
//	    PruneSchedule: "0 3 * * *", // daily at 3 AM
//	    MaxRecords:    100000,
//	})
//
//	pruner.Start(ctx)
//	defer pruner.Stop()
//
// # Storage Backends
//
// Two backends implement the Storage interface:
//   - SQLite: embedded single-file database, the production default.
//     The driver is selected at build time; see package storage.
//   - Memory: map-backed store for tests and ephemeral use.
//
// Custom backends can be implemented by satisfying the Storage
// interface.
package archive
