// Package storage provides storage backends for archived query records.
//
// # Storage Backends
//
// Two implementations of the archive.Storage interface are provided:
//
//   - SQLite: embedded single-file database, the production default
//   - Memory: in-memory storage for tests and ephemeral use
//
// # SQLite Backend
//
// The SQLite backend provides durable storage with:
//
//   - WAL mode for concurrent reads/writes
//   - Indexes on frequently queried fields
//   - Connection pooling for concurrent access
//   - Busy timeout for handling locks
//
// # Driver Selection
//
// The SQLite driver is chosen at build time. The default build uses the
// pure Go modernc.org/sqlite driver, so binaries cross-compile without
// a C toolchain. Building with the sqlite_cgo tag switches to
// github.com/mattn/go-sqlite3:
//
//	go build -tags sqlite_cgo ./...
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:         "data/archive.db",
//	    MaxOpenConns: 10,
//	    MaxIdleConns: 5,
//	    WALMode:      true,
//	    BusyTimeout:  5 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	// Store a query record
//	err = store.Store(ctx, record)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Query records
//	filter := &archive.Filter{
//	    StartTime: &startTime,
//	    Endpoint:  "query_range",
//	    Limit:     100,
//	}
//	records, err := store.Query(ctx, filter)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Both backends are safe for concurrent use:
//
//   - Store() can be called concurrently from multiple goroutines
//   - Query() can be called concurrently with Store()
//   - WAL mode enables concurrent readers and writers
//
// # Schema Migration
//
// The SQLite storage initializes the database schema on first use.
// The schema version is tracked in the schema_version table for future
// migrations.
package storage
