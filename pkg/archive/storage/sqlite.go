package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mercator-hq/galileo/pkg/archive"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/archive.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements the archive.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage creates a new SQLite storage backend.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "archive.storage.sqlite")

	db, err := sql.Open(driverName, config.Path)
	if err != nil {
		return nil, archive.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite archive storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStorage) initialize() error {
	// Enable WAL mode if configured
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return archive.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	// Set busy timeout
	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return archive.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	// Create schema
	_, err = s.db.Exec(Schema)
	if err != nil {
		return archive.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	// Insert schema version
	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return archive.NewStorageError("sqlite", "insert_schema_version", err)
	}

	// Verify schema version
	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return archive.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return archive.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Store persists a query record to the database.
func (s *SQLiteStorage) Store(ctx context.Context, record *archive.QueryRecord) error {
	query := `
		INSERT INTO query_records (
			id, endpoint, expr,
			range_start, range_end, step_ms,
			executed_at, duration_ms, status,
			error_type, error, result_type, warning_count, status_code, attempts,
			server_url
		) VALUES (
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		)
	`

	// Convert zero values to NULL for optional fields
	var rangeStart, rangeEnd interface{}
	if !record.Start.IsZero() {
		rangeStart = record.Start
	}
	if !record.End.IsZero() {
		rangeEnd = record.End
	}

	var errorVal, errorTypeVal interface{}
	if record.Error != "" {
		errorVal = record.Error
	}
	if record.ErrorType != "" {
		errorTypeVal = record.ErrorType
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.Endpoint, record.Expr,
		rangeStart, rangeEnd, record.Step.Milliseconds(),
		record.ExecutedAt, record.Duration.Milliseconds(), record.Status,
		errorTypeVal, errorVal, record.ResultType, record.WarningCount, record.StatusCode, record.Attempts,
		record.ServerURL,
	)

	if err != nil {
		return archive.NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves query records matching the filter.
func (s *SQLiteStorage) Query(ctx context.Context, filter *archive.Filter) ([]*archive.QueryRecord, error) {
	sqlQuery, args := s.buildSelect("SELECT * FROM query_records", filter)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, archive.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*archive.QueryRecord{}
	for rows.Next() {
		record, err := s.scanRow(rows)
		if err != nil {
			return nil, archive.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, archive.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// QueryStream returns a channel of query records for memory-efficient
// streaming. The channels are closed when the query completes or errors.
func (s *SQLiteStorage) QueryStream(ctx context.Context, filter *archive.Filter) (<-chan *archive.QueryRecord, <-chan error, error) {
	recordsCh := make(chan *archive.QueryRecord, 100)
	errCh := make(chan error, 1)

	sqlQuery, args := s.buildSelect("SELECT * FROM query_records", filter)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			errCh <- archive.NewStorageError("sqlite", "query_stream", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			default:
			}

			record, err := s.scanRow(rows)
			if err != nil {
				errCh <- archive.NewStorageError("sqlite", "scan", err)
				return
			}

			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case recordsCh <- record:
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- archive.NewStorageError("sqlite", "query_stream", err)
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of query records matching the filter.
func (s *SQLiteStorage) Count(ctx context.Context, filter *archive.Filter) (int64, error) {
	whereClause, args := s.buildWhereClause(filter)

	sqlQuery := "SELECT COUNT(*) FROM query_records"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count)
	if err != nil {
		return 0, archive.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes query records matching the filter.
// Returns the number of records deleted.
func (s *SQLiteStorage) Delete(ctx context.Context, filter *archive.Filter) (int64, error) {
	whereClause, args := s.buildWhereClause(filter)

	sqlQuery := "DELETE FROM query_records"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, archive.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, archive.NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return archive.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite archive storage closed")
	return nil
}

// sortColumns maps Filter.SortBy values to table columns. Sorting is
// restricted to this set so filter input never reaches the SQL text.
var sortColumns = map[string]string{
	"executed_at": "executed_at",
	"duration":    "duration_ms",
	"endpoint":    "endpoint",
}

// buildSelect assembles a full SELECT statement from the base query and
// the filter's conditions, sorting, and pagination.
func (s *SQLiteStorage) buildSelect(base string, filter *archive.Filter) (string, []interface{}) {
	whereClause, args := s.buildWhereClause(filter)

	sqlQuery := base
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "executed_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY %s %s", column, order)

	// A zero limit returns all records. SQLite needs LIMIT -1 to apply
	// an offset without a limit.
	if filter.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		sqlQuery += " LIMIT -1"
	}
	if filter.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	return sqlQuery, args
}

// buildWhereClause builds a SQL WHERE clause from the filter.
// Returns the clause (without the "WHERE" keyword) and its arguments.
func (s *SQLiteStorage) buildWhereClause(filter *archive.Filter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.StartTime != nil {
		conditions = append(conditions, "executed_at >= ?")
		args = append(args, *filter.StartTime)
	}
	if filter.EndTime != nil {
		conditions = append(conditions, "executed_at <= ?")
		args = append(args, *filter.EndTime)
	}

	if filter.Endpoint != "" {
		conditions = append(conditions, "endpoint = ?")
		args = append(args, filter.Endpoint)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.ErrorType != "" {
		conditions = append(conditions, "error_type = ?")
		args = append(args, filter.ErrorType)
	}

	return strings.Join(conditions, " AND "), args
}

// scanRow scans a database row into a QueryRecord.
func (s *SQLiteStorage) scanRow(row *sql.Rows) (*archive.QueryRecord, error) {
	var record archive.QueryRecord
	var rangeStart, rangeEnd sql.NullTime
	var stepMs, durationMs int64
	var errorTypeVal, errorVal sql.NullString

	err := row.Scan(
		&record.ID, &record.Endpoint, &record.Expr,
		&rangeStart, &rangeEnd, &stepMs,
		&record.ExecutedAt, &durationMs, &record.Status,
		&errorTypeVal, &errorVal, &record.ResultType, &record.WarningCount, &record.StatusCode, &record.Attempts,
		&record.ServerURL,
	)
	if err != nil {
		return nil, err
	}

	if rangeStart.Valid {
		record.Start = rangeStart.Time
	}
	if rangeEnd.Valid {
		record.End = rangeEnd.Time
	}
	if errorTypeVal.Valid {
		record.ErrorType = errorTypeVal.String
	}
	if errorVal.Valid {
		record.Error = errorVal.String
	}

	record.Step = time.Duration(stepMs) * time.Millisecond
	record.Duration = time.Duration(durationMs) * time.Millisecond

	return &record, nil
}
