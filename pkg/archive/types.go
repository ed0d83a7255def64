package archive

import (
	"context"
	"io"
	"time"
)

// Record status values.
const (
	// StatusSuccess marks a query that completed without error.
	StatusSuccess = "success"

	// StatusError marks a query that failed.
	StatusError = "error"
)

// QueryRecord is the audit trail entry for a single executed API
// operation. It captures what was asked, when, and how the request
// went, so past queries can be reviewed, exported, and replayed.
type QueryRecord struct {
	// ID is the unique record identifier (UUID v4, shared with the
	// X-Request-ID of the underlying request).
	ID string `json:"id"`

	// Endpoint is the logical endpoint name ("query", "query_range", ...).
	Endpoint string `json:"endpoint"`

	// Expr is the PromQL expression, empty for operations without one.
	Expr string `json:"expr,omitempty"`

	// Start and End bound the queried time window for range queries and
	// time-filtered metadata lookups. Zero for instant operations.
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`

	// Step is the resolution step of a range query.
	Step time.Duration `json:"step,omitempty"`

	// ExecutedAt is when the operation began.
	ExecutedAt time.Time `json:"executed_at"`

	// Duration is the total elapsed time including retries.
	Duration time.Duration `json:"duration"`

	// Status is "success" or "error".
	Status string `json:"status"`

	// ErrorType classifies the failure ("timeout", "rate_limit", ...).
	// Empty on success.
	ErrorType string `json:"error_type,omitempty"`

	// Error is the error message. Empty on success.
	Error string `json:"error,omitempty"`

	// ResultType is the decoded result type of a successful query
	// ("vector", "matrix", "scalar", "string").
	ResultType string `json:"result_type,omitempty"`

	// WarningCount is the number of warnings the server attached.
	WarningCount int `json:"warning_count,omitempty"`

	// StatusCode is the final HTTP status code (0 if no response).
	StatusCode int `json:"status_code"`

	// Attempts is the number of HTTP attempts made.
	Attempts int `json:"attempts"`

	// ServerURL is the base URL of the queried server.
	ServerURL string `json:"server_url"`
}

// Filter defines the selection parameters for querying archived records.
type Filter struct {
	// Time range on ExecutedAt (both inclusive)
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Field filters
	Endpoint  string `json:"endpoint,omitempty"`
	Status    string `json:"status,omitempty"`
	ErrorType string `json:"error_type,omitempty"`

	// Pagination. A zero Limit returns all matching records.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// Sorting: "executed_at" (default), "duration", or "endpoint",
	// in "asc" or "desc" (default) order.
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}

// Storage is the interface for archive storage backends.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a query record.
	Store(ctx context.Context, record *QueryRecord) error

	// Query retrieves records matching the filter.
	// Returns an empty slice if no records match.
	Query(ctx context.Context, filter *Filter) ([]*QueryRecord, error)

	// QueryStream returns a channel of records for memory-efficient
	// iteration over large result sets.
	//
	// Returns:
	//   - recordsCh: channel of records (buffered)
	//   - errCh: channel for errors (buffered, at most one error)
	//   - error: immediate error (e.g. invalid filter)
	//
	// Both channels are closed when the query completes or fails.
	// Callers should read from both channels until they are closed:
	//
	//	recordsCh, errCh, err := storage.QueryStream(ctx, filter)
	//	if err != nil {
	//	    return err
	//	}
	//	for record := range recordsCh {
	//	    // process record
	//	}
	//	if err := <-errCh; err != nil {
	//	    return err
	//	}
	QueryStream(ctx context.Context, filter *Filter) (<-chan *QueryRecord, <-chan error, error)

	// Count returns the number of records matching the filter.
	Count(ctx context.Context, filter *Filter) (int64, error)

	// Delete removes records matching the filter and returns the number
	// of records deleted. Used for retention enforcement.
	Delete(ctx context.Context, filter *Filter) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Exporter writes query records to an output in a specific format.
type Exporter interface {
	// Export writes the records to w in the exporter's format.
	Export(ctx context.Context, records []*QueryRecord, w io.Writer) error
}
