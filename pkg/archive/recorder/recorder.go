package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"mercator-hq/galileo/pkg/archive"
	"mercator-hq/galileo/pkg/promapi"
)

// Config contains configuration for the archive recorder.
type Config struct {
	// Enabled enables query recording.
	Enabled bool

	// ServerURL is the base URL of the queried server, stored with
	// every record.
	ServerURL string

	// Buffer is the size of the async write channel buffer.
	// Default: 1000
	Buffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		Buffer:       1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder archives completed API operations. It implements
// promapi.RequestObserver and writes records asynchronously, so
// archiving never blocks a query. When the buffer is full, new records
// are dropped and counted rather than blocking the caller.
type Recorder struct {
	storage    archive.Storage
	config     *Config
	recordChan chan *archive.QueryRecord
	flushChan  chan chan struct{}
	dropped    atomic.Int64
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
}

// NewRecorder creates a new archive recorder with the provided storage
// backend and configuration.
func NewRecorder(storage archive.Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Buffer <= 0 {
		config.Buffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *archive.QueryRecord, config.Buffer),
		flushChan:  make(chan chan struct{}),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "archive.recorder"),
	}

	// Background worker drains the channel
	r.wg.Add(1)
	go r.worker()

	r.logger.Info("archive recorder initialized",
		"buffer", config.Buffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// ObserveRequest implements promapi.RequestObserver. It builds a query
// record from the event and enqueues it for async writing.
//
// This method never blocks: when the buffer is full the record is
// dropped and the drop counter incremented.
func (r *Recorder) ObserveRequest(ctx context.Context, event promapi.RequestEvent) {
	if !r.config.Enabled {
		return
	}

	record := r.newRecord(event)

	select {
	case r.recordChan <- record:
	default:
		dropped := r.dropped.Add(1)
		r.logger.Warn("archive buffer full, dropping record",
			"record_id", record.ID,
			"endpoint", record.Endpoint,
			"dropped_total", dropped,
		)
	}
}

// Flush blocks until every record enqueued before the call has been
// written to storage, or the context is canceled.
func (r *Recorder) Flush(ctx context.Context) error {
	done := make(chan struct{})

	select {
	case r.flushChan <- done:
	case <-r.done:
		// Close drains the channel, nothing left to flush
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dropped returns the number of records dropped because the buffer was
// full.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close shuts down the recorder, draining the buffer and waiting for
// all pending writes to complete.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down archive recorder")

		close(r.done)
		r.wg.Wait()

		r.logger.Info("archive recorder shut down", "dropped_total", r.dropped.Load())
	})
	return nil
}

// worker is the background goroutine that drains the record channel and
// writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case done := <-r.flushChan:
			r.drain()
			close(done)

		case <-r.done:
			r.logger.Debug("draining archive records before shutdown",
				"pending_count", len(r.recordChan),
			)
			r.drain()
			return
		}
	}
}

// drain writes all currently buffered records.
func (r *Recorder) drain() {
	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)
		default:
			return
		}
	}
}

// writeRecord writes a single query record to storage.
func (r *Recorder) writeRecord(record *archive.QueryRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store query record",
			"record_id", record.ID,
			"endpoint", record.Endpoint,
			"error", err,
		)
		return
	}

	duration := time.Since(start)

	r.logger.Debug("query recorded",
		"record_id", record.ID,
		"endpoint", record.Endpoint,
		"status", record.Status,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow archive write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

// newRecord builds a query record from a request event.
func (r *Recorder) newRecord(event promapi.RequestEvent) *archive.QueryRecord {
	record := &archive.QueryRecord{
		ID:           event.ID,
		Endpoint:     event.Endpoint,
		Expr:         event.Expr,
		Start:        event.RangeStart,
		End:          event.RangeEnd,
		Step:         event.Step,
		ExecutedAt:   event.Start,
		Duration:     event.Duration,
		Status:       archive.StatusSuccess,
		ResultType:   event.ResultType,
		WarningCount: event.WarningCount,
		StatusCode:   event.StatusCode,
		Attempts:     event.Attempts,
		ServerURL:    r.config.ServerURL,
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	if event.Err != nil {
		record.Status = archive.StatusError
		record.Error = event.Err.Error()
		record.ErrorType = classifyError(event.Err)
	}

	return record
}

// classifyError maps an operation error to a record error type.
func classifyError(err error) string {
	var (
		apiErr       *promapi.APIError
		authErr      *promapi.AuthError
		rateErr      *promapi.RateLimitError
		timeoutErr   *promapi.TimeoutError
		transportErr *promapi.TransportError
		parseErr     *promapi.ParseError
	)

	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &rateErr):
		return "rate_limit"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &transportErr):
		return "network"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &apiErr):
		if apiErr.ErrorType != "" {
			return apiErr.ErrorType
		}
		return "api"
	default:
		return "other"
	}
}
