// Package recorder records completed API operations into the query
// archive. It implements promapi.RequestObserver, so a client wired
// with a Recorder archives every query it runs.
//
// # Recording Flow
//
// Records are written asynchronously so archiving never blocks a query:
//
//  1. The client completes an operation and notifies its observers
//  2. The recorder builds a QueryRecord from the request event
//  3. The record is enqueued to a buffered channel (non-blocking)
//  4. A background worker drains the channel and writes to storage
//  5. Graceful shutdown drains the channel before exit
//
// # Basic Usage
//
//	rec := recorder.NewRecorder(store, &recorder.Config{
//	    Enabled:      true,
//	    ServerURL:    "http://localhost:9090",
//	    Buffer:       1000,
//	    WriteTimeout: 5 * time.Second,
//	})
//	defer rec.Close()
//
//	client, err := promapi.New(promapi.Config{
//	    BaseURL:   "http://localhost:9090",
//	    Observers: []promapi.RequestObserver{rec},
//	})
//
// # Backpressure
//
// When the buffer is full, new records are dropped rather than
// blocking the caller. Drops are counted and can be read with
// Dropped(). Flush() blocks until all buffered records have been
// written, which is useful before reading the archive back in tests
// and short-lived commands.
//
// # Thread Safety
//
// The recorder is safe for concurrent use. ObserveRequest can be
// called from any goroutine; the background worker is the only writer
// to storage.
package recorder
