//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"mercator-hq/galileo/internal/promtest"
	"mercator-hq/galileo/pkg/archive"
	"mercator-hq/galileo/pkg/archive/export"
	"mercator-hq/galileo/pkg/archive/recorder"
	"mercator-hq/galileo/pkg/archive/storage"
	"mercator-hq/galileo/pkg/promapi"
)

// TestClientArchivePipeline tests the in-process flow from API call to
// archived record: client -> observer -> recorder -> storage -> export.
func TestClientArchivePipeline(t *testing.T) {
	mock := promtest.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))
	mock.SetResponse("/api/v1/query_range", promtest.OK(promtest.UpMatrix()))
	mock.SetResponse("/api/v1/labels", promtest.OK(promtest.LabelNamesData()))

	store := storage.NewMemoryStorage()
	defer store.Close()

	rec := recorder.NewRecorder(store, &recorder.Config{
		Enabled:   true,
		ServerURL: mock.URL(),
		Buffer:    64,
	})
	defer rec.Close()

	client, err := promapi.New(promapi.Config{
		BaseURL:   mock.URL(),
		Observers: []promapi.RequestObserver{rec},
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	t.Run("instant query", func(t *testing.T) {
		result, err := client.Query(ctx, "up", time.Time{})
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}

		vector, err := result.AsVector()
		if err != nil {
			t.Fatalf("result is not a vector: %v", err)
		}
		if len(vector) != 2 {
			t.Errorf("got %d samples, want 2", len(vector))
		}
	})

	t.Run("range query", func(t *testing.T) {
		result, err := client.QueryRange(ctx, "up", promapi.Range{
			Start: time.Unix(1659268100, 0),
			End:   time.Unix(1659268280, 0),
			Step:  time.Minute,
		})
		if err != nil {
			t.Fatalf("QueryRange failed: %v", err)
		}

		matrix, err := result.AsMatrix()
		if err != nil {
			t.Fatalf("result is not a matrix: %v", err)
		}
		if len(matrix) != 1 {
			t.Errorf("got %d series, want 1", len(matrix))
		}
	})

	t.Run("label names", func(t *testing.T) {
		names, _, err := client.LabelNames(ctx, nil, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("LabelNames failed: %v", err)
		}
		if len(names) == 0 {
			t.Error("expected at least one label name")
		}
	})

	t.Run("failed query recorded with error class", func(t *testing.T) {
		mock.SetResponse("/api/v1/query", promtest.BadData("parse error at char 4: unexpected end of input"))
		defer mock.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))

		_, err := client.Query(ctx, "sum(up", time.Time{})
		if err == nil {
			t.Fatal("expected query to fail")
		}

		var apiErr *promapi.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("error is %T, want *promapi.APIError", err)
		}
		if apiErr.ErrorType != promapi.ErrBadData {
			t.Errorf("error type = %q, want %q", apiErr.ErrorType, promapi.ErrBadData)
		}
	})

	t.Run("records landed in archive", func(t *testing.T) {
		if err := rec.Flush(ctx); err != nil {
			t.Fatalf("Flush failed: %v", err)
		}

		records, err := store.Query(ctx, &archive.Filter{
			SortBy:    "executed_at",
			SortOrder: "asc",
		})
		if err != nil {
			t.Fatalf("archive query failed: %v", err)
		}
		if len(records) != 4 {
			t.Fatalf("got %d records, want 4", len(records))
		}

		first := records[0]
		if first.Endpoint != "query" {
			t.Errorf("endpoint = %q, want query", first.Endpoint)
		}
		if first.Expr != "up" {
			t.Errorf("expr = %q, want up", first.Expr)
		}
		if first.Status != archive.StatusSuccess {
			t.Errorf("status = %q, want %q", first.Status, archive.StatusSuccess)
		}
		if first.ServerURL != mock.URL() {
			t.Errorf("server url = %q, want %q", first.ServerURL, mock.URL())
		}
		if first.StatusCode != 200 {
			t.Errorf("status code = %d, want 200", first.StatusCode)
		}

		failures, err := store.Count(ctx, &archive.Filter{Status: archive.StatusError})
		if err != nil {
			t.Fatalf("archive count failed: %v", err)
		}
		if failures != 1 {
			t.Errorf("got %d failed records, want 1", failures)
		}

		failed, err := store.Query(ctx, &archive.Filter{Status: archive.StatusError})
		if err != nil {
			t.Fatalf("archive query failed: %v", err)
		}
		if len(failed) != 1 {
			t.Fatalf("got %d failed records, want 1", len(failed))
		}
		if failed[0].ErrorType != promapi.ErrBadData {
			t.Errorf("recorded error type = %q, want %q", failed[0].ErrorType, promapi.ErrBadData)
		}
	})

	t.Run("export to json", func(t *testing.T) {
		records, err := store.Query(ctx, &archive.Filter{})
		if err != nil {
			t.Fatalf("archive query failed: %v", err)
		}

		var buf bytes.Buffer
		if err := export.NewJSONExporter(false).Export(ctx, records, &buf); err != nil {
			t.Fatalf("export failed: %v", err)
		}

		var exported []map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &exported); err != nil {
			t.Fatalf("export is not a JSON array: %v", err)
		}
		if len(exported) != len(records) {
			t.Errorf("exported %d records, want %d", len(exported), len(records))
		}
	})
}

// TestRetryRecovery tests that transient server errors are retried and
// the operation succeeds once the server recovers.
func TestRetryRecovery(t *testing.T) {
	mock := promtest.NewMockServer()
	defer mock.Close()

	mock.SetResponseSequence("/api/v1/query",
		promtest.ServerError(),
		promtest.ServerError(),
		promtest.OK(promtest.UpVector()),
	)

	client, err := promapi.New(promapi.Config{
		BaseURL: mock.URL(),
		Retry: &promapi.RetryConfig{
			MaxRetries: 3,
			BaseDelay:  5 * time.Millisecond,
			MaxDelay:   50 * time.Millisecond,
		},
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	result, err := client.Query(context.Background(), "up", time.Time{})
	if err != nil {
		t.Fatalf("Query failed after retries: %v", err)
	}
	if result.ResultType().String() != "vector" {
		t.Errorf("result type = %s, want vector", result.ResultType())
	}

	if got := mock.RequestCount(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}

	health := client.Health()
	if !health.Healthy {
		t.Error("client should be healthy after a successful operation")
	}
}

// TestClientHealthTracking tests that repeated failures mark the client
// unhealthy and a single success recovers it.
func TestClientHealthTracking(t *testing.T) {
	mock := promtest.NewMockServer()
	defer mock.Close()
	mock.SetResponse("/api/v1/query", promtest.ServerError())

	client, err := promapi.New(promapi.Config{BaseURL: mock.URL()})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := client.Query(ctx, "up", time.Time{}); err == nil {
			t.Fatal("expected query to fail")
		}
	}

	if client.IsHealthy() {
		t.Error("client should be unhealthy after three consecutive failures")
	}

	health := client.Health()
	if health.ConsecutiveFailures != 3 {
		t.Errorf("consecutive failures = %d, want 3", health.ConsecutiveFailures)
	}
	if health.LastError == "" {
		t.Error("last error should be recorded")
	}

	mock.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))
	if _, err := client.Query(ctx, "up", time.Time{}); err != nil {
		t.Fatalf("Query failed after recovery: %v", err)
	}

	if !client.IsHealthy() {
		t.Error("client should be healthy again after a success")
	}

	health = client.Health()
	if health.ConsecutiveFailures != 0 {
		t.Errorf("consecutive failures = %d, want 0", health.ConsecutiveFailures)
	}
	if health.LastSuccess.IsZero() {
		t.Error("last success timestamp should be set")
	}
}
