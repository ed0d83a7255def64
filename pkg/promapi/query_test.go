package promapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"mercator-hq/galileo/internal/promtest"
)

func TestClient_Query(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	result, err := client.Query(context.Background(), `up{job="prometheus"}`, time.Time{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	vector, err := result.AsVector()
	if err != nil {
		t.Fatalf("AsVector() error = %v", err)
	}
	if len(vector) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(vector))
	}

	req := srv.LastRequest()
	if req.Method != http.MethodGet {
		t.Errorf("expected GET, got %s", req.Method)
	}
	if got := req.Query.Get("query"); got != `up{job="prometheus"}` {
		t.Errorf("unexpected query parameter %q", got)
	}
	if req.Query.Has("time") {
		t.Error("time parameter should be omitted for a zero timestamp")
	}
}

func TestClient_Query_WithTime(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	ts := time.Unix(1435781451, 781000000)
	_, err := client.Query(context.Background(), "up", ts)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if got := srv.LastRequest().Query.Get("time"); got != "1435781451.781" {
		t.Errorf("unexpected time parameter %q", got)
	}
}

func TestClient_Query_Options(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	_, err := client.Query(context.Background(), "up", time.Time{},
		WithTimeout(30*time.Second), WithStats(), WithLimit(100))
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	req := srv.LastRequest()
	if got := req.Query.Get("timeout"); got != "30s" {
		t.Errorf("unexpected timeout parameter %q", got)
	}
	if got := req.Query.Get("stats"); got != "all" {
		t.Errorf("unexpected stats parameter %q", got)
	}
	if got := req.Query.Get("limit"); got != "100" {
		t.Errorf("unexpected limit parameter %q", got)
	}
}

func TestClient_Query_POST(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))

	client := newTestClient(t, Config{BaseURL: srv.URL(), PreferPOST: true})

	_, err := client.Query(context.Background(), "up", time.Time{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	req := srv.LastRequest()
	if req.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if got := req.Form.Get("query"); got != "up" {
		t.Errorf("expected query in form body, got %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected Content-Type %q", got)
	}
}

func TestClient_Query_Validation(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	tests := []struct {
		name string
		expr string
	}{
		{"empty expression", ""},
		{"whitespace expression", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Query(context.Background(), tt.expr, time.Time{})

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if valErr.Field != "query" {
				t.Errorf("expected field query, got %q", valErr.Field)
			}
		})
	}

	if srv.RequestCount() != 0 {
		t.Errorf("no requests should be sent, got %d", srv.RequestCount())
	}
}

func TestClient_Query_ClientSideValidation(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))

	client := newTestClient(t, Config{BaseURL: srv.URL(), ValidateQueries: true})

	_, err := client.Query(context.Background(), "up{", time.Time{})
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if srv.RequestCount() != 0 {
		t.Errorf("invalid expression should not reach the server, got %d requests", srv.RequestCount())
	}

	// A valid expression still goes through
	if _, err := client.Query(context.Background(), `rate(http_requests_total[5m])`, time.Time{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.RequestCount() != 1 {
		t.Errorf("expected 1 request, got %d", srv.RequestCount())
	}
}

func TestClient_Query_Scalar(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.OK(promtest.ScalarResult(1435781451.781, "2")))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	result, err := client.Query(context.Background(), "1+1", time.Time{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	scalar, err := result.AsScalar()
	if err != nil {
		t.Fatalf("AsScalar() error = %v", err)
	}
	if scalar.Value != 2 {
		t.Errorf("expected value 2, got %v", scalar.Value)
	}
}

func TestClient_Query_Warnings(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.MockResponse{
		StatusCode: http.StatusOK,
		Body: promtest.WarningsEnvelope(promtest.UpVector(),
			"exceeded maximum resolution of 11,000 points"),
	})

	recorder := &eventRecorder{}
	client := newTestClient(t, Config{
		BaseURL:   srv.URL(),
		Observers: []RequestObserver{recorder},
	})

	result, err := client.Query(context.Background(), "up", time.Time{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(result.Warnings))
	}
	if !contains(result.Warnings[0], "exceeded maximum resolution") {
		t.Errorf("unexpected warning %q", result.Warnings[0])
	}
	if recorder.last().WarningCount != 1 {
		t.Errorf("expected warning count in event, got %d", recorder.last().WarningCount)
	}
}

func TestClient_Query_Stats(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.OK(
		promtest.WithStats(promtest.UpVector(), promtest.QueryStats())))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	result, err := client.Query(context.Background(), "up", time.Time{}, WithStats())
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if result.Stats == nil {
		t.Fatal("expected stats")
	}
	if result.Stats.Samples.PeakSamples != 4 {
		t.Errorf("unexpected peak samples %d", result.Stats.Samples.PeakSamples)
	}
}

func TestClient_QueryRange(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query_range", promtest.OK(promtest.UpMatrix()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	r := Range{
		Start: time.Unix(1659268100, 0),
		End:   time.Unix(1659268280, 0),
		Step:  time.Minute,
	}
	result, err := client.QueryRange(context.Background(), "up", r)
	if err != nil {
		t.Fatalf("QueryRange() error = %v", err)
	}

	matrix, err := result.AsMatrix()
	if err != nil {
		t.Fatalf("AsMatrix() error = %v", err)
	}
	if len(matrix) != 1 {
		t.Fatalf("expected 1 series, got %d", len(matrix))
	}
	if len(matrix[0].Values) != 4 {
		t.Errorf("expected 4 samples, got %d", len(matrix[0].Values))
	}

	req := srv.LastRequest()
	if got := req.Query.Get("start"); got != "1659268100" {
		t.Errorf("unexpected start parameter %q", got)
	}
	if got := req.Query.Get("end"); got != "1659268280" {
		t.Errorf("unexpected end parameter %q", got)
	}
	if got := req.Query.Get("step"); got != "1m" {
		t.Errorf("unexpected step parameter %q", got)
	}
}

func TestClient_QueryRange_Validation(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	now := time.Now()
	tests := []struct {
		name  string
		expr  string
		r     Range
		field string
	}{
		{
			name:  "empty expression",
			expr:  "",
			r:     Range{Start: now.Add(-time.Hour), End: now, Step: time.Minute},
			field: "query",
		},
		{
			name:  "zero step",
			expr:  "up",
			r:     Range{Start: now.Add(-time.Hour), End: now},
			field: "step",
		},
		{
			name:  "negative step",
			expr:  "up",
			r:     Range{Start: now.Add(-time.Hour), End: now, Step: -time.Second},
			field: "step",
		},
		{
			name:  "missing start",
			expr:  "up",
			r:     Range{End: now, Step: time.Minute},
			field: "start",
		},
		{
			name:  "missing end",
			expr:  "up",
			r:     Range{Start: now, Step: time.Minute},
			field: "start",
		},
		{
			name:  "end before start",
			expr:  "up",
			r:     Range{Start: now, End: now.Add(-time.Hour), Step: time.Minute},
			field: "end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.QueryRange(context.Background(), tt.expr, tt.r)

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if valErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, valErr.Field)
			}
		})
	}

	if srv.RequestCount() != 0 {
		t.Errorf("no requests should be sent, got %d", srv.RequestCount())
	}
}

func TestClient_QueryRange_POST(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query_range", promtest.OK(promtest.UpMatrix()))

	client := newTestClient(t, Config{BaseURL: srv.URL(), PreferPOST: true})

	r := Range{
		Start: time.Unix(1659268100, 0),
		End:   time.Unix(1659268280, 0),
		Step:  15 * time.Second,
	}
	_, err := client.QueryRange(context.Background(), "up", r)
	if err != nil {
		t.Fatalf("QueryRange() error = %v", err)
	}

	req := srv.LastRequest()
	if req.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if got := req.Form.Get("step"); got != "15s" {
		t.Errorf("unexpected step in form body %q", got)
	}
}

func BenchmarkClient_Query(b *testing.B) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/query", promtest.OK(promtest.UpVector()))

	client, err := New(Config{BaseURL: srv.URL()})
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Query(ctx, "up", time.Time{}); err != nil {
			b.Fatalf("Query() error = %v", err)
		}
	}
}
