package promapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"mercator-hq/galileo/internal/promtest"
)

func TestClient_DeleteSeries(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/admin/tsdb/delete_series", promtest.MockResponse{
		StatusCode: http.StatusNoContent,
	})

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	start := time.Unix(1435781430, 0)
	end := time.Unix(1435781460, 0)
	err := client.DeleteSeries(context.Background(), []string{`up{job="node"}`}, start, end)
	if err != nil {
		t.Fatalf("DeleteSeries() error = %v", err)
	}

	req := srv.LastRequest()
	if req.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if got := req.Form["match[]"]; len(got) != 1 || got[0] != `up{job="node"}` {
		t.Errorf("unexpected match[] in form body %v", got)
	}
	if got := req.Form.Get("start"); got != "1435781430" {
		t.Errorf("unexpected start in form body %q", got)
	}
	if got := req.Form.Get("end"); got != "1435781460" {
		t.Errorf("unexpected end in form body %q", got)
	}
}

func TestClient_DeleteSeries_Validation(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	err := client.DeleteSeries(context.Background(), nil, time.Time{}, time.Time{})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if valErr.Field != "match[]" {
		t.Errorf("expected field match[], got %q", valErr.Field)
	}
	if srv.RequestCount() != 0 {
		t.Errorf("no requests should be sent, got %d", srv.RequestCount())
	}
}

func TestClient_DeleteSeries_MatcherValidation(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()

	client := newTestClient(t, Config{BaseURL: srv.URL(), ValidateQueries: true})

	err := client.DeleteSeries(context.Background(), []string{"{invalid=}"}, time.Time{}, time.Time{})

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if valErr.Field != "match[]" {
		t.Errorf("expected field match[], got %q", valErr.Field)
	}
	if srv.RequestCount() != 0 {
		t.Errorf("no requests should be sent, got %d", srv.RequestCount())
	}
}

func TestClient_CleanTombstones(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/admin/tsdb/clean_tombstones", promtest.MockResponse{
		StatusCode: http.StatusNoContent,
	})

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	if err := client.CleanTombstones(context.Background()); err != nil {
		t.Fatalf("CleanTombstones() error = %v", err)
	}
	if srv.LastRequest().Method != http.MethodPost {
		t.Errorf("expected POST, got %s", srv.LastRequest().Method)
	}
}

func TestClient_Snapshot(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/admin/tsdb/snapshot", promtest.OK(promtest.SnapshotData()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	result, err := client.Snapshot(context.Background(), false)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if result.Name != "20250824T142132Z-3f21b0b11a3b3f41" {
		t.Errorf("unexpected snapshot name %q", result.Name)
	}
	if srv.LastRequest().Form.Has("skip_head") {
		t.Error("skip_head should be omitted by default")
	}
}

func TestClient_Snapshot_SkipHead(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/admin/tsdb/snapshot", promtest.OK(promtest.SnapshotData()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	_, err := client.Snapshot(context.Background(), true)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if got := srv.LastRequest().Form.Get("skip_head"); got != "true" {
		t.Errorf("unexpected skip_head in form body %q", got)
	}
}

func TestClient_Snapshot_AdminDisabled(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/admin/tsdb/snapshot",
		promtest.APIError(http.StatusUnprocessableEntity, "unavailable", "admin APIs disabled"))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	_, err := client.Snapshot(context.Background(), false)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.ErrorType != ErrUnavailable {
		t.Errorf("expected unavailable error type, got %q", apiErr.ErrorType)
	}
}
