package promapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"mercator-hq/galileo/internal/promtest"
)

func TestClient_BuildInfo(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/status/buildinfo", promtest.OK(promtest.BuildInfoData()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	info, err := client.BuildInfo(context.Background())
	if err != nil {
		t.Fatalf("BuildInfo() error = %v", err)
	}
	if info.Version != "2.13.1" {
		t.Errorf("unexpected version %q", info.Version)
	}
	if info.Revision != "cb7cbad5f9a2823a622aaa668833ca04f50a0ea7" {
		t.Errorf("unexpected revision %q", info.Revision)
	}
	if info.GoVersion != "go1.13.1" {
		t.Errorf("unexpected Go version %q", info.GoVersion)
	}
}

func TestClient_RuntimeInfo(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/status/runtimeinfo", promtest.OK(promtest.RuntimeInfoData()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	info, err := client.RuntimeInfo(context.Background())
	if err != nil {
		t.Fatalf("RuntimeInfo() error = %v", err)
	}
	if info.TimeSeriesCount != 873 {
		t.Errorf("unexpected series count %d", info.TimeSeriesCount)
	}
	if info.GoroutineCount != 48 {
		t.Errorf("unexpected goroutine count %d", info.GoroutineCount)
	}
	if info.GOMAXPROCS != 4 {
		t.Errorf("unexpected GOMAXPROCS %d", info.GOMAXPROCS)
	}
	if !info.ReloadConfigSuccess {
		t.Error("expected reloadConfigSuccess true")
	}
	if info.StorageRetention != "15d" {
		t.Errorf("unexpected retention %q", info.StorageRetention)
	}
	if info.CWD != "/" {
		t.Errorf("unexpected CWD %q", info.CWD)
	}
	if info.StartTime.IsZero() {
		t.Error("expected start time to be parsed")
	}
}

func TestClient_Flags(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/status/flags", promtest.OK(promtest.FlagsData()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	flags, err := client.Flags(context.Background())
	if err != nil {
		t.Fatalf("Flags() error = %v", err)
	}
	if flags["query.timeout"] != "2m" {
		t.Errorf("unexpected query.timeout %q", flags["query.timeout"])
	}
	if flags["web.enable-admin-api"] != "true" {
		t.Errorf("unexpected web.enable-admin-api %q", flags["web.enable-admin-api"])
	}
}

func TestClient_ServerConfig(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/status/config", promtest.OK(promtest.ConfigData()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	cfg, err := client.ServerConfig(context.Background())
	if err != nil {
		t.Fatalf("ServerConfig() error = %v", err)
	}
	if !contains(cfg.YAML, "scrape_interval: 15s") {
		t.Errorf("expected YAML content, got %q", cfg.YAML)
	}
}

func TestClient_TSDBStats(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/status/tsdb", promtest.OK(promtest.TSDBStatsData()))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	result, err := client.TSDBStats(context.Background())
	if err != nil {
		t.Fatalf("TSDBStats() error = %v", err)
	}
	if result.HeadStats.NumSeries != 508 {
		t.Errorf("unexpected numSeries %d", result.HeadStats.NumSeries)
	}
	if result.HeadStats.ChunkCount != 937 {
		t.Errorf("unexpected chunkCount %d", result.HeadStats.ChunkCount)
	}
	if len(result.SeriesCountByMetricName) != 2 {
		t.Fatalf("expected 2 metric name entries, got %d", len(result.SeriesCountByMetricName))
	}
	if result.SeriesCountByMetricName[0].Name != "net_conntrack_dialer_conn_failed_total" {
		t.Errorf("unexpected first metric %q", result.SeriesCountByMetricName[0].Name)
	}
	if result.SeriesCountByMetricName[0].Value != 20 {
		t.Errorf("unexpected first value %d", result.SeriesCountByMetricName[0].Value)
	}
	if len(result.SeriesCountByLabelValuePair) != 2 {
		t.Errorf("expected 2 label pair entries, got %d", len(result.SeriesCountByLabelValuePair))
	}
}

func TestClient_WALReplay(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/status/walreplay", promtest.OK(promtest.WALReplayData("in progress")))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	status, err := client.WALReplay(context.Background())
	if err != nil {
		t.Fatalf("WALReplay() error = %v", err)
	}
	if status.Min != 2 || status.Max != 5 || status.Current != 4 {
		t.Errorf("unexpected progress %d/%d (min %d)", status.Current, status.Max, status.Min)
	}
	if status.State != "in progress" {
		t.Errorf("unexpected state %q", status.State)
	}
	if !status.InProgress() {
		t.Error("expected replay in progress")
	}
}

func TestClient_WALReplay_Complete(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/api/v1/status/walreplay", promtest.OK(map[string]interface{}{
		"min": 2, "max": 5, "current": 5,
	}))

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	status, err := client.WALReplay(context.Background())
	if err != nil {
		t.Fatalf("WALReplay() error = %v", err)
	}
	if status.InProgress() {
		t.Error("expected replay complete")
	}
	if status.State != "" {
		t.Errorf("expected empty state, got %q", status.State)
	}
}

func TestClient_Healthy(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/-/healthy", promtest.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "Prometheus Server is Healthy.\n",
	})

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	if err := client.Healthy(context.Background()); err != nil {
		t.Fatalf("Healthy() error = %v", err)
	}
}

func TestClient_Ready(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/-/ready", promtest.MockResponse{
		StatusCode: http.StatusOK,
		Body:       "Prometheus Server is Ready.\n",
	})

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	if err := client.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}
}

func TestClient_Ready_NotReady(t *testing.T) {
	srv := promtest.NewMockServer()
	defer srv.Close()
	srv.SetResponse("/-/ready", promtest.MockResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       "Service Unavailable",
	})

	client := newTestClient(t, Config{BaseURL: srv.URL()})

	err := client.Ready(context.Background())
	if err == nil {
		t.Fatal("expected error for unavailable server")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", apiErr.StatusCode)
	}
}

func TestClient_Healthy_ServerDown(t *testing.T) {
	srv := promtest.NewMockServer()
	url := srv.URL()
	srv.Close()

	client := newTestClient(t, Config{BaseURL: url})

	err := client.Healthy(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
}
