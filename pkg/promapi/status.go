package promapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// BuildInfo describes the server build.
type BuildInfo struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	Branch    string `json:"branch"`
	BuildUser string `json:"buildUser"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
}

// RuntimeInfo describes the runtime state of the server.
type RuntimeInfo struct {
	StartTime           time.Time `json:"startTime"`
	CWD                 string    `json:"CWD"`
	ReloadConfigSuccess bool      `json:"reloadConfigSuccess"`
	LastConfigTime      time.Time `json:"lastConfigTime"`
	ChunkCount          int64     `json:"chunkCount"`
	TimeSeriesCount     int64     `json:"timeSeriesCount"`
	CorruptionCount     int64     `json:"corruptionCount"`
	GoroutineCount      int       `json:"goroutineCount"`
	GOMAXPROCS          int       `json:"GOMAXPROCS"`
	GOGC                string    `json:"GOGC"`
	GODEBUG             string    `json:"GODEBUG"`
	StorageRetention    string    `json:"storageRetention"`
}

// ConfigResult holds the loaded server configuration as YAML text.
type ConfigResult struct {
	YAML string `json:"yaml"`
}

// TSDBHeadStats are cardinality statistics for the TSDB head block.
type TSDBHeadStats struct {
	NumSeries     uint64 `json:"numSeries"`
	NumLabelPairs int    `json:"numLabelPairs"`
	ChunkCount    int64  `json:"chunkCount"`
	MinTime       int64  `json:"minTime"`
	MaxTime       int64  `json:"maxTime"`
}

// TSDBStat is one entry of a cardinality ranking.
type TSDBStat struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// TSDBResult holds TSDB cardinality statistics.
type TSDBResult struct {
	HeadStats                   TSDBHeadStats `json:"headStats"`
	SeriesCountByMetricName     []TSDBStat    `json:"seriesCountByMetricName"`
	LabelValueCountByLabelName  []TSDBStat    `json:"labelValueCountByLabelName"`
	MemoryInBytesByLabelName    []TSDBStat    `json:"memoryInBytesByLabelName"`
	SeriesCountByLabelValuePair []TSDBStat    `json:"seriesCountByLabelValuePair"`
}

// WALReplayStatus reports write-ahead log replay progress during
// server startup.
type WALReplayStatus struct {
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Current int    `json:"current"`
	State   string `json:"state,omitempty"`
}

// InProgress reports whether replay has segments left to process.
func (s *WALReplayStatus) InProgress() bool {
	return s.Current < s.Max
}

// BuildInfo returns the server build information.
func (c *Client) BuildInfo(ctx context.Context) (*BuildInfo, error) {
	var info BuildInfo
	if err := c.getJSON(ctx, "buildinfo", epStatusBuildInfo, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// RuntimeInfo returns the server runtime information.
func (c *Client) RuntimeInfo(ctx context.Context) (*RuntimeInfo, error) {
	var info RuntimeInfo
	if err := c.getJSON(ctx, "runtimeinfo", epStatusRuntimeInfo, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Flags returns the command line flags the server was started with.
func (c *Client) Flags(ctx context.Context) (map[string]string, error) {
	var flags map[string]string
	if err := c.getJSON(ctx, "flags", epStatusFlags, nil, &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

// ServerConfig returns the currently loaded server configuration.
func (c *Client) ServerConfig(ctx context.Context) (*ConfigResult, error) {
	var cfg ConfigResult
	if err := c.getJSON(ctx, "config", epStatusConfig, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TSDBStats returns TSDB cardinality statistics.
func (c *Client) TSDBStats(ctx context.Context) (*TSDBResult, error) {
	var result TSDBResult
	if err := c.getJSON(ctx, "tsdb", epStatusTSDB, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WALReplay returns write-ahead log replay progress.
func (c *Client) WALReplay(ctx context.Context) (*WALReplayStatus, error) {
	var status WALReplayStatus
	if err := c.getJSON(ctx, "walreplay", epStatusWALReplay, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Healthy checks the server health probe. A nil return means the
// server is up.
func (c *Client) Healthy(ctx context.Context) error {
	return c.probe(ctx, "healthy", epHealthy)
}

// Ready checks the server readiness probe. A nil return means the
// server is ready to serve queries.
func (c *Client) Ready(ctx context.Context) error {
	return c.probe(ctx, "ready", epReady)
}

// probe hits a plain text health endpoint.
func (c *Client) probe(ctx context.Context, endpoint, path string) error {
	event := c.newEvent(endpoint, http.MethodGet, "")
	defer c.observe(ctx, event)

	body, err := c.callRaw(ctx, event, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("%s check failed: %w", endpoint, err)
	}

	c.logger.Debug("probe succeeded", "endpoint", endpoint, "response", strings.TrimSpace(string(body)))
	return nil
}
