package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/common/model"

	"mercator-hq/galileo/pkg/archive"
	"mercator-hq/galileo/pkg/archive/recorder"
	"mercator-hq/galileo/pkg/archive/storage"
	"mercator-hq/galileo/pkg/cli"
	"mercator-hq/galileo/pkg/config"
	"mercator-hq/galileo/pkg/promapi"
	"mercator-hq/galileo/pkg/telemetry/logging"
	"mercator-hq/galileo/pkg/telemetry/metrics"
	"mercator-hq/galileo/pkg/telemetry/tracing"
)

// setup loads the configuration, applies root flag overrides, and
// installs the process logger. Commands that talk to the server call
// newClient instead; setup alone serves commands that only need the
// config, like the archive subcommands.
func setup() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if _, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Output:    cfg.Logging.Output,
		AddSource: cfg.Logging.AddSource,
	}); err != nil {
		return nil, cli.NewConfigError("logging", err.Error())
	}

	return cfg, nil
}

// newClient builds an API client from the loaded configuration,
// attaching the archive recorder, client metrics, and tracer when their
// config sections enable them. The returned cleanup function closes the
// client and tears the attachments down; callers must defer it.
func newClient() (*promapi.Client, func(), error) {
	cfg, err := setup()
	if err != nil {
		return nil, nil, err
	}

	clientCfg, err := cfg.BuildClientConfig()
	if err != nil {
		return nil, nil, cli.NewConfigError("", err.Error())
	}

	cleanup := func() {}

	if cfg.Archive.Enabled {
		store, err := openArchiveStorage(cfg)
		if err != nil {
			return nil, nil, err
		}

		rec := recorder.NewRecorder(store, &recorder.Config{
			Enabled:      true,
			ServerURL:    cfg.Server.URL,
			Buffer:       cfg.Archive.BufferSize,
			WriteTimeout: cfg.Archive.WriteTimeout,
		})
		clientCfg.Observers = append(clientCfg.Observers, rec)

		cleanup = func() {
			rec.Close()
			store.Close()
		}
	}

	if cfg.Metrics.Enabled {
		clientCfg.Observers = append(clientCfg.Observers, metrics.NewClientMetrics(&metrics.Config{
			Enabled:   true,
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
		}, nil))
	}

	if cfg.Tracing.Enabled {
		tracer, err := tracing.New(&tracing.Config{
			Enabled:     true,
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.OTLP.Insecure,
			Timeout:     cfg.Tracing.OTLP.Timeout,
			Sampler:     cfg.Tracing.Sampler,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			cleanup()
			return nil, nil, cli.NewConfigError("tracing", err.Error())
		}
		clientCfg.Tracer = tracer

		observerCleanup := cleanup
		cleanup = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracer.Shutdown(ctx); err != nil {
				slog.Debug("trace shutdown failed", "error", err)
			}
			observerCleanup()
		}
	}

	client, err := promapi.New(clientCfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	dependencyCleanup := cleanup
	cleanup = func() {
		client.Close()
		dependencyCleanup()
	}

	return client, cleanup, nil
}

// openArchiveStorage creates the archive backend named by the config.
func openArchiveStorage(cfg *config.Config) (archive.Storage, error) {
	switch cfg.Archive.Backend {
	case "sqlite":
		return storage.NewSQLiteStorage(&storage.SQLiteConfig{
			Path:         cfg.Archive.SQLite.Path,
			MaxOpenConns: cfg.Archive.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Archive.SQLite.MaxIdleConns,
			WALMode:      !cfg.Archive.SQLite.DisableWAL,
			BusyTimeout:  cfg.Archive.SQLite.BusyTimeout,
		})
	case "memory":
		return storage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported archive backend: %s (supported: sqlite, memory)", cfg.Archive.Backend)
	}
}

// newFormatter returns the output formatter selected by --output.
func newFormatter() (cli.Formatter, error) {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return cli.NewFormatter(format), nil
}

// printWarnings writes server warnings to stderr so listing output on
// stdout stays pipeable.
func printWarnings(warnings promapi.Warnings) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
}

// parseTime accepts RFC 3339 timestamps or Unix seconds with an
// optional fraction, matching what the HTTP API itself accepts.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339 or a Unix timestamp", s)
}

// parseDuration accepts Prometheus duration strings (30s, 5m, 1d) and
// Go duration strings (1.5h).
func parseDuration(s string) (time.Duration, error) {
	if d, err := model.ParseDuration(s); err == nil {
		return time.Duration(d), nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	return 0, fmt.Errorf("invalid duration %q", s)
}
