package config

import "time"

// Default values for server configuration.
const (
	DefaultServerURL     = "http://localhost:9090"
	DefaultServerTimeout = 30 * time.Second
)

// Default values for retry configuration.
const (
	DefaultRetryMaxRetries = 3
	DefaultRetryBaseDelay  = 1 * time.Second
	DefaultRetryMaxDelay   = 30 * time.Second
)

// Default values for logging configuration.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultLogOutput = "stderr"
)

// Default values for metrics configuration.
const (
	DefaultMetricsNamespace = "galileo"
	DefaultMetricsSubsystem = "client"
)

// Default values for tracing configuration.
const (
	DefaultTracingExporter    = "otlp"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingServiceName = "galileo"
	DefaultOTLPTimeout        = 10 * time.Second
)

// Default values for archive configuration.
const (
	DefaultArchiveBackend      = "sqlite"
	DefaultArchiveBufferSize   = 1000
	DefaultArchiveWriteTimeout = 5 * time.Second
	DefaultSQLitePath          = "data/archive.db"
	DefaultSQLiteMaxOpenConns  = 10
	DefaultSQLiteMaxIdleConns  = 5
	DefaultSQLiteBusyTimeout   = 5 * time.Second
	DefaultRetentionDays       = 90
	DefaultPruneSchedule       = "0 3 * * *"
	DefaultExportPath          = "data/exports/"
)

// DefaultTLSMinVersion is the default minimum TLS version.
const DefaultTLSMinVersion = "1.2"

// ApplyDefaults fills in default values for any unset configuration
// fields. It modifies the config in place. Boolean fields keep their
// zero value since false cannot be distinguished from unset.
func ApplyDefaults(cfg *Config) {
	// Server defaults.
	if cfg.Server.URL == "" {
		cfg.Server.URL = DefaultServerURL
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = DefaultServerTimeout
	}

	// Auth defaults.
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = "none"
	}

	// TLS defaults.
	if cfg.TLS.MinVersion == "" {
		cfg.TLS.MinVersion = DefaultTLSMinVersion
	}

	// Retry defaults. Applied even when retries are disabled so enabling
	// via an environment override does not leave zero delays.
	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = DefaultRetryMaxRetries
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = DefaultRetryBaseDelay
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = DefaultRetryMaxDelay
	}

	// Limits defaults. A zero burst with a positive rate gets a burst of
	// twice the rate so short spikes are absorbed.
	if cfg.Limits.Burst == 0 && cfg.Limits.QueriesPerSecond > 0 {
		burst := int(cfg.Limits.QueriesPerSecond * 2)
		if burst < 1 {
			burst = 1
		}
		cfg.Limits.Burst = burst
	}

	// Logging defaults.
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = DefaultLogOutput
	}

	// Metrics defaults.
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	// Tracing defaults.
	if cfg.Tracing.Exporter == "" {
		cfg.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Tracing.OTLP.Timeout == 0 {
		cfg.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}

	// Archive defaults.
	if cfg.Archive.Backend == "" {
		cfg.Archive.Backend = DefaultArchiveBackend
	}
	if cfg.Archive.BufferSize == 0 {
		cfg.Archive.BufferSize = DefaultArchiveBufferSize
	}
	if cfg.Archive.WriteTimeout == 0 {
		cfg.Archive.WriteTimeout = DefaultArchiveWriteTimeout
	}
	if cfg.Archive.SQLite.Path == "" {
		cfg.Archive.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Archive.SQLite.MaxOpenConns == 0 {
		cfg.Archive.SQLite.MaxOpenConns = DefaultSQLiteMaxOpenConns
	}
	if cfg.Archive.SQLite.MaxIdleConns == 0 {
		cfg.Archive.SQLite.MaxIdleConns = DefaultSQLiteMaxIdleConns
	}
	if cfg.Archive.SQLite.BusyTimeout == 0 {
		cfg.Archive.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Archive.Retention.Days == 0 {
		cfg.Archive.Retention.Days = DefaultRetentionDays
	}
	if cfg.Archive.Retention.PruneSchedule == "" {
		cfg.Archive.Retention.PruneSchedule = DefaultPruneSchedule
	}
	if cfg.Archive.Retention.ExportPath == "" {
		cfg.Archive.Retention.ExportPath = DefaultExportPath
	}
}

// Default returns a fully defaulted configuration suitable for use when
// no configuration file is present.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
