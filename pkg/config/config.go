package config

import (
	"time"

	tlsconfig "mercator-hq/galileo/pkg/security/tls"
)

// Config is the root configuration structure for Galileo.
// It contains all configuration sections for the target server, client
// authentication, TLS, retries, rate limits, telemetry, and the query
// archive.
type Config struct {
	// Server contains the target Prometheus server configuration.
	Server ServerConfig `yaml:"server"`

	// Auth contains client authentication configuration.
	Auth AuthConfig `yaml:"auth"`

	// TLS contains TLS settings for https endpoints including custom CA
	// bundles and client certificates.
	TLS tlsconfig.Config `yaml:"tls"`

	// Retry contains retry behavior for transient failures.
	Retry RetryConfig `yaml:"retry"`

	// Limits contains client-side rate limiting configuration.
	Limits LimitsConfig `yaml:"limits"`

	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus client metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`

	// Archive contains query archive configuration including the storage
	// backend and retention policy.
	Archive ArchiveConfig `yaml:"archive"`
}

// ServerConfig contains configuration for the target Prometheus server.
type ServerConfig struct {
	// URL is the base URL of the Prometheus server.
	// Example: "http://localhost:9090", "https://prometheus.example.com"
	// Default: "http://localhost:9090"
	URL string `yaml:"url"`

	// Timeout is the per-request timeout.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// UserAgent overrides the User-Agent header sent with every request.
	// Default: "galileo/<version>"
	UserAgent string `yaml:"user_agent"`

	// PreferPOST makes query, range query, series, and label requests use
	// POST with form-encoded bodies instead of GET. Useful for expressions
	// too long for a URL.
	// Default: false
	PreferPOST bool `yaml:"prefer_post"`

	// ValidateExpressions enables client-side PromQL parsing before
	// sending query expressions to the server.
	// Default: false
	ValidateExpressions bool `yaml:"validate_expressions"`
}

// AuthConfig contains client authentication configuration.
//
// Each credential resolves from exactly one source. Inline values take
// precedence over environment variables, which take precedence over
// files.
type AuthConfig struct {
	// Mode selects the authentication scheme.
	// Options: "none", "bearer", "basic"
	// Default: "none"
	Mode string `yaml:"mode"`

	// BearerToken is an inline bearer token.
	// Prefer BearerTokenEnv or BearerTokenFile over inline tokens.
	BearerToken string `yaml:"bearer_token"`

	// BearerTokenEnv names an environment variable holding the token.
	// Example: "PROM_TOKEN"
	BearerTokenEnv string `yaml:"bearer_token_env"`

	// BearerTokenFile is the path to a file holding the token.
	BearerTokenFile string `yaml:"bearer_token_file"`

	// Username for basic authentication.
	// Required when Mode is "basic".
	Username string `yaml:"username"`

	// Password is an inline basic auth password.
	// Prefer PasswordEnv or PasswordFile over inline passwords.
	Password string `yaml:"password"`

	// PasswordEnv names an environment variable holding the password.
	PasswordEnv string `yaml:"password_env"`

	// PasswordFile is the path to a file holding the password.
	PasswordFile string `yaml:"password_file"`

	// WatchCredentialFiles enables file watching so rotated credential
	// files are picked up without restart.
	// Default: false
	WatchCredentialFiles bool `yaml:"watch_credential_files"`
}

// RetryConfig contains retry behavior for transient failures.
// Backoff is exponential: BaseDelay doubles on each attempt up to
// MaxDelay.
type RetryConfig struct {
	// Enabled turns retries on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// MaxRetries is the number of retries after the initial attempt.
	// Default: 3
	MaxRetries int `yaml:"max_retries"`

	// BaseDelay is the backoff before the first retry.
	// Default: 1s
	BaseDelay time.Duration `yaml:"base_delay"`

	// MaxDelay caps the backoff between retries.
	// Default: 30s
	MaxDelay time.Duration `yaml:"max_delay"`
}

// LimitsConfig contains client-side rate limiting configuration.
// Zero values disable the corresponding limit.
type LimitsConfig struct {
	// MaxConcurrent limits simultaneous in-flight requests.
	// Default: 0 (unlimited)
	MaxConcurrent int `yaml:"max_concurrent"`

	// QueriesPerSecond limits the average query rate using a token bucket.
	// Default: 0 (unlimited)
	QueriesPerSecond float64 `yaml:"queries_per_second"`

	// Burst is the maximum burst size for the query rate limit.
	// Default: twice the per-second rate
	Burst int `yaml:"burst"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// Output is the log destination: "stderr", "stdout", or a file path.
	// Default: "stderr"
	Output string `yaml:"output"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus client metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether client metrics are collected.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "galileo"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "client"
	Subsystem string `yaml:"subsystem"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the trace collector endpoint.
	// Example: "localhost:4317"
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 0.1 (10%)
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is the service name reported in traces.
	// Default: "galileo"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection. Set it when the
	// collector listens in plaintext, as local collectors usually do.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// ArchiveConfig contains query archive configuration.
type ArchiveConfig struct {
	// Enabled controls whether executed queries are archived.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend specifies the archive storage backend.
	// Options: "sqlite", "memory"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// BufferSize is the size of the async write channel buffer.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// SQLite contains SQLite-specific configuration.
	SQLite ArchiveSQLiteConfig `yaml:"sqlite"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`
}

// ArchiveSQLiteConfig contains SQLite storage configuration for the
// archive.
type ArchiveSQLiteConfig struct {
	// Path is the file path for the SQLite database.
	// Default: "data/archive.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// DisableWAL turns off Write-Ahead Logging. WAL stays on by default
	// for better concurrency.
	// Default: false
	DisableWAL bool `yaml:"disable_wal"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains archive retention policy configuration.
type RetentionConfig struct {
	// Days is the number of days to retain query records.
	// Records older than this are eligible for deletion.
	// 0 means keep records forever (no pruning).
	// Default: 90
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression for scheduling pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string `yaml:"prune_schedule"`

	// ExportBeforeDelete enables exporting records to JSON before
	// deletion.
	// Default: false
	ExportBeforeDelete bool `yaml:"export_before_delete"`

	// ExportPath is the directory for pre-deletion exports.
	// Default: "data/exports/"
	ExportPath string `yaml:"export_path"`

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}
