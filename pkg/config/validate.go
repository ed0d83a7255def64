package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.url").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	// Validate server configuration
	errs = append(errs, validateServer(&cfg.Server)...)

	// Validate auth configuration
	errs = append(errs, validateAuth(&cfg.Auth)...)

	// Validate TLS configuration
	errs = append(errs, validateTLS(cfg)...)

	// Validate retry configuration
	errs = append(errs, validateRetry(&cfg.Retry)...)

	// Validate limits configuration
	errs = append(errs, validateLimits(&cfg.Limits)...)

	// Validate logging configuration
	errs = append(errs, validateLogging(&cfg.Logging)...)

	// Validate tracing configuration
	errs = append(errs, validateTracing(&cfg.Tracing)...)

	// Validate archive configuration
	errs = append(errs, validateArchive(&cfg.Archive)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	// Validate server URL
	if cfg.URL == "" {
		errs = append(errs, FieldError{
			Field:   "server.url",
			Message: "server URL is required",
		})
	} else {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   "server.url",
				Message: fmt.Sprintf("invalid URL %q: %v", cfg.URL, err),
			})
		} else {
			if u.Scheme != "http" && u.Scheme != "https" {
				errs = append(errs, FieldError{
					Field:   "server.url",
					Message: fmt.Sprintf("invalid URL scheme %q: must be 'http' or 'https'", u.Scheme),
				})
			}
			if u.Host == "" {
				errs = append(errs, FieldError{
					Field:   "server.url",
					Message: "URL must include a host",
				})
			}
		}
	}

	// Validate timeout is positive
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.timeout",
			Message: "timeout must be positive",
		})
	}

	return errs
}

// validateAuth validates auth configuration. Each credential must resolve
// from at least one source when its mode is selected; when several sources
// are configured the inline value wins over the environment variable,
// which wins over the file.
func validateAuth(cfg *AuthConfig) []FieldError {
	var errs []FieldError

	// Validate mode
	validModes := map[string]bool{"none": true, "bearer": true, "basic": true}
	if cfg.Mode != "" && !validModes[cfg.Mode] {
		errs = append(errs, FieldError{
			Field:   "auth.mode",
			Message: fmt.Sprintf("invalid mode %q: must be 'none', 'bearer', or 'basic'", cfg.Mode),
		})
	}

	// Bearer mode requires a token source
	if cfg.Mode == "bearer" {
		if cfg.BearerToken == "" && cfg.BearerTokenEnv == "" && cfg.BearerTokenFile == "" {
			errs = append(errs, FieldError{
				Field:   "auth.bearer_token",
				Message: "bearer mode requires one of bearer_token, bearer_token_env, or bearer_token_file",
			})
		}
	}

	// Basic mode requires a username and a password source
	if cfg.Mode == "basic" {
		if cfg.Username == "" {
			errs = append(errs, FieldError{
				Field:   "auth.username",
				Message: "username is required when auth mode is 'basic'",
			})
		}
		if cfg.Password == "" && cfg.PasswordEnv == "" && cfg.PasswordFile == "" {
			errs = append(errs, FieldError{
				Field:   "auth.password",
				Message: "basic mode requires one of password, password_env, or password_file",
			})
		}
	}

	return errs
}

// validateTLS validates TLS configuration.
func validateTLS(cfg *Config) []FieldError {
	var errs []FieldError

	tls := &cfg.TLS

	// Client certificate and key must be configured together
	if (tls.CertFile == "") != (tls.KeyFile == "") {
		errs = append(errs, FieldError{
			Field:   "tls.cert_file",
			Message: "cert_file and key_file must both be set or both be empty",
		})
	}

	// Validate minimum TLS version
	validVersions := map[string]bool{"": true, "1.2": true, "1.3": true}
	if !validVersions[tls.MinVersion] {
		errs = append(errs, FieldError{
			Field:   "tls.min_version",
			Message: fmt.Sprintf("invalid minimum TLS version %q: must be '1.2' or '1.3'", tls.MinVersion),
		})
	}

	return errs
}

// validateRetry validates retry configuration.
func validateRetry(cfg *RetryConfig) []FieldError {
	var errs []FieldError

	// Validate max retries is within a reasonable range
	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "retry.max_retries",
			Message: "max retries must be non-negative",
		})
	}
	if cfg.MaxRetries > 10 {
		errs = append(errs, FieldError{
			Field:   "retry.max_retries",
			Message: "max retries exceeds reasonable limit (10)",
		})
	}

	// Validate delays are positive
	if cfg.BaseDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "retry.base_delay",
			Message: "base delay must be positive",
		})
	}
	if cfg.MaxDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "retry.max_delay",
			Message: "max delay must be positive",
		})
	}

	// Max delay caps the backoff, so it cannot sit below the base delay
	if cfg.BaseDelay > 0 && cfg.MaxDelay > 0 && cfg.MaxDelay < cfg.BaseDelay {
		errs = append(errs, FieldError{
			Field:   "retry.max_delay",
			Message: "max delay must not be less than base delay",
		})
	}

	return errs
}

// validateLimits validates limits configuration.
func validateLimits(cfg *LimitsConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxConcurrent < 0 {
		errs = append(errs, FieldError{
			Field:   "limits.max_concurrent",
			Message: "max concurrent must be non-negative",
		})
	}
	if cfg.QueriesPerSecond < 0 {
		errs = append(errs, FieldError{
			Field:   "limits.queries_per_second",
			Message: "queries per second must be non-negative",
		})
	}
	if cfg.Burst < 0 {
		errs = append(errs, FieldError{
			Field:   "limits.burst",
			Message: "burst must be non-negative",
		})
	}

	return errs
}

// validateLogging validates logging configuration.
func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Level == "" {
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Level] {
		errs = append(errs, FieldError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Format == "" {
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Format] {
		errs = append(errs, FieldError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Format),
		})
	}

	return errs
}

// validateTracing validates tracing configuration.
func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	// If tracing is disabled, skip validation
	if !cfg.Enabled {
		return errs
	}

	// Validate exporter
	validExporters := map[string]bool{"otlp": true}
	if cfg.Exporter != "" && !validExporters[cfg.Exporter] {
		errs = append(errs, FieldError{
			Field:   "tracing.exporter",
			Message: fmt.Sprintf("invalid exporter %q: must be 'otlp'", cfg.Exporter),
		})
	}

	// Validate endpoint
	if cfg.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}

	// Validate sampler
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if cfg.Sampler != "" && !validSamplers[cfg.Sampler] {
		errs = append(errs, FieldError{
			Field:   "tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Sampler),
		})
	}

	// Validate sample ratio
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	// Validate OTLP timeout
	if cfg.OTLP.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "tracing.otlp.timeout",
			Message: "timeout must be positive",
		})
	}

	return errs
}

// validateArchive validates archive configuration.
func validateArchive(cfg *ArchiveConfig) []FieldError {
	var errs []FieldError

	// If the archive is disabled, skip validation
	if !cfg.Enabled {
		return errs
	}

	// Validate backend
	validBackends := map[string]bool{"sqlite": true, "memory": true}
	if cfg.Backend == "" {
		errs = append(errs, FieldError{
			Field:   "archive.backend",
			Message: "backend is required when the archive is enabled",
		})
	} else if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "archive.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'sqlite' or 'memory'", cfg.Backend),
		})
	}

	// SQLite backend requires a database path
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "archive.sqlite.path",
			Message: "path is required when backend is 'sqlite'",
		})
	}

	// Validate buffer size and write timeout
	if cfg.BufferSize < 0 {
		errs = append(errs, FieldError{
			Field:   "archive.buffer_size",
			Message: "buffer size must be non-negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "archive.write_timeout",
			Message: "write timeout must be positive",
		})
	}

	// Validate retention policy
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "archive.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.Days > 3650 {
		errs = append(errs, FieldError{
			Field:   "archive.retention.days",
			Message: "retention days exceeds reasonable limit (3650)",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "archive.retention.max_records",
			Message: "max records must be non-negative",
		})
	}
	if cfg.Retention.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "archive.retention.prune_schedule",
				Message: fmt.Sprintf("invalid cron schedule %q: %v", cfg.Retention.PruneSchedule, err),
			})
		}
	}

	return errs
}
