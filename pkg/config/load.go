package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Apply defaults
	ApplyDefaults(&cfg)

	// Validate
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention GALILEO_SECTION_FIELD (e.g., GALILEO_SERVER_URL).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// First load from file (this already applies defaults)
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Re-validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format GALILEO_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("GALILEO_SERVER_URL"); val != "" {
		cfg.Server.URL = val
	}
	if val := os.Getenv("GALILEO_SERVER_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.Timeout = d
		}
	}
	if val := os.Getenv("GALILEO_SERVER_USER_AGENT"); val != "" {
		cfg.Server.UserAgent = val
	}
	if val := os.Getenv("GALILEO_SERVER_PREFER_POST"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.PreferPOST = b
		}
	}
	if val := os.Getenv("GALILEO_SERVER_VALIDATE_EXPRESSIONS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.ValidateExpressions = b
		}
	}

	// Auth overrides
	if val := os.Getenv("GALILEO_AUTH_MODE"); val != "" {
		cfg.Auth.Mode = val
	}
	if val := os.Getenv("GALILEO_AUTH_BEARER_TOKEN"); val != "" {
		cfg.Auth.BearerToken = val
	}
	if val := os.Getenv("GALILEO_AUTH_BEARER_TOKEN_FILE"); val != "" {
		cfg.Auth.BearerTokenFile = val
	}
	if val := os.Getenv("GALILEO_AUTH_USERNAME"); val != "" {
		cfg.Auth.Username = val
	}
	if val := os.Getenv("GALILEO_AUTH_PASSWORD"); val != "" {
		cfg.Auth.Password = val
	}

	// TLS overrides
	if val := os.Getenv("GALILEO_TLS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.TLS.Enabled = b
		}
	}
	if val := os.Getenv("GALILEO_TLS_CA_FILE"); val != "" {
		cfg.TLS.CAFile = val
	}
	if val := os.Getenv("GALILEO_TLS_CERT_FILE"); val != "" {
		cfg.TLS.CertFile = val
	}
	if val := os.Getenv("GALILEO_TLS_KEY_FILE"); val != "" {
		cfg.TLS.KeyFile = val
	}
	if val := os.Getenv("GALILEO_TLS_SERVER_NAME"); val != "" {
		cfg.TLS.ServerName = val
	}
	if val := os.Getenv("GALILEO_TLS_INSECURE_SKIP_VERIFY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.TLS.InsecureSkipVerify = b
		}
	}

	// Retry overrides
	if val := os.Getenv("GALILEO_RETRY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Retry.Enabled = b
		}
	}
	if val := os.Getenv("GALILEO_RETRY_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retry.MaxRetries = i
		}
	}
	if val := os.Getenv("GALILEO_RETRY_BASE_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Retry.BaseDelay = d
		}
	}
	if val := os.Getenv("GALILEO_RETRY_MAX_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Retry.MaxDelay = d
		}
	}

	// Limits overrides
	if val := os.Getenv("GALILEO_LIMITS_MAX_CONCURRENT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limits.MaxConcurrent = i
		}
	}
	if val := os.Getenv("GALILEO_LIMITS_QUERIES_PER_SECOND"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Limits.QueriesPerSecond = f
		}
	}
	if val := os.Getenv("GALILEO_LIMITS_BURST"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Limits.Burst = i
		}
	}

	// Logging overrides
	if val := os.Getenv("GALILEO_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("GALILEO_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv("GALILEO_LOGGING_OUTPUT"); val != "" {
		cfg.Logging.Output = val
	}

	// Metrics overrides
	if val := os.Getenv("GALILEO_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("GALILEO_METRICS_NAMESPACE"); val != "" {
		cfg.Metrics.Namespace = val
	}
	if val := os.Getenv("GALILEO_METRICS_SUBSYSTEM"); val != "" {
		cfg.Metrics.Subsystem = val
	}

	// Tracing overrides
	if val := os.Getenv("GALILEO_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("GALILEO_TRACING_ENDPOINT"); val != "" {
		cfg.Tracing.Endpoint = val
	}
	if val := os.Getenv("GALILEO_TRACING_SAMPLER"); val != "" {
		cfg.Tracing.Sampler = val
	}
	if val := os.Getenv("GALILEO_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Tracing.SampleRatio = f
		}
	}
	if val := os.Getenv("GALILEO_TRACING_SERVICE_NAME"); val != "" {
		cfg.Tracing.ServiceName = val
	}

	// Archive overrides
	if val := os.Getenv("GALILEO_ARCHIVE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Archive.Enabled = b
		}
	}
	if val := os.Getenv("GALILEO_ARCHIVE_BACKEND"); val != "" {
		cfg.Archive.Backend = val
	}
	if val := os.Getenv("GALILEO_ARCHIVE_SQLITE_PATH"); val != "" {
		cfg.Archive.SQLite.Path = val
	}
	if val := os.Getenv("GALILEO_ARCHIVE_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Archive.Retention.Days = i
		}
	}
}
