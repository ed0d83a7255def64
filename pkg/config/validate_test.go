package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// assertFieldError validates the config and checks that an error is
// reported for the given field path.
func assertFieldError(t *testing.T, cfg *Config, field string) {
	t.Helper()

	err := Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error for field %q, got none", field)
	}

	var valErr ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	for _, fe := range valErr.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("expected error for field %q, got: %v", field, valErr.Errors)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := NewTestConfig().
		WithServerURL("https://prometheus.example.com").
		WithBearerToken("token").
		WithRetries(3).
		WithRateLimit(10, 20).
		WithArchiveSQLite("/tmp/archive.db").
		Build()

	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "missing URL",
			mutate:    func(c *Config) { c.Server.URL = "" },
			wantField: "server.url",
		},
		{
			name:      "unparseable URL",
			mutate:    func(c *Config) { c.Server.URL = "http://[::1" },
			wantField: "server.url",
		},
		{
			name:      "invalid scheme",
			mutate:    func(c *Config) { c.Server.URL = "ftp://prometheus.example.com" },
			wantField: "server.url",
		},
		{
			name:      "missing host",
			mutate:    func(c *Config) { c.Server.URL = "http://" },
			wantField: "server.url",
		},
		{
			name:      "negative timeout",
			mutate:    func(c *Config) { c.Server.Timeout = -1 * time.Second },
			wantField: "server.timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			assertFieldError(t, cfg, tt.wantField)
		})
	}
}

func TestValidateAuth(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "invalid mode",
			mutate:    func(c *Config) { c.Auth.Mode = "token" },
			wantField: "auth.mode",
		},
		{
			name:      "bearer without token source",
			mutate:    func(c *Config) { c.Auth.Mode = "bearer" },
			wantField: "auth.bearer_token",
		},
		{
			name: "basic without username",
			mutate: func(c *Config) {
				c.Auth.Mode = "basic"
				c.Auth.Password = "secret"
			},
			wantField: "auth.username",
		},
		{
			name: "basic without password source",
			mutate: func(c *Config) {
				c.Auth.Mode = "basic"
				c.Auth.Username = "admin"
			},
			wantField: "auth.password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			assertFieldError(t, cfg, tt.wantField)
		})
	}
}

func TestValidateAuth_ValidModes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "none mode with no credentials",
			mutate: func(c *Config) { c.Auth.Mode = "none" },
		},
		{
			name: "bearer with token file",
			mutate: func(c *Config) {
				c.Auth.Mode = "bearer"
				c.Auth.BearerTokenFile = "/etc/galileo/token"
			},
		},
		{
			name: "bearer with env source",
			mutate: func(c *Config) {
				c.Auth.Mode = "bearer"
				c.Auth.BearerTokenEnv = "PROM_TOKEN"
			},
		},
		{
			name: "basic with password env",
			mutate: func(c *Config) {
				c.Auth.Mode = "basic"
				c.Auth.Username = "admin"
				c.Auth.PasswordEnv = "PROM_PASSWORD"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err != nil {
				t.Errorf("expected valid config, got error: %v", err)
			}
		})
	}
}

func TestValidateTLS(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "cert without key",
			mutate:    func(c *Config) { c.TLS.CertFile = "/path/cert.pem" },
			wantField: "tls.cert_file",
		},
		{
			name:      "key without cert",
			mutate:    func(c *Config) { c.TLS.KeyFile = "/path/key.pem" },
			wantField: "tls.cert_file",
		},
		{
			name:      "invalid min version",
			mutate:    func(c *Config) { c.TLS.MinVersion = "1.1" },
			wantField: "tls.min_version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			assertFieldError(t, cfg, tt.wantField)
		})
	}
}

func TestValidateRetry(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "negative max retries",
			mutate:    func(c *Config) { c.Retry.MaxRetries = -1 },
			wantField: "retry.max_retries",
		},
		{
			name:      "excessive max retries",
			mutate:    func(c *Config) { c.Retry.MaxRetries = 11 },
			wantField: "retry.max_retries",
		},
		{
			name:      "negative base delay",
			mutate:    func(c *Config) { c.Retry.BaseDelay = -1 * time.Second },
			wantField: "retry.base_delay",
		},
		{
			name:      "negative max delay",
			mutate:    func(c *Config) { c.Retry.MaxDelay = -1 * time.Second },
			wantField: "retry.max_delay",
		},
		{
			name: "max delay below base delay",
			mutate: func(c *Config) {
				c.Retry.BaseDelay = 2 * time.Second
				c.Retry.MaxDelay = 1 * time.Second
			},
			wantField: "retry.max_delay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			assertFieldError(t, cfg, tt.wantField)
		})
	}
}

func TestValidateLimits(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "negative max concurrent",
			mutate:    func(c *Config) { c.Limits.MaxConcurrent = -1 },
			wantField: "limits.max_concurrent",
		},
		{
			name:      "negative queries per second",
			mutate:    func(c *Config) { c.Limits.QueriesPerSecond = -0.5 },
			wantField: "limits.queries_per_second",
		},
		{
			name:      "negative burst",
			mutate:    func(c *Config) { c.Limits.Burst = -1 },
			wantField: "limits.burst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			assertFieldError(t, cfg, tt.wantField)
		})
	}
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty level",
			mutate:    func(c *Config) { c.Logging.Level = "" },
			wantField: "logging.level",
		},
		{
			name:      "invalid level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
		{
			name:      "invalid format",
			mutate:    func(c *Config) { c.Logging.Format = "xml" },
			wantField: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			assertFieldError(t, cfg, tt.wantField)
		})
	}
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name: "invalid exporter",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "jaeger"
			},
			wantField: "tracing.exporter",
		},
		{
			name: "missing endpoint",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Endpoint = ""
			},
			wantField: "tracing.endpoint",
		},
		{
			name: "invalid sampler",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.Sampler = "sometimes"
			},
			wantField: "tracing.sampler",
		},
		{
			name: "sample ratio above one",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.SampleRatio = 1.5
			},
			wantField: "tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			assertFieldError(t, cfg, tt.wantField)
		})
	}
}

func TestValidateTracing_DisabledSkipsValidation(t *testing.T) {
	cfg := MinimalConfig()
	cfg.Tracing.Enabled = false
	cfg.Tracing.Sampler = "sometimes"
	cfg.Tracing.Endpoint = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("expected disabled tracing to skip validation, got error: %v", err)
	}
}

func TestValidateArchive(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name: "invalid backend",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Backend = "postgres"
			},
			wantField: "archive.backend",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Backend = "sqlite"
				c.Archive.SQLite.Path = ""
			},
			wantField: "archive.sqlite.path",
		},
		{
			name: "invalid cron schedule",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Retention.PruneSchedule = "not a schedule"
			},
			wantField: "archive.retention.prune_schedule",
		},
		{
			name: "excessive retention days",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Retention.Days = 4000
			},
			wantField: "archive.retention.days",
		},
		{
			name: "negative max records",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Retention.MaxRecords = -1
			},
			wantField: "archive.retention.max_records",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := MinimalConfig()
			tt.mutate(cfg)
			assertFieldError(t, cfg, tt.wantField)
		})
	}
}

func TestValidateArchive_DisabledSkipsValidation(t *testing.T) {
	cfg := MinimalConfig()
	cfg.Archive.Enabled = false
	cfg.Archive.Backend = "postgres"
	cfg.Archive.Retention.PruneSchedule = "not a schedule"

	if err := Validate(cfg); err != nil {
		t.Errorf("expected disabled archive to skip validation, got error: %v", err)
	}
}

func TestValidateArchive_MemoryBackend(t *testing.T) {
	cfg := MinimalConfig()
	cfg.Archive.Enabled = true
	cfg.Archive.Backend = "memory"
	cfg.Archive.SQLite.Path = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("expected memory backend without sqlite path to be valid, got error: %v", err)
	}
}

func TestFieldError_Error(t *testing.T) {
	fe := FieldError{Field: "server.url", Message: "server URL is required"}

	want := "server.url: server URL is required"
	if fe.Error() != want {
		t.Errorf("expected %q, got %q", want, fe.Error())
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		err := ValidationError{}
		if err.Error() != "configuration validation failed" {
			t.Errorf("unexpected message: %q", err.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		err := ValidationError{Errors: []FieldError{
			{Field: "server.url", Message: "server URL is required"},
		}}
		want := "configuration validation failed: server.url: server URL is required"
		if err.Error() != want {
			t.Errorf("expected %q, got %q", want, err.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := ValidationError{Errors: []FieldError{
			{Field: "server.url", Message: "server URL is required"},
			{Field: "logging.level", Message: "invalid logging level"},
		}}
		msg := err.Error()
		if !strings.Contains(msg, "2 errors") {
			t.Errorf("expected error count in message, got %q", msg)
		}
		if !strings.Contains(msg, "server.url") || !strings.Contains(msg, "logging.level") {
			t.Errorf("expected both field paths in message, got %q", msg)
		}
	})
}
