package promapi

import (
	"net/url"
	"time"

	"mercator-hq/galileo/pkg/ratelimit"
	"mercator-hq/galileo/pkg/security/credentials"
	tlsconfig "mercator-hq/galileo/pkg/security/tls"
)

// Default configuration values.
const (
	// DefaultTimeout is the default per-request timeout
	DefaultTimeout = 30 * time.Second

	// DefaultMaxIdleConns is the default connection pool size
	DefaultMaxIdleConns = 100

	// DefaultMaxIdleConnsPerHost is the default per-host connection pool size
	DefaultMaxIdleConnsPerHost = 10

	// DefaultIdleConnTimeout is how long idle connections are kept open
	DefaultIdleConnTimeout = 90 * time.Second

	// DefaultBaseDelay is the default initial retry backoff
	DefaultBaseDelay = 1 * time.Second

	// DefaultMaxDelay is the default retry backoff ceiling
	DefaultMaxDelay = 30 * time.Second

	// DefaultMaxErrorBodySize caps how much of an error response body is
	// read (10 MiB)
	DefaultMaxErrorBodySize = 10 * 1024 * 1024

	// DefaultUserAgent identifies the client to the server
	DefaultUserAgent = "galileo/" + Version
)

// Version is the client library version reported in the User-Agent header.
const Version = "1.0.0"

// RetryConfig controls retry behavior for transient failures. Backoff is
// exponential: BaseDelay doubles on each attempt up to MaxDelay.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt
	MaxRetries int

	// BaseDelay is the backoff before the first retry (default 1s)
	BaseDelay time.Duration

	// MaxDelay caps the backoff between retries (default 30s)
	MaxDelay time.Duration
}

// BasicAuth holds credentials for HTTP basic authentication. The
// password is resolved through a credentials.Source on each request.
type BasicAuth struct {
	// Username for basic auth
	Username string

	// Password source for basic auth
	Password credentials.Source
}

// Config holds the configuration for a Client.
type Config struct {
	// BaseURL is the server base URL (e.g. http://localhost:9090)
	BaseURL string

	// Timeout is the per-request timeout including retries within a
	// single attempt (default 30s)
	Timeout time.Duration

	// UserAgent overrides the default User-Agent header
	UserAgent string

	// Headers are extra headers added to every request
	Headers map[string]string

	// PreferPOST makes query, query_range, series, and labels requests
	// use POST with form-encoded bodies instead of GET. Useful for
	// expressions too long for a URL.
	PreferPOST bool

	// ValidateQueries enables client-side PromQL parsing before sending
	// query expressions to the server
	ValidateQueries bool

	// BearerToken is an optional source for bearer token authentication
	BearerToken credentials.Source

	// BasicAuth is an optional basic auth configuration.
	// BearerToken takes precedence when both are set.
	BasicAuth *BasicAuth

	// TLS is the TLS configuration for https endpoints
	TLS *tlsconfig.Config

	// Retry enables retries for transient failures. Nil disables retries.
	Retry *RetryConfig

	// Limits enables client-side rate limiting. Nil disables limiting.
	Limits *ratelimit.Config

	// MaxIdleConns is the connection pool size (default 100)
	MaxIdleConns int

	// MaxIdleConnsPerHost is the per-host connection pool size (default 10)
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long idle connections are kept (default 90s)
	IdleConnTimeout time.Duration

	// MaxErrorBodySize caps error response body reads (default 10 MiB)
	MaxErrorBodySize int64

	// Observers receive an event for every completed request
	Observers []RequestObserver

	// Tracer wraps each operation in a span when set
	Tracer Tracer
}

// applyDefaults fills in zero-valued fields with defaults.
func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.MaxIdleConnsPerHost == 0 {
		c.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = DefaultIdleConnTimeout
	}
	if c.MaxErrorBodySize == 0 {
		c.MaxErrorBodySize = DefaultMaxErrorBodySize
	}
	if c.Retry != nil {
		if c.Retry.BaseDelay == 0 {
			c.Retry.BaseDelay = DefaultBaseDelay
		}
		if c.Retry.MaxDelay == 0 {
			c.Retry.MaxDelay = DefaultMaxDelay
		}
	}
}

// validate checks the configuration for errors.
func (c *Config) validate() error {
	if c.BaseURL == "" {
		return &ConfigError{Field: "base_url", Message: "base URL is required"}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return &ConfigError{Field: "base_url", Message: "invalid URL: " + err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ConfigError{Field: "base_url", Message: "URL scheme must be http or https"}
	}
	if u.Host == "" {
		return &ConfigError{Field: "base_url", Message: "URL host is required"}
	}

	if c.Timeout < 0 {
		return &ConfigError{Field: "timeout", Message: "timeout must not be negative"}
	}

	if c.Retry != nil && c.Retry.MaxRetries < 0 {
		return &ConfigError{Field: "retry.max_retries", Message: "max retries must not be negative"}
	}

	if c.BasicAuth != nil {
		if c.BasicAuth.Username == "" {
			return &ConfigError{Field: "auth.username", Message: "username is required for basic auth"}
		}
		if c.BasicAuth.Password == nil {
			return &ConfigError{Field: "auth.password", Message: "password source is required for basic auth"}
		}
	}

	return nil
}
