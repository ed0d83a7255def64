package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"
)

// Config represents TLS configuration for connections to a Prometheus
// server. It supports custom CA bundles, client certificates for mTLS,
// TLS 1.2 and 1.3, and configurable cipher suites.
type Config struct {
	// Enabled indicates whether TLS settings should be applied.
	// When false the transport uses plain defaults (https URLs still
	// work with system roots).
	Enabled bool `yaml:"enabled"`

	// CAFile is the path to a PEM-encoded CA bundle used to verify the
	// server certificate. Empty means the system root pool.
	CAFile string `yaml:"ca_file"`

	// CertFile is the path to the PEM-encoded client certificate
	// presented to servers that require mTLS.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded client private key
	KeyFile string `yaml:"key_file"`

	// ServerName overrides the hostname used for certificate
	// verification and SNI. Useful when connecting through a tunnel.
	ServerName string `yaml:"server_name"`

	// InsecureSkipVerify disables server certificate verification.
	// Never enable this outside of test environments.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// MinVersion is the minimum TLS version to negotiate ("1.2" or "1.3")
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// CipherSuites is a list of enabled TLS 1.2 cipher suites
	// If empty, Go's default secure cipher suites are used
	CipherSuites []string `yaml:"cipher_suites"`

	// ReloadInterval is how often to check the client certificate files
	// for changes. Format: "5m", "1h", etc.
	// Default: "5m"
	ReloadInterval string `yaml:"cert_reload_interval"`
}

// ToTLSConfig converts Config to crypto/tls.Config.
// It loads the CA bundle and client keypair and configures TLS versions
// and cipher suites. Returns (nil, nil) when TLS is not enabled.
func (c *Config) ToTLSConfig() (*tls.Config, error) {
	if !c.Enabled {
		return nil, nil
	}

	// Client certs come in pairs
	if (c.CertFile == "") != (c.KeyFile == "") {
		return nil, fmt.Errorf("cert_file and key_file must both be set for client certificates")
	}

	// #nosec G402 - MinVersion is configurable and validated (TLS 1.0/1.1 rejected)
	tlsConfig := &tls.Config{
		MinVersion:         c.parseTLSVersion(),
		CipherSuites:       c.parseCipherSuites(),
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}

	// Custom CA bundle for server verification
	if c.CAFile != "" {
		caCert, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}

		caPool := x509.NewCertPool()
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate: %s", c.CAFile)
		}
		tlsConfig.RootCAs = caPool
	}

	// Client certificate for mTLS
	if c.CertFile != "" {
		if _, err := os.Stat(c.CertFile); err != nil {
			return nil, fmt.Errorf("certificate file not found: %s: %w", c.CertFile, err)
		}
		if _, err := os.Stat(c.KeyFile); err != nil {
			return nil, fmt.Errorf("key file not found: %s: %w", c.KeyFile, err)
		}

		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}

		if err := ValidateCertificate(&cert); err != nil {
			return nil, fmt.Errorf("client certificate validation failed: %w", err)
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// HasClientCertificate reports whether a client keypair is configured.
func (c *Config) HasClientCertificate() bool {
	return c.Enabled && c.CertFile != "" && c.KeyFile != ""
}

// parseTLSVersion converts the MinVersion string to a tls.Version constant.
// Supported versions: "1.2" (default), "1.3"
// TLS 1.0 and 1.1 are not supported due to security concerns.
func (c *Config) parseTLSVersion() uint16 {
	switch c.MinVersion {
	case "1.3":
		return tls.VersionTLS13
	case "1.2", "":
		return tls.VersionTLS12
	default:
		// Default to TLS 1.2 for unknown versions
		return tls.VersionTLS12
	}
}

// parseCipherSuites converts cipher suite names to tls.CipherSuite constants.
// If no cipher suites are specified, returns nil to use Go's secure defaults.
func (c *Config) parseCipherSuites() []uint16 {
	if len(c.CipherSuites) == 0 {
		return nil // Use Go's secure defaults
	}

	var suites []uint16
	for _, suite := range c.CipherSuites {
		if id, ok := cipherSuiteMap[suite]; ok {
			suites = append(suites, id)
		}
	}

	return suites
}

// ParseReloadInterval parses the ReloadInterval string into a time.Duration.
// Returns 5 minutes as default if not specified or invalid.
func (c *Config) ParseReloadInterval() time.Duration {
	if c.ReloadInterval == "" {
		return 5 * time.Minute
	}

	duration, err := time.ParseDuration(c.ReloadInterval)
	if err != nil {
		return 5 * time.Minute
	}

	return duration
}

// cipherSuiteMap maps cipher suite names to their tls package constants.
// Only secure cipher suites are included.
var cipherSuiteMap = map[string]uint16{
	// TLS 1.3 cipher suites (always enabled, cannot be disabled)
	"TLS_AES_128_GCM_SHA256":       tls.TLS_AES_128_GCM_SHA256,
	"TLS_AES_256_GCM_SHA384":       tls.TLS_AES_256_GCM_SHA384,
	"TLS_CHACHA20_POLY1305_SHA256": tls.TLS_CHACHA20_POLY1305_SHA256,

	// TLS 1.2 cipher suites (secure options only)
	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":   tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":   tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256": tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384": tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305":    tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305":  tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
}
