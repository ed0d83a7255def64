package tls

import (
	"crypto/tls"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_ToTLSConfig(t *testing.T) {
	dir := t.TempDir()
	certFile, keyFile := writeValidKeyPair(t, dir)

	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "TLS disabled",
			config: Config{
				Enabled: false,
			},
			expectError: false,
		},
		{
			name: "enabled with defaults",
			config: Config{
				Enabled: true,
			},
			expectError: false,
		},
		{
			name: "valid client certificate pair",
			config: Config{
				Enabled:  true,
				CertFile: certFile,
				KeyFile:  keyFile,
			},
			expectError: false,
		},
		{
			name: "custom CA bundle",
			config: Config{
				Enabled: true,
				CAFile:  certFile,
			},
			expectError: false,
		},
		{
			name: "cert without key",
			config: Config{
				Enabled:  true,
				CertFile: certFile,
			},
			expectError: true,
			errorMsg:    "must both be set",
		},
		{
			name: "key without cert",
			config: Config{
				Enabled: true,
				KeyFile: keyFile,
			},
			expectError: true,
			errorMsg:    "must both be set",
		},
		{
			name: "cert file not found",
			config: Config{
				Enabled:  true,
				CertFile: filepath.Join(dir, "nonexistent.pem"),
				KeyFile:  keyFile,
			},
			expectError: true,
			errorMsg:    "certificate file not found",
		},
		{
			name: "key file not found",
			config: Config{
				Enabled:  true,
				CertFile: certFile,
				KeyFile:  filepath.Join(dir, "nonexistent.pem"),
			},
			expectError: true,
			errorMsg:    "key file not found",
		},
		{
			name: "CA file not found",
			config: Config{
				Enabled: true,
				CAFile:  filepath.Join(dir, "nonexistent-ca.pem"),
			},
			expectError: true,
			errorMsg:    "failed to read CA file",
		},
		{
			name: "CA file without certificates",
			config: Config{
				Enabled: true,
				CAFile:  keyFile,
			},
			expectError: true,
			errorMsg:    "failed to parse CA certificate",
		},
		{
			name: "with cipher suites",
			config: Config{
				Enabled:  true,
				CertFile: certFile,
				KeyFile:  keyFile,
				CipherSuites: []string{
					"TLS_AES_128_GCM_SHA256",
					"TLS_AES_256_GCM_SHA384",
				},
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tlsConfig, err := tt.config.ToTLSConfig()

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
					return
				}
				if tt.errorMsg != "" && !contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !tt.config.Enabled && tlsConfig != nil {
				t.Errorf("expected nil config when TLS disabled, got %v", tlsConfig)
				return
			}

			if tt.config.Enabled {
				if tlsConfig == nil {
					t.Errorf("expected non-nil TLS config")
					return
				}

				// Verify client certificate loaded when configured
				if tt.config.CertFile != "" && len(tlsConfig.Certificates) == 0 {
					t.Errorf("expected client certificate to be loaded")
				}

				// Verify CA pool loaded when configured
				if tt.config.CAFile != "" && tlsConfig.RootCAs == nil {
					t.Errorf("expected RootCAs to be set")
				}

				// Verify TLS version
				expectedVersion := tt.config.parseTLSVersion()
				if tlsConfig.MinVersion != expectedVersion {
					t.Errorf("expected MinVersion %d, got %d", expectedVersion, tlsConfig.MinVersion)
				}

				// Verify cipher suites if specified
				if len(tt.config.CipherSuites) > 0 {
					if len(tlsConfig.CipherSuites) == 0 {
						t.Errorf("expected cipher suites to be set")
					}
				}
			}
		})
	}
}

func TestConfig_ToTLSConfig_VerificationFields(t *testing.T) {
	config := Config{
		Enabled:            true,
		ServerName:         "prometheus.internal",
		InsecureSkipVerify: true,
		MinVersion:         "1.3",
	}

	tlsConfig, err := config.ToTLSConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tlsConfig.ServerName != "prometheus.internal" {
		t.Errorf("expected ServerName %q, got %q", "prometheus.internal", tlsConfig.ServerName)
	}

	if !tlsConfig.InsecureSkipVerify {
		t.Errorf("expected InsecureSkipVerify to be true")
	}

	if tlsConfig.MinVersion != tls.VersionTLS13 {
		t.Errorf("expected MinVersion %d, got %d", tls.VersionTLS13, tlsConfig.MinVersion)
	}
}

func TestConfig_parseTLSVersion(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		expected uint16
	}{
		{
			name:     "TLS 1.3",
			version:  "1.3",
			expected: tls.VersionTLS13,
		},
		{
			name:     "TLS 1.2",
			version:  "1.2",
			expected: tls.VersionTLS12,
		},
		{
			name:     "empty defaults to 1.2",
			version:  "",
			expected: tls.VersionTLS12,
		},
		{
			name:     "unknown defaults to 1.2",
			version:  "1.1",
			expected: tls.VersionTLS12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Config{MinVersion: tt.version}
			result := config.parseTLSVersion()
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestConfig_parseCipherSuites(t *testing.T) {
	tests := []struct {
		name     string
		suites   []string
		expected int
	}{
		{
			name:     "empty returns nil",
			suites:   []string{},
			expected: 0,
		},
		{
			name: "TLS 1.3 suites",
			suites: []string{
				"TLS_AES_128_GCM_SHA256",
				"TLS_AES_256_GCM_SHA384",
			},
			expected: 2,
		},
		{
			name: "TLS 1.2 suites",
			suites: []string{
				"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
				"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384",
			},
			expected: 2,
		},
		{
			name: "unknown suites ignored",
			suites: []string{
				"TLS_AES_128_GCM_SHA256",
				"UNKNOWN_SUITE",
			},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Config{CipherSuites: tt.suites}
			result := config.parseCipherSuites()

			if tt.expected == 0 && result != nil {
				t.Errorf("expected nil, got %v", result)
			}

			if tt.expected > 0 && len(result) != tt.expected {
				t.Errorf("expected %d cipher suites, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestConfig_ParseReloadInterval(t *testing.T) {
	tests := []struct {
		name     string
		interval string
		expected time.Duration
	}{
		{
			name:     "empty defaults to 5m",
			interval: "",
			expected: 5 * time.Minute,
		},
		{
			name:     "valid duration",
			interval: "10m",
			expected: 10 * time.Minute,
		},
		{
			name:     "seconds",
			interval: "30s",
			expected: 30 * time.Second,
		},
		{
			name:     "invalid defaults to 5m",
			interval: "invalid",
			expected: 5 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Config{ReloadInterval: tt.interval}
			result := config.ParseReloadInterval()
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestConfig_HasClientCertificate(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{
			name:     "disabled",
			config:   Config{Enabled: false, CertFile: "cert.pem", KeyFile: "key.pem"},
			expected: false,
		},
		{
			name:     "enabled without certificate",
			config:   Config{Enabled: true},
			expected: false,
		},
		{
			name:     "enabled cert only",
			config:   Config{Enabled: true, CertFile: "cert.pem"},
			expected: false,
		},
		{
			name:     "enabled with full pair",
			config:   Config{Enabled: true, CertFile: "cert.pem", KeyFile: "key.pem"},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.HasClientCertificate(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// contains checks if a string contains a substring
func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > len(substr) &&
		(s[:len(substr)] == substr || s[len(s)-len(substr):] == substr ||
			len(s) > len(substr) && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
