package tls

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"testing"
	"time"
)

func loadX509(t *testing.T, certFile string) *x509.Certificate {
	t.Helper()

	certPEM, err := os.ReadFile(certFile)
	if err != nil {
		t.Fatalf("failed to read test certificate: %v", err)
	}

	block, _ := pem.Decode(certPEM)
	if block == nil {
		t.Fatalf("failed to parse certificate PEM")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		t.Fatalf("failed to parse certificate: %v", err)
	}

	return cert
}

func TestValidateCertificate(t *testing.T) {
	certFile, keyFile := writeValidKeyPair(t, t.TempDir())

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		t.Fatalf("failed to load test certificate: %v", err)
	}

	tests := []struct {
		name        string
		cert        *tls.Certificate
		expectError bool
	}{
		{
			name:        "valid certificate",
			cert:        &cert,
			expectError: false,
		},
		{
			name:        "nil certificate",
			cert:        nil,
			expectError: true,
		},
		{
			name:        "empty chain",
			cert:        &tls.Certificate{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCertificate(tt.cert)
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateX509Certificate(t *testing.T) {
	now := time.Now()
	dir := t.TempDir()

	validFile, _ := writeTestKeyPair(t, dir, now.Add(-time.Hour), now.Add(365*24*time.Hour))
	valid := loadX509(t, validFile)

	expiredDir := t.TempDir()
	expiredFile, _ := writeTestKeyPair(t, expiredDir, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	expired := loadX509(t, expiredFile)

	futureDir := t.TempDir()
	futureFile, _ := writeTestKeyPair(t, futureDir, now.Add(24*time.Hour), now.Add(48*time.Hour))
	future := loadX509(t, futureFile)

	tests := []struct {
		name        string
		cert        *x509.Certificate
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid certificate",
			cert:        valid,
			expectError: false,
		},
		{
			name:        "expired certificate",
			cert:        expired,
			expectError: true,
			errorMsg:    "expired",
		},
		{
			name:        "not yet valid certificate",
			cert:        future,
			expectError: true,
			errorMsg:    "not yet valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateX509Certificate(tt.cert)
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
			}
		})
	}
}

func TestCheckCertificateExpiration(t *testing.T) {
	now := time.Now()

	certFile, _ := writeTestKeyPair(t, t.TempDir(), now.Add(-time.Hour), now.Add(365*24*time.Hour))
	cert := loadX509(t, certFile)

	daysUntilExpiry, warning := CheckCertificateExpiration(cert)

	if daysUntilExpiry < 0 {
		t.Errorf("certificate already expired")
	}

	// Test certificate is valid for 365 days, so it should have > 300 days left
	if daysUntilExpiry < 300 {
		t.Errorf("expected > 300 days until expiry, got %d", daysUntilExpiry)
	}

	// Should not have warning since certificate was just created
	if warning != "" {
		t.Errorf("unexpected warning: %s", warning)
	}
}

func TestCheckCertificateExpiration_ExpiringSoon(t *testing.T) {
	now := time.Now()

	certFile, _ := writeTestKeyPair(t, t.TempDir(), now.Add(-time.Hour), now.Add(10*24*time.Hour))
	cert := loadX509(t, certFile)

	daysUntilExpiry, warning := CheckCertificateExpiration(cert)

	if daysUntilExpiry > 10 {
		t.Errorf("expected <= 10 days until expiry, got %d", daysUntilExpiry)
	}

	if warning == "" {
		t.Error("expected expiration warning for certificate expiring in 10 days")
	}
}
