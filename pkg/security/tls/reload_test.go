package tls

import (
	"bytes"
	"context"
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewCertificateReloader tests the constructor.
func TestNewCertificateReloader(t *testing.T) {
	certFile, keyFile := writeValidKeyPair(t, t.TempDir())
	interval := 5 * time.Minute

	reloader := NewCertificateReloader(certFile, keyFile, interval)

	if reloader == nil {
		t.Fatal("NewCertificateReloader returned nil")
	}

	if reloader.certFile != certFile {
		t.Errorf("certFile = %q, want %q", reloader.certFile, certFile)
	}

	if reloader.keyFile != keyFile {
		t.Errorf("keyFile = %q, want %q", reloader.keyFile, keyFile)
	}

	if reloader.interval != interval {
		t.Errorf("interval = %v, want %v", reloader.interval, interval)
	}
}

// TestCertificateReloader_Start tests starting the reloader and initial load.
func TestCertificateReloader_Start(t *testing.T) {
	certFile, keyFile := writeValidKeyPair(t, t.TempDir())

	reloader := NewCertificateReloader(certFile, keyFile, 1*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := reloader.Start(ctx)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Verify certificate was loaded
	cert := reloader.GetCertificate()
	if cert == nil {
		t.Fatal("GetCertificate() returned nil after Start()")
	}

	if len(cert.Certificate) == 0 {
		t.Fatal("certificate chain is empty")
	}
}

// TestCertificateReloader_Start_InvalidCert tests starting with nonexistent files.
func TestCertificateReloader_Start_InvalidCert(t *testing.T) {
	reloader := NewCertificateReloader("nonexistent.crt", "nonexistent.key", 1*time.Second)

	err := reloader.Start(context.Background())
	if err == nil {
		t.Fatal("Start() should fail with nonexistent files")
	}
}

// TestCertificateReloader_ReloadOnFileChange tests automatic reload when files change.
func TestCertificateReloader_ReloadOnFileChange(t *testing.T) {
	tmpDir := t.TempDir()
	certFile, keyFile := writeValidKeyPair(t, tmpDir)

	// Create reloader with short interval for testing
	reloader := NewCertificateReloader(certFile, keyFile, 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := reloader.Start(ctx)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	cert1 := reloader.GetCertificate()
	if cert1 == nil {
		t.Fatal("initial certificate is nil")
	}
	initialLeaf := cert1.Certificate[0]

	// Wait a bit to ensure initial load completes
	time.Sleep(200 * time.Millisecond)

	// Replace the keypair on disk with a fresh one and bump mtimes
	writeValidKeyPair(t, tmpDir)
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(certFile, future, future); err != nil {
		t.Fatalf("failed to update cert file mtime: %v", err)
	}
	if err := os.Chtimes(keyFile, future, future); err != nil {
		t.Fatalf("failed to update key file mtime: %v", err)
	}

	// Wait for reload to pick up the new certificate
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		cert2 := reloader.GetCertificate()
		if cert2 != nil && !bytes.Equal(cert2.Certificate[0], initialLeaf) {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("certificate was not reloaded after file change")
}

// TestCertificateReloader_GetClientCertificateFunc tests the tls.Config compatible function.
func TestCertificateReloader_GetClientCertificateFunc(t *testing.T) {
	certFile, keyFile := writeValidKeyPair(t, t.TempDir())

	reloader := NewCertificateReloader(certFile, keyFile, 1*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := reloader.Start(ctx)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	getCertFunc := reloader.GetClientCertificateFunc()
	if getCertFunc == nil {
		t.Fatal("GetClientCertificateFunc() returned nil")
	}

	cert, err := getCertFunc(nil)
	if err != nil {
		t.Fatalf("GetClientCertificateFunc()() failed: %v", err)
	}

	if cert == nil {
		t.Fatal("GetClientCertificateFunc()() returned nil certificate")
	}

	// Verify it's compatible with tls.Config
	tlsConfig := &tls.Config{
		GetClientCertificate: getCertFunc,
	}

	if tlsConfig.GetClientCertificate == nil {
		t.Fatal("failed to assign to tls.Config.GetClientCertificate")
	}
}

// TestCertificateReloader_needsReload tests file change detection.
func TestCertificateReloader_needsReload(t *testing.T) {
	tmpDir := t.TempDir()
	certFile, keyFile := writeValidKeyPair(t, tmpDir)

	reloader := NewCertificateReloader(certFile, keyFile, 1*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := reloader.Start(ctx)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// Initially should not need reload
	if reloader.needsReload() {
		t.Error("needsReload() returned true immediately after load")
	}

	// Update file modification time
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(certFile, future, future); err != nil {
		t.Fatalf("failed to update cert file: %v", err)
	}

	if !reloader.needsReload() {
		t.Error("needsReload() returned false after file was modified")
	}
}

// TestCertificateReloader_reload tests manual reload operation.
func TestCertificateReloader_reload(t *testing.T) {
	certFile, keyFile := writeValidKeyPair(t, t.TempDir())

	reloader := NewCertificateReloader(certFile, keyFile, 1*time.Minute)

	// reload before Start() should work
	err := reloader.reload()
	if err != nil {
		t.Fatalf("reload() failed: %v", err)
	}

	cert := reloader.GetCertificate()
	if cert == nil {
		t.Fatal("certificate is nil after reload()")
	}
}

// TestCertificateReloader_ContextCancellation tests that the reload loop stops on context cancellation.
func TestCertificateReloader_ContextCancellation(t *testing.T) {
	certFile, keyFile := writeValidKeyPair(t, t.TempDir())

	reloader := NewCertificateReloader(certFile, keyFile, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	err := reloader.Start(ctx)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	cancel()

	// Wait for goroutine to exit; the test should not hang
	time.Sleep(300 * time.Millisecond)
}

// TestCertificateReloader_ConcurrentAccess tests concurrent access to GetCertificate.
func TestCertificateReloader_ConcurrentAccess(t *testing.T) {
	certFile, keyFile := writeValidKeyPair(t, t.TempDir())

	reloader := NewCertificateReloader(certFile, keyFile, 1*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := reloader.Start(ctx)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cert := reloader.GetCertificate()
				if cert == nil {
					t.Error("GetCertificate() returned nil during concurrent access")
				}
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

// TestCertificateReloader_GetCertificateBeforeStart tests getting certificate before starting.
func TestCertificateReloader_GetCertificateBeforeStart(t *testing.T) {
	certFile, keyFile := writeValidKeyPair(t, t.TempDir())

	reloader := NewCertificateReloader(certFile, keyFile, 1*time.Minute)

	cert := reloader.GetCertificate()
	if cert != nil {
		t.Error("GetCertificate() should return nil before Start() is called")
	}
}

// TestCertificateReloader_InvalidCertContent tests reload with invalid certificate content.
func TestCertificateReloader_InvalidCertContent(t *testing.T) {
	tmpDir := t.TempDir()
	certFile := filepath.Join(tmpDir, "invalid.crt")
	keyFile := filepath.Join(tmpDir, "invalid.key")

	if err := os.WriteFile(certFile, []byte("invalid certificate data"), 0600); err != nil {
		t.Fatalf("failed to create invalid cert file: %v", err)
	}

	if err := os.WriteFile(keyFile, []byte("invalid key data"), 0600); err != nil {
		t.Fatalf("failed to create invalid key file: %v", err)
	}

	reloader := NewCertificateReloader(certFile, keyFile, 1*time.Minute)

	err := reloader.Start(context.Background())
	if err == nil {
		t.Fatal("Start() should fail with invalid certificate content")
	}
}

// TestCertificateReloader_KeyMismatch tests reload with mismatched cert and key.
func TestCertificateReloader_KeyMismatch(t *testing.T) {
	certFile, _ := writeValidKeyPair(t, t.TempDir())
	_, otherKeyFile := writeValidKeyPair(t, t.TempDir())

	reloader := NewCertificateReloader(certFile, otherKeyFile, 1*time.Minute)

	err := reloader.Start(context.Background())
	if err == nil {
		t.Fatal("Start() should fail with mismatched certificate and key")
	}
}
