/*
Package tls provides client-side TLS configuration for Galileo.

# Server Verification

Verify a Prometheus server against a private CA:

	cfg := &tls.Config{
		Enabled:    true,
		CAFile:     "/etc/galileo/certs/ca.pem",
		MinVersion: "1.2",
	}

	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		log.Fatal(err)
	}

# Client Certificates (mTLS)

Present a client certificate to servers that require one:

	cfg := &tls.Config{
		Enabled:  true,
		CAFile:   "/etc/galileo/certs/ca.pem",
		CertFile: "/etc/galileo/certs/client.crt",
		KeyFile:  "/etc/galileo/certs/client.key",
	}

# Certificate Auto-Reload

Automatically pick up rotated client certificates without rebuilding
the client:

	reloader := NewCertificateReloader(certFile, keyFile, 5*time.Minute)
	if err := reloader.Start(ctx); err != nil {
		log.Fatal(err)
	}

	tlsConfig.GetClientCertificate = reloader.GetClientCertificateFunc()
*/
package tls
