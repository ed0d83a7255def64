/*
Package security provides transport security (TLS/mTLS) and credential
handling for connections to Prometheus servers.

# TLS Configuration

Configure certificate verification and client certificates for https
endpoints:

	cfg := &tls.Config{
		Enabled:    true,
		CAFile:     "/etc/galileo/certs/ca.pem",
		CertFile:   "/etc/galileo/certs/client.crt",
		KeyFile:    "/etc/galileo/certs/client.key",
		MinVersion: "1.3",
	}

	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		log.Fatal(err)
	}

Client certificates are reloaded from disk on a configurable interval,
so rotating a certificate does not require restarting the client.

# Credentials

Bearer tokens and basic auth passwords are resolved through credential
sources, keeping secret material out of configuration structs:

	source, err := credentials.NewFileSource("/var/run/secrets/token", true)
	if err != nil {
		log.Fatal(err)
	}

	client, err := promapi.New(promapi.Config{
		BaseURL:     "https://prometheus.internal:9090",
		BearerToken: source,
	})

File sources validate permissions (0600 or 0400) and can watch for
rotation; environment sources re-read the variable on every request.
*/
package security
