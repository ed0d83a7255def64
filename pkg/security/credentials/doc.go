/*
Package credentials provides pluggable sources for client authentication credentials.

# Overview

The credentials package lets Galileo load bearer tokens and basic-auth passwords
from various backends: static configuration values, environment variables, and
files. File-backed sources can watch for changes so rotated credentials are
picked up without restarting the client.

# Credential Sources

Each source implements the Source interface:

  - StaticSource: fixed in-memory value from configuration or flags
  - EnvSource: read from an environment variable on every call
  - FileSource: read from a file (Kubernetes-style secret mount)

# Basic Usage

Create a source and pass it to the client configuration:

	import (
		"context"
		"mercator-hq/galileo/pkg/security/credentials"
	)

	source := credentials.NewEnvSource("GALILEO_AUTH_TOKEN")

	token, err := source.Credential(context.Background())
	if err != nil {
		log.Fatal(err)
	}

# File-Based Source

The file-based source reads the credential from a single file:

	source, err := credentials.NewFileSource("/var/run/secrets/prometheus-token", true)
	if err != nil {
		log.Fatal(err)
	}
	defer source.Close()

	token, err := source.Credential(ctx)

File-based features:
  - File permissions validation (0600 or 0400 only)
  - Optional file watching for auto-reload
  - Kubernetes-style secret mounting support
  - Whitespace trimming (trailing newlines are common in mounted secrets)

# Security Considerations

Credential values are protected:
  - Never logged
  - Never included in error messages
  - File permissions validated (0600 or 0400 only)
  - Cache invalidated when the file changes

# Thread Safety

All sources are safe for concurrent use. FileSource guards its cache with
a sync.RWMutex; StaticSource and EnvSource are stateless.
*/
package credentials
