// Package config provides configuration management for Galileo.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults,
// and translates the file configuration into a client configuration via
// BuildClientConfig.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("galileo.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("galileo.yaml")
//
// When no configuration file exists, Default returns a fully defaulted
// configuration pointing at http://localhost:9090.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention GALILEO_SECTION_FIELD.
// For example:
//
//   - GALILEO_SERVER_URL overrides server.url
//   - GALILEO_AUTH_BEARER_TOKEN overrides auth.bearer_token
//   - GALILEO_LOGGING_LEVEL overrides logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Credential Resolution
//
// Each credential resolves from exactly one source. When several sources
// are configured for the same credential, the inline value wins over the
// environment variable, which wins over the file:
//
//	auth:
//	  mode: "bearer"
//	  bearer_token_env: "PROM_TOKEN"
//	  bearer_token_file: "/etc/galileo/token"   # ignored, env wins
//
// # Singleton Pattern
//
// For application-wide configuration access, use the singleton pattern:
//
//	// At application startup
//	if err := config.Initialize("galileo.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Anywhere in the application
//	cfg := config.GetConfig()
//	fmt.Println(cfg.Server.URL)
//
// For testing, prefer dependency injection with explicit Config instances
// rather than the global singleton.
//
// # Validation
//
// All configuration is validated automatically during loading. Validation includes:
//
//   - Required field checks (e.g., server URL, basic auth username)
//   - Range validation (e.g., sample ratio must be 0.0-1.0)
//   - Format validation (e.g., valid URL, valid cron schedule)
//   - Logical validation (e.g., max delay cannot sit below base delay)
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - server.url: invalid URL scheme "ftp": must be 'http' or 'https'
//	  - auth.username: username is required when auth mode is 'basic'
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  url: "https://prometheus.example.com"
//	  timeout: 30s
//
//	auth:
//	  mode: "bearer"
//	  bearer_token_env: "PROM_TOKEN"
//
//	retry:
//	  enabled: true
//	  max_retries: 3
//
//	logging:
//	  level: "info"
//	  format: "text"
//
//	archive:
//	  enabled: true
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/archive.db"
//
// # Thread Safety
//
// All configuration access is thread-safe. The singleton pattern uses read-write
// locks to allow concurrent reads while protecting against concurrent writes during
// reload operations.
package config
