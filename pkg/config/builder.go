package config

import (
	"fmt"

	"mercator-hq/galileo/pkg/promapi"
	"mercator-hq/galileo/pkg/ratelimit"
	"mercator-hq/galileo/pkg/security/credentials"
)

// BuildClientConfig translates the file configuration into a client
// configuration ready to pass to promapi.New. Optional sections
// that are disabled in the file are left nil so the client applies its
// own defaults.
//
// Credentials resolve from exactly one source following the precedence
// inline value, then environment variable, then file.
func (c *Config) BuildClientConfig() (promapi.Config, error) {
	cfg := promapi.Config{
		BaseURL:         c.Server.URL,
		Timeout:         c.Server.Timeout,
		UserAgent:       c.Server.UserAgent,
		PreferPOST:      c.Server.PreferPOST,
		ValidateQueries: c.Server.ValidateExpressions,
	}

	switch c.Auth.Mode {
	case "", "none":
		// No authentication.
	case "bearer":
		source, err := bearerTokenSource(&c.Auth)
		if err != nil {
			return promapi.Config{}, err
		}
		cfg.BearerToken = source
	case "basic":
		source, err := passwordSource(&c.Auth)
		if err != nil {
			return promapi.Config{}, err
		}
		cfg.BasicAuth = &promapi.BasicAuth{
			Username: c.Auth.Username,
			Password: source,
		}
	default:
		return promapi.Config{}, fmt.Errorf("unsupported auth mode %q", c.Auth.Mode)
	}

	if c.TLS.Enabled {
		tlsCfg := c.TLS
		cfg.TLS = &tlsCfg
	}

	if c.Retry.Enabled {
		cfg.Retry = &promapi.RetryConfig{
			MaxRetries: c.Retry.MaxRetries,
			BaseDelay:  c.Retry.BaseDelay,
			MaxDelay:   c.Retry.MaxDelay,
		}
	}

	if c.Limits.MaxConcurrent > 0 || c.Limits.QueriesPerSecond > 0 {
		cfg.Limits = &ratelimit.Config{
			QueriesPerSecond: c.Limits.QueriesPerSecond,
			Burst:            c.Limits.Burst,
			MaxConcurrent:    c.Limits.MaxConcurrent,
		}
	}

	return cfg, nil
}

// bearerTokenSource resolves the bearer token credential source from the
// auth configuration.
func bearerTokenSource(auth *AuthConfig) (credentials.Source, error) {
	switch {
	case auth.BearerToken != "":
		return credentials.NewStaticSource(auth.BearerToken), nil
	case auth.BearerTokenEnv != "":
		return credentials.NewEnvSource(auth.BearerTokenEnv), nil
	case auth.BearerTokenFile != "":
		return credentials.NewFileSource(auth.BearerTokenFile, auth.WatchCredentialFiles)
	}
	return nil, fmt.Errorf("bearer auth mode requires one of bearer_token, bearer_token_env, or bearer_token_file")
}

// passwordSource resolves the basic auth password credential source from
// the auth configuration.
func passwordSource(auth *AuthConfig) (credentials.Source, error) {
	switch {
	case auth.Password != "":
		return credentials.NewStaticSource(auth.Password), nil
	case auth.PasswordEnv != "":
		return credentials.NewEnvSource(auth.PasswordEnv), nil
	case auth.PasswordFile != "":
		return credentials.NewFileSource(auth.PasswordFile, auth.WatchCredentialFiles)
	}
	return nil, fmt.Errorf("basic auth mode requires one of password, password_env, or password_file")
}
