package credentials

import (
	"context"
	"fmt"
	"os"
)

// EnvSource reads a credential from an environment variable.
//
// The variable is read on every call, so a credential rotated by an
// external process manager is picked up on the next request.
type EnvSource struct {
	Var string // Environment variable name
}

// NewEnvSource creates a source backed by the named environment variable.
//
// For example, NewEnvSource("GALILEO_AUTH_TOKEN") reads the credential
// from the GALILEO_AUTH_TOKEN environment variable.
func NewEnvSource(envVar string) *EnvSource {
	return &EnvSource{Var: envVar}
}

// Credential returns the current value of the environment variable.
// Returns an error when the variable is unset or empty.
func (s *EnvSource) Credential(ctx context.Context) (string, error) {
	value := os.Getenv(s.Var)
	if value == "" {
		return "", fmt.Errorf("credential not found in environment: %s", s.Var)
	}

	return value, nil
}

// Name returns the source name.
func (s *EnvSource) Name() string {
	return "env"
}
