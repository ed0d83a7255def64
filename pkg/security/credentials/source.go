// Package credentials provides pluggable sources for client authentication
// credentials such as bearer tokens and basic-auth passwords.
package credentials

import "context"

// Source yields a single credential value.
//
// Implementations include static in-memory values, environment variables,
// and files. File-backed sources can watch for changes so rotated
// credentials are picked up without restart.
type Source interface {
	// Credential returns the current credential value.
	// Returns an error if the credential is not available.
	Credential(ctx context.Context) (string, error)

	// Name returns the source name (static, env, file).
	Name() string
}

// StaticSource holds a fixed credential value in memory.
//
// Useful for credentials supplied directly through configuration or flags.
type StaticSource struct {
	value string
}

// NewStaticSource creates a source that always returns the given value.
func NewStaticSource(value string) *StaticSource {
	return &StaticSource{value: value}
}

// Credential returns the stored value.
func (s *StaticSource) Credential(ctx context.Context) (string, error) {
	return s.value, nil
}

// Name returns the source name.
func (s *StaticSource) Name() string {
	return "static"
}
