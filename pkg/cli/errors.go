package cli

import (
	"errors"
	"fmt"

	"mercator-hq/galileo/pkg/config"
	"mercator-hq/galileo/pkg/promapi"
)

// Exit codes returned by the galileo command. Scripts can distinguish
// failure classes without parsing error text.
const (
	// ExitOK means the command succeeded.
	ExitOK = 0
	// ExitError is a generic failure.
	ExitError = 1
	// ExitConfig means the configuration was invalid.
	ExitConfig = 2
	// ExitValidation means a query expression or parameter was invalid.
	ExitValidation = 3
	// ExitAuth means the server rejected the credentials.
	ExitAuth = 4
	// ExitRateLimit means the server throttled the request.
	ExitRateLimit = 5
	// ExitTransport means the server could not be reached.
	ExitTransport = 6
	// ExitAPI means the server returned an API error.
	ExitAPI = 7
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error to the galileo exit code for its failure class.
// Wrapped errors are unwrapped, so CommandError and fmt.Errorf chains
// resolve to the underlying class.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cliConfigErr *ConfigError
	var clientConfigErr *promapi.ConfigError
	var validationCfgErr config.ValidationError
	if errors.As(err, &cliConfigErr) || errors.As(err, &clientConfigErr) || errors.As(err, &validationCfgErr) {
		return ExitConfig
	}

	var validationErr *promapi.ValidationError
	if errors.As(err, &validationErr) {
		return ExitValidation
	}

	var authErr *promapi.AuthError
	if errors.As(err, &authErr) {
		return ExitAuth
	}

	var rateLimitErr *promapi.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return ExitRateLimit
	}

	var transportErr *promapi.TransportError
	var timeoutErr *promapi.TimeoutError
	if errors.As(err, &transportErr) || errors.As(err, &timeoutErr) {
		return ExitTransport
	}

	var apiErr *promapi.APIError
	var parseErr *promapi.ParseError
	if errors.As(err, &apiErr) || errors.As(err, &parseErr) {
		return ExitAPI
	}

	return ExitError
}
