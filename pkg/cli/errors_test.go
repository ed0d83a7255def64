package cli

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"mercator-hq/galileo/pkg/config"
	"mercator-hq/galileo/pkg/promapi"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "server.url",
		Message: "missing required field",
	}

	expected := "config error in server.url: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("field", "message")
	if err.Field != "field" {
		t.Errorf("Field = %q, want %q", err.Field, "field")
	}
	if err.Message != "message" {
		t.Errorf("Message = %q, want %q", err.Message, "message")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "query",
		Err:     underlyingErr,
	}

	expected := "command query failed: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := &CommandError{
		Command: "query",
		Err:     underlyingErr,
	}

	unwrapped := err.Unwrap()
	if unwrapped != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, underlyingErr)
	}

	// Test with errors.Is
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestNewCommandError(t *testing.T) {
	underlyingErr := errors.New("test")
	err := NewCommandError("command", underlyingErr)

	if err.Command != "command" {
		t.Errorf("Command = %q, want %q", err.Command, "command")
	}
	if err.Err != underlyingErr {
		t.Errorf("Err = %v, want %v", err.Err, underlyingErr)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: ExitOK,
		},
		{
			name: "generic error",
			err:  errors.New("something went wrong"),
			want: ExitError,
		},
		{
			name: "cli config error",
			err:  NewConfigError("server.url", "missing required field"),
			want: ExitConfig,
		},
		{
			name: "client config error",
			err:  &promapi.ConfigError{Field: "base_url", Message: "must not be empty"},
			want: ExitConfig,
		},
		{
			name: "config validation error",
			err: config.ValidationError{Errors: []config.FieldError{
				{Field: "logging.level", Message: "invalid level"},
			}},
			want: ExitConfig,
		},
		{
			name: "query validation error",
			err:  &promapi.ValidationError{Field: "query", Message: "parse error at position 3"},
			want: ExitValidation,
		},
		{
			name: "auth error",
			err:  &promapi.AuthError{StatusCode: 401, Message: "unauthorized"},
			want: ExitAuth,
		},
		{
			name: "rate limit error",
			err:  &promapi.RateLimitError{RetryAfter: time.Second, Message: "too many requests"},
			want: ExitRateLimit,
		},
		{
			name: "transport error",
			err:  &promapi.TransportError{URL: "http://localhost:9090", Cause: errors.New("connection refused")},
			want: ExitTransport,
		},
		{
			name: "timeout error",
			err:  &promapi.TimeoutError{Timeout: 30 * time.Second},
			want: ExitTransport,
		},
		{
			name: "api error",
			err:  &promapi.APIError{ErrorType: "bad_data", Message: "invalid parameter", StatusCode: 400},
			want: ExitAPI,
		},
		{
			name: "parse error",
			err:  &promapi.ParseError{RawResponse: "<html>", Cause: errors.New("invalid character '<'")},
			want: ExitAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCodeWrapped(t *testing.T) {
	authErr := &promapi.AuthError{StatusCode: 403, Message: "forbidden"}
	wrapped := fmt.Errorf("query failed: %w", authErr)

	if got := ExitCode(wrapped); got != ExitAuth {
		t.Errorf("ExitCode(wrapped) = %d, want %d", got, ExitAuth)
	}
}

func TestExitCodeCommandError(t *testing.T) {
	transportErr := &promapi.TransportError{
		URL:   "http://localhost:9090/api/v1/query",
		Cause: errors.New("dial tcp: connection refused"),
	}
	err := NewCommandError("query", transportErr)

	if got := ExitCode(err); got != ExitTransport {
		t.Errorf("ExitCode(CommandError) = %d, want %d", got, ExitTransport)
	}
}
