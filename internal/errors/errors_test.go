// Package errors_test provides tests for the opsaix error types.
package errors_test

import (
	"errors"
	"fmt"
	"testing"

	agenterrors "opsaix/internal/errors"
)

func TestErrorCodes(t *testing.T) {
	t.Run("error codes follow ranges", func(t *testing.T) {
		// Configuration: 1xxx
		if agenterrors.ErrCodeConfigInvalid[:9] != "OPSAIX_10" {
			t.Errorf("config errors should be 1xxx, got %s", agenterrors.ErrCodeConfigInvalid)
		}

		// Ingestion: 2xxx
		if agenterrors.ErrCodeIngestFileNotFound[:9] != "OPSAIX_20" {
			t.Errorf("ingest errors should be 2xxx, got %s", agenterrors.ErrCodeIngestFileNotFound)
		}

		// Model invocation: 3xxx
		if agenterrors.ErrCodeModelConnectionFailed[:9] != "OPSAIX_30" {
			t.Errorf("model errors should be 3xxx, got %s", agenterrors.ErrCodeModelConnectionFailed)
		}
	})
}

func TestAgentError(t *testing.T) {
	t.Run("Error method formats correctly", func(t *testing.T) {
		err := agenterrors.NewConfigInvalidError("test error", nil)
		expected := "[OPSAIX_1001] test error"
		if err.Error() != expected {
			t.Errorf("expected %q, got %q", expected, err.Error())
		}
	})

	t.Run("Error with cause includes cause", func(t *testing.T) {
		cause := errors.New("original error")
		err := agenterrors.NewConfigInvalidError("wrapped error", cause)
		if err.Error() != "[OPSAIX_1001] wrapped error: original error" {
			t.Errorf("unexpected error string: %s", err.Error())
		}
	})

	t.Run("WithContext adds context", func(t *testing.T) {
		err := agenterrors.NewConfigInvalidError("test", nil)
		err = err.WithContext("key", "value")
		if err.Context["key"] != "value" {
			t.Error("context not set correctly")
		}
	})

	t.Run("ToMap serializes correctly", func(t *testing.T) {
		err := agenterrors.NewModelRateLimitError("gemini-2.0-flash")
		m := err.ToMap()
		if m["error_code"] != "OPSAIX_3004" {
			t.Errorf("unexpected error_code: %v", m["error_code"])
		}
		if m["is_retryable"] != true {
			t.Error("is_retryable should be true")
		}
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := agenterrors.NewModelConnectionError("gemini-2.0-flash", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "config missing",
			err:      agenterrors.NewConfigMissingError("/etc/opsaix/opsaix.yaml"),
			sentinel: agenterrors.ErrConfigMissing,
		},
		{
			name:     "ingest file not found",
			err:      agenterrors.NewIngestFileNotFoundError("/var/log/app.log"),
			sentinel: agenterrors.ErrIngestFileNotFound,
		},
		{
			name:     "model timeout",
			err:      agenterrors.NewModelTimeoutError("gemini-2.0-flash", 30),
			sentinel: agenterrors.ErrModelTimeout,
		},
		{
			name:     "model empty response",
			err:      agenterrors.NewModelEmptyResponseError("gemini-2.0-flash"),
			sentinel: agenterrors.ErrModelEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false, want true", tt.err)
			}
		})
	}
}

func TestSentinelMatchingThroughWrapping(t *testing.T) {
	err := agenterrors.NewModelAuthError("gemini-2.0-flash", agenterrors.ErrModelAuthFailed)
	wrapped := fmt.Errorf("detection failed: %w", err)

	if !errors.Is(wrapped, agenterrors.ErrModelAuthFailed) {
		t.Error("sentinel should match through fmt.Errorf wrapping")
	}

	var agentErr *agenterrors.AgentError
	if !errors.As(wrapped, &agentErr) {
		t.Fatal("errors.As should extract AgentError")
	}
	if agentErr.Code != agenterrors.ErrCodeModelAuthFailed {
		t.Errorf("unexpected code: %s", agentErr.Code)
	}
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"plain error", errors.New("boom"), false},
		{"config validation", agenterrors.NewConfigValidationError("llm.model", "", "model is required"), false},
		{"model connection", agenterrors.NewModelConnectionError("m", errors.New("dial tcp")), true},
		{"model auth", agenterrors.NewModelAuthError("m", nil), false},
		{"rate limited", agenterrors.NewModelRateLimitError("m"), true},
		{"ingest read", agenterrors.NewIngestReadError("stdin", errors.New("eof")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agenterrors.IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := agenterrors.GetErrorCode(errors.New("plain")); code != agenterrors.ErrCodeUnknown {
		t.Errorf("plain error should map to unknown, got %s", code)
	}
	err := agenterrors.NewIngestPermissionDeniedError("/var/log/secure")
	if code := agenterrors.GetErrorCode(err); code != agenterrors.ErrCodeIngestPermissionDenied {
		t.Errorf("unexpected code: %s", code)
	}
}
