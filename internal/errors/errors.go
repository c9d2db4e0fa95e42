// Package errors provides structured error types for the opsaix agent.
//
// Conventions:
// - Sentinel errors for type checking with errors.Is()
// - Error wrapping with context using fmt.Errorf("%w", err)
// - Error codes for machine-readable categorization
//
// Error code ranges:
// - 1xxx: Configuration errors
// - 2xxx: Ingestion errors
// - 3xxx: Model invocation errors
// - 9xxx: General errors
//
// Response validation has no error codes on purpose: malformed model
// output is absorbed by the validator and returned as a degraded result,
// never as an error.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error identifier.
type ErrorCode string

// Configuration error codes (1xxx)
const (
	ErrCodeConfigInvalid    ErrorCode = "OPSAIX_1001"
	ErrCodeConfigMissing    ErrorCode = "OPSAIX_1002"
	ErrCodeConfigValidation ErrorCode = "OPSAIX_1003"
)

// Ingestion error codes (2xxx)
const (
	ErrCodeIngestFileNotFound     ErrorCode = "OPSAIX_2001"
	ErrCodeIngestPermissionDenied ErrorCode = "OPSAIX_2002"
	ErrCodeIngestReadFailed       ErrorCode = "OPSAIX_2003"
)

// Model invocation error codes (3xxx)
const (
	ErrCodeModelConnectionFailed ErrorCode = "OPSAIX_3001"
	ErrCodeModelTimeout          ErrorCode = "OPSAIX_3002"
	ErrCodeModelAuthFailed       ErrorCode = "OPSAIX_3003"
	ErrCodeModelRateLimited      ErrorCode = "OPSAIX_3004"
	ErrCodeModelEmptyResponse    ErrorCode = "OPSAIX_3005"
)

// General error codes (9xxx)
const (
	ErrCodeUnknown ErrorCode = "OPSAIX_9999"
)

// Sentinel errors for type checking with errors.Is()
var (
	// Configuration errors
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrConfigMissing    = errors.New("configuration not found")
	ErrConfigValidation = errors.New("configuration validation failed")

	// Ingestion errors
	ErrIngestFileNotFound     = errors.New("log file not found")
	ErrIngestPermissionDenied = errors.New("permission denied")
	ErrIngestReadFailed       = errors.New("log read failed")

	// Model invocation errors
	ErrModelConnectionFailed = errors.New("model connection failed")
	ErrModelTimeout          = errors.New("model invocation timeout")
	ErrModelAuthFailed       = errors.New("model authentication failed")
	ErrModelRateLimited      = errors.New("model rate limited")
	ErrModelEmptyResponse    = errors.New("model returned empty response")
)

// AgentError is the base error type with structured information.
type AgentError struct {
	Code        ErrorCode
	Message     string
	Context     map[string]interface{}
	IsRetryable bool
	Cause       error
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *AgentError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error's cause.
func (e *AgentError) Is(target error) bool {
	if e.Cause != nil {
		return errors.Is(e.Cause, target)
	}
	return false
}

// WithContext adds context information to the error.
func (e *AgentError) WithContext(key string, value interface{}) *AgentError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ToMap converts the error to a map for structured logging.
func (e *AgentError) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"error_code":   string(e.Code),
		"message":      e.Message,
		"is_retryable": e.IsRetryable,
	}
	if e.Context != nil {
		m["context"] = e.Context
	}
	if e.Cause != nil {
		m["cause"] = e.Cause.Error()
	}
	return m
}

// Configuration error constructors

// NewConfigInvalidError creates a configuration invalid error.
func NewConfigInvalidError(message string, cause error) *AgentError {
	return &AgentError{
		Code:        ErrCodeConfigInvalid,
		Message:     message,
		Cause:       cause,
		IsRetryable: false,
		Context:     make(map[string]interface{}),
	}
}

// NewConfigMissingError creates a configuration missing error.
func NewConfigMissingError(path string) *AgentError {
	return &AgentError{
		Code:        ErrCodeConfigMissing,
		Message:     fmt.Sprintf("configuration file not found: %s", path),
		Cause:       ErrConfigMissing,
		IsRetryable: false,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewConfigValidationError creates a configuration validation error.
func NewConfigValidationError(field string, value interface{}, reason string) *AgentError {
	return &AgentError{
		Code:        ErrCodeConfigValidation,
		Message:     fmt.Sprintf("validation failed for '%s': %s", field, reason),
		Cause:       ErrConfigValidation,
		IsRetryable: false,
		Context: map[string]interface{}{
			"field":  field,
			"value":  fmt.Sprintf("%v", value),
			"reason": reason,
		},
	}
}

// Ingestion error constructors

// NewIngestFileNotFoundError creates a file not found error.
func NewIngestFileNotFoundError(path string) *AgentError {
	return &AgentError{
		Code:        ErrCodeIngestFileNotFound,
		Message:     fmt.Sprintf("log file not found: %s", path),
		Cause:       ErrIngestFileNotFound,
		IsRetryable: false,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewIngestPermissionDeniedError creates a permission denied error.
func NewIngestPermissionDeniedError(path string) *AgentError {
	return &AgentError{
		Code:        ErrCodeIngestPermissionDenied,
		Message:     fmt.Sprintf("permission denied reading: %s", path),
		Cause:       ErrIngestPermissionDenied,
		IsRetryable: false,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewIngestReadError creates a read error.
func NewIngestReadError(source string, cause error) *AgentError {
	return &AgentError{
		Code:        ErrCodeIngestReadFailed,
		Message:     fmt.Sprintf("failed to read logs from %s", source),
		Cause:       cause,
		IsRetryable: true,
		Context: map[string]interface{}{
			"source": source,
		},
	}
}

// Model invocation error constructors

// NewModelConnectionError creates a model connection error.
func NewModelConnectionError(model string, cause error) *AgentError {
	return &AgentError{
		Code:        ErrCodeModelConnectionFailed,
		Message:     fmt.Sprintf("failed to reach model '%s'", model),
		Cause:       cause,
		IsRetryable: true,
		Context: map[string]interface{}{
			"model": model,
		},
	}
}

// NewModelTimeoutError creates a model timeout error.
func NewModelTimeoutError(model string, timeoutSeconds float64) *AgentError {
	return &AgentError{
		Code:        ErrCodeModelTimeout,
		Message:     fmt.Sprintf("model '%s' timed out after %.1fs", model, timeoutSeconds),
		Cause:       ErrModelTimeout,
		IsRetryable: true,
		Context: map[string]interface{}{
			"model":           model,
			"timeout_seconds": timeoutSeconds,
		},
	}
}

// NewModelAuthError creates a model authentication error.
func NewModelAuthError(model string, cause error) *AgentError {
	return &AgentError{
		Code:        ErrCodeModelAuthFailed,
		Message:     fmt.Sprintf("authentication failed for model '%s'", model),
		Cause:       cause,
		IsRetryable: false,
		Context: map[string]interface{}{
			"model": model,
		},
	}
}

// NewModelRateLimitError creates a rate limit error.
func NewModelRateLimitError(model string) *AgentError {
	return &AgentError{
		Code:        ErrCodeModelRateLimited,
		Message:     fmt.Sprintf("model '%s' rejected request: rate limited", model),
		Cause:       ErrModelRateLimited,
		IsRetryable: true,
		Context: map[string]interface{}{
			"model": model,
		},
	}
}

// NewModelEmptyResponseError creates an empty response error.
func NewModelEmptyResponseError(model string) *AgentError {
	return &AgentError{
		Code:        ErrCodeModelEmptyResponse,
		Message:     fmt.Sprintf("model '%s' returned no candidates", model),
		Cause:       ErrModelEmptyResponse,
		IsRetryable: true,
		Context: map[string]interface{}{
			"model": model,
		},
	}
}

// IsRetryableError checks if an error is retryable.
func IsRetryableError(err error) bool {
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		return agentErr.IsRetryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	var agentErr *AgentError
	if errors.As(err, &agentErr) {
		return agentErr.Code
	}
	return ErrCodeUnknown
}
