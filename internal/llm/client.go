// Package llm provides the model invocation collaborator: a role-tagged
// message interface and a Gemini-backed implementation.
package llm

import (
	"context"
	"time"

	agenterrors "opsaix/internal/errors"
)

// Role tags a message with its conversational role.
type Role string

// Message roles.
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single role-tagged prompt message.
type Message struct {
	Role    Role
	Content string
}

// System builds a system message.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }

// User builds a user message.
func User(content string) Message { return Message{Role: RoleUser, Content: content} }

// Client invokes a language model with an ordered sequence of messages
// and returns the raw response text. Implementations must be safe for
// concurrent use; agents share one client across calls.
type Client interface {
	// Invoke sends the messages and returns the model's text response.
	Invoke(ctx context.Context, messages []Message) (string, error)

	// Name identifies the backing model for logging.
	Name() string

	// Close releases client resources.
	Close() error
}

// Config holds model invocation configuration. It is read once at agent
// construction and never re-read mid-call.
type Config struct {
	// Model is the model identifier (e.g. "gemini-2.0-flash").
	Model string

	// Temperature controls sampling randomness.
	Temperature float64

	// MaxTokens caps the response length.
	MaxTokens int

	// APIKey authenticates against the model API.
	APIKey string

	// RequestTimeout bounds a single invocation. Zero means the caller's
	// context deadline (if any) is the only bound.
	RequestTimeout time.Duration
}

// DefaultConfig returns the default model configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:          "gemini-2.0-flash",
		Temperature:    0.1,
		MaxTokens:      2048,
		RequestTimeout: 60 * time.Second,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Model == "" {
		return agenterrors.NewConfigValidationError("Model", c.Model, "model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return agenterrors.NewConfigValidationError("Temperature", c.Temperature, "must be in [0, 2]")
	}
	if c.MaxTokens <= 0 {
		return agenterrors.NewConfigValidationError("MaxTokens", c.MaxTokens, "must be positive")
	}
	return nil
}
