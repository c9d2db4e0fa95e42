package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	agenterrors "opsaix/internal/errors"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default config", func(*Config) {}, false},
		{"empty model", func(c *Config) { c.Model = "" }, true},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, true},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, true},
		{"missing api key is allowed", func(c *Config) { c.APIKey = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, agenterrors.ErrCodeConfigValidation, agenterrors.GetErrorCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, 0.1, cfg.Temperature)
	assert.Equal(t, 2048, cfg.MaxTokens)
}

func TestMessageConstructors(t *testing.T) {
	sys := System("be precise")
	usr := User("analyze this")

	assert.Equal(t, RoleSystem, sys.Role)
	assert.Equal(t, "be precise", sys.Content)
	assert.Equal(t, RoleUser, usr.Role)
	assert.Equal(t, "analyze this", usr.Content)
}
