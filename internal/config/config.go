// Package config loads agent configuration from opsaix.yaml and
// OPSAIX_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	agenterrors "opsaix/internal/errors"
	"opsaix/internal/llm"
	"opsaix/internal/logging"
)

// AppConfig identifies the running application.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// LLMConfig configures the model used by the agents.
type LLMConfig struct {
	Provider       string  `mapstructure:"provider"`
	Model          string  `mapstructure:"model"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	Dir           string `mapstructure:"dir"`
	EnableConsole bool   `mapstructure:"enable_console"`
	EnableFile    bool   `mapstructure:"enable_file"`
}

// JiraConfig configures the ITSM ticket reference target.
type JiraConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Project  string `mapstructure:"project"`
	Username string `mapstructure:"username"`
	APIToken string `mapstructure:"api_token"`
}

// SlackConfig configures the chat notification target.
type SlackConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Channel  string `mapstructure:"channel"`
	BotToken string `mapstructure:"bot_token"`
}

// Config is the full agent configuration. It is passed explicitly to
// constructors rather than read through globals.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Logging LoggingConfig `mapstructure:"logging"`
	Jira    JiraConfig    `mapstructure:"jira"`
	Slack   SlackConfig   `mapstructure:"slack"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "opsaix",
			Environment: "development",
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			Model:          "gemini-2.0-flash",
			Temperature:    0.1,
			MaxTokens:      2048,
			TimeoutSeconds: 60,
		},
		Logging: LoggingConfig{
			Level:         "info",
			Dir:           "logs",
			EnableConsole: true,
			EnableFile:    true,
		},
		Jira: JiraConfig{
			Project: "OPS",
		},
		Slack: SlackConfig{
			Channel: "#incidents",
		},
	}
}

// Load reads configuration from the given file path, falling back to
// opsaix.yaml in the working directory, with OPSAIX_* environment
// variables overriding file values. An absent file is not an error; a
// malformed one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("OPSAIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, agenterrors.NewConfigMissingError(path)
		}
	} else {
		v.SetConfigName("opsaix")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, agenterrors.NewConfigInvalidError("failed to read config file", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, agenterrors.NewConfigInvalidError("failed to unmarshal config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.environment", d.App.Environment)
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout_seconds", d.LLM.TimeoutSeconds)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.dir", d.Logging.Dir)
	v.SetDefault("logging.enable_console", d.Logging.EnableConsole)
	v.SetDefault("logging.enable_file", d.Logging.EnableFile)
	v.SetDefault("jira.enabled", false)
	v.SetDefault("jira.url", "")
	v.SetDefault("jira.project", d.Jira.Project)
	v.SetDefault("jira.username", "")
	v.SetDefault("jira.api_token", "")
	v.SetDefault("slack.enabled", false)
	v.SetDefault("slack.channel", d.Slack.Channel)
	v.SetDefault("slack.bot_token", "")
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return agenterrors.NewConfigValidationError("app.name", c.App.Name, "must not be empty")
	}
	if c.LLM.Provider != "gemini" {
		return agenterrors.NewConfigValidationError("llm.provider", c.LLM.Provider, "only gemini is supported")
	}
	if c.LLM.Model == "" {
		return agenterrors.NewConfigValidationError("llm.model", c.LLM.Model, "must not be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return agenterrors.NewConfigValidationError("llm.temperature", c.LLM.Temperature, "must be in [0, 2]")
	}
	if c.LLM.MaxTokens <= 0 {
		return agenterrors.NewConfigValidationError("llm.max_tokens", c.LLM.MaxTokens, "must be positive")
	}
	if c.LLM.TimeoutSeconds < 0 {
		return agenterrors.NewConfigValidationError("llm.timeout_seconds", c.LLM.TimeoutSeconds, "must not be negative")
	}
	if c.Jira.Enabled && c.Jira.URL == "" {
		return agenterrors.NewConfigValidationError("jira.url", c.Jira.URL, "required when jira is enabled")
	}
	if c.Slack.Enabled && c.Slack.BotToken == "" {
		return agenterrors.NewConfigValidationError("slack.bot_token", "", "required when slack is enabled")
	}
	return nil
}

// LLMClientConfig converts the LLM section into a client configuration.
func (c *Config) LLMClientConfig() *llm.Config {
	return &llm.Config{
		Model:          c.LLM.Model,
		Temperature:    c.LLM.Temperature,
		MaxTokens:      c.LLM.MaxTokens,
		APIKey:         c.LLM.APIKey,
		RequestTimeout: time.Duration(c.LLM.TimeoutSeconds) * time.Second,
	}
}

// LoggingSetupConfig converts the logging section into the logging
// package configuration.
func (c *Config) LoggingSetupConfig() *logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.LogDir = c.Logging.Dir
	lc.EnableConsole = c.Logging.EnableConsole
	lc.EnableFile = c.Logging.EnableFile
	return lc
}
