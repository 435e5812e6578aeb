package config

import (
	"time"

	"github.com/openpaper/papermeta/internal/providers"
)

// Config holds papermeta configuration.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// LLMConfig configures the model client.
type LLMConfig struct {
	APIKey            string  `mapstructure:"api_key" yaml:"api_key"`         // Supports ${ENV_VAR} syntax
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url"`       // OpenAI-compatible endpoint
	Model             string  `mapstructure:"model" yaml:"model"`             // Default chat model
	FastModel         string  `mapstructure:"fast_model" yaml:"fast_model"`   // Model for captioning
	Temperature       float64 `mapstructure:"temperature" yaml:"temperature"` //
	MaxTokens         int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries        uint    `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelaySeconds float64 `mapstructure:"retry_delay_seconds" yaml:"retry_delay_seconds"`
}

// ExtractConfig configures the extraction pipeline.
type ExtractConfig struct {
	// MaxContentChars is the hard truncation applied to document content
	// before prompting.
	MaxContentChars int `mapstructure:"max_content_chars" yaml:"max_content_chars"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			APIKey:            "${OPENAI_API_KEY}",
			Model:             "gpt-4o-mini",
			FastModel:         "gpt-4o-mini",
			Temperature:       0.1,
			MaxTokens:         4000,
			TimeoutSeconds:    120,
			MaxRetries:        3,
			RetryDelaySeconds: 1.0,
		},
		Extract: ExtractConfig{
			MaxContentChars: 8000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ToOpenAIConfig converts the LLM section to a client config, resolving
// ${ENV_VAR} references in the API key.
func (c *Config) ToOpenAIConfig() providers.OpenAIConfig {
	return providers.OpenAIConfig{
		APIKey:      ResolveEnvVars(c.LLM.APIKey),
		BaseURL:     c.LLM.BaseURL,
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
		Timeout:     time.Duration(c.LLM.TimeoutSeconds) * time.Second,
	}
}

// RetryDelay returns the between-attempt delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.LLM.RetryDelaySeconds * float64(time.Second))
}
