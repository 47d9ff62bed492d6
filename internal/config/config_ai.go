package config

import "time"

// AIConfig holds AI service configuration. The top-level fields are fallbacks
// for the per-operation blocks.
type AIConfig struct {
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	Coach OperationAIConfig `mapstructure:"coach"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // allowed while half-open
	Interval         time.Duration `mapstructure:"interval"`         // closed-state count reset
	Timeout          time.Duration `mapstructure:"timeout"`          // open to half-open
	MinRequests      uint32        `mapstructure:"minRequests"`      // before tripping is considered
	FailureThreshold float64       `mapstructure:"failureThreshold"` // 0.0-1.0
}

// OperationAIConfig holds AI configuration for a single operation
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig holds inline prompts or the files to read them from. Files win
// over inline text once loaded.
type PromptConfig struct {
	SystemPrompt     string `mapstructure:"systemPrompt"`
	SystemPromptFile string `mapstructure:"systemPromptFile"`
	UserPrompt       string `mapstructure:"userPrompt"`
	UserPromptFile   string `mapstructure:"userPromptFile"`
}

func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil || *opCfg.Timeout <= 0 {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temp := c.AI.Temperature
		opCfg.Temperature = &temp
	}
	if opCfg.UseSystemPrompts == nil {
		use := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &use
	}
	if opCfg.CustomPrompts.SystemPrompt == "" {
		opCfg.CustomPrompts.SystemPrompt = c.AI.CustomPrompts.SystemPrompt
	}
	if opCfg.CustomPrompts.UserPrompt == "" {
		opCfg.CustomPrompts.UserPrompt = c.AI.CustomPrompts.UserPrompt
	}
}

// GetCoachConfig returns the coach AI configuration with global fallbacks applied
func (c *Config) GetCoachConfig() OperationAIConfig {
	cfg := c.AI.Coach
	c.applyOperationDefaults(&cfg)
	return cfg
}

// CoachAvailable reports whether an API key is configured for the coach
func (c *Config) CoachAvailable() bool {
	return c.GetCoachConfig().APIKey != ""
}
