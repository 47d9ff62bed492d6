package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoadConfigFileDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg, err := LoadConfigFile(writeConfig(t, "app:\n  logLevel: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, []string{"json", "yaml", "text", "markdown"}, cfg.App.SupportedFormats)
	assert.Equal(t, "technology", cfg.Scoring.DefaultIndustry)
	assert.Equal(t, 8, cfg.Scoring.SuggestionLimit)
	assert.Equal(t, 4, cfg.Scoring.BatchConcurrency)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.Empty(t, cfg.Server.APIKeys)
	assert.False(t, cfg.CoachAvailable())
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadConfigFileOverrides(t *testing.T) {
	t.Setenv("HIREALL_SERVER_PORT", "9191")
	t.Setenv("HIREALL_SERVER_APIKEYS", "k1, k2")

	path := writeConfig(t, `
scoring:
  defaultIndustry: " Finance "
  defaultTargetRole: Financial Analyst
  suggestionLimit: 5
ai:
  apiKey: global-key
  coach:
    model: gemini-2.5-pro
    temperature: 0.1
`)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "finance", cfg.Scoring.DefaultIndustry)
	assert.Equal(t, "Financial Analyst", cfg.Scoring.DefaultTargetRole)
	assert.Equal(t, 5, cfg.Scoring.SuggestionLimit)
	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Server.APIKeys)

	coach := cfg.GetCoachConfig()
	assert.Equal(t, "gemini-2.5-pro", coach.Model)
	assert.Equal(t, "global-key", coach.APIKey)
	assert.InDelta(t, 0.1, float64(*coach.Temperature), 1e-6)
	assert.Equal(t, 90*time.Second, *coach.Timeout)
	assert.True(t, coach.CircuitBreaker.Enabled)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadConfigFileInvalid(t *testing.T) {
	_, err := LoadConfigFile(writeConfig(t, "scoring:\n  batchConcurrency: 0\n"))
	assert.ErrorContains(t, err, "scoring.batchConcurrency must be at least 1")
}

func validConfig() Config {
	return Config{
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "yaml", "text", "markdown"},
			MaxFileSize:      1024,
		},
		Scoring: ScoringConfig{SuggestionLimit: 8, BatchConcurrency: 2},
		AI:      AIConfig{Timeout: time.Minute},
		Server:  ServerConfig{Port: "8080", TLS: TLSConfig{Mode: "disabled"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no port", mutate: func(c *Config) { c.Server.Port = "" }, errorMsg: "server port is required"},
		{name: "bad timeout", mutate: func(c *Config) { c.AI.Timeout = 0 }, errorMsg: "AI timeout must be positive"},
		{name: "unknown default format", mutate: func(c *Config) { c.App.DefaultFormat = "xml" }, errorMsg: "invalid default format: xml"},
		{name: "suggestion limit too high", mutate: func(c *Config) { c.Scoring.SuggestionLimit = 51 }, errorMsg: "scoring.suggestionLimit"},
		{name: "zero file size", mutate: func(c *Config) { c.App.MaxFileSize = 0 }, errorMsg: "app.maxFileSize"},
		{name: "tls error is wrapped", mutate: func(c *Config) { c.Server.TLS.Mode = "server" }, errorMsg: "TLS configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errorMsg)
			}
		})
	}
}

func TestGetCoachConfigDoesNotAliasGlobals(t *testing.T) {
	cfg := validConfig()
	cfg.AI.MaxRetries = 3

	coach := cfg.GetCoachConfig()
	*coach.MaxRetries = 9

	assert.Equal(t, 3, cfg.AI.MaxRetries)
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "legacy-key")
	t.Setenv("HIREALL_SERVER_APIKEYS", "")

	cfg := validConfig()
	cfg.Server.APIKeys = []string{"a, b", " "}
	cfg.Server.TLS.Mode = "mutual"
	cfg.Observability.ServiceName = "hireall"
	cfg.applyFallbacks()

	assert.Equal(t, []string{"a", "b"}, cfg.Server.APIKeys)
	assert.Equal(t, "legacy-key", cfg.AI.APIKey)
	assert.Equal(t, "require", cfg.Server.TLS.ClientAuthPolicy)
	assert.Equal(t, "1.2", cfg.Server.TLS.MinVersion)
	assert.Contains(t, cfg.Observability.ServiceInstance, "hireall-")
}
