package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// Secret precedence:
// 1. Vault (if configured)
// 2. Config file values
// 3. Environment variables (HIREALL_AI_APIKEY, HIREALL_SERVER_APIKEYS, ...)
// 4. Default values
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// ScoringConfig controls the deterministic scorers
type ScoringConfig struct {
	DefaultIndustry   string        `mapstructure:"defaultIndustry"`
	DefaultTargetRole string        `mapstructure:"defaultTargetRole"`
	LexiconFile       string        `mapstructure:"lexiconFile"`
	SuggestionLimit   int           `mapstructure:"suggestionLimit"`
	BatchConcurrency  int           `mapstructure:"batchConcurrency"`
	WatchLexicon      bool          `mapstructure:"watchLexicon"`
	LexiconDebounce   time.Duration `mapstructure:"lexiconDebounce"`
	StrictSchema      bool          `mapstructure:"strictSchema"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"readTimeout"`
	WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout    time.Duration `mapstructure:"idleTimeout"`
	MaxRequestSize int64         `mapstructure:"maxRequestSize"`

	TLS TLSConfig `mapstructure:"tls"`

	// Valid API keys; empty disables authentication
	APIKeys []string `mapstructure:"apiKeys"`

	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	RequestsPerMin int  `mapstructure:"requestsPerMin"`
	BurstCapacity  int  `mapstructure:"burstCapacity"`
	ByIP           bool `mapstructure:"byIP"`
	ByAPIKey       bool `mapstructure:"byAPIKey"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console exporter configuration
type ConsoleConfig struct {
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig toggles groups of application metrics
type CustomMetricsConfig struct {
	AIOperations   AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	Scoring        ScoringMetricsConfig        `mapstructure:"scoring"`
	Infrastructure InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
}

// ScoringMetricsConfig holds scoring metrics configuration
type ScoringMetricsConfig struct {
	Enabled          bool `mapstructure:"enabled"`
	TrackScoreValues bool `mapstructure:"trackScoreValues"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	TrackRateLimits     bool `mapstructure:"trackRateLimits"`
	TrackLexiconReloads bool `mapstructure:"trackLexiconReloads"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from the default search paths
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile loads configuration from environment variables and a config
// file. An empty path searches /etc/hireall/, $HOME/.hireall and the working
// directory for config.yaml.
func LoadConfigFile(path string) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	v.SetEnvPrefix("HIREALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'HIREALL'")

	if path != "" {
		v.SetConfigFile(path)
		log.Printf("[CONFIG] Using explicit config file: %s", path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/hireall/")
		v.AddConfigPath("$HOME/.hireall")
		v.AddConfigPath(".")
		log.Println("[CONFIG] Configured config file search paths: /etc/hireall/, $HOME/.hireall, .")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	config.logConfigurationSources(configFileUsed)

	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "yaml", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024)

	// Scoring
	v.SetDefault("scoring.defaultIndustry", "technology")
	v.SetDefault("scoring.defaultTargetRole", "")
	v.SetDefault("scoring.lexiconFile", "")
	v.SetDefault("scoring.suggestionLimit", 8)
	v.SetDefault("scoring.batchConcurrency", 4)
	v.SetDefault("scoring.watchLexicon", true)
	v.SetDefault("scoring.lexiconDebounce", time.Second)
	v.SetDefault("scoring.strictSchema", false)

	// AI, global fallbacks
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI, coach operation
	v.SetDefault("ai.coach.provider", "gemini")
	v.SetDefault("ai.coach.model", "")
	v.SetDefault("ai.coach.timeout", 90*time.Second)
	v.SetDefault("ai.coach.apiKey", "")
	v.SetDefault("ai.coach.maxRetries", 2)
	v.SetDefault("ai.coach.temperature", 0.3)
	v.SetDefault("ai.coach.useSystemPrompts", true)
	v.SetDefault("ai.coach.circuitBreaker.enabled", true)
	v.SetDefault("ai.coach.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.coach.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.coach.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.coach.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.coach.circuitBreaker.failureThreshold", 0.6)

	// Server
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 2*1024*1024)
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.cipherSuites", []string{})
	v.SetDefault("server.tls.clientAuthPolicy", "require")
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)

	// Vault
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.watcher.enabled", false)
	v.SetDefault("vault.watcher.pollInterval", 5*time.Minute)

	// Observability
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "hireall")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.scoring.enabled", true)
	v.SetDefault("observability.customMetrics.scoring.trackScoreValues", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackLexiconReloads", true)
	v.SetDefault("observability.console.prettyPrint", true)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}

// Validate checks if the configuration is valid. An AI key is optional; the
// coach reports itself unavailable without one.
func (c *Config) Validate() error {
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("app.maxFileSize must be positive")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if err := c.validateScoring(); err != nil {
		return err
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

func (c *Config) validateScoring() error {
	s := c.Scoring
	if s.SuggestionLimit < 1 || s.SuggestionLimit > 50 {
		return fmt.Errorf("scoring.suggestionLimit must be between 1 and 50, got %d", s.SuggestionLimit)
	}
	if s.BatchConcurrency < 1 {
		return fmt.Errorf("scoring.batchConcurrency must be at least 1, got %d", s.BatchConcurrency)
	}
	if s.LexiconDebounce < 0 {
		return fmt.Errorf("scoring.lexiconDebounce cannot be negative")
	}
	return nil
}

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	// env values arrive comma-separated and may carry spaces
	c.Server.APIKeys = splitAndTrim(strings.Join(c.Server.APIKeys, ","))
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("HIREALL_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = splitAndTrim(apiKeysEnv)
		}
	}

	// Legacy variable shared with other Gemini tooling
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	c.Scoring.DefaultIndustry = strings.ToLower(strings.TrimSpace(c.Scoring.DefaultIndustry))

	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}

	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}

	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	log.Println("[CONFIG] === Configuration Sources Summary ===")

	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		"HIREALL_AI_APIKEY",
		"HIREALL_AI_MODEL",
		"HIREALL_SERVER_PORT",
		"HIREALL_SERVER_HOST",
		"HIREALL_SERVER_APIKEYS",
		"HIREALL_APP_LOGLEVEL",
		"HIREALL_SCORING_LEXICONFILE",
		"HIREALL_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}

	log.Println("[CONFIG] Environment variables:")
	hasEnvVars := false
	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			if strings.Contains(strings.ToLower(envVar), "key") {
				log.Printf("[CONFIG]   %s=***MASKED***", envVar)
			} else {
				log.Printf("[CONFIG]   %s=%s", envVar, value)
			}
			hasEnvVars = true
		}
	}
	if !hasEnvVars {
		log.Println("[CONFIG]   None set")
	}

	log.Println("[CONFIG] === Key Configuration Values ===")
	log.Printf("[CONFIG] Default Industry: %s", c.Scoring.DefaultIndustry)
	if c.Scoring.LexiconFile != "" {
		log.Printf("[CONFIG] Lexicon File: %s (watch: %t)", c.Scoring.LexiconFile, c.Scoring.WatchLexicon)
	} else {
		log.Println("[CONFIG] Lexicon File: built-in")
	}
	log.Printf("[CONFIG] AI Model: %s", c.AI.Model)
	if c.AI.APIKey != "" || c.AI.Coach.APIKey != "" {
		log.Println("[CONFIG] AI API Key: ***CONFIGURED***")
	} else {
		log.Println("[CONFIG] AI API Key: ***NOT SET*** (coach disabled)")
	}
	log.Printf("[CONFIG] Server: %s:%s (TLS: %s)", c.Server.Host, c.Server.Port, c.Server.TLS.Mode)
	log.Printf("[CONFIG] API Keys: %d configured", len(c.Server.APIKeys))
	log.Printf("[CONFIG] Log Level: %s", c.App.LogLevel)
	log.Printf("[CONFIG] Vault Enabled: %t", c.Vault.Enabled)
	log.Printf("[CONFIG] Observability Enabled: %t", c.Observability.Enabled)
	log.Println("[CONFIG] =====================================")
}
