package server

import (
	"encoding/json"
	"errors"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"hireall/internal/ai"
	"hireall/internal/ats"
	"hireall/internal/config"
	appErrors "hireall/internal/errors"
	"hireall/internal/observability"
	"hireall/internal/types"

	"github.com/go-playground/validator/v10"
)

// ScoreRequest is the body of /score and /score/basic
type ScoreRequest struct {
	Resume  json.RawMessage    `json:"resume" validate:"required"`
	Options types.ScoreOptions `json:"options"`
	Strict  bool               `json:"strict,omitempty"`
}

// CoachRequest is the body of /coach
type CoachRequest struct {
	Resume  json.RawMessage    `json:"resume" validate:"required"`
	Options types.ScoreOptions `json:"options"`
}

// FieldDetail describes one invalid request field
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string        `json:"error"`
	Message string        `json:"message,omitempty"`
	Details []FieldDetail `json:"details,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig config.TLSConfig

	// Scoring engine; its lexicon may be swapped by the lexicon watcher
	Scorer *ats.Scorer

	// Coach is nil when no AI key is configured
	Coach ai.Coach

	// API keys, replaced wholesale when Vault rotates them
	apiKeys atomic.Pointer[map[string]bool]

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	LexiconWatcher *LexiconWatcher
	VaultWatcher   *VaultWatcher

	Logger *appErrors.Logger

	om        *observability.ObservabilityManager
	validate  *validator.Validate
	startedAt time.Time
	counters  requestCounters
}

type requestCounters struct {
	mu     sync.Mutex
	byPath map[string]int64
}

func (c *requestCounters) inc(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byPath == nil {
		c.byPath = make(map[string]int64)
	}
	c.byPath[path]++
}

func (c *requestCounters) snapshot() map[string]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.byPath)
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig

	Scorer        *ats.Scorer
	Coach         ai.Coach
	Observability *observability.ObservabilityManager
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *appErrors.Logger) *Server {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	if appCfg == nil {
		appCfg = &config.Config{}
	}

	scorer := cfg.Scorer
	if scorer == nil {
		scorer = ats.Default()
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		Scorer:         scorer,
		Coach:          cfg.Coach,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
		om:             cfg.Observability,
		validate:       newValidator(),
		startedAt:      time.Now(),
	}
	s.SetAPIKeys(cfg.APIKeys)
	return s
}

// SetAPIKeys replaces the accepted API keys. An empty list disables authentication.
func (s *Server) SetAPIKeys(keys []string) {
	keyMap := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			keyMap[key] = true
		}
	}
	s.apiKeys.Store(&keyMap)
}

// APIKeyCount returns the number of accepted API keys
func (s *Server) APIKeyCount() int {
	return len(*s.apiKeys.Load())
}

func (s *Server) validAPIKey(key string) bool {
	return (*s.apiKeys.Load())[key]
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationDetails converts validator errors into field details
func validationDetails(err error) []FieldDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make([]FieldDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msg := "failed on '" + fe.Tag() + "'"
		if fe.Param() != "" {
			msg += " (" + fe.Param() + ")"
		}
		details = append(details, FieldDetail{Field: field, Message: msg})
	}
	slices.SortFunc(details, func(a, b FieldDetail) int { return strings.Compare(a.Field, b.Field) })
	return details
}
