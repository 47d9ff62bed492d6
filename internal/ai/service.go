package ai

import (
	"context"
	"fmt"
	"time"

	"hireall/internal/ats"
	"hireall/internal/config"
	"hireall/internal/errors"
	"hireall/internal/observability"
	"hireall/internal/types"
)

// Service runs coach reviews with timeouts and metrics
type Service struct {
	Provider Coach
	config   *config.OperationAIConfig
	logger   *errors.Logger
	om       *observability.ObservabilityManager
}

// NewService creates the coach service for cfg. It fails with MISSING_API_KEY
// when no key is configured.
func NewService(cfg *config.OperationAIConfig, modelCheckTimeout time.Duration, logger *errors.Logger, om *observability.ObservabilityManager) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			"AI coach requires an API key (ai.apiKey, HIREALL_AI_APIKEY or GEMINI_API_KEY)", nil)
	}

	if logger != nil {
		logger.Debug("Initializing AI service",
			"provider", cfg.Provider,
			"model", cfg.Model,
			"timeout", derefDuration(cfg.Timeout),
			"max_retries", derefInt(cfg.MaxRetries))
	}

	var provider Coach
	var err error
	switch cfg.Provider {
	case "gemini", "":
		provider, err = NewGeminiProvider(cfg, "Coach", modelCheckTimeout, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, cfg, logger, om), nil
}

// NewServiceWithProvider wraps an existing provider
func NewServiceWithProvider(provider Coach, cfg *config.OperationAIConfig, logger *errors.Logger, om *observability.ObservabilityManager) *Service {
	return &Service{Provider: provider, config: cfg, logger: logger, om: om}
}

// ReviewResume runs one coach review under the configured timeout
func (s *Service) ReviewResume(ctx context.Context, input types.CoachReviewInput) (types.CoachReviewOutput, *TokenUsage, error) {
	if timeout := derefDuration(s.config.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var output types.CoachReviewOutput
	var usage *TokenUsage
	err := s.om.GetMetrics().TrackAIOperationWithTokens(ctx, "coach_review", func(ctx context.Context) *observability.AIOperationResult {
		var err error
		output, usage, err = s.Provider.ReviewResume(ctx, input)
		return &observability.AIOperationResult{Error: err, TokenUsage: usage}
	}, s.om)
	if err != nil {
		return types.CoachReviewOutput{}, nil, err
	}
	return output, usage, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// CircuitBreakerStats returns breaker statistics when the provider keeps any
func (s *Service) CircuitBreakerStats() map[string]any {
	if p, ok := s.Provider.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
		return p.GetCircuitBreakerStats()
	}
	return nil
}

// Close releases the provider
func (s *Service) Close() error {
	return s.Provider.Close()
}

// NewCoachReviewInput builds the model input from a resume and its enhanced score
func NewCoachReviewInput(resume *types.ResumeData, score *types.ResumeScore, opts types.ScoreOptions) types.CoachReviewInput {
	return types.CoachReviewInput{
		ResumeText: ats.ExtractFullText(resume),
		TargetRole: opts.TargetRole,
		Industry:   opts.Industry,
		Score:      score,
	}
}

func derefDuration(d *time.Duration) time.Duration {
	if d == nil {
		return 0
	}
	return *d
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
