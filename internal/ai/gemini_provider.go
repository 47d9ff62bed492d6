package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"time"

	"hireall/internal/config"
	appErrors "hireall/internal/errors"
	"hireall/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	defaultBaseBackoff      = time.Second
	maxBackoff              = 30 * time.Second
	defaultModelCheckPeriod = 10 * time.Second
)

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type getModelFunc func(ctx context.Context, model string) (*genai.Model, error)

// GeminiProvider implements Coach on Google Gemini
type GeminiProvider struct {
	generate          generateFunc
	getModel          getModelFunc
	config            *config.OperationAIConfig
	circuitBreaker    *AICircuitBreaker
	modelBreaker      *ModelCircuitBreaker
	logger            *appErrors.Logger
	baseBackoff       time.Duration
	modelCheckTimeout time.Duration
}

var _ Coach = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider for one operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, modelCheckTimeout time.Duration, logger *appErrors.Logger) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	g := newGeminiProvider(cfg, operationType, logger,
		client.Models.GenerateContent,
		func(ctx context.Context, model string) (*genai.Model, error) {
			return client.Models.Get(ctx, model, &genai.GetModelConfig{})
		})
	if modelCheckTimeout > 0 {
		g.modelCheckTimeout = modelCheckTimeout
	}
	return g, nil
}

func newGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *appErrors.Logger, generate generateFunc, getModel getModelFunc) *GeminiProvider {
	return &GeminiProvider{
		generate:          generate,
		getModel:          getModel,
		config:            cfg,
		circuitBreaker:    NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:      NewModelCircuitBreaker(operationType, cfg, logger),
		logger:            logger,
		baseBackoff:       defaultBaseBackoff,
		modelCheckTimeout: defaultModelCheckPeriod,
	}
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{Name: g.config.Model}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.getModel(checkCtx, g.config.Model)
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		if g.logger != nil {
			g.logger.Warn("Model availability check failed",
				"model", g.config.Model,
				"provider", g.config.Provider,
				"error", err.Error())
		}
		return modelInfo
	}

	modelInfo.Available = true
	if model != nil {
		modelInfo.DisplayName = model.DisplayName
		modelInfo.Version = model.Version
	}

	if g.logger != nil {
		g.logger.Debug("Model availability check successful",
			"model", g.config.Model,
			"display_name", modelInfo.DisplayName,
			"version", modelInfo.Version)
	}

	return modelInfo
}

// executeWithRetry retries retryable failures with exponential backoff and jitter
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := 0
	if g.config.MaxRetries != nil {
		maxRetries = max(0, *g.config.MaxRetries)
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if g.logger != nil {
				g.logger.Warn("Retrying AI operation",
					"operation", operation,
					"attempt", attempt,
					"max_retries", maxRetries,
					"error", lastErr.Error())
			}

			select {
			case <-time.After(g.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		attempts++
		result, err := fn()
		if err == nil {
			if attempt > 0 && g.logger != nil {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempts)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			break
		}
	}

	if g.logger != nil {
		g.logger.LogError(lastErr, "AI operation failed",
			"operation", operation,
			"total_attempts", attempts)
	}

	return nil, fmt.Errorf("operation '%s' failed after %d attempt(s): %w", operation, attempts, lastErr)
}

// backoff returns base*2^(attempt-1) plus up to 10% jitter, capped at maxBackoff
func (g *GeminiProvider) backoff(attempt int) time.Duration {
	delay := g.baseBackoff << (attempt - 1)
	if delay <= 0 || delay > maxBackoff {
		delay = maxBackoff
	}
	if jitterMax := int64(delay) / 10; jitterMax > 0 {
		if j, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			delay += time.Duration(j.Int64())
		}
	}
	return min(delay, maxBackoff)
}

// isRetryableError reports network failures, throttling and 5xx responses
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return retryableStatus(genaiErr.Code)
	}

	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// executeAIOperation runs one generation with tracing, circuit breaking, retries and JSON decoding
func executeAIOperation[Out any](
	ctx context.Context,
	g *GeminiProvider,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out

	ctx, span := otel.Tracer("hireall.ai.gemini").Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
	)
	span.SetAttributes(spanAttributes...)

	if g.config.UseSystemPrompts != nil && *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.generate(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		code := appErrors.ErrCodeAIServiceFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = appErrors.ErrCodeAITimeout
		}
		return output, nil, appErrors.NewAIError(code, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// ReviewResume asks the model for a narrative review of a scored resume
func (g *GeminiProvider) ReviewResume(ctx context.Context, input types.CoachReviewInput) (types.CoachReviewOutput, *TokenUsage, error) {
	systemPrompt, userPrompt := g.getPromptsForCoach(input)

	attrs := []attribute.KeyValue{
		attribute.Int("input.resume_length", len(input.ResumeText)),
		attribute.String("input.industry", input.Industry),
	}
	if input.Score != nil {
		attrs = append(attrs, attribute.Int("ats.overall", input.Score.Overall))
	}

	output, tokenUsage, err := executeAIOperation[types.CoachReviewOutput](
		ctx, g, "coach_review", userPrompt, systemPrompt, g.buildCoachSchema(), attrs...,
	)
	if err != nil {
		return types.CoachReviewOutput{}, nil, err
	}

	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy(),
	}
}

// Close releases provider resources. The genai client holds none in unary mode.
func (g *GeminiProvider) Close() error {
	return nil
}

func (g *GeminiProvider) buildCoachSchema() *genai.GenerateContentConfig {
	stringList := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary":          {Type: genai.TypeString},
				"rewrittenSummary": {Type: genai.TypeString},
				"bulletRewrites": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"original": {Type: genai.TypeString},
							"improved": {Type: genai.TypeString},
							"reason":   {Type: genai.TypeString},
						},
						Required: []string{"original", "improved", "reason"},
					},
				},
				"priorityActions": stringList,
			},
			Required: []string{"summary", "rewrittenSummary", "bulletRewrites", "priorityActions"},
		},
	}

	if g.config.Temperature != nil && *g.config.Temperature > 0 {
		cfg.Temperature = g.config.Temperature
	}

	return cfg
}

func (g *GeminiProvider) getPromptsForCoach(input types.CoachReviewInput) (string, string) {
	systemPrompt := resolvePrompt(g.config.CustomPrompts.SystemPrompt, DefaultCoachSystemPrompt)
	userTemplate := resolvePrompt(g.config.CustomPrompts.UserPrompt, DefaultCoachUserPrompt)
	return systemPrompt, BuildCoachPrompt(userTemplate, input)
}

// extractTokenUsage extracts token usage information from a Gemini response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
