package ai

import (
	"context"

	"hireall/internal/observability"
	"hireall/internal/types"
)

// TokenUsage represents token usage information from AI responses
type TokenUsage = observability.TokenUsage

// Coach turns a deterministic score into a narrative review.
// Every method returns token usage; callers can ignore it.
type Coach interface {
	ReviewResume(ctx context.Context, input types.CoachReviewInput) (types.CoachReviewOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
