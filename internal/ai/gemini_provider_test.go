package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"hireall/internal/config"
	appErrors "hireall/internal/errors"
	"hireall/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const reviewJSON = `{
  "summary": "Strong engineering background, weak quantification.",
  "rewrittenSummary": "Backend engineer with 8 years on cloud services.",
  "bulletRewrites": [{"original": "Worked on APIs", "improved": "Built REST APIs serving [X] users", "reason": "Adds scale"}],
  "priorityActions": ["Add metrics to every role"]
}`

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     120,
			CandidatesTokenCount: 80,
			TotalTokenCount:      200,
		},
	}
}

func testOperationConfig(retries int) *config.OperationAIConfig {
	timeout := 5 * time.Second
	temp := float32(0.3)
	useSystem := true
	return &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "gemini-2.0-flash",
		APIKey:           "test-key",
		Timeout:          &timeout,
		MaxRetries:       &retries,
		Temperature:      &temp,
		UseSystemPrompts: &useSystem,
	}
}

type scriptedGenerator struct {
	errs      []error
	text      string
	calls     int
	lastCfg   *genai.GenerateContentConfig
	lastInput string
}

func (s *scriptedGenerator) generate(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.calls++
	s.lastCfg = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		s.lastInput = contents[0].Parts[0].Text
	}
	if s.calls <= len(s.errs) && s.errs[s.calls-1] != nil {
		return nil, s.errs[s.calls-1]
	}
	return textResponse(s.text), nil
}

func newTestProvider(cfg *config.OperationAIConfig, gen *scriptedGenerator) *GeminiProvider {
	g := newGeminiProvider(cfg, "Coach", appErrors.NewNopLogger(), gen.generate,
		func(context.Context, string) (*genai.Model, error) {
			return &genai.Model{DisplayName: "Gemini Flash", Version: "2.0"}, nil
		})
	g.baseBackoff = time.Millisecond
	return g
}

func sampleInput() types.CoachReviewInput {
	return types.CoachReviewInput{
		ResumeText: "Jane Doe Senior Software Engineer Worked on APIs",
		TargetRole: "Software Engineer",
		Industry:   "technology",
		Score:      &types.ResumeScore{Overall: 48, CriticalIssues: []string{"Missing professional summary"}},
	}
}

func TestReviewResumeDecodesResponse(t *testing.T) {
	gen := &scriptedGenerator{text: reviewJSON}
	g := newTestProvider(testOperationConfig(0), gen)

	out, usage, err := g.ReviewResume(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, "Strong engineering background, weak quantification.", out.Summary)
	require.Len(t, out.BulletRewrites, 1)
	assert.Equal(t, "Adds scale", out.BulletRewrites[0].Reason)
	assert.Equal(t, []string{"Add metrics to every role"}, out.PriorityActions)
	assert.Equal(t, &TokenUsage{InputTokens: 120, OutputTokens: 80, TotalTokens: 200}, usage)

	require.NotNil(t, gen.lastCfg)
	assert.Equal(t, "application/json", gen.lastCfg.ResponseMIMEType)
	assert.NotNil(t, gen.lastCfg.SystemInstruction)
	assert.Equal(t, float32(0.3), *gen.lastCfg.Temperature)
	assert.Contains(t, gen.lastInput, `"Software Engineer"`)
	assert.Contains(t, gen.lastInput, `"overall":48`)
	assert.Contains(t, gen.lastInput, "Worked on APIs")
}

func TestReviewResumeRetriesTransientErrors(t *testing.T) {
	gen := &scriptedGenerator{
		errs: []error{
			&googleapi.Error{Code: 503},
			&net.OpError{Op: "dial", Err: errors.New("connection refused")},
		},
		text: reviewJSON,
	}
	g := newTestProvider(testOperationConfig(2), gen)

	_, _, err := g.ReviewResume(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls)
}

func TestReviewResumeStopsOnPermanentError(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{&googleapi.Error{Code: 400, Message: "bad request"}}}
	g := newTestProvider(testOperationConfig(3), gen)

	_, usage, err := g.ReviewResume(context.Background(), sampleInput())
	require.Error(t, err)
	assert.Nil(t, usage)
	assert.Equal(t, 1, gen.calls)

	appErr, ok := appErrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrorTypeAI, appErr.Type)
	assert.Equal(t, appErrors.ErrCodeAIServiceFailed, appErr.Code)
}

func TestReviewResumeRejectsMalformedJSON(t *testing.T) {
	gen := &scriptedGenerator{text: "not json"}
	g := newTestProvider(testOperationConfig(0), gen)

	_, _, err := g.ReviewResume(context.Background(), sampleInput())
	appErr, ok := appErrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "AI_RESPONSE_PARSE_FAILED", appErr.Code)
}

func TestRetryHonoursContextCancel(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{&googleapi.Error{Code: 429}, &googleapi.Error{Code: 429}}}
	g := newTestProvider(testOperationConfig(5), gen)
	g.baseBackoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := g.ReviewResume(ctx, sampleInput())
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"too many requests", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 500}, true},
		{"gateway timeout", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 504}), true},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"unauthorized", &googleapi.Error{Code: 401}, false},
		{"network", &net.OpError{Op: "read", Err: errors.New("reset")}, true},
		{"genai unavailable", genai.APIError{Code: 503, Message: "overloaded"}, true},
		{"genai invalid", genai.APIError{Code: 400}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestBackoffIsBoundedAndGrows(t *testing.T) {
	g := &GeminiProvider{baseBackoff: time.Second}

	first := g.backoff(1)
	assert.GreaterOrEqual(t, first, time.Second)
	assert.Less(t, first, 1100*time.Millisecond)

	third := g.backoff(3)
	assert.GreaterOrEqual(t, third, 4*time.Second)

	assert.LessOrEqual(t, g.backoff(20), maxBackoff)
	assert.LessOrEqual(t, g.backoff(80), maxBackoff)
}

func TestGetModelInfo(t *testing.T) {
	g := newTestProvider(testOperationConfig(0), &scriptedGenerator{})
	info := g.GetModelInfo(context.Background())
	assert.True(t, info.Available)
	assert.Equal(t, "Gemini Flash", info.DisplayName)

	g.getModel = func(context.Context, string) (*genai.Model, error) {
		return nil, errors.New("model not found")
	}
	info = g.GetModelInfo(context.Background())
	assert.False(t, info.Available)
	assert.True(t, strings.HasPrefix(info.Error, "Failed to get model info"))
}

func TestCustomPromptsOverrideDefaults(t *testing.T) {
	cfg := testOperationConfig(0)
	cfg.CustomPrompts = config.PromptConfig{
		SystemPrompt: "Be brief.",
		UserPrompt:   "Role={targetRole} Industry={industry} Score={score}\n{resume}",
	}
	g := newTestProvider(cfg, &scriptedGenerator{})

	input := sampleInput()
	input.Industry = ""
	system, user := g.getPromptsForCoach(input)

	assert.Equal(t, "Be brief.", system)
	assert.True(t, strings.HasPrefix(user, "Role=Software Engineer Industry=not specified Score={"))
	assert.True(t, strings.HasSuffix(user, "Worked on APIs"))
}
