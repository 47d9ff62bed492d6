package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hireall/internal/ai"
	"hireall/internal/ats"
	"hireall/internal/config"
	appErrors "hireall/internal/errors"
	"hireall/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testResume = `{
  "personalInfo": {"fullName": "Jane Doe", "email": "jane@example.com", "summary": "Backend engineer building cloud services in Go."},
  "experience": [{"company": "Acme", "position": "Software Engineer", "achievements": ["Led migration to Kubernetes, cutting costs by 30%"]}],
  "education": [{"institution": "State University", "degree": "BSc", "field": "Computer Science"}],
  "skills": [{"category": "Languages", "skills": ["Go", "Python", "SQL"]}]
}`

type fakeCoach struct {
	output    types.CoachReviewOutput
	err       error
	available bool
	got       types.CoachReviewInput
}

func (f *fakeCoach) ReviewResume(ctx context.Context, input types.CoachReviewInput) (types.CoachReviewOutput, *ai.TokenUsage, error) {
	f.got = input
	if f.err != nil {
		return types.CoachReviewOutput{}, nil, f.err
	}
	return f.output, &ai.TokenUsage{TotalTokens: 42}, nil
}

func (f *fakeCoach) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "fake-model", Available: f.available}
}

func (f *fakeCoach) Close() error { return nil }

func newTestServer(t *testing.T, mutate func(*config.Config, *ServerConfig)) *Server {
	t.Helper()
	appCfg := &config.Config{}
	cfg := ServerConfig{Version: "test", MaxRequestSize: 1 << 20}
	if mutate != nil {
		mutate(appCfg, &cfg)
	}
	s := NewServer(appCfg, cfg, appErrors.NewNopLogger())
	t.Cleanup(func() {
		if s.RateLimiter != nil {
			s.RateLimiter.Close()
		}
	})
	return s
}

func scoreBody(options string) string {
	if options == "" {
		options = "{}"
	}
	return `{"resume": ` + testResume + `, "options": ` + options + `}`
}

func do(t *testing.T, s *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestScoreEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/score", scoreBody(`{"industry": "technology"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[types.ResumeScore](t, rec)
	want := ats.Default().CalculateEnhancedATSScore(mustParse(t), types.ScoreOptions{Industry: "technology"})
	assert.Equal(t, want.Overall, got.Overall)
	assert.InDelta(t, want.ATS, got.ATS, 0.001)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestScoreEndpointDetailed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/score?detailed=true", scoreBody(""), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[types.EnhancedATSEvaluation](t, rec)
	assert.Equal(t, ats.Default().Evaluate(mustParse(t), types.ScoreOptions{}).Score, got.Score)

	rec = do(t, s, http.MethodPost, "/score?detailed=maybe", scoreBody(""), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBasicScoreEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/score/basic", scoreBody(""), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[types.BasicResumeScore](t, rec)
	assert.Equal(t, ats.Default().CalculateResumeScore(mustParse(t), types.ScoreOptions{}).Overall, got.Overall)
}

func TestDefaultScoreOptionsFromConfig(t *testing.T) {
	coach := &fakeCoach{available: true}
	s := newTestServer(t, func(c *config.Config, sc *ServerConfig) {
		c.Scoring.DefaultIndustry = "technology"
		c.Scoring.DefaultTargetRole = "Software Engineer"
		sc.Coach = coach
	})

	rec := do(t, s, http.MethodPost, "/coach", scoreBody(""), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "technology", coach.got.Industry)
	assert.Equal(t, "Software Engineer", coach.got.TargetRole)
}

func TestScoreRequestValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name        string
		body        string
		contentType string
		wantField   string
	}{
		{
			name:      "industry too long",
			body:      scoreBody(`{"industry": "` + strings.Repeat("x", 61) + `"}`),
			wantField: "options.industry",
		},
		{
			name:      "target role too long",
			body:      scoreBody(`{"targetRole": "` + strings.Repeat("r", 121) + `"}`),
			wantField: "options.targetRole",
		},
		{
			name:      "missing resume",
			body:      `{"options": {}}`,
			wantField: "resume",
		},
		{
			name:        "wrong content type",
			body:        scoreBody(""),
			contentType: "text/plain",
		},
		{
			name: "malformed json",
			body: `{"resume": `,
		},
		{
			name: "resume is not an object",
			body: `{"resume": "plain text"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.contentType != "" {
				headers["Content-Type"] = tt.contentType
			}
			rec := do(t, s, http.MethodPost, "/score", tt.body, headers)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			resp := decode[ErrorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
			if tt.wantField != "" {
				require.NotEmpty(t, resp.Details)
				assert.Equal(t, tt.wantField, resp.Details[0].Field)
			}
		})
	}
}

func TestStrictSchemaRejectsInvalidResume(t *testing.T) {
	s := newTestServer(t, nil)

	body := `{"resume": {"personalInfo": {"email": "nope"}, "extra": 1}, "strict": true}`
	rec := do(t, s, http.MethodPost, "/score", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Invalid resume", resp.Error)
	require.NotEmpty(t, resp.Details)
	for _, d := range resp.Details {
		assert.True(t, strings.HasPrefix(d.Field, "resume."), d.Field)
	}

	// The same document is accepted leniently
	body = `{"resume": {"personalInfo": {"email": "nope"}, "extra": 1}}`
	rec = do(t, s, http.MethodPost, "/score", body, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t, func(_ *config.Config, sc *ServerConfig) {
		sc.APIKeys = []string{"secret-key-1", "secret-key-2"}
	})

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"invalid key", map[string]string{"X-API-Key": "wrong"}, http.StatusUnauthorized},
		{"x-api-key", map[string]string{"X-API-Key": "secret-key-1"}, http.StatusOK},
		{"bearer token", map[string]string{"Authorization": "Bearer secret-key-2"}, http.StatusOK},
		{"basic auth is not accepted", map[string]string{"Authorization": "Basic secret-key-2"}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/score/basic", scoreBody(""), tt.headers)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	t.Run("public endpoints skip auth", func(t *testing.T) {
		for _, path := range []string{"/health", "/stats", "/lexicon"} {
			rec := do(t, s, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})
}

func TestAPIKeyRotation(t *testing.T) {
	s := newTestServer(t, func(_ *config.Config, sc *ServerConfig) {
		sc.APIKeys = []string{"old-key"}
	})

	s.SetAPIKeys([]string{"new-key", ""})
	assert.Equal(t, 1, s.APIKeyCount())

	rec := do(t, s, http.MethodPost, "/score/basic", scoreBody(""), map[string]string{"X-API-Key": "old-key"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, s, http.MethodPost, "/score/basic", scoreBody(""), map[string]string{"X-API-Key": "new-key"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiting(t *testing.T) {
	s := newTestServer(t, func(_ *config.Config, sc *ServerConfig) {
		sc.RateLimit = &config.RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 1,
			BurstCapacity:  1,
			ByIP:           true,
		}
	})

	rec := do(t, s, http.MethodPost, "/score/basic", scoreBody(""), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodPost, "/score/basic", scoreBody(""), nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client gets its own bucket
	rec = do(t, s, http.MethodPost, "/score/basic", scoreBody(""), map[string]string{"X-Forwarded-For": "203.0.113.7"})
	assert.Equal(t, http.StatusOK, rec.Code)

	stats := s.RateLimiter.GetStats()
	assert.Equal(t, int64(1), stats["rejected_total"])
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/health", "", map[string]string{requestIDHeader: "req-123"})
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))

	rec = do(t, s, http.MethodGet, "/health", "", map[string]string{requestIDHeader: strings.Repeat("a", 200)})
	assert.Len(t, rec.Header().Get(requestIDHeader), 36, "oversized ids are replaced with a UUID")

	rec = do(t, s, http.MethodGet, "/health", "", nil)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestRequestTooLarge(t *testing.T) {
	s := newTestServer(t, func(_ *config.Config, sc *ServerConfig) {
		sc.MaxRequestSize = 64
	})

	rec := do(t, s, http.MethodPost, "/score", scoreBody(""), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Message, "too large")
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/score", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCoachEndpoint(t *testing.T) {
	t.Run("unavailable without coach", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := do(t, s, http.MethodPost, "/coach", scoreBody(""), nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("review", func(t *testing.T) {
		coach := &fakeCoach{
			available: true,
			output: types.CoachReviewOutput{
				Summary:         "Solid backend profile",
				PriorityActions: []string{"Quantify the Acme migration"},
			},
		}
		s := newTestServer(t, func(_ *config.Config, sc *ServerConfig) { sc.Coach = coach })

		rec := do(t, s, http.MethodPost, "/coach", scoreBody(`{"targetRole": "Backend Engineer"}`), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		report := decode[types.CoachReport](t, rec)
		require.NotNil(t, report.Score)
		require.NotNil(t, report.Review)
		assert.Equal(t, "Solid backend profile", report.Review.Summary)
		assert.Equal(t, report.Score.Overall, coach.got.Score.Overall)
		assert.Contains(t, coach.got.ResumeText, "Jane Doe")
		assert.Equal(t, "Backend Engineer", coach.got.TargetRole)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"timeout", appErrors.NewAIError(appErrors.ErrCodeAITimeout, "AI request timed out", context.DeadlineExceeded), http.StatusGatewayTimeout},
			{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
			{"service failure", appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "upstream failed", nil), http.StatusBadGateway},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				coach := &fakeCoach{err: tt.err}
				s := newTestServer(t, func(_ *config.Config, sc *ServerConfig) { sc.Coach = coach })
				rec := do(t, s, http.MethodPost, "/coach", scoreBody(""), nil)
				assert.Equal(t, tt.want, rec.Code)
			})
		}
	})
}

func TestLexiconEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/lexicon", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "built-in", body["source"])
	assert.Contains(t, body["industries"], "technology")
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("without coach", func(t *testing.T) {
		s := newTestServer(t, nil)
		rec := do(t, s, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "test", body["version"])
		assert.Equal(t, false, body["coach"].(map[string]any)["configured"])
	})

	t.Run("coach down is degraded", func(t *testing.T) {
		s := newTestServer(t, func(_ *config.Config, sc *ServerConfig) {
			sc.Coach = &fakeCoach{available: false}
		})
		rec := do(t, s, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "degraded", decode[map[string]any](t, rec)["status"])
	})
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	do(t, s, http.MethodPost, "/score/basic", scoreBody(""), nil)
	do(t, s, http.MethodPost, "/score/basic", scoreBody(""), nil)

	rec := do(t, s, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	requests := body["requests"].(map[string]any)
	assert.Equal(t, float64(2), requests["/score/basic"])
	assert.Equal(t, float64(1), requests["/stats"])
	assert.Equal(t, false, body["rate_limiting"].(map[string]any)["enabled"])
}

func TestLexiconWatcherReload(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lexicon.yaml")
	scorer := ats.Default()
	lw := NewLexiconWatcher(file, scorer, 10*time.Millisecond, nil, nil)

	require.NoError(t, os.WriteFile(file, []byte(`
industries:
  aerospace:
    - name: core
      keywords: [avionics, propulsion]
`), 0600))
	require.NoError(t, lw.Reload())
	assert.Contains(t, scorer.Lexicon().Industries, "aerospace")

	require.NoError(t, os.WriteFile(file, []byte("professionalLanguage: []"), 0600))
	err := lw.Reload()
	require.Error(t, err)
	assert.Contains(t, scorer.Lexicon().Industries, "aerospace", "previous lexicon is kept")

	status := lw.Status()
	assert.Equal(t, int64(1), status["reload_count"])
	assert.Equal(t, int64(1), status["failure_count"])
	assert.NotEmpty(t, status["last_error"])
}

func TestLexiconWatcherPicksUpChanges(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lexicon.yaml")
	require.NoError(t, os.WriteFile(file, []byte("softSkills: [teamwork]"), 0600))

	scorer := ats.Default()
	lw := NewLexiconWatcher(file, scorer, 10*time.Millisecond, nil, nil)
	require.NoError(t, lw.Start())
	t.Cleanup(func() { _ = lw.Stop() })
	assert.True(t, lw.IsRunning())

	// Replace by rename with a later mtime so coarse-grained filesystems see a change
	tmp := filepath.Join(dir, "lexicon.yaml.tmp")
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.WriteFile(tmp, []byte("softSkills: [mentoring]"), 0600))
	require.NoError(t, os.Chtimes(tmp, future, future))
	require.NoError(t, os.Rename(tmp, file))

	assert.Eventually(t, func() bool {
		return len(scorer.Lexicon().SoftSkills) == 1 && scorer.Lexicon().SoftSkills[0] == "mentoring"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestValidationDetails(t *testing.T) {
	v := newValidator()
	err := v.Struct(&ScoreRequest{Options: types.ScoreOptions{
		Industry:   strings.Repeat("i", 61),
		TargetRole: strings.Repeat("r", 121),
	}})
	require.Error(t, err)

	details := validationDetails(err)
	require.Len(t, details, 3)
	assert.Equal(t, "options.industry", details[0].Field)
	assert.Equal(t, "failed on 'max' (60)", details[0].Message)
	assert.Equal(t, "options.targetRole", details[1].Field)
	assert.Equal(t, "resume", details[2].Field)
	assert.Equal(t, "failed on 'required'", details[2].Message)

	assert.Nil(t, validationDetails(context.Canceled))
}

func mustParse(t *testing.T) *types.ResumeData {
	t.Helper()
	var r types.ResumeData
	require.NoError(t, json.Unmarshal([]byte(testResume), &r))
	return &r
}
