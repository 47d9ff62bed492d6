package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hireall/internal/ai"
	appErrors "hireall/internal/errors"
	"hireall/internal/resume"
	"hireall/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// scoreHandler runs the enhanced scorer; ?detailed=true returns the full evaluation
func (s *Server) scoreHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("hireall.api").Start(r.Context(), "api.score")
	defer span.End()

	detailed, err := parseBoolQuery(r, "detailed")
	if err != nil {
		s.rejectRequest(w, span, "Invalid query parameter", err.Error(), nil)
		return
	}

	var req ScoreRequest
	data, opts, ok := s.decodeResumeRequest(w, r, span, &req)
	if !ok {
		return
	}

	start := time.Now()
	var result any
	var overall int
	if detailed {
		evaluation := s.Scorer.Evaluate(data, opts)
		result, overall = evaluation, evaluation.Score
	} else {
		score := s.Scorer.CalculateEnhancedATSScore(data, opts)
		result, overall = score, score.Overall
	}
	s.om.GetMetrics().RecordScoring(ctx, "enhanced", time.Since(start), overall, nil, s.om)

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Bool("request.detailed", detailed),
		attribute.String("request.industry", opts.Industry),
		attribute.Int("ats.overall", overall),
	)
	writeJSON(w, http.StatusOK, result)
}

// basicScoreHandler runs the real-time basic scorer
func (s *Server) basicScoreHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("hireall.api").Start(r.Context(), "api.score_basic")
	defer span.End()

	var req ScoreRequest
	data, opts, ok := s.decodeResumeRequest(w, r, span, &req)
	if !ok {
		return
	}

	start := time.Now()
	score := s.Scorer.CalculateResumeScore(data, opts)
	s.om.GetMetrics().RecordScoring(ctx, "basic", time.Since(start), score.Overall, nil, s.om)

	span.SetAttributes(attribute.Bool("success", true), attribute.Int("ats.overall", score.Overall))
	writeJSON(w, http.StatusOK, score)
}

// coachHandler scores the resume and asks the AI coach to review it
func (s *Server) coachHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.om.Tracer("hireall.api").Start(r.Context(), "api.coach")
	defer span.End()

	if s.Coach == nil {
		span.SetAttributes(attribute.String("error.type", "unavailable"))
		writeErrorResponse(w, "AI coach unavailable",
			"No AI API key is configured for the coach", http.StatusServiceUnavailable)
		return
	}

	var req CoachRequest
	data, opts, ok := s.decodeResumeRequest(w, r, span, &req)
	if !ok {
		return
	}

	start := time.Now()
	score := s.Scorer.CalculateEnhancedATSScore(data, opts)
	s.om.GetMetrics().RecordScoring(ctx, "enhanced", time.Since(start), score.Overall, nil, s.om)

	review, tokenUsage, err := s.Coach.ReviewResume(ctx, ai.NewCoachReviewInput(data, score, opts))
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.type", "ai_processing"))
		s.Logger.LogError(err, "Coach review failed", "request_id", w.Header().Get(requestIDHeader))
		writeErrorResponse(w, "Failed to review resume", err.Error(), aiErrorStatus(err))
		return
	}

	if tokenUsage != nil {
		span.SetAttributes(attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens))
	}
	span.SetAttributes(attribute.Bool("success", true), attribute.Int("ats.overall", score.Overall))
	writeJSON(w, http.StatusOK, types.CoachReport{Score: score, Review: &review})
}

// lexiconHandler summarises the active lexicon
func (s *Server) lexiconHandler(w http.ResponseWriter, r *http.Request) {
	lex := s.Scorer.Lexicon()

	roles := make([]string, 0, len(lex.Roles))
	for _, role := range lex.Roles {
		roles = append(roles, role.Role)
	}

	response := map[string]any{
		"industries":            lex.IndustryNames(),
		"roles":                 roles,
		"action_verb_groups":    len(lex.ActionVerbs),
		"technical_term_groups": len(lex.TechnicalTerms),
		"modern_terms":          len(lex.ModernTerms),
		"soft_skills":           len(lex.SoftSkills),
	}
	if file := s.AppConfig.Scoring.LexiconFile; file != "" {
		response["source"] = file
	} else {
		response["source"] = "built-in"
	}
	if s.LexiconWatcher != nil {
		response["watcher"] = s.LexiconWatcher.Status()
	}

	writeJSON(w, http.StatusOK, response)
}

// resumeRequest is a request body carrying a resume and score options
type resumeRequest interface {
	document() json.RawMessage
	scoreOptions() types.ScoreOptions
	strictSchema() bool
}

func (r *ScoreRequest) document() json.RawMessage       { return r.Resume }
func (r *ScoreRequest) scoreOptions() types.ScoreOptions { return r.Options }
func (r *ScoreRequest) strictSchema() bool               { return r.Strict }

func (r *CoachRequest) document() json.RawMessage       { return r.Resume }
func (r *CoachRequest) scoreOptions() types.ScoreOptions { return r.Options }
func (r *CoachRequest) strictSchema() bool               { return false }

// decodeResumeRequest parses and validates req and decodes its resume. It
// writes the error response itself and reports false on failure.
func (s *Server) decodeResumeRequest(w http.ResponseWriter, r *http.Request, span trace.Span, req resumeRequest) (*types.ResumeData, types.ScoreOptions, bool) {
	if err := parseJSONRequest(r, req); err != nil {
		s.rejectRequest(w, span, "Invalid request body", err.Error(), nil)
		return nil, types.ScoreOptions{}, false
	}

	if err := s.validate.Struct(req); err != nil {
		s.rejectRequest(w, span, "Invalid request", "Request failed validation", validationDetails(err))
		return nil, types.ScoreOptions{}, false
	}

	raw := req.document()
	strict := s.AppConfig.Scoring.StrictSchema || req.strictSchema()

	data, err := resume.Parse(raw, resume.FormatJSON, resume.Options{Strict: strict})
	if err != nil {
		var details []FieldDetail
		for _, fe := range resume.FieldErrors(err) {
			details = append(details, FieldDetail{Field: "resume." + fe.Field, Message: fe.Message})
		}
		message := err.Error()
		if appErr, ok := appErrors.AsAppError(err); ok {
			message = appErr.Message
		}
		s.rejectRequest(w, span, "Invalid resume", message, details)
		return nil, types.ScoreOptions{}, false
	}

	opts := req.scoreOptions()
	if opts.Industry == "" {
		opts.Industry = s.AppConfig.Scoring.DefaultIndustry
	}
	if opts.TargetRole == "" {
		opts.TargetRole = s.AppConfig.Scoring.DefaultTargetRole
	}

	span.SetAttributes(attribute.Int("request.resume_bytes", len(raw)))
	return data, opts, true
}

func (s *Server) rejectRequest(w http.ResponseWriter, span trace.Span, title, message string, details []FieldDetail) {
	span.SetAttributes(attribute.String("error.type", "validation"))
	s.Logger.Debug("Request rejected",
		"error", title,
		"message", message,
		"request_id", w.Header().Get(requestIDHeader))
	writeErrorDetails(w, title, message, details, http.StatusBadRequest)
}

func parseBoolQuery(r *http.Request, name string) (bool, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got '%s'", name, value)
	}
	return b, nil
}

// aiErrorStatus maps coach failures to HTTP status codes
func aiErrorStatus(err error) int {
	if appErr, ok := appErrors.AsAppError(err); ok && appErr.Code == appErrors.ErrCodeAITimeout {
		return http.StatusGatewayTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
