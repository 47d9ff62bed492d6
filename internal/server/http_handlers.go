package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"
)

const defaultHealthCheckTimeout = 5 * time.Second

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if t := s.AppConfig.Observability.HealthCheck.Timeout; t > 0 {
		return t
	}
	return defaultHealthCheckTimeout
}

// healthHandler reports service health. Scoring has no external dependency,
// so a failing coach only marks the service degraded.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "hireall",
		"version": s.Version,
		"uptime":  time.Since(s.startedAt).Round(time.Second).String(),
	}

	coachStatus := s.checkCoachHealth(r.Context())
	response["coach"] = coachStatus

	if available, ok := coachStatus["available"].(bool); ok && !available && s.Coach != nil {
		response["status"] = "degraded"
	}

	if s.LexiconWatcher != nil {
		response["lexicon_watcher"] = s.LexiconWatcher.Status()
	}
	if s.VaultWatcher != nil {
		response["vault_watcher"] = s.VaultWatcher.Status()
	}

	writeJSON(w, http.StatusOK, response)
}

// checkCoachHealth checks the AI model behind the coach
func (s *Server) checkCoachHealth(parent context.Context) map[string]any {
	if s.Coach == nil {
		return map[string]any{
			"configured": false,
			"available":  false,
		}
	}

	ctx, cancel := context.WithTimeout(parent, s.getHealthCheckTimeout())
	defer cancel()

	status := map[string]any{"configured": true}
	modelInfo := s.Coach.GetModelInfo(ctx)
	if modelInfo != nil {
		status["available"] = modelInfo.Available
		status["model"] = modelInfo
	} else {
		status["available"] = false
	}

	if cb, ok := s.Coach.(interface{ CircuitBreakerStats() map[string]any }); ok {
		if stats := cb.CircuitBreakerStats(); stats != nil {
			status["circuit_breakers"] = stats
		}
	}

	return status
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "hireall",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"api_keys":               s.APIKeyCount(),
			"started_at":             s.startedAt.UTC().Format(time.RFC3339),
		},
		"requests": s.counters.snapshot(),
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeErrorDetails(w, error, message, nil, statusCode)
}

// writeErrorDetails writes an error response with per-field details
func writeErrorDetails(w http.ResponseWriter, error, message string, details []FieldDetail, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
		Details: details,
	})
}
