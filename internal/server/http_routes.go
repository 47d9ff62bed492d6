package server

import (
	"net/http"
	"strings"

	"hireall/internal/observability"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.om.HTTPMiddleware()(s.setupRoutes())
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	rateLimitHandler := s.rateLimitMiddleware()
	requestLimitHandler := s.requestSizeLimitMiddleware()

	public := func(route string, h http.HandlerFunc) http.HandlerFunc {
		return s.requestIDMiddleware(route, observability.RouteMiddleware(route)(h))
	}
	protected := func(route string, h http.HandlerFunc) http.HandlerFunc {
		return public(route, rateLimitHandler(s.authMiddleware(requestLimitHandler(h))))
	}

	mux.HandleFunc("GET /health", public("/health", s.healthHandler))
	mux.HandleFunc("GET /stats", public("/stats", s.statsHandler))
	mux.HandleFunc("GET /lexicon", public("/lexicon", s.lexiconHandler))
	mux.HandleFunc("POST /score", protected("/score", s.scoreHandler))
	mux.HandleFunc("POST /score/basic", protected("/score/basic", s.basicScoreHandler))
	mux.HandleFunc("POST /coach", protected("/coach", s.coachHandler))

	return mux
}

// requestIDMiddleware echoes the caller's X-Request-ID or assigns a new one,
// and counts requests per route
func (s *Server) requestIDMiddleware(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		s.counters.inc(route)

		next(w, r)
	}
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if s.APIKeyCount() == 0 {
			next(w, r)
			return
		}

		apiKey := extractAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.validAPIKey(apiKey) {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}
			next(w, r)
		}
	}
}

// extractAPIKey reads X-API-Key, falling back to a Bearer token
func extractAPIKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
