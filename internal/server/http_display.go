package server

import (
	"fmt"
	"io"
)

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo(w io.Writer, addr string) {
	if s.TLSConfig.Enabled() {
		fmt.Fprintf(w, "Starting server on https://%s (TLS mode: %s)\n", addr, s.TLSConfig.Mode)
	} else {
		fmt.Fprintf(w, "Starting server on http://%s\n", addr)
		fmt.Fprintln(w, "TLS mode: Disabled (HTTP only)")
	}
	s.displayEndpoints(w)
	s.displayAuthInfo(w)
	s.displayRequestLimitInfo(w)
	s.displayRateLimitInfo(w)
	s.displayWatcherInfo(w)
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints(w io.Writer) {
	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintln(w, "  GET  /health       - Health check")
	fmt.Fprintln(w, "  GET  /stats        - Server statistics")
	fmt.Fprintln(w, "  GET  /lexicon      - Active scoring lexicon")
	fmt.Fprintln(w, "  POST /score        - Enhanced ATS score, ?detailed=true for the full evaluation")
	fmt.Fprintln(w, "  POST /score/basic  - Basic real-time resume score")
	if s.Coach != nil {
		fmt.Fprintln(w, "  POST /coach        - AI coach review")
	} else {
		fmt.Fprintln(w, "  POST /coach        - AI coach review (unavailable: no AI API key)")
	}
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo(w io.Writer) {
	if n := s.APIKeyCount(); n > 0 {
		fmt.Fprintf(w, "API authentication: ENABLED (%d keys configured)\n", n)
		fmt.Fprintln(w, "Include 'X-API-Key: <your-key>' or 'Authorization: Bearer <your-key>' in POST requests")
	} else {
		fmt.Fprintln(w, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(w, "WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo(w io.Writer) {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(w, "Request size limit: DISABLED")
		fmt.Fprintln(w, "WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo(w io.Writer) {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(w, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(w, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(w, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(w, "Rate limiting: DISABLED")
	}
}

func (s *Server) displayWatcherInfo(w io.Writer) {
	if s.LexiconWatcher != nil {
		fmt.Fprintf(w, "Lexicon hot reload: ENABLED (%s)\n", s.AppConfig.Scoring.LexiconFile)
	}
	if s.VaultWatcher != nil {
		fmt.Fprintln(w, "API key rotation from Vault: ENABLED")
	}
}
