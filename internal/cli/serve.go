package cli

import (
	"context"
	"fmt"
	"time"

	"hireall/internal/ai"
	"hireall/internal/config"
	"hireall/internal/errors"
	"hireall/internal/observability"
	"hireall/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP scoring service",
	Long: `Start an HTTP server exposing the scorers as a JSON API.

Available endpoints:
- POST /score: Enhanced ATS score (?detailed=true for the full evaluation)
- POST /score/basic: Basic real-time score
- POST /coach: Score plus AI coach review (needs an AI API key)
- GET /lexicon: Active scoring lexicon summary
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

var serveFlags struct {
	port     string
	host     string
	tlsMode  string
	certFile string
	keyFile  string
	caFile   string
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveFlags.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveFlags.tlsMode, "tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.certFile, "cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.keyFile, "key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.caFile, "ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

// applyServeOverrides copies non-empty flags over the loaded server config
func applyServeOverrides(cfg *config.Config) {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Server.Port, serveFlags.port)
	override(&cfg.Server.Host, serveFlags.host)
	override(&cfg.Server.TLS.Mode, serveFlags.tlsMode)
	override(&cfg.Server.TLS.CertFile, serveFlags.certFile)
	override(&cfg.Server.TLS.KeyFile, serveFlags.keyFile)
	override(&cfg.Server.TLS.CAFile, serveFlags.caFile)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	applyServeOverrides(cfg)
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}

	om, shutdown, err := newObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	var coach ai.Coach
	if cfg.CoachAvailable() {
		coachConfig := cfg.GetCoachConfig()
		svc, err := ai.NewService(&coachConfig, cfg.Observability.HealthCheck.AIModelCheckTimeout, logger, om)
		if err != nil {
			return fmt.Errorf("failed to create AI service: %w", err)
		}
		defer func() {
			if err := svc.Close(); err != nil {
				logger.LogError(err, "Failed to close AI service")
			}
		}()
		coach = svc
	} else {
		logger.Warn("No AI API key configured, /coach will return 503")
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		RateLimit:      &cfg.Server.RateLimit,
		Scorer:         scorer,
		Coach:          coach,
		Observability:  om,
	}
	return server.NewServer(cfg, serverCfg, logger).Start(cmd.Context())
}

// newObservability starts tracing and metrics as configured. The returned
// function flushes and stops them.
func newObservability(cfg *config.Config, logger *errors.Logger) (*observability.ObservabilityManager, func(), error) {
	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, Version), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			logger.LogError(err, "Failed to shutdown observability")
		}
	}
	return om, shutdown, nil
}
