package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"hireall/internal/config"
)

const shutdownTimeout = 30 * time.Second

// Start runs the HTTP server until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer, err := s.setupHTTPServer()
	if err != nil {
		return err
	}

	if err := s.startLexiconWatcher(); err != nil {
		return err
	}
	if err := s.startVaultWatcher(); err != nil {
		s.stopWatchers()
		return err
	}

	s.displayServerInfo(os.Stdout, httpServer.Addr)

	return s.startWithGracefulShutdown(ctx, httpServer)
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer() (*http.Server, error) {
	tlsConfig, err := buildTLSConfig(s.TLSConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to set up TLS: %w", err)
	}

	return &http.Server{
		Addr:         net.JoinHostPort(s.Host, s.Port),
		Handler:      s.Handler(),
		TLSConfig:    tlsConfig,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}, nil
}

// startLexiconWatcher enables hot reload of the lexicon override file
func (s *Server) startLexiconWatcher() error {
	scoring := s.AppConfig.Scoring
	if !scoring.WatchLexicon || scoring.LexiconFile == "" {
		return nil
	}

	lw := NewLexiconWatcher(scoring.LexiconFile, s.Scorer, scoring.LexiconDebounce, s.om, s.Logger)
	if err := lw.Start(); err != nil {
		return fmt.Errorf("failed to start lexicon watcher: %w", err)
	}
	s.LexiconWatcher = lw
	return nil
}

// startVaultWatcher enables API key rotation from Vault
func (s *Server) startVaultWatcher() error {
	vaultCfg := s.AppConfig.Vault
	if !vaultCfg.Enabled || !vaultCfg.Watcher.Enabled || vaultCfg.Secrets.APIKeys == "" {
		return nil
	}

	client, err := config.NewVaultClient(vaultCfg, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Vault client: %w", err)
	}

	// Keys at startup were applied by config loading; only newer versions rotate
	var initialVersion int64
	if secret, err := client.GetSecretV2(vaultCfg.Secrets.APIKeys); err == nil && secret != nil {
		initialVersion = secret.Version
	} else if err != nil {
		s.Logger.LogError(err, "Failed to read initial API key version from Vault")
	}

	vw := NewVaultWatcher(client, vaultCfg.Secrets.APIKeys, vaultCfg.Watcher.PollInterval, initialVersion,
		s.SetAPIKeys, s.Logger)
	if err := vw.Start(); err != nil {
		return fmt.Errorf("failed to start Vault watcher: %w", err)
	}
	s.VaultWatcher = vw
	return nil
}

// startWithGracefulShutdown serves until ctx is done or the listener fails
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", server.Addr,
			"tls_enabled", server.TLSConfig != nil)

		var err error
		if server.TLSConfig != nil {
			// Certificates are already loaded into TLSConfig
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		s.stopWatchers()
		s.cleanupRateLimiter()
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Received shutdown signal, starting graceful shutdown",
			"cause", context.Cause(ctx).Error())
		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.stopWatchers()
	s.cleanupRateLimiter()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

func (s *Server) stopWatchers() {
	if s.LexiconWatcher != nil {
		if err := s.LexiconWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop lexicon watcher")
		}
	}
	if s.VaultWatcher != nil {
		if err := s.VaultWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop Vault watcher")
		}
	}
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
