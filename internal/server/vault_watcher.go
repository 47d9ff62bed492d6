package server

import (
	"fmt"
	"sync"
	"time"

	"hireall/internal/config"
	"hireall/internal/errors"
)

// VaultClientInterface defines the Vault operations the watcher needs
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
}

// APIKeysCallback receives the rotated API key list
type APIKeysCallback func(keys []string)

// VaultWatcher polls a Vault KVv2 secret holding the service API keys and
// hands the new list to a callback whenever the secret version increases
type VaultWatcher struct {
	mu sync.RWMutex

	client       VaultClientInterface
	secretPath   string
	pollInterval time.Duration
	onRotate     APIKeysCallback
	logger       *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
	rotations   int64
	lastError   string
}

// NewVaultWatcher creates a new VaultWatcher. initialVersion is the version
// already applied at startup so the first poll does not re-apply it.
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, initialVersion int64, onRotate APIKeysCallback, logger *errors.Logger) *VaultWatcher {
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}
	return &VaultWatcher{
		client:       client,
		secretPath:   secretPath,
		pollInterval: pollInterval,
		onRotate:     onRotate,
		logger:       logger,
		stopChan:     make(chan struct{}),
		lastVersion:  initialVersion,
	}
}

// Start begins polling Vault for secret changes
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	vw.running = true
	go vw.pollLoop()
	if vw.logger != nil {
		vw.logger.Info("Vault watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval)
	}
	return nil
}

// Stop stops the Vault watcher
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	if vw.logger != nil {
		vw.logger.Info("Vault watcher stopped")
	}
	return nil
}

func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := vw.poll(); err != nil && vw.logger != nil {
				vw.logger.LogError(err, "Failed to rotate API keys from Vault")
			}
		case <-vw.stopChan:
			return
		}
	}
}

// poll checks the secret once and applies a newer key list
func (vw *VaultWatcher) poll() error {
	secret, changed, err := vw.checkForUpdates()
	if err == nil && changed {
		var keys []string
		keys, err = secret.StringSlice("keys", vw.secretPath)
		if err == nil && len(keys) == 0 {
			err = fmt.Errorf("secret at %s has no API keys, keeping current keys", vw.secretPath)
		}
		if err == nil {
			vw.onRotate(keys)
			vw.mu.Lock()
			vw.rotations++
			vw.mu.Unlock()
			if vw.logger != nil {
				vw.logger.Info("API keys rotated from Vault", "count", len(keys), "version", secret.Version)
			}
		}
	}

	vw.mu.Lock()
	if err != nil {
		vw.lastError = err.Error()
	} else {
		vw.lastError = ""
	}
	vw.mu.Unlock()
	return err
}

// checkForUpdates reads the secret and reports whether its version is newer
// than the last one applied
func (vw *VaultWatcher) checkForUpdates() (*config.VaultSecret, bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil {
		return nil, false, fmt.Errorf("secret not found at %s", vw.secretPath)
	}

	vw.mu.Lock()
	defer vw.mu.Unlock()
	if secret.Version > vw.lastVersion {
		vw.lastVersion = secret.Version
		return secret, true, nil
	}
	return secret, false, nil
}

// Status returns the current status of the VaultWatcher for health reporting
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	status := map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
		"rotations":     vw.rotations,
	}
	if vw.lastError != "" {
		status["last_error"] = vw.lastError
	}
	return status
}
