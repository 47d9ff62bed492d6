package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hireall/internal/ats"
	"hireall/internal/errors"
	"hireall/internal/observability"

	"github.com/fsnotify/fsnotify"
)

// LexiconWatcher reloads the scorer's lexicon when its override file changes
type LexiconWatcher struct {
	mu sync.RWMutex

	file   string
	scorer *ats.Scorer

	lastModTime time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	om     *observability.ObservabilityManager
	logger *errors.Logger

	running      bool
	reloadCount  int64
	failureCount int64
	lastReload   time.Time
	lastError    string
}

// NewLexiconWatcher creates a watcher for file that swaps reloaded lexicons into scorer
func NewLexiconWatcher(file string, scorer *ats.Scorer, debounceDelay time.Duration, om *observability.ObservabilityManager, logger *errors.Logger) *LexiconWatcher {
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}

	return &LexiconWatcher{
		file:          file,
		scorer:        scorer,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		om:            om,
		logger:        logger,
	}
}

// Start begins watching the lexicon file
func (lw *LexiconWatcher) Start() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.running {
		return fmt.Errorf("lexicon watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if stat, err := os.Stat(lw.file); err == nil {
		lw.lastModTime = stat.ModTime()
	} else if !os.IsNotExist(err) {
		lw.closeWatcher(watcher)
		return fmt.Errorf("failed to stat lexicon file %s: %w", lw.file, err)
	}

	// Watch the directory so rename-based replacements are seen
	dir := filepath.Dir(lw.file)
	if err := watcher.Add(dir); err != nil {
		lw.closeWatcher(watcher)
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	lw.fsWatcher = watcher
	lw.running = true
	go lw.watchLoop(watcher)

	if lw.logger != nil {
		lw.logger.Info("Lexicon file watcher started",
			"file", lw.file,
			"debounce_delay", lw.debounceDelay)
	}
	return nil
}

func (lw *LexiconWatcher) closeWatcher(w *fsnotify.Watcher) {
	if err := w.Close(); err != nil && lw.logger != nil {
		lw.logger.LogError(err, "Failed to close file watcher during cleanup")
	}
}

// Stop stops the watcher
func (lw *LexiconWatcher) Stop() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if !lw.running {
		return nil
	}

	close(lw.stopChan)
	if lw.debounceTimer != nil {
		lw.debounceTimer.Stop()
	}
	lw.running = false

	if err := lw.fsWatcher.Close(); err != nil {
		if lw.logger != nil {
			lw.logger.LogError(err, "Failed to close file system watcher")
		}
		return err
	}

	if lw.logger != nil {
		lw.logger.Info("Lexicon file watcher stopped")
	}
	return nil
}

func (lw *LexiconWatcher) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if lw.shouldProcessEvent(event) {
				lw.scheduleReload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if lw.logger != nil {
				lw.logger.LogError(err, "File watcher error")
			}

		case <-lw.reloadChan:
			if lw.hasFileChanged() {
				lw.Reload()
			}

		case <-lw.stopChan:
			return
		}
	}
}

func (lw *LexiconWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(lw.file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// hasFileChanged compares the file's mtime with the last seen one
func (lw *LexiconWatcher) hasFileChanged() bool {
	stat, err := os.Stat(lw.file)
	if err != nil {
		return false
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()
	if stat.ModTime().Equal(lw.lastModTime) {
		return false
	}
	lw.lastModTime = stat.ModTime()
	return true
}

func (lw *LexiconWatcher) scheduleReload() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.debounceTimer != nil {
		lw.debounceTimer.Stop()
	}

	lw.debounceTimer = time.AfterFunc(lw.debounceDelay, func() {
		select {
		case lw.reloadChan <- struct{}{}:
		default:
		}
	})
}

// Reload loads the lexicon file and swaps it into the scorer. A file that
// fails to load or validate leaves the current lexicon in place.
func (lw *LexiconWatcher) Reload() error {
	ctx := context.Background()

	lex, err := ats.LoadLexiconFile(lw.file)
	if err == nil {
		err = lw.scorer.SetLexicon(lex)
	}

	lw.mu.Lock()
	lw.lastReload = time.Now()
	if err != nil {
		lw.failureCount++
		lw.lastError = err.Error()
	} else {
		lw.reloadCount++
		lw.lastError = ""
	}
	lw.mu.Unlock()

	lw.om.GetMetrics().RecordLexiconReload(ctx, err == nil, lw.om)

	if err != nil {
		if lw.logger != nil {
			lw.logger.LogError(err, "Lexicon reload failed, keeping previous lexicon", "file", lw.file)
		}
		return err
	}

	if lw.logger != nil {
		lw.logger.Info("Lexicon reloaded", "file", lw.file, "industries", len(lex.Industries))
	}
	return nil
}

// IsRunning returns whether the watcher is currently running
func (lw *LexiconWatcher) IsRunning() bool {
	lw.mu.RLock()
	defer lw.mu.RUnlock()
	return lw.running
}

// Status returns the watcher state for health reporting
func (lw *LexiconWatcher) Status() map[string]any {
	lw.mu.RLock()
	defer lw.mu.RUnlock()

	status := map[string]any{
		"running":        lw.running,
		"file":           lw.file,
		"reload_count":   lw.reloadCount,
		"failure_count":  lw.failureCount,
		"debounce_delay": lw.debounceDelay.String(),
	}
	if !lw.lastReload.IsZero() {
		status["last_reload"] = lw.lastReload.UTC().Format(time.RFC3339)
	}
	if lw.lastError != "" {
		status["last_error"] = lw.lastError
	}
	return status
}
