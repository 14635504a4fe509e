package session

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Kiran-879/ResumePilot/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// TokenWatcher observes the token file used by the file storage backend so a
// long-running watch session notices a logout (or re-login) performed by
// another process sharing the same token file.
type TokenWatcher struct {
	manager       *Manager
	path          string
	debounceDelay time.Duration
	logger        *errors.Logger
}

// NewTokenWatcher creates a watcher for the token file at path.
func NewTokenWatcher(manager *Manager, path string, debounceDelay time.Duration, logger *errors.Logger) *TokenWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}
	return &TokenWatcher{
		manager:       manager,
		path:          path,
		debounceDelay: debounceDelay,
		logger:        logger,
	}
}

// Run watches until ctx is canceled. Removal of the token file ends the
// session; a rewrite reloads the token in place.
func (tw *TokenWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to create token file watcher", err)
	}
	defer func() {
		if cerr := watcher.Close(); cerr != nil && tw.logger != nil {
			tw.logger.LogError(cerr, "Failed to close token file watcher")
		}
	}()

	// Watch the directory: the file store replaces the token via rename, and
	// logout removes the file entirely, so the file's own watch would break.
	if err := watcher.Add(filepath.Dir(tw.path)); err != nil {
		return errors.NewIOError(errors.ErrCodeTokenStore, "Failed to watch token directory", err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(tw.path) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(tw.debounceDelay, tw.syncFromStore)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if tw.logger != nil {
				tw.logger.Warn("Token file watcher error", "error", werr)
			}
		}
	}
}

// syncFromStore reconciles in-memory session state with the token file.
func (tw *TokenWatcher) syncFromStore() {
	token, err := tw.manager.store.Load()
	if err != nil {
		if tw.logger != nil {
			tw.logger.LogError(err, "Failed to reload token after file change")
		}
		return
	}

	current := tw.manager.Token()
	switch {
	case token == "" && current != "":
		if tw.logger != nil {
			tw.logger.Info("Token removed by another process, ending session")
		}
		tw.manager.setAnonymous("Logged out in another session.")
	case token != "" && token != current:
		if tw.logger != nil {
			tw.logger.Info("Token replaced by another process, adopting it")
		}
		tw.manager.mu.Lock()
		tw.manager.token = token
		tw.manager.mu.Unlock()
	}
}
