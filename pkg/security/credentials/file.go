package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileSource reads a credential from a file.
//
// This supports Kubernetes-style secret mounting where the credential is
// stored as a single file. File permissions are validated to ensure the
// credential is properly protected (0600 or 0400 only).
//
// The source can optionally watch the file and automatically reload the
// credential when it is rewritten, which covers rotated service account
// tokens without client reconstruction.
type FileSource struct {
	Path  string // Credential file path
	Watch bool   // Enable file watching for auto-reload

	mu      sync.RWMutex
	cached  string
	loaded  bool
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// NewFileSource creates a file-backed credential source.
//
// If watch is enabled, the source monitors the file's directory and
// refreshes the cached value when the file is modified or replaced.
func NewFileSource(path string, watch bool) (*FileSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat credential file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("credential path is not a regular file: %s", path)
	}

	s := &FileSource{
		Path:   path,
		Watch:  watch,
		stopCh: make(chan struct{}),
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("failed to create file watcher: %w", err)
		}

		// Watch the parent directory so atomic replace (write to temp,
		// rename over the file) is still observed.
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			_ = watcher.Close() // Best effort close on error path
			return nil, fmt.Errorf("failed to watch directory: %w", err)
		}

		s.watcher = watcher
		go s.watchLoop()

		slog.Info("file-based credential source started with watching",
			"path", path,
		)
	}

	return s, nil
}

// Credential returns the credential read from the file.
//
// File permissions are validated to be 0600 or 0400 before reading.
// This prevents accidental exposure through overly permissive modes.
// The value is cached until the file changes (when watching) or
// Refresh is called.
func (s *FileSource) Credential(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.loaded {
		value := s.cached
		s.mu.RUnlock()
		return value, nil
	}
	s.mu.RUnlock()

	info, err := os.Stat(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("credential file not found: %s", s.Path)
		}
		return "", fmt.Errorf("failed to stat credential file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("credential path is not a regular file: %s", s.Path)
	}

	// Validate permissions (must be 0600 or 0400)
	mode := info.Mode().Perm()
	if mode != 0600 && mode != 0400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", s.Path, mode)
	}

	// #nosec G304 - Path is fixed at construction time
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read credential file: %w", err)
	}

	// Trim whitespace (common for file-based credentials)
	value := strings.TrimSpace(string(data))

	s.mu.Lock()
	s.cached = value
	s.loaded = true
	s.mu.Unlock()

	return value, nil
}

// Name returns the source name.
func (s *FileSource) Name() string {
	return "file"
}

// Refresh clears the cached value, forcing a re-read on the next call.
func (s *FileSource) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = ""
	s.loaded = false
}

// Close stops the file watcher and cleans up resources.
func (s *FileSource) Close() error {
	if s.watcher != nil {
		close(s.stopCh)
		return s.watcher.Close()
	}
	return nil
}

// watchLoop monitors the directory for changes to the credential file
// and invalidates the cache when it is rewritten.
func (s *FileSource) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only react to changes of our file
			if filepath.Clean(event.Name) != filepath.Clean(s.Path) {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Create == fsnotify.Create {

				slog.Debug("credential file changed, invalidating cache",
					"path", s.Path,
					"op", event.Op.String(),
				)

				s.Refresh()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}

			slog.Error("credential file watcher error", "error", err)

		case <-s.stopCh:
			return
		}
	}
}
