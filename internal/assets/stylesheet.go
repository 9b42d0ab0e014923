// Package assets holds the dashboard stylesheet and reloads it when the file
// changes on disk.
package assets

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
)

// Builtin is the stylesheet path value that selects the embedded stylesheet.
const Builtin = "builtin"

// settleDelay absorbs the burst of events editors emit for one save.
const settleDelay = 150 * time.Millisecond

//go:embed default.css
var defaultCSS string

// Stylesheet is the CSS inlined into every dashboard page. Safe for
// concurrent use; Watch swaps the contents in place.
type Stylesheet struct {
	mu   sync.RWMutex
	css  string
	etag string

	path   string
	logger *slog.Logger
}

// Load reads the stylesheet at path, or the embedded one for Builtin.
func Load(path string, logger *slog.Logger) (*Stylesheet, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Stylesheet{path: path, logger: logger}
	if path == Builtin {
		s.set(defaultCSS)
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// CSS returns the current stylesheet verbatim.
func (s *Stylesheet) CSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.css
}

// ETag returns a strong validator for the current contents.
func (s *Stylesheet) ETag() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.etag
}

// Path returns the file the stylesheet was read from.
func (s *Stylesheet) Path() string {
	return s.path
}

// Reload rereads the file. On failure the previous contents are kept.
func (s *Stylesheet) Reload() error {
	if s.path == Builtin {
		return nil
	}
	data, err := os.ReadFile(s.path) //#nosec G304 -- stylesheet path comes from configuration
	if err != nil {
		return domainerrors.SourceMissingf(err, "read stylesheet %s", s.path)
	}
	s.set(string(data))
	return nil
}

func (s *Stylesheet) set(css string) {
	sum := sha256.Sum256([]byte(css))
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	s.mu.Lock()
	s.css = css
	s.etag = etag
	s.mu.Unlock()
}

// Watch reloads the stylesheet whenever its file is written or replaced,
// until ctx is canceled. The parent directory is watched so editors that
// save by rename are seen too.
func (s *Stylesheet) Watch(ctx context.Context) error {
	if s.path == Builtin {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(s.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	s.logger.Debug("watching stylesheet", "path", target)

	var settle *time.Timer
	reload := make(chan struct{}, 1)
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if settle != nil {
				settle.Stop()
			}
			settle = time.AfterFunc(settleDelay, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			if err := s.Reload(); err != nil {
				s.logger.Warn("stylesheet reload failed", "path", target, "error", err)
				continue
			}
			s.logger.Info("stylesheet reloaded", "path", target, "etag", s.ETag())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("stylesheet watcher error", "error", err)
		}
	}
}
