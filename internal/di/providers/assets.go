package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/streamdash/streamdash-server/internal/assets"
	"github.com/streamdash/streamdash-server/internal/config"
	"github.com/streamdash/streamdash-server/internal/logger"
)

// StylesheetHandle wraps the stylesheet and stops its file watcher on
// shutdown.
type StylesheetHandle struct {
	*assets.Stylesheet
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *StylesheetHandle) Shutdown() error {
	if h.cancel == nil {
		return nil
	}
	h.cancel()
	<-h.done
	return nil
}

// ProvideStylesheet loads the dashboard stylesheet and, when configured,
// watches it for changes.
func ProvideStylesheet(i do.Injector) (*StylesheetHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := cfg.Assets.StylesheetPath
	if path == config.Builtin {
		path = assets.Builtin
	}

	sheet, err := assets.Load(path, log.Component("assets").Logger)
	if err != nil {
		return nil, err
	}

	handle := &StylesheetHandle{Stylesheet: sheet}
	if !cfg.Assets.Watch || path == assets.Builtin {
		return handle, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	handle.cancel = cancel
	handle.done = make(chan struct{})
	go func() {
		defer close(handle.done)
		if err := sheet.Watch(ctx); err != nil {
			log.Warn("Stylesheet watcher stopped", "error", err)
		}
	}()
	log.Info("Watching stylesheet for changes", "path", path)

	return handle, nil
}
