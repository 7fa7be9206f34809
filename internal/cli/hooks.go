package cli

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// loadHooks reports load progress to the active spinner and the debug log.
type loadHooks struct {
	logger *log.Logger

	mu      sync.Mutex
	spinner *Spinner
}

// attach directs progress to s until the returned func is called.
func (h *loadHooks) attach(s *Spinner) (detach func()) {
	h.mu.Lock()
	h.spinner = s
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		h.spinner = nil
		h.mu.Unlock()
	}
}

func (h *loadHooks) OnLoadStart(_ context.Context, root string) {
	h.logger.Debug("loading", "root", root)
}

func (h *loadHooks) OnFileDecoded(_ context.Context, key, path, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("decode failed", "key", key, "path", path, "format", format, "err", err)
		return
	}

	h.mu.Lock()
	if h.spinner != nil {
		h.spinner.Advance(key)
	}
	h.mu.Unlock()
}

func (h *loadHooks) OnLoadComplete(_ context.Context, root string, files int, d time.Duration, err error) {
	h.logger.Debug("load finished", "root", root, "files", files, "duration", d.Round(time.Millisecond), "ok", err == nil)
}
