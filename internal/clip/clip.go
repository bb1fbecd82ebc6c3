// Package clip connects clipring to the operating system clipboard through
// golang.design/x/clipboard. When no display is available (headless hosts,
// CGO_ENABLED=0 builds) New falls back to a no-op backend.
package clip

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"golang.design/x/clipboard"
)

// Backend is the system clipboard as clipring sees it: plain text only.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Read returns the current clipboard text, or "" if it holds no text.
	Read() (string, error)

	// Write replaces the clipboard text.
	Write(text string) error

	// Watch returns a channel that receives clipboard text set by other
	// applications. Text written through Write is not echoed back. The
	// channel is never closed.
	Watch() <-chan string

	// Close stops watching and releases resources.
	Close()
}

type systemBackend struct {
	cancel  context.CancelFunc
	watchCh chan string

	mu          sync.Mutex
	lastWritten []byte
}

// New returns the system clipboard backend, or a headless one if the
// clipboard cannot be initialised. Init runs here rather than in init() so
// commands that never touch the clipboard don't pay for it.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("system clipboard unavailable, running headless", "err", err)
		return newHeadless()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &systemBackend{
		cancel:  cancel,
		watchCh: make(chan string, 1),
	}
	go b.forward(clipboard.Watch(ctx, clipboard.FmtText))
	return b
}

func (b *systemBackend) Name() string { return "system clipboard" }

func (b *systemBackend) Read() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (b *systemBackend) Write(text string) error {
	data := []byte(text)
	b.mu.Lock()
	b.lastWritten = data
	b.mu.Unlock()
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

func (b *systemBackend) Watch() <-chan string { return b.watchCh }

func (b *systemBackend) Close() { b.cancel() }

// forward relays changes from the library watcher, dropping our own writes.
// A full channel drops the older pending text.
func (b *systemBackend) forward(in <-chan []byte) {
	for data := range in {
		b.mu.Lock()
		own := bytes.Equal(data, b.lastWritten)
		b.mu.Unlock()
		if own || len(data) == 0 {
			continue
		}
		select {
		case b.watchCh <- string(data):
		default:
			select {
			case <-b.watchCh:
			default:
			}
			select {
			case b.watchCh <- string(data):
			default:
			}
		}
	}
}
