// Package app holds the per-session state: one clipboard, the settings it is
// configured from and the dispatcher that runs commands against it.
package app

import (
	"log/slog"

	"go.klb.dev/clipring/internal/clip"
	"go.klb.dev/clipring/internal/clipboard"
	"go.klb.dev/clipring/internal/command"
	"go.klb.dev/clipring/internal/settings"
)

// Settings is a settings source that announces reloads.
type Settings interface {
	Values() settings.Values
	Changes() <-chan struct{}
}

// Context is the state of one editor session. It is not safe for concurrent
// use; the session loop owns it.
type Context struct {
	Settings   Settings
	Clipboard  *clipboard.Clipboard
	System     clip.Backend
	Dispatcher *command.Dispatcher
}

// New builds a session context and applies the current settings. system may
// be nil.
func New(s Settings, system clip.Backend) *Context {
	cb := clipboard.New()
	c := &Context{
		Settings:   s,
		Clipboard:  cb,
		System:     system,
		Dispatcher: command.New(cb, s, system),
	}
	c.ApplySettings()
	return c
}

// ApplySettings pushes the settings the clipboard itself depends on. Other
// settings are read by the dispatcher on every command.
func (c *Context) ApplySettings() {
	capacity := c.Settings.Values().Capacity
	if capacity == c.Clipboard.Capacity() || (capacity <= 0 && !c.Clipboard.Bounded()) {
		return
	}
	c.Clipboard.SetCapacity(capacity)
	slog.Info("clipboard capacity set",
		"capacity", c.Clipboard.Capacity(),
		"capacity_real", c.Clipboard.RealCapacity(),
		"items", c.Clipboard.Len(),
	)
}

// Close releases the system clipboard.
func (c *Context) Close() {
	if c.System != nil {
		c.System.Close()
	}
}
