// Package settings exposes the clipring settings as typed values read from a
// viper instance, and signals when the backing config file changes.
package settings

import (
	"log/slog"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Keys understood in the config file (and as CLIPRING_<KEY> env vars).
const (
	KeyCapacity         = "clipboard_capacity"
	KeySignApplicable   = "sign_item_applicable"
	KeySignInapplicable = "sign_item_inapplicable"
	KeyDelimiter        = "caret_texts_delimiter"
	KeyPromotePasted    = "promote_pasted_item"
	KeyMirrorSystem     = "mirror_system_clipboard"
	KeyCaptureSystem    = "capture_system_clipboard"
)

// Values is one consistent snapshot of the settings.
type Values struct {
	Capacity         int    `yaml:"clipboard_capacity"`
	SignApplicable   string `yaml:"sign_item_applicable"`
	SignInapplicable string `yaml:"sign_item_inapplicable"`
	Delimiter        string `yaml:"caret_texts_delimiter"`
	PromotePasted    bool   `yaml:"promote_pasted_item"`
	MirrorSystem     bool   `yaml:"mirror_system_clipboard"`
	CaptureSystem    bool   `yaml:"capture_system_clipboard"`
}

// Defaults returns the built-in settings.
func Defaults() Values {
	return Values{
		Capacity:         30,
		SignApplicable:   "✓",
		SignInapplicable: "✗",
		Delimiter:        " ⏎ ",
	}
}

// Values lets a plain snapshot stand in wherever a live Store is expected.
func (v Values) Values() Values { return v }

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyCapacity, d.Capacity)
	v.SetDefault(KeySignApplicable, d.SignApplicable)
	v.SetDefault(KeySignInapplicable, d.SignInapplicable)
	v.SetDefault(KeyDelimiter, d.Delimiter)
	v.SetDefault(KeyPromotePasted, d.PromotePasted)
	v.SetDefault(KeyMirrorSystem, d.MirrorSystem)
	v.SetDefault(KeyCaptureSystem, d.CaptureSystem)
}

// Read takes a snapshot of v.
func Read(v *viper.Viper) Values {
	return Values{
		Capacity:         v.GetInt(KeyCapacity),
		SignApplicable:   v.GetString(KeySignApplicable),
		SignInapplicable: v.GetString(KeySignInapplicable),
		Delimiter:        v.GetString(KeyDelimiter),
		PromotePasted:    v.GetBool(KeyPromotePasted),
		MirrorSystem:     v.GetBool(KeyMirrorSystem),
		CaptureSystem:    v.GetBool(KeyCaptureSystem),
	}
}

// Store serves the current snapshot and tracks config file changes.
type Store struct {
	v       *viper.Viper
	changes chan struct{}

	mu  sync.RWMutex
	cur Values
}

// New registers defaults on v and takes the first snapshot. v should already
// have read its config file.
func New(v *viper.Viper) *Store {
	SetDefaults(v)
	return &Store{
		v:       v,
		changes: make(chan struct{}, 1),
		cur:     Read(v),
	}
}

// Values returns the current snapshot.
func (s *Store) Values() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Changes returns a channel that receives a signal after the settings were
// reloaded. Signals coalesce; the channel is never closed.
func (s *Store) Changes() <-chan struct{} { return s.changes }

// Reload re-reads the viper instance and signals Changes.
func (s *Store) Reload() {
	next := Read(s.v)
	s.mu.Lock()
	prev := s.cur
	s.cur = next
	s.mu.Unlock()

	if prev != next {
		slog.Debug("settings reloaded", "capacity", next.Capacity)
	}
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Watch starts watching the config file in use, if any. It reports whether a
// watch was started.
func (s *Store) Watch() bool {
	file := s.v.ConfigFileUsed()
	if file == "" {
		return false
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("settings file changed", "file", e.Name, "op", e.Op.String())
		s.Reload()
	})
	s.v.WatchConfig()
	slog.Debug("watching settings", "file", file)
	return true
}
