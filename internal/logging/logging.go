// Package logging configures the global slog logger for clipring binaries.
// Logs always go to stderr-like writers: stdout belongs to the host protocol.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Format selects the log output format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format, returning FormatAuto for unknown values.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text", "tint", "human":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// Config describes the logger to build.
type Config struct {
	Format Format
	// Level is parsed with slog.Level.UnmarshalText. Empty picks debug for
	// interactive runs and info otherwise.
	Level       string
	Interactive bool
	Output      io.Writer
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// level resolves the configured level.
func (c Config) level() slog.Level {
	if c.Level == "" {
		if c.Interactive {
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// New builds a logger: tinter for terminals or FormatText, JSON otherwise.
func New(c Config) *slog.Logger {
	w := c.Output
	if w == nil {
		w = os.Stderr
	}
	level := c.level()

	var h slog.Handler
	if c.Format == FormatText || (c.Format == FormatAuto && IsTTY(w)) {
		h = tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.New(h)
}

// Setup installs New(c) as the default logger. Call once after flag parsing.
func Setup(c Config) {
	slog.SetDefault(New(c))
}

// Preview shortens s to at most n runes for log output.
func Preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
