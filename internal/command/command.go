// Package command maps the clipring operations (clear, copy, cut, debug,
// paste) onto the clipboard store, reading from and writing to a host view.
//
// Every failure is reported to the user through the host UI and ends the
// command; nothing is returned to the caller and the store is left as it was.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"go.klb.dev/clipring/internal/clip"
	"go.klb.dev/clipring/internal/clipboard"
	"go.klb.dev/clipring/internal/editor"
	"go.klb.dev/clipring/internal/logging"
	"go.klb.dev/clipring/internal/settings"
)

// Name prefixes every user-visible message.
const Name = "clipring"

// Operation names one of the dispatcher's commands.
type Operation string

const (
	OpClear Operation = "clear"
	OpCopy  Operation = "copy"
	OpCut   Operation = "cut"
	OpDebug Operation = "debug"
	OpPaste Operation = "paste"
)

// ErrUnknownOperation is returned by ParseOperation for names outside the set.
var ErrUnknownOperation = errors.New("unknown operation")

// ParseOperation validates name.
func ParseOperation(name string) (Operation, error) {
	switch op := Operation(name); op {
	case OpClear, OpCopy, OpCut, OpDebug, OpPaste:
		return op, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownOperation)
}

// Settings supplies the current settings snapshot.
type Settings interface {
	Values() settings.Values
}

// Dispatcher runs operations against one clipboard.
type Dispatcher struct {
	clipboard *clipboard.Clipboard
	settings  Settings
	system    clip.Backend
}

// New returns a dispatcher. system may be nil when the OS clipboard is not
// wanted at all.
func New(cb *clipboard.Clipboard, s Settings, system clip.Backend) *Dispatcher {
	return &Dispatcher{clipboard: cb, settings: s, system: system}
}

// Run executes the named operation.
func (d *Dispatcher) Run(v editor.View, ui editor.UI, name string, args Args) {
	op, err := ParseOperation(name)
	if err != nil {
		slog.Warn("rejected operation", "operation", name)
		ui.Error(message("Unknown operation: " + name))
		return
	}
	slog.Debug("operation", "operation", op, "selections", len(v.Selections()))

	switch op {
	case OpCopy, OpCut:
		d.copyOrCut(v, ui, op)
	case OpPaste:
		d.pasteMenu(v, ui, args)
	case OpClear:
		d.clipboard.Clear()
		ui.Status(message("All items have been deleted!"))
	case OpDebug:
		d.debug(ui)
	}
}

func (d *Dispatcher) copyOrCut(v editor.View, ui editor.UI, op Operation) {
	sel := v.Selections()
	if len(sel) < 1 {
		return
	}

	texts := make([]string, len(sel))
	anyText := false
	for i, r := range sel {
		texts[i] = v.Substr(r)
		anyText = anyText || texts[i] != ""
	}
	if !anyText {
		ui.Status(message("No valid text..."))
		return
	}

	res := d.clipboard.AddTexts(texts)
	logTexts(string(op), res, texts)
	d.mirror(texts)

	if op == OpCopy {
		ui.Status(message("Text copied!"))
		return
	}
	if err := v.ReplaceSelections(make([]string, len(sel))); err != nil {
		slog.Error("cut: clearing selections failed", "err", err)
		ui.Error(message("Failed to cut the selected text"))
		return
	}
	ui.Status(message("Text cut!"))
}

// mirror copies the captured text to the OS clipboard when enabled.
func (d *Dispatcher) mirror(texts []string) {
	if d.system == nil || !d.settings.Values().MirrorSystem {
		return
	}
	if err := d.system.Write(strings.Join(texts, "\n")); err != nil {
		slog.Warn("system clipboard write failed", "backend", d.system.Name(), "err", err)
	}
}

// Capture adds text that was copied outside the editor as a single-fragment
// item.
func (d *Dispatcher) Capture(text string) {
	if text == "" {
		return
	}
	res := d.clipboard.AddTexts([]string{text})
	logTexts("capture", res, []string{text})
}

func (d *Dispatcher) debug(ui editor.UI) {
	out, err := yaml.Marshal(d.clipboard.State())
	if err != nil {
		slog.Error("debug dump failed", "err", err)
		ui.Error(message("Failed to dump the clipboard"))
		return
	}
	ui.Console(message("Clipboard information:\n" + string(out)))
}

func message(msg string) string {
	return "[" + Name + "] " + msg
}

// logTexts logs a clipboard event at INFO and text previews at DEBUG.
func logTexts(event string, res clipboard.AddResult, texts []string) {
	slog.Info(event, "result", res.String(), "fragments", len(texts))

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for i, t := range texts {
		slog.Debug("clipboard fragment", "index", i, "preview", logging.Preview(t, 120))
	}
}
