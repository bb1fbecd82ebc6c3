package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"go.klb.dev/clipring/internal/clipboard"
	"go.klb.dev/clipring/internal/editor"
)

const placeholder = "Choose the text to be pasted..."

// Args carries the paste arguments. Only paste reads them.
//
// In JSON, a missing "nth" opens the choice menu, "nth": null means the menu
// was dismissed, and an integer pastes that rank of the live view (negative
// counts from the newest item).
type Args struct {
	NthSet  bool
	Nth     *int
	Promote *bool
	// Filter narrows the menu to choices fuzzy-matching it.
	Filter string
}

// WithNth returns Args that paste rank n directly.
func WithNth(n int) Args { return Args{NthSet: true, Nth: &n} }

// Dismissed returns Args for a menu closed without a pick.
func Dismissed() Args { return Args{NthSet: true} }

func (a *Args) UnmarshalJSON(b []byte) error {
	var raw struct {
		Nth     json.RawMessage `json:"nth"`
		Promote *bool           `json:"promote_pasted_item"`
		Filter  string          `json:"filter"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("paste args: %w", err)
	}
	*a = Args{Promote: raw.Promote, Filter: raw.Filter}
	if raw.Nth == nil {
		return nil
	}
	a.NthSet = true
	if bytes.Equal(raw.Nth, []byte("null")) {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw.Nth, &n); err != nil {
		return fmt.Errorf("paste args: nth: %w", err)
	}
	a.Nth = &n
	return nil
}

func (a Args) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	if a.NthSet {
		m["nth"] = a.Nth
	}
	if a.Promote != nil {
		m["promote_pasted_item"] = *a.Promote
	}
	if a.Filter != "" {
		m["filter"] = a.Filter
	}
	return json.Marshal(m)
}

// pasteMenu offers the live items newest first, or pastes directly when a
// rank was given.
func (d *Dispatcher) pasteMenu(v editor.View, ui editor.UI, args Args) {
	if args.NthSet {
		d.Paste(v, ui, args)
		return
	}

	choices := d.Choices(len(v.Selections()))
	if args.Filter != "" {
		choices = filterChoices(choices, args.Filter)
	}
	ui.ShowChoices(placeholder, choices, func(idx int) {
		next := args
		next.NthSet = true
		next.Nth = nil
		if idx >= 0 && idx < len(choices) {
			n := choices[idx].Nth
			next.Nth = &n
		}
		d.Paste(v, ui, next)
	})
}

// Choices lists the live items newest first, marked for selCount carets.
func (d *Dispatcher) Choices(selCount int) []editor.Choice {
	vals := d.settings.Values()
	live := d.clipboard.Sorted(clipboard.View{})
	choices := make([]editor.Choice, 0, len(live))
	for i := len(live) - 1; i >= 0; i-- {
		it := live[i]
		c := editor.Choice{
			Nth:        i,
			Applicable: it.AppliesTo(selCount),
			Trigger:    it.Join(vals.Delimiter),
			Annotation: fmt.Sprintf("(carets = %d)", it.Len()),
		}
		if c.Applicable {
			c.Sign = vals.SignApplicable
		} else {
			c.Sign = vals.SignInapplicable
		}
		choices = append(choices, c)
	}
	return choices
}

// filterChoices keeps the choices whose trigger fuzzy-matches pattern, in
// their original order.
func filterChoices(choices []editor.Choice, pattern string) []editor.Choice {
	triggers := make([]string, len(choices))
	for i, c := range choices {
		triggers[i] = c.Trigger
	}
	keep := make(map[int]bool)
	for _, m := range fuzzy.Find(pattern, triggers) {
		keep[m.Index] = true
	}
	out := choices[:0:0]
	for i, c := range choices {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}

// Paste writes a stored item into the view's selections. Without a rank it
// pastes the newest item.
func (d *Dispatcher) Paste(v editor.View, ui editor.UI, args Args) {
	if args.NthSet && args.Nth == nil {
		return
	}
	nth := -1
	if args.Nth != nil {
		nth = *args.Nth
	}
	promote := d.settings.Values().PromotePasted
	if args.Promote != nil {
		promote = *args.Promote
	}

	if d.clipboard.Len() == 0 {
		ui.Status(message("Clipboard is empty..."))
		return
	}

	it, err := d.clipboard.Nth(nth)
	if err != nil {
		slog.Debug("paste out of range", "err", err)
		ui.Status(message(fmt.Sprintf("Paste `nth` out of bound: %d", nth)))
		return
	}

	sel := v.Selections()
	if !it.AppliesTo(len(sel)) {
		ui.Error(message("Numbers of selections mismatched..."))
		return
	}

	texts := it.Texts()
	out := make([]string, len(sel))
	if len(sel) == 1 {
		out[0] = strings.Join(texts, "\n")
	} else {
		for i := range out {
			out[i] = texts[i%len(texts)]
		}
	}
	if err := v.ReplaceSelections(out); err != nil {
		slog.Error("paste failed", "err", err)
		ui.Error(message("Failed to paste"))
		return
	}

	written := v.Selections()
	carets := make([]editor.Region, len(written))
	for i, r := range written {
		carets[i] = editor.Caret(r.End())
	}
	v.SetSelections(carets)

	slog.Info("paste", "nth", nth, "fragments", it.Len(), "selections", len(sel), "promote", promote)
	if promote {
		d.clipboard.Promote(texts)
	}
}
