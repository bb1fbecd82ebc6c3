package editor

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrSelectionMismatch is returned when a replacement does not line up with
// the current selections.
var ErrSelectionMismatch = errors.New("selection count mismatch")

// Edit is one applied replacement, with offsets valid at the moment it was
// applied.
type Edit struct {
	A    int    `json:"a"`
	B    int    `json:"b"`
	Text string `json:"text"`
}

// Buffer is an in-memory View. It records every edit so a remote host can
// replay them.
type Buffer struct {
	text  []rune
	sel   []Region
	edits []Edit
}

// NewBuffer returns a buffer holding text with the given selections. Regions
// are clamped to the text and sorted by position; with no regions the buffer
// gets a single caret at the end.
func NewBuffer(text string, sel ...Region) *Buffer {
	b := &Buffer{text: []rune(text)}
	if len(sel) == 0 {
		sel = []Region{Caret(len(b.text))}
	}
	b.SetSelections(sel)
	return b
}

// Text returns the whole buffer.
func (b *Buffer) Text() string { return string(b.text) }

// Edits returns the edits applied so far, oldest first.
func (b *Buffer) Edits() []Edit { return slices.Clone(b.edits) }

func (b *Buffer) Selections() []Region { return slices.Clone(b.sel) }

func (b *Buffer) Substr(r Region) string {
	lo, hi := b.clamp(r.Begin()), b.clamp(r.End())
	return string(b.text[lo:hi])
}

// SetSelections clamps regions to the text, sorts them by position and
// merges the ones that overlap or start at the same point. Regions that only
// touch stay separate. A merged region runs forwards.
func (b *Buffer) SetSelections(regions []Region) {
	sel := make([]Region, len(regions))
	for i, r := range regions {
		sel[i] = Region{A: b.clamp(r.A), B: b.clamp(r.B)}
	}
	sort.SliceStable(sel, func(i, j int) bool {
		if sel[i].Begin() != sel[j].Begin() {
			return sel[i].Begin() < sel[j].Begin()
		}
		return sel[i].End() < sel[j].End()
	})

	merged := sel[:0]
	for _, r := range sel {
		if n := len(merged); n > 0 {
			last := merged[n-1]
			if r.Begin() < last.End() || r.Begin() == last.Begin() {
				merged[n-1] = Region{A: last.Begin(), B: max(last.End(), r.End())}
				continue
			}
		}
		merged = append(merged, r)
	}
	b.sel = merged
}

// ReplaceSelections applies the replacements back to front so earlier offsets
// stay valid, then shifts the selections to cover the inserted texts.
func (b *Buffer) ReplaceSelections(texts []string) error {
	if len(texts) != len(b.sel) {
		return fmt.Errorf("%d texts for %d selections: %w", len(texts), len(b.sel), ErrSelectionMismatch)
	}
	for i := len(b.sel) - 1; i >= 0; i-- {
		r := b.sel[i]
		repl := []rune(texts[i])
		b.text = slices.Replace(b.text, r.Begin(), r.End(), repl...)
		b.edits = append(b.edits, Edit{A: r.Begin(), B: r.End(), Text: texts[i]})
	}
	shift := 0
	for i, r := range b.sel {
		begin := r.Begin() + shift
		n := len([]rune(texts[i]))
		b.sel[i] = Region{A: begin, B: begin + n}
		shift += n - r.Len()
	}
	return nil
}

func (b *Buffer) clamp(pt int) int {
	return max(0, min(pt, len(b.text)))
}
