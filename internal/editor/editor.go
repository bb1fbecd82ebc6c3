// Package editor describes the host editor surface the clipboard commands work
// against: the selections of a view, its text, and the message/choice UI.
package editor

// Region is a selection span in code-point offsets. A may be after B when the
// selection was made backwards.
type Region struct {
	A int `json:"a"`
	B int `json:"b"`
}

// Caret returns an empty region at pt.
func Caret(pt int) Region { return Region{A: pt, B: pt} }

func (r Region) Begin() int  { return min(r.A, r.B) }
func (r Region) End() int    { return max(r.A, r.B) }
func (r Region) Len() int    { return r.End() - r.Begin() }
func (r Region) Empty() bool { return r.A == r.B }

// View is a text view with one or more selections.
type View interface {
	// Selections returns the selection regions in document order.
	Selections() []Region

	// Substr returns the text covered by r.
	Substr(r Region) string

	// ReplaceSelections replaces the text of every selection with the
	// corresponding entry of texts in a single edit. len(texts) must equal the
	// number of selections. Afterwards each selection covers its new text.
	ReplaceSelections(texts []string) error

	// SetSelections replaces the selection set.
	SetSelections(regions []Region)
}

// Choice is one entry of a choice list.
type Choice struct {
	// Nth is the rank to hand back to paste when this choice is picked.
	Nth        int    `json:"nth"`
	Sign       string `json:"sign"`
	Applicable bool   `json:"applicable"`
	Trigger    string `json:"trigger"`
	Annotation string `json:"annotation"`
}

// UI is the host's messaging and choice surface.
type UI interface {
	// Status shows a transient status-bar message.
	Status(msg string)

	// Error shows an error dialog.
	Error(msg string)

	// Console writes to the diagnostic console.
	Console(msg string)

	// ShowChoices presents choices and calls onSelect with the picked index,
	// or -1 when dismissed. Hosts that cannot call back synchronously may
	// return without calling onSelect at all.
	ShowChoices(placeholder string, choices []Choice, onSelect func(idx int))
}
