package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipring/internal/clipboard"
	"go.klb.dev/clipring/internal/editor"
	"go.klb.dev/clipring/internal/settings"
)

type memBackend struct {
	written []string
	watchCh chan string
}

func (m *memBackend) Name() string { return "memory" }
func (m *memBackend) Read() (string, error) {
	if len(m.written) == 0 {
		return "", nil
	}
	return m.written[len(m.written)-1], nil
}
func (m *memBackend) Write(text string) error { m.written = append(m.written, text); return nil }
func (m *memBackend) Watch() <-chan string    { return m.watchCh }
func (m *memBackend) Close()                  {}

func newDispatcher(t *testing.T, capacity int, mutate ...func(*settings.Values)) (*Dispatcher, *clipboard.Clipboard, *memBackend) {
	t.Helper()
	vals := settings.Defaults()
	vals.Capacity = capacity
	for _, m := range mutate {
		m(&vals)
	}
	cb := clipboard.New(clipboard.WithCapacity(capacity))
	sys := &memBackend{watchCh: make(chan string)}
	return New(cb, vals, sys), cb, sys
}

func liveTexts(cb *clipboard.Clipboard) [][]string {
	var out [][]string
	for _, it := range cb.Sorted(clipboard.View{}) {
		out = append(out, it.Texts())
	}
	return out
}

func TestParseOperation(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"clear", "copy", "cut", "debug", "paste"} {
		op, err := ParseOperation(name)
		require.NoError(t, err)
		assert.Equal(t, Operation(name), op)
	}
	_, err := ParseOperation("Paste")
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestRunUnknownOperation(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	ui := &editor.Recorder{}
	d.Run(editor.NewBuffer("abc", editor.Region{A: 0, B: 3}), ui, "yank", Args{})

	assert.Equal(t, []string{"[clipring] Unknown operation: yank"}, ui.Errors)
	assert.Equal(t, 0, cb.Len())
}

func TestCopy(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	ui := &editor.Recorder{}
	buf := editor.NewBuffer("x y", editor.Region{A: 0, B: 1}, editor.Region{A: 2, B: 3})
	d.Run(buf, ui, "copy", Args{})

	assert.Equal(t, [][]string{{"x", "y"}}, liveTexts(cb))
	assert.Equal(t, []string{"[clipring] Text copied!"}, ui.Statuses)
	assert.Equal(t, "x y", buf.Text())
}

func TestCopyKeepsEmptyFragmentsWhenOneHasText(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	buf := editor.NewBuffer("x y", editor.Caret(0), editor.Region{A: 2, B: 3})
	d.Run(buf, &editor.Recorder{}, "copy", Args{})

	assert.Equal(t, [][]string{{"", "y"}}, liveTexts(cb))
}

func TestCopyAllEmpty(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	ui := &editor.Recorder{}
	d.Run(editor.NewBuffer("abc", editor.Caret(1), editor.Caret(2)), ui, "copy", Args{})

	assert.Equal(t, []string{"[clipring] No valid text..."}, ui.Statuses)
	assert.Equal(t, 0, cb.Len())
}

func TestCopyWithoutSelections(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	ui := &editor.Recorder{}
	buf := editor.NewBuffer("abc")
	buf.SetSelections(nil)
	d.Run(buf, ui, "copy", Args{})

	assert.Empty(t, ui.Statuses)
	assert.Equal(t, 0, cb.Len())
}

func TestCopyTwicePromotes(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("a b", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})
	d.Run(editor.NewBuffer("a b", editor.Region{A: 2, B: 3}), &editor.Recorder{}, "copy", Args{})
	d.Run(editor.NewBuffer("a b", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})

	assert.Equal(t, [][]string{{"b"}, {"a"}}, liveTexts(cb))
}

func TestCut(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	ui := &editor.Recorder{}
	buf := editor.NewBuffer("one two three", editor.Region{A: 0, B: 4}, editor.Region{A: 8, B: 13})
	d.Run(buf, ui, "cut", Args{})

	assert.Equal(t, [][]string{{"one ", "three"}}, liveTexts(cb))
	assert.Equal(t, "two ", buf.Text())
	assert.Equal(t, []string{"[clipring] Text cut!"}, ui.Statuses)
	assert.Equal(t, []editor.Region{editor.Caret(0), editor.Caret(4)}, buf.Selections())
}

func TestPasteRoundTrip(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("x y", editor.Region{A: 0, B: 1}, editor.Region{A: 2, B: 3}), &editor.Recorder{}, "copy", Args{})

	two := editor.NewBuffer("[] []", editor.Caret(1), editor.Caret(4))
	ui := &editor.Recorder{}
	d.Run(two, ui, "paste", WithNth(-1))
	assert.Empty(t, ui.Errors)
	assert.Equal(t, "[x] [y]", two.Text())
	assert.Equal(t, []editor.Region{editor.Caret(2), editor.Caret(6)}, two.Selections())

	one := editor.NewBuffer("")
	d.Paste(one, &editor.Recorder{}, Args{})
	assert.Equal(t, "x\ny", one.Text())
	assert.Equal(t, []editor.Region{editor.Caret(3)}, one.Selections())
}

func TestPasteReplacesSelectedText(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("new", editor.Region{A: 0, B: 3}), &editor.Recorder{}, "copy", Args{})

	buf := editor.NewBuffer("old text", editor.Region{A: 3, B: 0})
	d.Run(buf, &editor.Recorder{}, "paste", WithNth(-1))
	assert.Equal(t, "new text", buf.Text())
	assert.Equal(t, []editor.Region{editor.Caret(3)}, buf.Selections())
}

func TestPasteCyclesSingleFragment(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("a", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})

	buf := editor.NewBuffer("..", editor.Caret(0), editor.Caret(1), editor.Caret(2))
	d.Run(buf, &editor.Recorder{}, "paste", WithNth(0))
	assert.Equal(t, "a.a.a", buf.Text())
}

func TestPasteSelectionMismatch(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("ab", editor.Region{A: 0, B: 1}, editor.Region{A: 1, B: 2}), &editor.Recorder{}, "copy", Args{})
	maxOrder := cb.MaxOrder()

	ui := &editor.Recorder{}
	buf := editor.NewBuffer("...", editor.Caret(0), editor.Caret(1), editor.Caret(2))
	yes := true
	d.Run(buf, ui, "paste", Args{NthSet: true, Nth: new(int), Promote: &yes})

	assert.Equal(t, []string{"[clipring] Numbers of selections mismatched..."}, ui.Errors)
	assert.Equal(t, "...", buf.Text())
	assert.Equal(t, maxOrder, cb.MaxOrder())
}

func TestPasteOutOfRange(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 2)
	for _, s := range []string{"a", "b", "c"} {
		d.Run(editor.NewBuffer(s, editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})
	}
	before := cb.State()

	ui := &editor.Recorder{}
	buf := editor.NewBuffer("")
	d.Run(buf, ui, "paste", WithNth(5))

	assert.Equal(t, []string{"[clipring] Paste `nth` out of bound: 5"}, ui.Statuses)
	assert.Equal(t, "", buf.Text())
	assert.Equal(t, before, cb.State())
}

func TestPasteEmptyClipboard(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	ui := &editor.Recorder{}
	d.Run(editor.NewBuffer(""), ui, "paste", WithNth(-1))
	assert.Equal(t, []string{"[clipring] Clipboard is empty..."}, ui.Statuses)
}

func TestPasteDismissed(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("a", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})

	ui := &editor.Recorder{}
	buf := editor.NewBuffer("")
	d.Run(buf, ui, "paste", Dismissed())
	assert.Equal(t, "", buf.Text())
	assert.Empty(t, ui.Statuses)
	assert.Empty(t, ui.Errors)
}

func TestPastePromotion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setting bool
		arg     *bool
		want    [][]string
	}{
		{"setting off", false, nil, [][]string{{"a"}, {"b"}}},
		{"setting on", true, nil, [][]string{{"b"}, {"a"}}},
		{"arg overrides setting", true, new(bool), [][]string{{"a"}, {"b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, cb, _ := newDispatcher(t, 5, func(v *settings.Values) { v.PromotePasted = tt.setting })
			d.Run(editor.NewBuffer("a", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})
			d.Run(editor.NewBuffer("b", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})

			args := WithNth(0)
			args.Promote = tt.arg
			d.Run(editor.NewBuffer(""), &editor.Recorder{}, "paste", args)
			assert.Equal(t, tt.want, liveTexts(cb))
		})
	}
}

func TestPasteMenu(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("ab", editor.Region{A: 0, B: 1}, editor.Region{A: 1, B: 2}), &editor.Recorder{}, "copy", Args{})
	d.Run(editor.NewBuffer("c", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})
	d.Run(editor.NewBuffer("d", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})

	buf := editor.NewBuffer("...", editor.Caret(0), editor.Caret(1), editor.Caret(2))
	ui := &editor.Recorder{Pick: func([]editor.Choice) int { return 1 }}
	d.Run(buf, ui, "paste", Args{})

	assert.Equal(t, "Choose the text to be pasted...", ui.Placeholder)
	assert.Equal(t, []editor.Choice{
		{Nth: 2, Sign: "✓", Applicable: true, Trigger: "d", Annotation: "(carets = 1)"},
		{Nth: 1, Sign: "✓", Applicable: true, Trigger: "c", Annotation: "(carets = 1)"},
		{Nth: 0, Sign: "✗", Applicable: false, Trigger: "a ⏎ b", Annotation: "(carets = 2)"},
	}, ui.Choices)
	assert.Equal(t, "c.c.c.", buf.Text())
}

func TestPasteMenuDismissed(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("a", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})

	buf := editor.NewBuffer("")
	ui := &editor.Recorder{Pick: func([]editor.Choice) int { return -1 }}
	d.Run(buf, ui, "paste", Args{})

	assert.Len(t, ui.Choices, 1)
	assert.Equal(t, "", buf.Text())
}

func TestPasteMenuWithoutCallback(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("a", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})

	buf := editor.NewBuffer("")
	ui := &editor.Recorder{}
	d.Run(buf, ui, "paste", Args{})

	require.Len(t, ui.Choices, 1)
	assert.Equal(t, 0, ui.Choices[0].Nth)
	assert.Equal(t, "", buf.Text())
}

func TestPasteMenuFilter(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 5)
	for _, s := range []string{"apple", "banana", "apricot"} {
		d.Run(editor.NewBuffer(s, editor.Region{A: 0, B: len(s)}), &editor.Recorder{}, "copy", Args{})
	}

	ui := &editor.Recorder{}
	d.Run(editor.NewBuffer(""), ui, "paste", Args{Filter: "ap"})

	var triggers []string
	for _, c := range ui.Choices {
		triggers = append(triggers, c.Trigger)
	}
	assert.Equal(t, []string{"apricot", "apple"}, triggers)
	assert.Equal(t, 2, ui.Choices[0].Nth)
	assert.Equal(t, 0, ui.Choices[1].Nth)
}

func TestClear(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	d.Run(editor.NewBuffer("a", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})

	ui := &editor.Recorder{}
	d.Run(editor.NewBuffer(""), ui, "clear", Args{})
	assert.Equal(t, 0, cb.Len())
	assert.Equal(t, []string{"[clipring] All items have been deleted!"}, ui.Statuses)
}

func TestDebug(t *testing.T) {
	t.Parallel()

	d, _, _ := newDispatcher(t, 2)
	for _, s := range []string{"a", "b", "c"} {
		d.Run(editor.NewBuffer(s, editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})
	}

	ui := &editor.Recorder{}
	d.Run(editor.NewBuffer(""), ui, "debug", Args{})
	require.Len(t, ui.ConsoleLines, 1)
	out := ui.ConsoleLines[0]
	assert.Contains(t, out, "[clipring] Clipboard information:")
	assert.Contains(t, out, "capacity: 2")
	assert.Contains(t, out, "capacity_real: 5")
	assert.Contains(t, out, "max_order: 3")
	assert.Contains(t, out, "living:")
	assert.Contains(t, out, "dead:")
}

func TestMirrorSystemClipboard(t *testing.T) {
	t.Parallel()

	d, _, sys := newDispatcher(t, 5, func(v *settings.Values) { v.MirrorSystem = true })
	d.Run(editor.NewBuffer("x y", editor.Region{A: 0, B: 1}, editor.Region{A: 2, B: 3}), &editor.Recorder{}, "copy", Args{})
	assert.Equal(t, []string{"x\ny"}, sys.written)

	off, _, offSys := newDispatcher(t, 5)
	off.Run(editor.NewBuffer("x", editor.Region{A: 0, B: 1}), &editor.Recorder{}, "copy", Args{})
	assert.Empty(t, offSys.written)
}

func TestCapture(t *testing.T) {
	t.Parallel()

	d, cb, _ := newDispatcher(t, 5)
	d.Capture("")
	d.Capture("outside")
	d.Capture("outside")

	assert.Equal(t, [][]string{{"outside"}}, liveTexts(cb))
}

func TestArgsJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		nthSet  bool
		nth     *int
		promote *bool
		filter  string
	}{
		{`{}`, false, nil, nil, ""},
		{`{"nth": null}`, true, nil, nil, ""},
		{`{"nth": -1}`, true, ptr(-1), nil, ""},
		{`{"nth": 3, "promote_pasted_item": false, "filter": "ab"}`, true, ptr(3), ptr(false), "ab"},
	}
	for _, tt := range tests {
		var a Args
		require.NoError(t, json.Unmarshal([]byte(tt.in), &a), tt.in)
		assert.Equal(t, tt.nthSet, a.NthSet, tt.in)
		assert.Equal(t, tt.nth, a.Nth, tt.in)
		assert.Equal(t, tt.promote, a.Promote, tt.in)
		assert.Equal(t, tt.filter, a.Filter, tt.in)
	}

	var bad Args
	assert.Error(t, json.Unmarshal([]byte(`{"nth": "x"}`), &bad))

	out, err := json.Marshal(Dismissed())
	require.NoError(t, err)
	assert.JSONEq(t, `{"nth": null}`, string(out))
}

func ptr[T any](v T) *T { return &v }
