package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegion(t *testing.T) {
	t.Parallel()

	r := Region{A: 7, B: 3}
	assert.Equal(t, 3, r.Begin())
	assert.Equal(t, 7, r.End())
	assert.Equal(t, 4, r.Len())
	assert.False(t, r.Empty())
	assert.True(t, Caret(2).Empty())
}

func TestBufferDefaultsToCaretAtEnd(t *testing.T) {
	t.Parallel()

	b := NewBuffer("héllo")
	assert.Equal(t, []Region{Caret(5)}, b.Selections())
}

func TestBufferSubstrUsesCodePoints(t *testing.T) {
	t.Parallel()

	b := NewBuffer("héllo wörld", Region{A: 6, B: 11})
	assert.Equal(t, "wörld", b.Substr(b.Selections()[0]))
	assert.Equal(t, "hé", b.Substr(Region{A: 2, B: 0}))
	assert.Equal(t, "", b.Substr(Region{A: 50, B: 60}))
}

func TestBufferSortsAndClampsSelections(t *testing.T) {
	t.Parallel()

	b := NewBuffer("abcdef", Region{A: 5, B: 99}, Region{A: 2, B: 0})
	assert.Equal(t, []Region{{A: 2, B: 0}, {A: 5, B: 6}}, b.Selections())
}

func TestBufferMergesOverlappingSelections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []Region
		want []Region
	}{
		{"overlap", []Region{{A: 0, B: 5}, {A: 3, B: 8}}, []Region{{A: 0, B: 8}}},
		{"contained", []Region{{A: 0, B: 10}, {A: 2, B: 4}}, []Region{{A: 0, B: 10}}},
		{"backwards overlap", []Region{{A: 8, B: 3}, {A: 0, B: 5}}, []Region{{A: 0, B: 8}}},
		{"duplicate carets", []Region{Caret(4), Caret(4)}, []Region{Caret(4)}},
		{"caret inside region", []Region{{A: 1, B: 6}, Caret(3)}, []Region{{A: 1, B: 6}}},
		{"caret at region start", []Region{Caret(1), {A: 1, B: 6}}, []Region{{A: 1, B: 6}}},
		{"touching stay apart", []Region{{A: 0, B: 2}, {A: 2, B: 4}}, []Region{{A: 0, B: 2}, {A: 2, B: 4}}},
		{"caret at region end stays", []Region{{A: 0, B: 2}, Caret(2)}, []Region{{A: 0, B: 2}, Caret(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := NewBuffer("abcdefghij", tt.in...)
			assert.Equal(t, tt.want, b.Selections())
		})
	}
}

func TestBufferCutOverlappingSelections(t *testing.T) {
	t.Parallel()

	b := NewBuffer("abcdefghij", Region{A: 0, B: 5}, Region{A: 3, B: 8})
	sel := b.Selections()
	require.NoError(t, b.ReplaceSelections(make([]string, len(sel))))
	assert.Equal(t, "ij", b.Text())

	b = NewBuffer("abcdefghij", Region{A: 0, B: 10}, Region{A: 2, B: 4})
	sel = b.Selections()
	require.NoError(t, b.ReplaceSelections(make([]string, len(sel))))
	assert.Equal(t, "", b.Text())
	assert.Equal(t, []Region{Caret(0)}, b.Selections())
}

func TestBufferReplaceSelections(t *testing.T) {
	t.Parallel()

	b := NewBuffer("one two three", Region{A: 0, B: 3}, Region{A: 4, B: 7}, Region{A: 8, B: 13})
	require.NoError(t, b.ReplaceSelections([]string{"1", "zwei", ""}))

	assert.Equal(t, "1 zwei ", b.Text())
	assert.Equal(t, []Region{{A: 0, B: 1}, {A: 2, B: 6}, {A: 7, B: 7}}, b.Selections())
	assert.Equal(t, []Edit{
		{A: 8, B: 13, Text: ""},
		{A: 4, B: 7, Text: "zwei"},
		{A: 0, B: 3, Text: "1"},
	}, b.Edits())
}

func TestBufferReplaceCaretsInserts(t *testing.T) {
	t.Parallel()

	b := NewBuffer("ab", Caret(1), Caret(2))
	require.NoError(t, b.ReplaceSelections([]string{"x\ny", "z"}))

	assert.Equal(t, "ax\nybz", b.Text())
	assert.Equal(t, []Region{{A: 1, B: 4}, {A: 5, B: 6}}, b.Selections())
}

func TestBufferReplaceMismatch(t *testing.T) {
	t.Parallel()

	b := NewBuffer("ab", Caret(0), Caret(1))
	err := b.ReplaceSelections([]string{"x"})
	assert.ErrorIs(t, err, ErrSelectionMismatch)
	assert.Equal(t, "ab", b.Text())
	assert.Empty(t, b.Edits())
}
