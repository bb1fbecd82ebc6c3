package clipboard

import (
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
)

// AutoOrder asks Add to assign the next free order.
const AutoOrder = -1

// Sequence hands out ever-increasing item identities. The zero value starts
// at 1. Identities address items for removal only; they never affect ordering
// or equality.
type Sequence struct {
	last atomic.Int64
}

// Next returns a fresh identity.
func (s *Sequence) Next() int64 { return s.last.Add(1) }

// Item is one clipboard entry: the texts captured from each selection region
// plus the order used to rank it (larger = more recent).
//
// Two items are equal when their texts and order are equal; the identity is
// not part of equality. The store relies on this to collapse items with the
// same content and order, so don't switch Equal or key to compare IDs.
type Item struct {
	id    int64
	texts []string
	order int
}

// NewItem returns an item with the given identity. The texts slice is copied.
func NewItem(id int64, texts []string, order int) *Item {
	return &Item{id: id, texts: slices.Clone(texts), order: order}
}

func (it *Item) ID() int64 { return it.id }

// Texts returns the captured fragments, one per selection region.
func (it *Item) Texts() []string { return slices.Clone(it.texts) }

func (it *Item) Order() int { return it.order }

// Len returns the number of fragments.
func (it *Item) Len() int { return len(it.texts) }

// Equal reports structural equality over texts and order.
func (it *Item) Equal(o *Item) bool {
	if it == nil || o == nil {
		return it == o
	}
	return it.order == o.order && slices.Equal(it.texts, o.texts)
}

// SameTexts reports whether the item holds exactly texts.
func (it *Item) SameTexts(texts []string) bool { return slices.Equal(it.texts, texts) }

// AppliesTo reports whether the item can be pasted into selCount selections.
// A single fragment fits any number of carets; several fragments need a
// matching caret count, or a single caret to receive them all.
func (it *Item) AppliesTo(selCount int) bool {
	n := len(it.texts)
	return selCount == 1 || n == 1 || selCount == n
}

// Join concatenates the fragments with sep.
func (it *Item) Join(sep string) string { return strings.Join(it.texts, sep) }

func (it *Item) String() string {
	return "#" + strconv.FormatInt(it.id, 10) + " order=" + strconv.Itoa(it.order) + " " + strconv.Quote(it.Join("\n"))
}

// MarshalYAML renders the item for the debug dump.
func (it *Item) MarshalYAML() (any, error) {
	return struct {
		ID    int64    `yaml:"id"`
		Texts []string `yaml:"texts"`
		Order int      `yaml:"order"`
	}{it.id, it.texts, it.order}, nil
}

// key is the set-membership key: length-prefixed texts plus the order.
type key string

func (it *Item) key() key {
	var b strings.Builder
	for _, t := range it.texts {
		b.WriteString(strconv.Itoa(len(t)))
		b.WriteByte(':')
		b.WriteString(t)
	}
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(it.order))
	return key(b.String())
}
