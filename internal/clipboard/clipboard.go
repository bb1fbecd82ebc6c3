// Package clipboard implements the multi-slot clipboard: a set of items ranked
// by order, deduplicated by content, and trimmed to a capacity.
//
// Eviction is amortized. With capacity C the real capacity is 2C+1: when the
// store grows to it, the oldest C+1 items are dropped in one pass and exactly
// C remain, so eviction runs once every C+1 insertions. Items beyond the
// newest C are "dead": still stored, never offered for pasting.
package clipboard

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// Unlimited disables the capacity bound.
const Unlimited = -1

// ErrOutOfRange is returned by Nth for ranks outside the live view.
var ErrOutOfRange = errors.New("index out of range")

// AddResult says what AddTexts did.
type AddResult int

const (
	Inserted AddResult = iota
	Promoted
)

func (r AddResult) String() string {
	if r == Promoted {
		return "promoted"
	}
	return "inserted"
}

// Clipboard holds the items. It is not safe for concurrent use; callers
// serialize access (the session loop owns it).
type Clipboard struct {
	items        map[key]*Item
	seq          *Sequence
	capacity     int
	realCapacity int
	maxOrder     int
}

// Option configures a Clipboard.
type Option func(*Clipboard)

// WithSequence makes the clipboard draw identities from seq.
func WithSequence(seq *Sequence) Option {
	return func(c *Clipboard) { c.seq = seq }
}

// WithCapacity sets the initial capacity.
func WithCapacity(n int) Option {
	return func(c *Clipboard) { c.SetCapacity(n) }
}

// New returns an empty clipboard with unlimited capacity unless configured.
func New(opts ...Option) *Clipboard {
	c := &Clipboard{
		items:        make(map[key]*Item),
		seq:          &Sequence{},
		capacity:     Unlimited,
		realCapacity: Unlimited,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Len returns the number of stored items, dead ones included.
func (c *Clipboard) Len() int { return len(c.items) }

func (c *Clipboard) Capacity() int     { return c.capacity }
func (c *Clipboard) RealCapacity() int { return c.realCapacity }
func (c *Clipboard) MaxOrder() int     { return c.maxOrder }

// Bounded reports whether a capacity is in effect.
func (c *Clipboard) Bounded() bool { return c.capacity > 0 }

// SetCapacity changes the capacity; n <= 0 means unlimited. Shrinking may
// evict immediately.
func (c *Clipboard) SetCapacity(n int) {
	if n > 0 {
		c.capacity = n
		c.realCapacity = 2*n + 1
	} else {
		c.capacity = Unlimited
		c.realCapacity = Unlimited
	}
	c.Cleanup()
}

// NewItem creates an item with a fresh identity from the clipboard's sequence.
// The item is not stored.
func (c *Clipboard) NewItem(texts []string) *Item {
	return NewItem(c.seq.Next(), texts, AutoOrder)
}

// Add stores it, assigning the next order first when it carries AutoOrder.
// An item equal to one already stored is absorbed by it.
func (c *Clipboard) Add(it *Item) {
	if it.order == AutoOrder {
		it.order = c.nextOrder()
	}
	k := it.key()
	if _, ok := c.items[k]; !ok {
		c.items[k] = it
	}
	c.suggestMaxOrder(it.order)
	c.Cleanup()
}

// AddTexts promotes the item holding texts, or stores a new one.
func (c *Clipboard) AddTexts(texts []string) AddResult {
	if c.Promote(texts) {
		return Promoted
	}
	c.Add(c.NewItem(texts))
	return Inserted
}

// Promote makes the item holding texts the most recent one. It reports
// whether such an item exists. The item count never changes.
func (c *Clipboard) Promote(texts []string) bool {
	for k, it := range c.items {
		if !it.SameTexts(texts) {
			continue
		}
		if it.order != c.maxOrder {
			delete(c.items, k)
			it.order = c.nextOrder()
			c.items[it.key()] = it
			c.suggestMaxOrder(it.order)
		}
		return true
	}
	return false
}

// RemoveByIDs drops every item whose identity is listed.
func (c *Clipboard) RemoveByIDs(ids ...int64) int {
	if len(ids) == 0 {
		return 0
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	removed := 0
	for k, it := range c.items {
		if _, ok := set[it.id]; ok {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// Clear removes every item. The order counter is kept.
func (c *Clipboard) Clear() {
	clear(c.items)
}

// View selects what Sorted returns.
type View struct {
	// Descending lists the newest item first.
	Descending bool
	// IncludeDead keeps items beyond the capacity.
	IncludeDead bool
}

// Sorted returns the items by ascending order (ties by identity), restricted
// to the live ones unless v.IncludeDead.
func (c *Clipboard) Sorted(v View) []*Item {
	items := make([]*Item, 0, len(c.items))
	for _, it := range c.items {
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b *Item) int {
		if r := cmp.Compare(a.order, b.order); r != 0 {
			return r
		}
		return cmp.Compare(a.id, b.id)
	})
	if !v.IncludeDead && c.Bounded() && len(items) > c.capacity {
		items = items[len(items)-c.capacity:]
	}
	if v.Descending {
		slices.Reverse(items)
	}
	return items
}

// Nth indexes the live view in ascending order. Negative n counts from the
// newest item, so -1 is the most recent.
func (c *Clipboard) Nth(n int) (*Item, error) {
	live := c.Sorted(View{})
	i := n
	if i < 0 {
		i += len(live)
	}
	if i < 0 || i >= len(live) {
		return nil, fmt.Errorf("nth %d of %d live items: %w", n, len(live), ErrOutOfRange)
	}
	return live[i], nil
}

// Cleanup evicts the oldest items once the store reaches its real capacity,
// leaving exactly Capacity items. It returns how many were removed. The
// insert that brings the store to 2*Capacity+1 items is the one that trims.
func (c *Clipboard) Cleanup() int {
	if !c.Bounded() || len(c.items) < c.realCapacity {
		return 0
	}
	all := c.Sorted(View{IncludeDead: true})
	victims := all[:len(all)-c.capacity]
	ids := make([]int64, len(victims))
	for i, it := range victims {
		ids[i] = it.id
	}
	return c.RemoveByIDs(ids...)
}

// State is a snapshot of the store internals for diagnostics.
type State struct {
	Capacity     int     `yaml:"capacity"`
	RealCapacity int     `yaml:"capacity_real"`
	MaxOrder     int     `yaml:"max_order"`
	Live         []*Item `yaml:"living"`
	Dead         []*Item `yaml:"dead"`
}

// State returns the current internals. Items are listed in ascending order.
func (c *Clipboard) State() State {
	all := c.Sorted(View{IncludeDead: true})
	dead := 0
	if c.Bounded() && len(all) > c.capacity {
		dead = len(all) - c.capacity
	}
	return State{
		Capacity:     c.capacity,
		RealCapacity: c.realCapacity,
		MaxOrder:     c.maxOrder,
		Live:         all[dead:],
		Dead:         all[:dead],
	}
}

func (c *Clipboard) nextOrder() int { return c.maxOrder + 1 }

func (c *Clipboard) suggestMaxOrder(order int) {
	if order > c.maxOrder {
		c.maxOrder = order
	}
}
