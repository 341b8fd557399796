// Package parsectx implements §4.C's parser context: the per-parse
// identity table, feature gate, and marked-reference set shared by
// the sync and async parsers (internal/walk) and consulted by the
// emitter (internal/emit).
package parsectx

import (
	"sort"

	"github.com/samualtnorman/seroval/internal/compat"
	"github.com/samualtnorman/seroval/internal/value"
)

// Context owns the mutable state of one parse/emit pair. A Context
// must not be reused across overlapping parses (§5).
type Context struct {
	Features compat.Mask

	ids    map[value.Value]int
	order  []value.Value
	marked map[int]bool
	nextID int
}

// New returns a fresh context with the given feature gate.
func New(features compat.Mask) *Context {
	return &Context{
		Features: features,
		ids:      make(map[value.Value]int),
		marked:   make(map[int]bool),
	}
}

// Intern returns the existing id for v, allocating a new one in
// encounter order on first sight. wasFresh is true exactly when this
// call allocated a new id.
func (c *Context) Intern(v value.Value) (id int, wasFresh bool) {
	if id, ok := c.ids[v]; ok {
		return id, false
	}
	id = c.nextID
	c.nextID++
	c.ids[v] = id
	c.order = append(c.order, v)
	return id, true
}

// Mark adds id to the marked set: the emitter must hoist it into a
// variable because it is referenced more than once or participates
// in a cycle.
func (c *Context) Mark(id int) {
	c.marked[id] = true
}

// IsMarked reports whether id is in the marked set.
func (c *Context) IsMarked(id int) bool {
	return c.marked[id]
}

// MarkedIDs returns the marked set as a sorted slice, for the
// envelope's "m" field.
func (c *Context) MarkedIDs() []int {
	ids := make([]int, 0, len(c.marked))
	for id := range c.marked {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ValueForID returns the value introduced with the given id, in the
// order Intern first allocated it. The emitter does not call it; it
// exposes the identity table's reverse sequence from §3.
func (c *Context) ValueForID(id int) (value.Value, bool) {
	if id < 0 || id >= len(c.order) {
		return nil, false
	}
	return c.order[id], true
}
