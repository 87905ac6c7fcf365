package btree

// Cursor points to one entry of a tree, as returned by Find and At.
//
// A cursor is valid until the next mutation of its tree (Insert, Remove or
// Clear); using it afterwards yields unspecified entries.
type Cursor[K, V any] struct {
	tree  *Tree[K, V]
	node  nodeID
	index int
}

// Valid reports whether the cursor points to an entry.
func (c Cursor[K, V]) Valid() bool {
	return c.tree != nil && c.node != noNode
}

// Key returns the key of the entry.
func (c Cursor[K, V]) Key() K {
	return c.entry().keys[c.index]
}

// Value returns the value of the entry.
func (c Cursor[K, V]) Value() V {
	return c.entry().vals[c.index]
}

// SetValue replaces the value of the entry in place.
func (c Cursor[K, V]) SetValue(v V) {
	c.entry().vals[c.index] = v
}

// Rank returns the position of the entry in key order.
func (c Cursor[K, V]) Rank() int {
	return c.tree.Rank(c.Key())
}

func (c Cursor[K, V]) entry() *node[K, V] {
	assert(c.Valid(), "use of invalid cursor")
	n := c.tree.node(c.node)
	assert(n.kind != freeKind && c.index < len(n.keys), "cursor outlived its entry")
	return n
}
