package btree

// Find looks up key and returns a cursor to its entry.
// The boolean result is false if key is not present.
func (t *Tree[K, V]) Find(key K) (Cursor[K, V], bool) {
	id := t.root
	for {
		n := t.node(id)
		i := t.locate(n, key)
		if t.matches(n, i, key) {
			return Cursor[K, V]{tree: t, node: id, index: i}, true
		}
		if n.isLeaf() {
			return Cursor[K, V]{node: noNode}, false
		}
		id = n.children[i]
	}
}

// Get returns the value stored under key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	if c, ok := t.Find(key); ok {
		return c.Value(), true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is present.
func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Find(key)
	return ok
}

// Rank returns the number of keys strictly less than key. If key is present,
// this is its zero-based position in key order.
func (t *Tree[K, V]) Rank(key K) int {
	rank := 0
	id := t.root
	for {
		n := t.node(id)
		i := t.locate(n, key)
		rank += i
		if n.isLeaf() {
			return rank
		}
		for _, child := range n.children[:i] {
			rank += t.node(child).size
		}
		if t.matches(n, i, key) {
			// everything below the left neighbour of the match precedes key
			return rank + t.node(n.children[i]).size
		}
		id = n.children[i]
	}
}

// Select returns the entry at zero-based position index in key order,
// the inverse of Rank.
func (t *Tree[K, V]) Select(index int) (K, V, error) {
	if index < 0 || index >= t.Len() {
		var k K
		var v V
		return k, v, ErrIndexOutOfBounds
	}
	c := t.selectNode(t.root, index)
	return c.Key(), c.Value(), nil
}

// At returns a cursor to the entry at position index.
func (t *Tree[K, V]) At(index int) (Cursor[K, V], error) {
	if index < 0 || index >= t.Len() {
		return Cursor[K, V]{node: noNode}, ErrIndexOutOfBounds
	}
	return t.selectNode(t.root, index), nil
}

func (t *Tree[K, V]) selectNode(id nodeID, index int) Cursor[K, V] {
	n := t.node(id)
	assert(index >= 0 && index < n.size, "selectNode index exceeds subtree size")
	if n.isLeaf() {
		return Cursor[K, V]{tree: t, node: id, index: index}
	}
	remaining := index
	for i, child := range n.children {
		childSize := t.node(child).size
		if remaining < childSize {
			return t.selectNode(child, remaining)
		}
		remaining -= childSize
		if remaining == 0 {
			assert(i < len(n.keys), "selectNode routing ran past the last separator")
			return Cursor[K, V]{tree: t, node: id, index: i}
		}
		remaining--
	}
	assert(false, "selectNode index routing exceeded subtree size")
	return Cursor[K, V]{node: noNode}
}
