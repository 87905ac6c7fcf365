package btree

import "iter"

// Walk calls fn for every entry in ascending key order.
//
// Iteration stops early if fn returns false. fn must not mutate the tree.
func (t *Tree[K, V]) Walk(fn func(key K, value V) bool) {
	if t == nil || fn == nil {
		return
	}
	t.walkNode(t.root, fn)
}

func (t *Tree[K, V]) walkNode(id nodeID, fn func(key K, value V) bool) bool {
	n := t.node(id)
	if n.isLeaf() {
		for i, k := range n.keys {
			if !fn(k, n.vals[i]) {
				return false
			}
		}
		return true
	}
	for i, child := range n.children {
		if !t.walkNode(child, fn) {
			return false
		}
		if i < len(n.keys) && !fn(n.keys[i], n.vals[i]) {
			return false
		}
	}
	return true
}

// All returns an iterator over all entries in ascending key order, for use
// with range-over-func.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.Walk(yield)
	}
}

// Keys returns an iterator over all keys in ascending order.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		t.Walk(func(k K, _ V) bool {
			return yield(k)
		})
	}
}

// Range calls fn for the entries with positions in [from, to), in key order.
// Positions are clipped to the tree's bounds.
func (t *Tree[K, V]) Range(from, to int, fn func(key K, value V) bool) {
	from = max(from, 0)
	to = min(to, t.Len())
	for i := from; i < to; i++ {
		c := t.selectNode(t.root, i)
		if !fn(c.Key(), c.Value()) {
			return
		}
	}
}
