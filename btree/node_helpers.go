package btree

import "sort"

func (t *Tree[K, V]) node(id nodeID) *node[K, V] {
	return t.nodes.at(id)
}

// locate returns the smallest index i with keys[i] >= key, i.e. the position
// of key within n if present, or else the child slot to descend into.
func (t *Tree[K, V]) locate(n *node[K, V], key K) int {
	if len(n.keys) <= linearScanLimit {
		for i, k := range n.keys {
			if !t.cfg.Less(k, key) {
				return i
			}
		}
		return len(n.keys)
	}
	return sort.Search(len(n.keys), func(i int) bool {
		return !t.cfg.Less(n.keys[i], key)
	})
}

// matches reports whether position i (as returned by locate) holds key.
func (t *Tree[K, V]) matches(n *node[K, V], i int, key K) bool {
	return i < len(n.keys) && !t.cfg.Less(key, n.keys[i])
}

func (t *Tree[K, V]) overflow(n *node[K, V]) bool {
	return len(n.keys) > t.cfg.maxKeys()
}

func (t *Tree[K, V]) underflow(n *node[K, V]) bool {
	return len(n.keys) < t.cfg.minKeys()
}

// spare reports whether n may give away a key without underflowing.
func (t *Tree[K, V]) spare(n *node[K, V]) bool {
	return len(n.keys) > t.cfg.minKeys()
}

// insertAt inserts v into s at idx, shifting the tail right by one.
// Node slices are allocated with room for one overflow entry, so this never
// reallocates within a tree.
func insertAt[T any](s []T, idx int, v T) []T {
	assert(idx >= 0 && idx <= len(s), "insertAt index out of range")
	s = append(s, v)
	copy(s[idx+1:], s[idx:len(s)-1])
	s[idx] = v
	return s
}

// removeAt removes the element at idx, shifting the tail left by one. The
// vacated last slot is zeroed.
func removeAt[T any](s []T, idx int) []T {
	assert(idx >= 0 && idx < len(s), "removeAt index out of range")
	copy(s[idx:], s[idx+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}

// truncate cuts s to length n, zeroing the dropped tail.
func truncate[T any](s []T, n int) []T {
	assert(n >= 0 && n <= len(s), "truncate length out of range")
	clear(s[n:])
	return s[:n]
}
