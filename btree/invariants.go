package btree

import (
	"errors"
	"fmt"
)

// Entry is what Traverse hands to its visitor for every key.
type Entry[K, V any] struct {
	Key   K
	Value V
	Depth int  // 0 for keys in the root
	Leaf  bool // key lives in a leaf node
}

// Traverse walks all entries in key order.
//
// If validate is set, every node is checked on the way: key order within and
// across nodes, occupancy bounds, parent links, uniform leaf depth and subtree
// sizes. The first violation is returned as an error wrapping ErrCorrupted.
// visit may be nil; if it returns false, the walk stops early without error.
func (t *Tree[K, V]) Traverse(validate bool, visit func(Entry[K, V]) bool) error {
	w := walker[K, V]{
		t:         t,
		validate:  validate,
		visit:     visit,
		leafDepth: -1,
	}
	if validate {
		w.seen = make([]bool, len(t.nodes.slots))
	}
	_, err := w.walk(t.root, noNode, 0)
	if errors.Is(err, errStopWalk) {
		return nil
	}
	if err != nil {
		return err
	}
	if validate {
		return w.finish()
	}
	return nil
}

// Check validates all structural invariants of the tree.
//
// Check is meant for tests and debugging; it is linear in the size of the tree.
func (t *Tree[K, V]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvalidConfig)
	}
	return t.Traverse(true, nil)
}

// MustCheck panics if Check reports a violated invariant.
func (t *Tree[K, V]) MustCheck() {
	if err := t.Check(); err != nil {
		panic(err)
	}
}

type walker[K, V any] struct {
	t         *Tree[K, V]
	validate  bool
	visit     func(Entry[K, V]) bool
	last      K
	hasLast   bool
	count     int
	nodes     int
	leafDepth int
	seen      []bool
}

func (w *walker[K, V]) corrupted(id nodeID, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	w.t.cfg.Tracer.Errorf("btree: node %d: %s", id, msg)
	return fmt.Errorf("%w: node %d: %s", ErrCorrupted, id, msg)
}

// walk visits the subtree at id and returns the number of keys found in it.
func (w *walker[K, V]) walk(id nodeID, parent nodeID, depth int) (int, error) {
	if w.validate {
		if id < 0 || int(id) >= len(w.t.nodes.slots) {
			return 0, w.corrupted(id, "id outside of arena")
		}
		if w.seen[id] {
			return 0, w.corrupted(id, "node reachable more than once")
		}
		w.seen[id] = true
	}
	n := w.t.node(id)
	w.nodes++
	if w.validate {
		if err := w.checkNode(id, n, parent, depth); err != nil {
			return 0, err
		}
	}
	if n.isLeaf() {
		for i := range n.keys {
			if err := w.emit(id, n, i, depth); err != nil {
				return 0, err
			}
		}
		return len(n.keys), nil
	}
	total := len(n.keys)
	for i, child := range n.children {
		sub, err := w.walk(child, id, depth+1)
		if err != nil {
			return 0, err
		}
		total += sub
		if i < len(n.keys) {
			if err := w.emit(id, n, i, depth); err != nil {
				return 0, err
			}
		}
	}
	if w.validate && total != n.size {
		return 0, w.corrupted(id, "size mismatch: %d != %d", total, n.size)
	}
	return total, nil
}

func (w *walker[K, V]) checkNode(id nodeID, n *node[K, V], parent nodeID, depth int) error {
	cfg := w.t.cfg
	if n.kind == freeKind {
		return w.corrupted(id, "released node is still linked")
	}
	if n.parent != parent {
		return w.corrupted(id, "parent link %d, expected %d", n.parent, parent)
	}
	if len(n.vals) != len(n.keys) {
		return w.corrupted(id, "%d values for %d keys", len(n.vals), len(n.keys))
	}
	if len(n.keys) > cfg.maxKeys() {
		return w.corrupted(id, "%d keys exceed maximum of %d", len(n.keys), cfg.maxKeys())
	}
	if parent != noNode && len(n.keys) < cfg.minKeys() {
		return w.corrupted(id, "%d keys below minimum of %d", len(n.keys), cfg.minKeys())
	}
	if n.isLeaf() {
		if len(n.children) != 0 {
			return w.corrupted(id, "leaf has %d children", len(n.children))
		}
		if n.size != len(n.keys) {
			return w.corrupted(id, "leaf size mismatch: %d != %d", len(n.keys), n.size)
		}
		if w.leafDepth < 0 {
			w.leafDepth = depth
		} else if depth != w.leafDepth {
			return w.corrupted(id, "leaf at depth %d, expected %d", depth, w.leafDepth)
		}
		return nil
	}
	if len(n.keys) == 0 {
		return w.corrupted(id, "inner node without keys")
	}
	if len(n.children) != len(n.keys)+1 {
		return w.corrupted(id, "%d children for %d keys", len(n.children), len(n.keys))
	}
	return nil
}

// emit checks ordering of key i of n against its in-order predecessor and
// hands it to the visitor.
func (w *walker[K, V]) emit(id nodeID, n *node[K, V], i int, depth int) error {
	key := n.keys[i]
	if w.validate && w.hasLast && !w.t.cfg.Less(w.last, key) {
		return w.corrupted(id, "order violation at key #%d", i)
	}
	w.last, w.hasLast = key, true
	w.count++
	if w.visit != nil && !w.visit(Entry[K, V]{
		Key:   key,
		Value: n.vals[i],
		Depth: depth,
		Leaf:  n.isLeaf(),
	}) {
		return errStopWalk
	}
	return nil
}

// finish runs the whole-tree checks after a complete validating walk.
func (w *walker[K, V]) finish() error {
	t := w.t
	root := t.node(t.root)
	if root.parent != noNode {
		return w.corrupted(t.root, "root has a parent")
	}
	if root.size != w.count {
		return w.corrupted(t.root, "root size %d, counted %d keys", root.size, w.count)
	}
	if w.leafDepth+1 != t.height {
		return w.corrupted(t.root, "height %d, leaves found at level %d", t.height, w.leafDepth+1)
	}
	if w.nodes != t.nodes.live {
		return w.corrupted(t.root, "%d nodes reachable, %d allocated", w.nodes, t.nodes.live)
	}
	if w.nodes+len(t.nodes.free) != len(t.nodes.slots) {
		return w.corrupted(t.root, "arena leaks slots: %d live + %d free != %d",
			w.nodes, len(t.nodes.free), len(t.nodes.slots))
	}
	return nil
}
