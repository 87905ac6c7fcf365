package btree

import (
	"cmp"
	"fmt"
)

// Tree is an ordered map from keys K to values V, organized as a B-tree with
// per-subtree key counts.
//
// The zero value is not usable; create trees with New or NewOrdered.
type Tree[K, V any] struct {
	cfg    Config[K]
	nodes  arena[K, V]
	root   nodeID
	height int // number of levels; a lone leaf root has height 1
}

// New creates an empty tree with validated configuration.
func New[K, V any](cfg Config[K]) (*Tree[K, V], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	t := &Tree[K, V]{cfg: cfg}
	t.init()
	return t, nil
}

// NewOrdered creates an empty tree for naturally ordered keys.
// An order of 0 selects DefaultOrder.
func NewOrdered[K cmp.Ordered, V any](order int) (*Tree[K, V], error) {
	return New[K, V](Config[K]{
		Order: order,
		Less:  cmp.Less[K],
	})
}

func (t *Tree[K, V]) init() {
	t.nodes = newArena[K, V](t.cfg.Order)
	t.root = t.nodes.alloc(leafKind, noNode)
	t.height = 1
}

// Config returns a copy of the effective tree configuration.
func (t *Tree[K, V]) Config() Config[K] {
	return t.cfg
}

// Len returns the number of keys in the tree. O(1).
func (t *Tree[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.node(t.root).size
}

// IsEmpty reports whether the tree holds no keys.
func (t *Tree[K, V]) IsEmpty() bool {
	return t.Len() == 0
}

// Height returns the number of levels of the tree. An empty tree consists of
// a single empty leaf and has height 1.
func (t *Tree[K, V]) Height() int {
	if t == nil {
		return 0
	}
	return t.height
}

// Clear removes all keys, releasing every node.
func (t *Tree[K, V]) Clear() {
	t.cfg.Tracer.Debugf("btree: clear, dropping %d nodes", t.nodes.live)
	t.nodes.reset()
	t.init()
}

// Insert stores value under key.
//
// If key is already present its value is replaced and Insert returns false
// (upsert); Len is unchanged in this case. Otherwise the key is added and
// Insert returns true.
func (t *Tree[K, V]) Insert(key K, value V) bool {
	inserted := t.insertRecursive(t.root, key, value)
	if t.overflow(t.node(t.root)) {
		t.growRoot()
	}
	t.afterMutation("insert")
	return inserted
}

// insertRecursive adds key to the subtree at id and reports whether a new key
// was added. A child overflowing by the insert is split before returning, so
// only the subtree root itself may be left holding one key too many.
func (t *Tree[K, V]) insertRecursive(id nodeID, key K, value V) bool {
	n := t.node(id)
	i := t.locate(n, key)
	if t.matches(n, i, key) {
		n.vals[i] = value
		return false
	}
	if n.isLeaf() {
		n.keys = insertAt(n.keys, i, key)
		n.vals = insertAt(n.vals, i, value)
		n.size++
		return true
	}
	child := n.children[i]
	if !t.insertRecursive(child, key, value) {
		return false
	}
	n.size++
	if t.overflow(t.node(child)) {
		t.splitChild(id, i)
	}
	return true
}

// Remove deletes key from the tree and reports whether it was present.
func (t *Tree[K, V]) Remove(key K) bool {
	removed := t.removeRecursive(t.root, key)
	if removed {
		t.collapseRoot()
		t.afterMutation("remove")
	}
	return removed
}

// removeRecursive deletes key from the subtree at id. Children left underfull
// are repaired before returning, so only the subtree root itself may end up
// below minimum occupancy. Nothing is modified if key is absent.
func (t *Tree[K, V]) removeRecursive(id nodeID, key K) bool {
	n := t.node(id)
	i := t.locate(n, key)
	found := t.matches(n, i, key)
	if n.isLeaf() {
		if !found {
			return false
		}
		n.keys = removeAt(n.keys, i)
		n.vals = removeAt(n.vals, i)
		n.size--
		return true
	}
	if found {
		t.removeFromInner(id, i)
		return true
	}
	if !t.removeRecursive(n.children[i], key) {
		return false
	}
	n.size--
	t.repairChild(id, i)
	return true
}

// removeFromInner deletes the entry at position i of inner node id by
// overwriting it with its in-order predecessor or successor, which is then
// removed from its leaf. The side whose child can spare a key is preferred.
func (t *Tree[K, V]) removeFromInner(id nodeID, i int) {
	n := t.node(id)
	left, right := t.node(n.children[i]), t.node(n.children[i+1])
	if t.spare(left) || !t.spare(right) {
		k, v := t.removeMax(n.children[i])
		n.keys[i], n.vals[i] = k, v
		n.size--
		t.repairChild(id, i)
		return
	}
	k, v := t.removeMin(n.children[i+1])
	n.keys[i], n.vals[i] = k, v
	n.size--
	t.repairChild(id, i+1)
}

// removeMax deletes and returns the rightmost entry of the subtree at id.
func (t *Tree[K, V]) removeMax(id nodeID) (K, V) {
	n := t.node(id)
	n.size--
	if n.isLeaf() {
		last := len(n.keys) - 1
		assert(last >= 0, "removeMax reached an empty leaf")
		k, v := n.keys[last], n.vals[last]
		n.keys = removeAt(n.keys, last)
		n.vals = removeAt(n.vals, last)
		return k, v
	}
	last := len(n.children) - 1
	k, v := t.removeMax(n.children[last])
	t.repairChild(id, last)
	return k, v
}

// removeMin deletes and returns the leftmost entry of the subtree at id.
func (t *Tree[K, V]) removeMin(id nodeID) (K, V) {
	n := t.node(id)
	n.size--
	if n.isLeaf() {
		assert(len(n.keys) > 0, "removeMin reached an empty leaf")
		k, v := n.keys[0], n.vals[0]
		n.keys = removeAt(n.keys, 0)
		n.vals = removeAt(n.vals, 0)
		return k, v
	}
	k, v := t.removeMin(n.children[0])
	t.repairChild(id, 0)
	return k, v
}

// repairChild restores minimum occupancy of child i of node id, if needed.
func (t *Tree[K, V]) repairChild(id nodeID, i int) {
	n := t.node(id)
	if t.underflow(t.node(n.children[i])) {
		t.fill(id, i)
	}
}

// afterMutation runs the paranoid invariant check, if configured.
func (t *Tree[K, V]) afterMutation(op string) {
	if !t.cfg.Paranoid {
		return
	}
	if err := t.Check(); err != nil {
		panic(fmt.Sprintf("btree: after %s: %v", op, err))
	}
}
