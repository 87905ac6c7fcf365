package btree

// nodeID is the index of a node slot within the tree's arena.
type nodeID int32

// noNode is the parent of the root.
const noNode nodeID = -1

type nodeKind uint8

const (
	freeKind nodeKind = iota // slot is on the free list
	leafKind
	innerKind
)

func (k nodeKind) String() string {
	switch k {
	case leafKind:
		return "leaf"
	case innerKind:
		return "inner"
	}
	return "free"
}

// node is the common shape of leaf and inner nodes, tagged by kind.
//
// keys and vals are parallel and have capacity Order, i.e. room for one
// transient overflow key before a split. children is used by inner nodes only
// and holds len(keys)+1 entries (capacity Order+1).
type node[K, V any] struct {
	kind     nodeKind
	parent   nodeID
	size     int // keys in this node and all of its descendants
	keys     []K
	vals     []V
	children []nodeID
}

func (n *node[K, V]) isLeaf() bool { return n.kind == leafKind }

// arena owns all nodes of a tree. Slots hold pointers, so a *node stays valid
// while other nodes are allocated; relations between nodes are expressed as
// slot indices only.
type arena[K, V any] struct {
	order int
	slots []*node[K, V]
	free  []nodeID
	live  int
}

func newArena[K, V any](order int) arena[K, V] {
	return arena[K, V]{order: order}
}

// alloc hands out an empty node of the given kind, recycling a free slot if
// one is available.
func (a *arena[K, V]) alloc(kind nodeKind, parent nodeID) nodeID {
	assert(kind != freeKind, "arena alloc called for free kind")
	var id nodeID
	var n *node[K, V]
	if last := len(a.free) - 1; last >= 0 {
		id = a.free[last]
		a.free = a.free[:last]
		n = a.slots[id]
		assert(n.kind == freeKind, "arena free list holds a live node")
	} else {
		id = nodeID(len(a.slots))
		n = &node[K, V]{
			keys: make([]K, 0, a.order),
			vals: make([]V, 0, a.order),
		}
		a.slots = append(a.slots, n)
	}
	n.kind = kind
	n.parent = parent
	n.size = 0
	if kind == innerKind && n.children == nil {
		n.children = make([]nodeID, 0, a.order+1)
	}
	a.live++
	return id
}

// release returns a node's slot to the free list. Keys and values are zeroed
// so the arena does not keep client data reachable.
func (a *arena[K, V]) release(id nodeID) {
	n := a.at(id)
	assert(n.kind != freeKind, "arena release called twice for a node")
	clear(n.keys[:cap(n.keys)])
	clear(n.vals[:cap(n.vals)])
	n.keys = n.keys[:0]
	n.vals = n.vals[:0]
	n.children = n.children[:0]
	n.kind = freeKind
	n.parent = noNode
	n.size = 0
	a.free = append(a.free, id)
	a.live--
}

func (a *arena[K, V]) at(id nodeID) *node[K, V] {
	assert(id >= 0 && int(id) < len(a.slots), "arena access with invalid node id")
	return a.slots[id]
}

// reset drops every node at once (whole-tree teardown).
func (a *arena[K, V]) reset() {
	a.slots = nil
	a.free = nil
	a.live = 0
}
