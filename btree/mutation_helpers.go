package btree

// splitChild splits the overflowing child i of node id.
//
// The child holds Order keys. The left part keeps Order/2 keys, the median is
// promoted into the parent at position i, and the remaining keys (and, for
// inner nodes, the matching children) move to a new sibling linked at i+1.
// The parent's size is unchanged, as no key leaves its subtree.
func (t *Tree[K, V]) splitChild(id nodeID, i int) {
	parent := t.node(id)
	childID := parent.children[i]
	child := t.node(childID)
	assert(len(child.keys) == t.cfg.Order, "splitChild called for a child that is not overflowing")
	mid := t.cfg.Order / 2
	sibID := t.nodes.alloc(child.kind, id)
	sib := t.node(sibID)
	sib.keys = append(sib.keys, child.keys[mid+1:]...)
	sib.vals = append(sib.vals, child.vals[mid+1:]...)
	sib.size = len(sib.keys)
	if !child.isLeaf() {
		sib.children = append(sib.children, child.children[mid+1:]...)
		for _, grandchild := range sib.children {
			g := t.node(grandchild)
			g.parent = sibID
			sib.size += g.size
		}
		child.children = truncate(child.children, mid+1)
	}
	medianKey, medianVal := child.keys[mid], child.vals[mid]
	child.keys = truncate(child.keys, mid)
	child.vals = truncate(child.vals, mid)
	child.size -= sib.size + 1
	parent.keys = insertAt(parent.keys, i, medianKey)
	parent.vals = insertAt(parent.vals, i, medianVal)
	parent.children = insertAt(parent.children, i+1, sibID)
	t.notify(EventSplit, id, i)
}

// growRoot puts a new root above an overflowing root and splits the old one.
// This is the only operation increasing the height of the tree.
func (t *Tree[K, V]) growRoot() {
	oldID := t.root
	old := t.node(oldID)
	rootID := t.nodes.alloc(innerKind, noNode)
	root := t.node(rootID)
	root.children = append(root.children, oldID)
	root.size = old.size
	old.parent = rootID
	t.root = rootID
	t.height++
	t.notify(EventRootGrow, rootID, 0)
	t.splitChild(rootID, 0)
}

// collapseRoot replaces an inner root without keys by its only child.
// This is the only operation decreasing the height of the tree.
func (t *Tree[K, V]) collapseRoot() {
	for {
		root := t.node(t.root)
		if root.isLeaf() || len(root.keys) > 0 {
			return
		}
		assert(len(root.children) == 1, "empty inner root must have exactly one child")
		childID := root.children[0]
		t.nodes.release(t.root)
		t.root = childID
		t.node(childID).parent = noNode
		t.height--
		t.notify(EventRootCollapse, childID, 0)
	}
}

// fill repairs child i of node id, which has dropped below minimum occupancy.
//
// Priority: borrow from the left sibling, borrow from the right sibling,
// merge with the right sibling, or with the left one if child i is the last.
func (t *Tree[K, V]) fill(id nodeID, i int) {
	parent := t.node(id)
	assert(len(parent.keys) > 0, "fill called on a node without separators")
	switch {
	case i > 0 && t.spare(t.node(parent.children[i-1])):
		t.borrowFromLeft(id, i)
	case i < len(parent.keys) && t.spare(t.node(parent.children[i+1])):
		t.borrowFromRight(id, i)
	case i < len(parent.keys):
		t.merge(id, i)
	default:
		t.merge(id, i-1)
	}
}

// borrowFromLeft rotates the last entry of child i-1 through the parent into
// the front of child i.
func (t *Tree[K, V]) borrowFromLeft(id nodeID, i int) {
	parent := t.node(id)
	childID := parent.children[i]
	child, sib := t.node(childID), t.node(parent.children[i-1])
	child.keys = insertAt(child.keys, 0, parent.keys[i-1])
	child.vals = insertAt(child.vals, 0, parent.vals[i-1])
	last := len(sib.keys) - 1
	parent.keys[i-1], parent.vals[i-1] = sib.keys[last], sib.vals[last]
	sib.keys = removeAt(sib.keys, last)
	sib.vals = removeAt(sib.vals, last)
	moved := 1
	if !child.isLeaf() {
		assert(!sib.isLeaf(), "borrowFromLeft expected an inner sibling")
		grandchild := sib.children[len(sib.children)-1]
		sib.children = removeAt(sib.children, len(sib.children)-1)
		child.children = insertAt(child.children, 0, grandchild)
		g := t.node(grandchild)
		g.parent = childID
		moved += g.size
	}
	child.size += moved
	sib.size -= moved
	t.notify(EventBorrowLeft, id, i)
}

// borrowFromRight rotates the first entry of child i+1 through the parent onto
// the end of child i.
func (t *Tree[K, V]) borrowFromRight(id nodeID, i int) {
	parent := t.node(id)
	childID := parent.children[i]
	child, sib := t.node(childID), t.node(parent.children[i+1])
	child.keys = append(child.keys, parent.keys[i])
	child.vals = append(child.vals, parent.vals[i])
	parent.keys[i], parent.vals[i] = sib.keys[0], sib.vals[0]
	sib.keys = removeAt(sib.keys, 0)
	sib.vals = removeAt(sib.vals, 0)
	moved := 1
	if !child.isLeaf() {
		assert(!sib.isLeaf(), "borrowFromRight expected an inner sibling")
		grandchild := sib.children[0]
		sib.children = removeAt(sib.children, 0)
		child.children = append(child.children, grandchild)
		g := t.node(grandchild)
		g.parent = childID
		moved += g.size
	}
	child.size += moved
	sib.size -= moved
	t.notify(EventBorrowRight, id, i)
}

// merge fuses child i, separator i and child i+1 of node id into child i and
// releases child i+1. The parent loses one key and one child; its size is
// unchanged.
func (t *Tree[K, V]) merge(id nodeID, i int) {
	parent := t.node(id)
	leftID, rightID := parent.children[i], parent.children[i+1]
	left, right := t.node(leftID), t.node(rightID)
	assert(left.kind == right.kind, "merge of nodes with different kinds")
	assert(len(left.keys)+len(right.keys) < t.cfg.Order, "merge would overflow a node")
	left.keys = append(left.keys, parent.keys[i])
	left.vals = append(left.vals, parent.vals[i])
	left.keys = append(left.keys, right.keys...)
	left.vals = append(left.vals, right.vals...)
	if !left.isLeaf() {
		for _, grandchild := range right.children {
			t.node(grandchild).parent = leftID
		}
		left.children = append(left.children, right.children...)
	}
	left.size += right.size + 1
	parent.keys = removeAt(parent.keys, i)
	parent.vals = removeAt(parent.vals, i)
	parent.children = removeAt(parent.children, i+1)
	t.nodes.release(rightID)
	t.notify(EventMerge, id, i)
}
