package btree

import (
	"slices"
	"testing"
)

type eventLog struct {
	events []Event
}

func (l *eventLog) Observe(e Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func makeLoggedTree(t *testing.T, order int) (*Tree[int, string], *eventLog) {
	t.Helper()
	log := &eventLog{}
	tree, err := New[int, string](Config[int]{
		Order:    order,
		Less:     func(a, b int) bool { return a < b },
		Observer: log,
	})
	if err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	return tree, log
}

// makeTwoLevel replaces the tree's content by an inner root with separators
// seps over leaves holding the given keys.
func makeTwoLevel(t *testing.T, tree *Tree[int, string], seps []int, leaves ...[]int) {
	t.Helper()
	if len(leaves) != len(seps)+1 {
		t.Fatalf("need %d leaves for %d separators", len(seps)+1, len(seps))
	}
	tree.nodes.reset()
	rootID := tree.nodes.alloc(innerKind, noNode)
	root := tree.node(rootID)
	for _, k := range seps {
		root.keys = append(root.keys, k)
		root.vals = append(root.vals, "")
	}
	root.size = len(seps)
	for _, keys := range leaves {
		id := tree.nodes.alloc(leafKind, rootID)
		leaf := tree.node(id)
		for _, k := range keys {
			leaf.keys = append(leaf.keys, k)
			leaf.vals = append(leaf.vals, "")
		}
		leaf.size = len(keys)
		root.children = append(root.children, id)
		root.size += leaf.size
	}
	tree.root = rootID
	tree.height = 2
	if err := tree.Check(); err != nil {
		t.Fatalf("hand-built tree is invalid: %v", err)
	}
}

func leafKeys(tree *Tree[int, string], i int) []int {
	return tree.node(tree.node(tree.root).children[i]).keys
}

func TestInsertEventsForSmallOrder(t *testing.T) {
	tree, log := makeLoggedTree(t, 3)
	for _, k := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
		tree.Insert(k, "")
	}
	if n := log.count(EventRootGrow); n != 2 {
		t.Fatalf("expected 2 root growths, got %d", n)
	}
	if n := log.count(EventSplit); n != 4 {
		t.Fatalf("expected 4 splits, got %d", n)
	}
	log.events = nil
	tree.Remove(10)
	if n := log.count(EventMerge); n != 2 {
		t.Fatalf("expected 2 merges, got %d: %v", n, log.events)
	}
	if n := log.count(EventRootCollapse); n != 1 {
		t.Fatalf("expected 1 root collapse, got %d", n)
	}
	last := log.events[len(log.events)-1]
	if last.Height != 2 {
		t.Fatalf("expected height 2 after collapse, event says %d", last.Height)
	}
}

func TestSplitChildKeepsSizes(t *testing.T) {
	tree, log := makeLoggedTree(t, 4)
	makeTwoLevel(t, tree, []int{50}, []int{10, 20}, []int{60, 70, 80})
	tree.Insert(90, "")
	if err := tree.Check(); err != nil {
		t.Fatalf("tree invalid after split: %v", err)
	}
	if log.count(EventSplit) != 1 {
		t.Fatalf("expected a split, got %v", log.events)
	}
	root := tree.node(tree.root)
	if !slices.Equal(root.keys, []int{50, 80}) {
		t.Fatalf("unexpected separators after split: %v", root.keys)
	}
	if !slices.Equal(leafKeys(tree, 1), []int{60, 70}) || !slices.Equal(leafKeys(tree, 2), []int{90}) {
		t.Fatalf("unexpected leaves after split: %v %v", leafKeys(tree, 1), leafKeys(tree, 2))
	}
	if root.size != 7 {
		t.Fatalf("expected root size 7, got %d", root.size)
	}
}

func TestRemoveBorrowsFromLeft(t *testing.T) {
	tree, log := makeLoggedTree(t, 5)
	makeTwoLevel(t, tree, []int{20}, []int{5, 10, 15}, []int{25, 30})
	tree.Remove(25)
	if log.count(EventBorrowLeft) != 1 {
		t.Fatalf("expected borrow from left, got %v", log.events)
	}
	if !slices.Equal(leafKeys(tree, 0), []int{5, 10}) || !slices.Equal(leafKeys(tree, 1), []int{20, 30}) {
		t.Fatalf("unexpected leaves: %v %v", leafKeys(tree, 0), leafKeys(tree, 1))
	}
	if sep := tree.node(tree.root).keys[0]; sep != 15 {
		t.Fatalf("expected separator 15, got %d", sep)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree invalid after borrow: %v", err)
	}
}

func TestRemoveBorrowsFromRight(t *testing.T) {
	tree, log := makeLoggedTree(t, 5)
	makeTwoLevel(t, tree, []int{20}, []int{5, 10}, []int{25, 30, 35})
	tree.Remove(5)
	if log.count(EventBorrowRight) != 1 {
		t.Fatalf("expected borrow from right, got %v", log.events)
	}
	if !slices.Equal(leafKeys(tree, 0), []int{10, 20}) || !slices.Equal(leafKeys(tree, 1), []int{30, 35}) {
		t.Fatalf("unexpected leaves: %v %v", leafKeys(tree, 0), leafKeys(tree, 1))
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree invalid after borrow: %v", err)
	}
}

func TestRemoveMergesAndCollapsesRoot(t *testing.T) {
	tree, log := makeLoggedTree(t, 5)
	makeTwoLevel(t, tree, []int{20}, []int{5, 10}, []int{25, 30})
	live := tree.nodes.live
	tree.Remove(30)
	if log.count(EventMerge) != 1 || log.count(EventRootCollapse) != 1 {
		t.Fatalf("expected merge and collapse, got %v", log.events)
	}
	if tree.Height() != 1 || tree.nodes.live != live-2 {
		t.Fatalf("expected single leaf, height=%d live=%d", tree.Height(), tree.nodes.live)
	}
	if got := keysOf(tree); !slices.Equal(got, []int{5, 10, 20, 25}) {
		t.Fatalf("unexpected keys after merge: %v", got)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree invalid after merge: %v", err)
	}
}

func TestRemoveInternalKeyUsesSuccessorWhenLeftIsMinimal(t *testing.T) {
	tree, _ := makeLoggedTree(t, 5)
	makeTwoLevel(t, tree, []int{20}, []int{5, 10}, []int{25, 30, 35})
	tree.Remove(20)
	if sep := tree.node(tree.root).keys[0]; sep != 25 {
		t.Fatalf("expected successor 25 as separator, got %d", sep)
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("tree invalid: %v", err)
	}
}

func TestRemoveInternalKeyUsesPredecessor(t *testing.T) {
	tree, _ := makeLoggedTree(t, 5)
	makeTwoLevel(t, tree, []int{20}, []int{5, 10, 15}, []int{25, 30, 35})
	tree.Remove(20)
	if sep := tree.node(tree.root).keys[0]; sep != 15 {
		t.Fatalf("expected predecessor 15 as separator, got %d", sep)
	}
}

func TestSliceHelpers(t *testing.T) {
	s := make([]int, 0, 4)
	s = insertAt(s, 0, 2)
	s = insertAt(s, 0, 1)
	s = insertAt(s, 2, 4)
	s = insertAt(s, 2, 3)
	if !slices.Equal(s, []int{1, 2, 3, 4}) || cap(s) != 4 {
		t.Fatalf("insertAt produced %v (cap %d)", s, cap(s))
	}
	s = removeAt(s, 1)
	if !slices.Equal(s, []int{1, 3, 4}) || s[:4][3] != 0 {
		t.Fatalf("removeAt produced %v", s[:4])
	}
	s = truncate(s, 1)
	if !slices.Equal(s, []int{1}) || s[:3][1] != 0 || s[:3][2] != 0 {
		t.Fatalf("truncate produced %v", s[:3])
	}
}
