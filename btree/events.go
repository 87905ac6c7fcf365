package btree

import "fmt"

// EventKind classifies structural changes of a tree.
type EventKind uint8

// Structural events reported to an Observer.
const (
	EventSplit        EventKind = iota + 1 // a full child was split, its median promoted
	EventMerge                             // two siblings were fused with their separator
	EventBorrowLeft                        // a child took a key from its left sibling
	EventBorrowRight                       // a child took a key from its right sibling
	EventRootGrow                          // a new root was created above the old one
	EventRootCollapse                      // an empty root was replaced by its only child
)

func (k EventKind) String() string {
	switch k {
	case EventSplit:
		return "split"
	case EventMerge:
		return "merge"
	case EventBorrowLeft:
		return "borrow-left"
	case EventBorrowRight:
		return "borrow-right"
	case EventRootGrow:
		return "root-grow"
	case EventRootCollapse:
		return "root-collapse"
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// Event describes one structural change.
//
// Node is the arena slot of the parent node the operation acted on (for root
// events: the new root) and Child the index of the affected child within it.
// Height is the tree height after the change.
type Event struct {
	Kind   EventKind
	Node   int
	Child  int
	Height int
}

func (e Event) String() string {
	return fmt.Sprintf("%s node=%d child=%d height=%d", e.Kind, e.Node, e.Child, e.Height)
}

// Observer receives structural events. Observers are called synchronously
// from within tree operations and must not call back into the tree.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

func (t *Tree[K, V]) notify(kind EventKind, n nodeID, child int) {
	t.cfg.Tracer.Debugf("btree: %s at node %d, child %d", kind, n, child)
	if t.cfg.Observer != nil {
		t.cfg.Observer.Observe(Event{
			Kind:   kind,
			Node:   int(n),
			Child:  child,
			Height: t.height,
		})
	}
}
