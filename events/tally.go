package events

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/ostree/btree"
	"go.uber.org/atomic"
)

// kinds covers all event kinds, in reporting order.
var kinds = [...]btree.EventKind{
	btree.EventSplit,
	btree.EventMerge,
	btree.EventBorrowLeft,
	btree.EventBorrowRight,
	btree.EventRootGrow,
	btree.EventRootCollapse,
}

// Tally is a synchronous observer counting events per kind. It is safe for
// concurrent use, so one tally may observe several trees.
type Tally struct {
	counts [len(kinds) + 1]atomic.Uint64
}

var _ btree.Observer = (*Tally)(nil)

// Observe counts e.
func (t *Tally) Observe(e btree.Event) {
	if int(e.Kind) < len(t.counts) {
		t.counts[e.Kind].Inc()
	}
}

// Count returns the number of events of the given kind seen so far.
func (t *Tally) Count(kind btree.EventKind) uint64 {
	if int(kind) >= len(t.counts) {
		return 0
	}
	return t.counts[kind].Load()
}

// Total returns the number of events seen so far.
func (t *Tally) Total() uint64 {
	var n uint64
	for _, k := range kinds {
		n += t.counts[k].Load()
	}
	return n
}

// String lists the non-zero counts, e.g. "split=3 root-grow=1".
func (t *Tally) String() string {
	var parts []string
	for _, k := range kinds {
		if n := t.counts[k].Load(); n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Multi returns an observer forwarding every event to all non-nil observers
// in order.
func Multi(observers ...btree.Observer) btree.Observer {
	list := make([]btree.Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return btree.ObserverFunc(func(e btree.Event) {
		for _, o := range list {
			o.Observe(e)
		}
	})
}

// Print writes every event received on ch to w, one per line, until ch is
// closed. It returns the number of events printed.
func Print(w io.Writer, ch <-chan btree.Event) int {
	n := 0
	for e := range ch {
		fmt.Fprintf(w, "event: %s\n", e)
		n++
	}
	return n
}
