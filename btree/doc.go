/*
Package btree provides an in-memory ordered map built as an order-statistics
B-tree.

Every node records the number of keys in its subtree. This lets the tree answer
rank queries (how many keys precede a given key) and select queries (which key
sits at a given position) in logarithmic time, next to the usual insert,
lookup and delete operations.

Nodes live in an arena owned by the tree. Parent and child links are arena
indices, never pointers, and freed slots are recycled by later splits.

Overview of the algorithms:
  - lookups descend from the root using a per-node lower-bound search,
  - inserts descend once and split overflowing nodes while unwinding,
  - deletes substitute internal keys by their predecessor or successor and
    repair underfull children by borrowing from a sibling or merging with it,
  - the tree grows only by splitting the root and shrinks only by collapsing
    an empty root onto its single child.

A Tree is not safe for concurrent use. Clients needing shared access should
use package syncmap or serialize calls themselves.

Tracing goes to the tracer selected with key "ostree" unless a tracer is set
in Config.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package btree

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'ostree'
func tracer() tracing.Trace {
	return tracing.Select("ostree")
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
