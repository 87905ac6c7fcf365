/*
Package wordfreq counts word frequencies of texts into an order-statistics
B-tree.

Words are found with Unicode word segmentation (UAX #29) and case-folded
before counting. Since the vocabulary is kept in a btree.Tree, the position of
every word in lexical order is available in logarithmic time.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package wordfreq

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ostree'
func tracer() tracing.Trace {
	return tracing.Select("ostree")
}
