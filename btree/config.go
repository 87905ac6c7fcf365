package btree

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

const (
	// DefaultOrder is the branching factor used when Config.Order is 0.
	DefaultOrder = 12
	// MinOrder is the smallest supported branching factor.
	MinOrder = 3
	// MaxOrder is the largest supported branching factor.
	MaxOrder = 255
	// nodes with at most this many keys are searched linearly
	linearScanLimit = 16
)

// Config configures an order-statistics B-tree.
type Config[K any] struct {
	// Order is the maximum number of children of an inner node. Nodes hold at
	// most Order-1 keys. Zero selects DefaultOrder.
	Order int
	// Less defines a strict weak ordering on keys. Required.
	Less func(a, b K) bool
	// Tracer receives debug traces of structural operations. If nil, the
	// tracer selected by key "ostree" is used.
	Tracer tracing.Trace
	// Observer is notified of structural events (splits, merges, borrows,
	// root changes). May be nil.
	Observer Observer
	// Paranoid runs a full invariant check after every mutation and panics
	// on the first violation. For tests and debugging only.
	Paranoid bool
}

func (cfg Config[K]) normalized() Config[K] {
	if cfg.Order == 0 {
		cfg.Order = DefaultOrder
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracer()
	}
	return cfg
}

func (cfg Config[K]) validate() error {
	cfg = cfg.normalized()
	if cfg.Order < MinOrder || cfg.Order > MaxOrder {
		return fmt.Errorf("%w: order must be in [%d, %d], is %d",
			ErrInvalidConfig, MinOrder, MaxOrder, cfg.Order)
	}
	if cfg.Less == nil {
		return fmt.Errorf("%w: less function is required", ErrInvalidConfig)
	}
	return nil
}

// maxKeys is the upper occupancy bound of every node.
func (cfg Config[K]) maxKeys() int {
	return cfg.Order - 1
}

// minKeys is the lower occupancy bound of every non-root node, i.e.
// ceil(Order/2) - 1.
func (cfg Config[K]) minKeys() int {
	return (cfg.Order+1)/2 - 1
}
