package btree

import "errors"

var (
	// ErrInvalidConfig signals an invalid tree configuration.
	ErrInvalidConfig = errors.New("btree: invalid configuration")
	// ErrIndexOutOfBounds signals an invalid positional index.
	ErrIndexOutOfBounds = errors.New("btree: index out of bounds")
	// ErrCorrupted signals a violated structural invariant. It always
	// indicates a bug in the tree algorithms, never a client error.
	ErrCorrupted = errors.New("btree: structural invariant violated")
)

// errStopWalk terminates a traversal early on behalf of a visitor.
var errStopWalk = errors.New("btree: walk stopped")
