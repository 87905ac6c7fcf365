//go:build deadlock

package syncmap

import "github.com/sasha-s/go-deadlock"

// rwMutex reports lock-order violations and long waits when built with
// tag 'deadlock'.
type rwMutex struct {
	deadlock.RWMutex
}
