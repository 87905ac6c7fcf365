//go:build !deadlock

package syncmap

import "sync"

// rwMutex is a plain sync.RWMutex, unless built with tag 'deadlock'.
type rwMutex struct {
	sync.RWMutex
}
