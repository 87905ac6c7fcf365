/*
Package syncmap wraps an order-statistics B-tree for concurrent use.

Reads share a read lock, mutations take the write lock. Every operation is
counted and timed on a stats.Registry. Any goroutine may call the Map's
methods directly. Busy workers should each obtain a Handle, which owns
private stats shards and thus records without contention.

Building with tag 'deadlock' replaces the lock by one from
github.com/sasha-s/go-deadlock, which reports lock-order inversions.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package syncmap

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/npillmayer/ostree/btree"
	"github.com/npillmayer/ostree/stats"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ostree'
func tracer() tracing.Trace {
	return tracing.Select("ostree")
}

// Op enumerates the instrumented operations.
type Op int

// Instrumented operations.
const (
	OpInsert Op = iota
	OpGet
	OpRemove
	OpRank
	OpSelect
	numOps
)

var opNames = [numOps]string{"insert", "get", "remove", "rank", "select"}

func (op Op) String() string {
	if op < 0 || op >= numOps {
		return fmt.Sprintf("op(%d)", int(op))
	}
	return opNames[op]
}

// Map is a concurrent ordered map.
type Map[K, V any] struct {
	mu       rwMutex
	tree     *btree.Tree[K, V]
	reg      *stats.Registry
	counters [numOps]*stats.Counter
	timers   [numOps]*stats.Timer
	misses   *stats.Counter
	shared   *Handle[K, V] // used by the Map's own methods
}

// New creates a map backed by a new tree with configuration cfg. Statistics
// are recorded on reg, which may be nil to create a private registry.
func New[K, V any](cfg btree.Config[K], reg *stats.Registry) (*Map[K, V], error) {
	tree, err := btree.New[K, V](cfg)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = stats.NewRegistry()
	}
	m := &Map[K, V]{tree: tree, reg: reg}
	for op := range numOps {
		name := "syncmap." + op.String()
		m.counters[op] = reg.Counter(name, op.String()+" calls")
		m.timers[op] = reg.Timer(name, op.String()+" latency including lock wait")
	}
	m.misses = reg.Counter("syncmap.miss", "lookups and removes of absent keys")
	reg.Stat("syncmap.len", "number of keys", func() string {
		return strconv.Itoa(m.Len())
	})
	reg.Stat("syncmap.height", "tree height", func() string {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return strconv.Itoa(m.tree.Height())
	})
	m.shared = m.Handle()
	return m, nil
}

// Stats returns the registry the map records on.
func (m *Map[K, V]) Stats() *stats.Registry {
	return m.reg
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Len()
}

// Insert stores value under key. See btree.Tree.Insert.
func (m *Map[K, V]) Insert(key K, value V) bool { return m.shared.Insert(key, value) }

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) { return m.shared.Get(key) }

// Remove deletes key and reports whether it was present.
func (m *Map[K, V]) Remove(key K) bool { return m.shared.Remove(key) }

// Rank returns the number of keys less than key.
func (m *Map[K, V]) Rank(key K) int { return m.shared.Rank(key) }

// Select returns the entry at position index in key order.
func (m *Map[K, V]) Select(index int) (K, V, error) { return m.shared.Select(index) }

// Clear removes all keys.
func (m *Map[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.Clear()
}

// Walk calls fn for every entry in key order while holding the read lock.
// fn must not call back into m.
func (m *Map[K, V]) Walk(fn func(key K, value V) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.tree.Walk(fn)
}

// Check validates the underlying tree.
func (m *Map[K, V]) Check() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Check()
}

// Dump writes the entries of the underlying tree to w.
func (m *Map[K, V]) Dump(w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Dump(w)
}

// Handle is a per-worker view of a Map. It records statistics on its own
// shards. Shards are atomic, so a handle is safe for concurrent use; the
// Map's own methods share one handle among all callers. Giving each worker
// its own handle keeps workers from contending on the same shard.
type Handle[K, V any] struct {
	m      *Map[K, V]
	calls  [numOps]*stats.CounterShard
	timing [numOps]*stats.TimerShard
	misses *stats.CounterShard
}

// Handle creates a new handle for m. Release it when the worker is done.
func (m *Map[K, V]) Handle() *Handle[K, V] {
	h := &Handle[K, V]{m: m, misses: m.misses.Shard()}
	for op := range numOps {
		h.calls[op] = m.counters[op].Shard()
		h.timing[op] = m.timers[op].Shard()
	}
	return h
}

// Release folds the handle's statistics into the map's totals.
func (h *Handle[K, V]) Release() {
	for op := range numOps {
		h.calls[op].Release()
		h.timing[op].Release()
	}
	h.misses.Release()
}

func (h *Handle[K, V]) record(op Op, start time.Time, hit bool) {
	h.calls[op].Inc()
	h.timing[op].Add(time.Since(start))
	if !hit {
		h.misses.Inc()
	}
}

// Insert stores value under key and reports whether the key is new.
func (h *Handle[K, V]) Insert(key K, value V) bool {
	start := time.Now()
	h.m.mu.Lock()
	inserted := h.m.tree.Insert(key, value)
	h.m.mu.Unlock()
	h.record(OpInsert, start, true)
	return inserted
}

// Get returns the value stored under key.
func (h *Handle[K, V]) Get(key K) (V, bool) {
	start := time.Now()
	h.m.mu.RLock()
	v, ok := h.m.tree.Get(key)
	h.m.mu.RUnlock()
	h.record(OpGet, start, ok)
	return v, ok
}

// Remove deletes key and reports whether it was present.
func (h *Handle[K, V]) Remove(key K) bool {
	start := time.Now()
	h.m.mu.Lock()
	removed := h.m.tree.Remove(key)
	h.m.mu.Unlock()
	h.record(OpRemove, start, removed)
	return removed
}

// Rank returns the number of keys less than key.
func (h *Handle[K, V]) Rank(key K) int {
	start := time.Now()
	h.m.mu.RLock()
	r := h.m.tree.Rank(key)
	h.m.mu.RUnlock()
	h.record(OpRank, start, true)
	return r
}

// Select returns the entry at position index in key order.
func (h *Handle[K, V]) Select(index int) (K, V, error) {
	start := time.Now()
	h.m.mu.RLock()
	k, v, err := h.m.tree.Select(index)
	h.m.mu.RUnlock()
	if err != nil {
		tracer().Debugf("syncmap: select(%d): %v", index, err)
	}
	h.record(OpSelect, start, err == nil)
	return k, v, err
}
