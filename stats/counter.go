package stats

import (
	"sync"

	"go.uber.org/atomic"
)

// Counter is a named, sharded event counter.
type Counter struct {
	name, desc string
	mu         sync.Mutex
	folded     uint64 // counts of released shards
	shards     map[*CounterShard]struct{}
}

// CounterShard is the part of a counter owned by a single worker.
type CounterShard struct {
	counter *Counter
	n       atomic.Uint64
}

// Name returns the name the counter is registered under.
func (c *Counter) Name() string { return c.name }

// Shard registers and returns a new shard of c. Callers should Release the
// shard when the owning worker terminates.
func (c *Counter) Shard() *CounterShard {
	s := &CounterShard{counter: c}
	c.mu.Lock()
	c.shards[s] = struct{}{}
	c.mu.Unlock()
	return s
}

// Value sums all shards into the global total.
func (c *Counter) Value() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.folded
	for s := range c.shards {
		total += s.n.Load()
	}
	return total
}

// Add increments the shard by d.
func (s *CounterShard) Add(d uint64) {
	s.n.Add(d)
}

// Inc increments the shard by one.
func (s *CounterShard) Inc() {
	s.n.Inc()
}

// Value returns the shard's local count.
func (s *CounterShard) Value() uint64 {
	return s.n.Load()
}

// Release folds the shard into its counter's total and deregisters it.
// The shard must not be used afterwards. Releasing twice is a no-op.
func (s *CounterShard) Release() {
	c := s.counter
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.shards[s]; !ok {
		return
	}
	c.folded += s.n.Load()
	delete(c.shards, s)
}
