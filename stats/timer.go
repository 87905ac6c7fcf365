package stats

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Timer is a named, sharded accumulator of elapsed time.
type Timer struct {
	name, desc string
	mu         sync.Mutex
	folded     TimerAgg
	shards     map[*TimerShard]struct{}
}

// TimerAgg is the aggregated value of a timer: how often it was hit and how
// much time was spent in total.
type TimerAgg struct {
	Count uint64
	Total time.Duration
}

// Avg returns the average time per hit, or 0 for an unused timer.
func (a TimerAgg) Avg() time.Duration {
	if a.Count == 0 {
		return 0
	}
	return a.Total / time.Duration(a.Count)
}

func (a TimerAgg) add(b TimerAgg) TimerAgg {
	return TimerAgg{Count: a.Count + b.Count, Total: a.Total + b.Total}
}

// TimerShard is the part of a timer owned by a single worker.
type TimerShard struct {
	timer *Timer
	count atomic.Uint64
	total atomic.Duration
}

// Name returns the name the timer is registered under.
func (t *Timer) Name() string { return t.name }

// Shard registers and returns a new shard of t.
func (t *Timer) Shard() *TimerShard {
	s := &TimerShard{timer: t}
	t.mu.Lock()
	t.shards[s] = struct{}{}
	t.mu.Unlock()
	return s
}

// Value sums all shards into the global aggregate.
func (t *Timer) Value() TimerAgg {
	t.mu.Lock()
	defer t.mu.Unlock()
	agg := t.folded
	for s := range t.shards {
		agg = agg.add(s.Value())
	}
	return agg
}

// Add records one hit taking d.
func (s *TimerShard) Add(d time.Duration) {
	s.total.Add(d)
	s.count.Inc()
}

// Value returns the shard's local aggregate.
func (s *TimerShard) Value() TimerAgg {
	return TimerAgg{Count: s.count.Load(), Total: s.total.Load()}
}

// Release folds the shard into its timer's aggregate and deregisters it.
func (s *TimerShard) Release() {
	t := s.timer
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.shards[s]; !ok {
		return
	}
	t.folded = t.folded.add(s.Value())
	delete(t.shards, s)
}

// Stopwatch measures time spent in a section of code, possibly with pauses,
// and records it as a single hit on a timer shard when stopped.
type Stopwatch struct {
	shard   *TimerShard
	start   time.Time
	elapsed time.Duration
	running bool
}

// Start creates a running stopwatch for shard.
func Start(shard *TimerShard) *Stopwatch {
	sw := &Stopwatch{shard: shard}
	sw.Resume()
	return sw
}

// Pause stops accumulating time until Resume is called.
func (sw *Stopwatch) Pause() {
	if sw.running {
		sw.elapsed += time.Since(sw.start)
		sw.running = false
	}
}

// Resume continues accumulating time.
func (sw *Stopwatch) Resume() {
	if !sw.running {
		sw.start = time.Now()
		sw.running = true
	}
}

// Stop records the accumulated time on the shard and resets the stopwatch.
// It returns the recorded duration.
func (sw *Stopwatch) Stop() time.Duration {
	sw.Pause()
	d := sw.elapsed
	sw.shard.Add(d)
	sw.elapsed = 0
	return d
}

// Time runs fn and records its duration on shard.
func Time(shard *TimerShard, fn func()) {
	sw := Start(shard)
	defer sw.Stop()
	fn()
}
