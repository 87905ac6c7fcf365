/*
Package stats provides named counters, timers and user-defined statistics
for instrumenting concurrent code.

Counters and timers are sharded: every worker goroutine obtains its own shard
and updates it without contention. Reading a counter or timer sums the
shards into a global total. A released shard is folded into the total so no
counts get lost when workers terminate.

	reg := stats.NewRegistry()
	inserts := reg.Counter("inserts", "keys added")
	shard := inserts.Shard()
	defer shard.Release()
	shard.Inc()

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package stats

import (
	"sort"
	"sync"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ostree'
func tracer() tracing.Trace {
	return tracing.Select("ostree")
}

// Registry holds named statistics. Names are unique per kind of statistic;
// asking for an existing name returns the existing instance.
type Registry struct {
	mu       sync.Mutex
	counters map[string]*Counter
	timers   map[string]*Timer
	stats    map[string]*userStat
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*Counter),
		timers:   make(map[string]*Timer),
		stats:    make(map[string]*userStat),
	}
}

// Counter returns the counter registered under name, creating it if needed.
func (r *Registry) Counter(name, desc string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[name]; ok {
		return c
	}
	c := &Counter{name: name, desc: desc, shards: make(map[*CounterShard]struct{})}
	r.counters[name] = c
	return c
}

// Timer returns the timer registered under name, creating it if needed.
func (r *Registry) Timer(name, desc string) *Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.timers[name]; ok {
		return t
	}
	t := &Timer{name: name, desc: desc, shards: make(map[*TimerShard]struct{})}
	r.timers[name] = t
	return t
}

// Stat registers a user-defined statistic whose value is produced by
// callback at report time. A later registration under the same name
// replaces the callback.
func (r *Registry) Stat(name, desc string, callback func() string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[name] = &userStat{name: name, desc: desc, callback: callback}
}

// Unregister removes the user statistic with the given name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stats, name)
}

type userStat struct {
	name, desc string
	callback   func() string
}

func (r *Registry) sortedCounters() []*Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*Counter, 0, len(r.counters))
	for _, c := range r.counters {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].name < list[j].name })
	return list
}

func (r *Registry) sortedTimers() []*Timer {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*Timer, 0, len(r.timers))
	for _, t := range r.timers {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].name < list[j].name })
	return list
}

func (r *Registry) sortedStats() []*userStat {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*userStat, 0, len(r.stats))
	for _, s := range r.stats {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].name < list[j].name })
	return list
}
