/*
Package pool implements a fixed-size pool of worker goroutines fed from an
unbounded task queue.

Tasks are handed the index of the worker running them, in [0, Size()). This
lets tasks address per-worker state (e.g. stats shards) without locking.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package pool

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/npillmayer/ostree/stats"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'ostree'
func tracer() tracing.Trace {
	return tracing.Select("ostree")
}

// ErrClosed is returned when submitting to a closed pool.
var ErrClosed = errors.New("pool: closed")

// Task is a unit of work. worker is the index of the executing worker.
type Task func(worker int)

// Pool runs tasks on a fixed number of goroutines.
type Pool struct {
	size    int
	mu      sync.Mutex
	work    *sync.Cond // signalled when tasks arrive or the pool closes
	idle    *sync.Cond // signalled when a worker finishes a task
	queue   []Task
	busy    int
	closed  bool
	workers sync.WaitGroup
	reg     *stats.Registry
}

// Option configures a pool.
type Option func(*Pool)

// WithStats makes every worker record its tasks on counter "pool.tasks" and
// its busy time on timer "pool.busy" of reg.
func WithStats(reg *stats.Registry) Option {
	return func(p *Pool) {
		p.reg = reg
	}
}

// New starts a pool with n workers. n <= 0 selects runtime.NumCPU().
func New(n int, opts ...Option) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{size: n}
	p.work = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	tracer().Debugf("pool: starting %d workers", n)
	p.workers.Add(n)
	for i := range n {
		go p.worker(i)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Submit enqueues task. It never blocks.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.queue = append(p.queue, task)
	p.work.Signal()
	return nil
}

// Wait blocks until the queue is empty and no task is running.
func (p *Pool) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) > 0 || p.busy > 0 {
		p.idle.Wait()
	}
}

// Close rejects further tasks, runs all tasks still queued and stops the
// workers. It returns when every worker has exited. Calling Close more than
// once is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.work.Broadcast()
	p.mu.Unlock()
	p.workers.Wait()
	tracer().Debugf("pool: all %d workers stopped", p.size)
}

func (p *Pool) worker(i int) {
	defer p.workers.Done()
	var tasks *stats.CounterShard
	var busy *stats.TimerShard
	if p.reg != nil {
		tasks = p.reg.Counter("pool.tasks", "tasks run by pool workers").Shard()
		busy = p.reg.Timer("pool.busy", "time pool workers spent on tasks").Shard()
		defer tasks.Release()
		defer busy.Release()
	}
	for {
		task, ok := p.next()
		if !ok {
			return
		}
		start := time.Now()
		p.run(task, i)
		if tasks != nil {
			tasks.Inc()
			busy.Add(time.Since(start))
		}
		p.mu.Lock()
		p.busy--
		p.idle.Broadcast()
		p.mu.Unlock()
	}
}

// next waits for a task. It reports false once the pool is closed and the
// queue is drained.
func (p *Pool) next() (Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 && !p.closed {
		p.work.Wait()
	}
	if len(p.queue) == 0 {
		return nil, false
	}
	task := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	p.busy++
	return task, true
}

// run executes task, keeping a panicking task from killing the worker.
func (p *Pool) run(task Task, worker int) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Errorf("pool: task on worker %d panicked: %v", worker, r)
		}
	}()
	task(worker)
}
