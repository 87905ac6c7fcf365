/*
Package events fans out structural events of order-statistics trees to
asynchronous subscribers.

A Broadcaster is a btree.Observer. Install it in btree.Config.Observer and
subscribe to receive events on a channel:

	b := events.NewBroadcaster(ctx)
	tree, _ := btree.New[int, string](btree.Config[int]{Less: less, Observer: b})
	ch, _ := b.Subscribe(ctx, 64)

Publishing never calls back into the tree, and subscribers work on copies of
events, so slow subscribers never see a tree in an intermediate state.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package events

import (
	"context"
	"errors"

	"github.com/guiguan/caster"
	"github.com/npillmayer/ostree/btree"
	"github.com/npillmayer/schuko/tracing"
	"go.uber.org/atomic"
)

// tracer writes to trace with key 'ostree'
func tracer() tracing.Trace {
	return tracing.Select("ostree")
}

// ErrClosed is returned when subscribing to a closed broadcaster.
var ErrClosed = errors.New("events: broadcaster closed")

// Broadcaster publishes tree events to any number of subscribers.
type Broadcaster struct {
	cast      *caster.Caster // does the actual fan-out
	trace     tracing.Trace
	done      chan struct{}
	closed    atomic.Bool
	published atomic.Uint64
	dropped   atomic.Uint64
}

var _ btree.Observer = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster. It shuts down when ctx is cancelled
// or when Close is called. ctx may be nil.
//
// The package tracer is resolved here, once. Shutdown may run on a background
// goroutine and must not touch the global trace selector.
func NewBroadcaster(ctx context.Context) *Broadcaster {
	b := &Broadcaster{
		cast:  caster.New(ctx),
		trace: tracer(),
		done:  make(chan struct{}),
	}
	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				b.Close()
			case <-b.done:
			}
		}()
	}
	return b
}

// Observe publishes e to all subscribers. Events observed after Close are
// counted as dropped.
func (b *Broadcaster) Observe(e btree.Event) {
	if b.closed.Load() || !b.cast.Pub(e) {
		b.dropped.Inc()
		return
	}
	b.published.Inc()
}

// Subscribe returns a channel receiving all events published from now on.
// capacity is the buffer size of the channel. The channel is closed when ctx
// is done or the broadcaster is closed. On Close, events still pending for
// the subscriber are delivered before the channel is closed, so a subscriber
// has to keep reading until then (or cancel ctx).
func (b *Broadcaster) Subscribe(ctx context.Context, capacity uint) (<-chan btree.Event, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.closed.Load() {
		return nil, ErrClosed
	}
	sub, ok := b.cast.Sub(ctx, capacity)
	if !ok {
		return nil, ErrClosed
	}
	out := make(chan btree.Event, capacity)
	go func() {
		defer close(out)
		defer b.cast.Unsub(sub)
		for {
			select {
			case m, ok := <-sub:
				if !ok {
					return
				}
				if !b.forward(ctx, out, m) {
					return
				}
			case <-ctx.Done():
				return
			case <-b.done:
				for {
					select {
					case m, ok := <-sub:
						if !ok || !b.forward(ctx, out, m) {
							return
						}
					default:
						return
					}
				}
			}
		}
	}()
	return out, nil
}

// forward hands m to out. It returns false if ctx is done first.
func (b *Broadcaster) forward(ctx context.Context, out chan<- btree.Event, m interface{}) bool {
	e, isEvent := m.(btree.Event)
	if !isEvent {
		b.trace.Errorf("events: unexpected message of type %T", m)
		return true
	}
	select {
	case out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close shuts down the broadcaster and closes all subscriber channels.
// Calling Close more than once is a no-op.
func (b *Broadcaster) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	b.trace.Debugf("events: closing broadcaster after %d events (%d dropped)",
		b.published.Load(), b.dropped.Load())
	b.cast.Close()
	close(b.done)
}

// Published returns the number of events handed to subscribers.
func (b *Broadcaster) Published() uint64 {
	return b.published.Load()
}

// Dropped returns the number of events observed after shutdown.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}
