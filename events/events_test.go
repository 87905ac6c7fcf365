package events

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/ostree/btree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newObservedTree(t *testing.T, obs btree.Observer) *btree.Tree[int, int] {
	t.Helper()
	tree, err := btree.New[int, int](btree.Config[int]{
		Order:    3,
		Less:     func(a, b int) bool { return a < b },
		Observer: obs,
	})
	require.NoError(t, err)
	return tree
}

func TestTallyCountsTreeEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ostree")
	defer teardown()

	tally := &Tally{}
	tree := newObservedTree(t, tally)
	for _, k := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
		tree.Insert(k, k)
	}
	require.Equal(t, uint64(4), tally.Count(btree.EventSplit))
	require.Equal(t, uint64(2), tally.Count(btree.EventRootGrow))
	require.Equal(t, uint64(6), tally.Total())
	require.Equal(t, "split=4 root-grow=2", tally.String())

	tree.Remove(10)
	require.Equal(t, uint64(2), tally.Count(btree.EventMerge))
	require.Equal(t, uint64(1), tally.Count(btree.EventRootCollapse))
	require.Equal(t, uint64(0), tally.Count(btree.EventKind(200)))
}

func TestEmptyTallyString(t *testing.T) {
	require.Equal(t, "none", (&Tally{}).String())
}

func TestMultiForwardsToAll(t *testing.T) {
	a, b := &Tally{}, &Tally{}
	tree := newObservedTree(t, Multi(a, nil, b))
	for i := range 50 {
		tree.Insert(i, i)
	}
	require.NotZero(t, a.Total())
	require.Equal(t, a.Total(), b.Total())
}

func TestBroadcasterDeliversToSubscribers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ostree")
	defer teardown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bc := NewBroadcaster(ctx)
	ch1, err := bc.Subscribe(ctx, 64)
	require.NoError(t, err)
	ch2, err := bc.Subscribe(ctx, 64)
	require.NoError(t, err)

	tally := &Tally{}
	tree := newObservedTree(t, Multi(bc, tally))
	for _, k := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
		tree.Insert(k, k)
	}
	want := int(tally.Total())
	for _, ch := range []<-chan btree.Event{ch1, ch2} {
		var kinds []btree.EventKind
		for len(kinds) < want {
			select {
			case e := <-ch:
				kinds = append(kinds, e.Kind)
			case <-time.After(2 * time.Second):
				t.Fatalf("timeout after %d of %d events", len(kinds), want)
			}
		}
		require.Equal(t, btree.EventRootGrow, kinds[0])
		require.Equal(t, btree.EventSplit, kinds[1])
	}
	require.Equal(t, uint64(want), bc.Published())
	bc.Close()
}

func TestBroadcasterCloseDeliversPendingEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ostree")
	defer teardown()

	bc := NewBroadcaster(context.Background())
	ch, err := bc.Subscribe(context.Background(), 64)
	require.NoError(t, err)
	tally := &Tally{}
	tree := newObservedTree(t, Multi(bc, tally))
	for _, k := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
		tree.Insert(k, k)
	}
	bc.Close()
	done := make(chan int)
	go func() {
		n := 0
		for range ch {
			n++
		}
		done <- n
	}()
	select {
	case n := <-done:
		require.Equal(t, int(tally.Total()), n)
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber channel not closed")
	}
}

func TestBroadcasterClose(t *testing.T) {
	bc := NewBroadcaster(nil)
	ch, err := bc.Subscribe(context.Background(), 4)
	require.NoError(t, err)
	bc.Close()
	bc.Close()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "expected subscriber channel to be closed")
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber channel not closed")
	}
	_, err = bc.Subscribe(context.Background(), 4)
	require.ErrorIs(t, err, ErrClosed)
	bc.Observe(btree.Event{Kind: btree.EventSplit})
	require.Equal(t, uint64(1), bc.Dropped())
}

func TestBroadcasterStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bc := NewBroadcaster(ctx)
	ch, err := bc.Subscribe(context.Background(), 1)
	require.NoError(t, err)
	cancel()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber channel not closed after cancel")
	}
}

func TestPrintDrainsChannel(t *testing.T) {
	ch := make(chan btree.Event, 2)
	ch <- btree.Event{Kind: btree.EventSplit, Node: 3, Child: 1, Height: 2}
	ch <- btree.Event{Kind: btree.EventMerge}
	close(ch)
	var buf bytes.Buffer
	require.Equal(t, 2, Print(&buf, ch))
	require.True(t, strings.HasPrefix(buf.String(), "event: split node=3 child=1 height=2\n"))
}
