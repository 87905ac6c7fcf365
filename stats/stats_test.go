package stats

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCounterShardsSumUp(t *testing.T) {
	reg := NewRegistry()
	c := reg.Counter("inserts", "keys added")
	require.Same(t, c, reg.Counter("inserts", "ignored"))

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			shard := c.Shard()
			if w%2 == 0 {
				defer shard.Release()
			}
			for range 1000 {
				shard.Inc()
			}
			shard.Add(10)
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(8*1010), c.Value())
}

func TestReleaseFoldsShard(t *testing.T) {
	c := NewRegistry().Counter("c", "")
	s := c.Shard()
	s.Add(5)
	s.Release()
	s.Release()
	require.Equal(t, uint64(5), c.Value())
	require.Empty(t, c.shards)
}

func TestTimerAggregates(t *testing.T) {
	reg := NewRegistry()
	tm := reg.Timer("get", "lookups")
	s1, s2 := tm.Shard(), tm.Shard()
	s1.Add(10 * time.Millisecond)
	s2.Add(30 * time.Millisecond)
	s2.Release()
	agg := tm.Value()
	require.Equal(t, uint64(2), agg.Count)
	require.Equal(t, 40*time.Millisecond, agg.Total)
	require.Equal(t, 20*time.Millisecond, agg.Avg())
	require.Equal(t, time.Duration(0), TimerAgg{}.Avg())
}

func TestStopwatchPauses(t *testing.T) {
	shard := NewRegistry().Timer("sw", "").Shard()
	sw := Start(shard)
	time.Sleep(5 * time.Millisecond)
	sw.Pause()
	time.Sleep(200 * time.Millisecond)
	sw.Resume()
	d := sw.Stop()
	require.GreaterOrEqual(t, d, 5*time.Millisecond)
	require.Less(t, d, 200*time.Millisecond)
	require.Equal(t, uint64(1), shard.Value().Count)

	Time(shard, func() {})
	require.Equal(t, uint64(2), shard.Value().Count)
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "999ns", FormatDuration(999))
	require.Equal(t, "1.5us", FormatDuration(1500))
	require.Equal(t, "12.3ms", FormatDuration(12345678))
	require.Equal(t, "2s", FormatDuration(2*time.Second))
	require.Equal(t, "3.6e+03s", FormatDuration(time.Hour))
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry()
	require.NoError(t, reg.Report(&buf))
	require.Equal(t, "NO TIMERS\nNO COUNTERS\nNO USER STATS\n", buf.String())

	reg.Counter("b.count", "second").Shard().Add(7)
	reg.Counter("a.count", "first").Shard()
	reg.Timer("idle", "never hit")
	reg.Stat("height", "tree height", func() string { return "4" })
	buf.Reset()
	require.NoError(t, reg.Report(&buf))
	out := buf.String()
	require.Contains(t, out, "===== TIMERS =====")
	require.Contains(t, out, "N/A")
	require.Less(t, strings.Index(out, "a.count"), strings.Index(out, "b.count"))
	require.Regexp(t, `b\.count\s+7\s+second`, out)
	require.Regexp(t, `height\s+4\s+tree height`, out)

	reg.Unregister("height")
	buf.Reset()
	require.NoError(t, reg.Report(&buf))
	require.Contains(t, buf.String(), "NO USER STATS")
}
