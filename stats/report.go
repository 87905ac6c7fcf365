package stats

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

// Report writes all timers, counters and user statistics of r to w as
// aligned tables.
func (r *Registry) Report(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 8, 4, 2, ' ', 0)
	timers := r.sortedTimers()
	if len(timers) == 0 {
		fmt.Fprintln(tw, "NO TIMERS")
	} else {
		fmt.Fprintln(tw, "===== TIMERS =====")
		fmt.Fprintln(tw, "NAME\tTIME\tCOUNT\tAVG\tDESCRIPTION")
		for _, t := range timers {
			agg := t.Value()
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", t.name,
				FormatDuration(agg.Total), agg.Count, formatAvg(agg), t.desc)
		}
	}
	counters := r.sortedCounters()
	if len(counters) == 0 {
		fmt.Fprintln(tw, "NO COUNTERS")
	} else {
		fmt.Fprintln(tw, "===== COUNTERS =====")
		fmt.Fprintln(tw, "NAME\tCOUNT\tDESCRIPTION")
		for _, c := range counters {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", c.name, c.Value(), c.desc)
		}
	}
	stats := r.sortedStats()
	if len(stats) == 0 {
		fmt.Fprintln(tw, "NO USER STATS")
	} else {
		fmt.Fprintln(tw, "===== USER STATS =====")
		fmt.Fprintln(tw, "NAME\tVALUE\tDESCRIPTION")
		for _, s := range stats {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.name, s.callback(), s.desc)
		}
	}
	if err := tw.Flush(); err != nil {
		tracer().Errorf("stats: report failed: %v", err)
		return err
	}
	return nil
}

func formatAvg(agg TimerAgg) string {
	if agg.Count == 0 {
		return "N/A"
	}
	return FormatDuration(agg.Avg())
}

// FormatDuration prints d with three significant digits in the largest unit
// out of ns, us, ms and s that keeps the number below 1000, e.g. "12.3ms".
func FormatDuration(d time.Duration) string {
	units := [...]string{"ns", "us", "ms", "s"}
	v := float64(d)
	i := 0
	for v >= 1000 && i < len(units)-1 {
		v /= 1000
		i++
	}
	return strconv.FormatFloat(v, 'g', 3, 64) + units[i]
}
