package command

import (
	"fmt"
	"math/rand"
	"runtime"

	"github.com/npillmayer/ostree/btree"
	"github.com/npillmayer/ostree/pool"
	"github.com/npillmayer/ostree/stats"
	"github.com/npillmayer/ostree/syncmap"
	"github.com/spf13/cobra"
)

// benchBatch is the number of keys a single pool task works on.
const benchBatch = 1000

// NewBenchCommand returns the concurrent benchmark subcommand.
func NewBenchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "run concurrent inserts, lookups and removes and report statistics",
		Args:  cobra.NoArgs,
		RunE:  benchCommandFunc,
	}
	addOrderFlag(cmd.Flags(), btree.DefaultOrder)
	cmd.Flags().Int("workers", runtime.NumCPU(), "number of worker goroutines")
	cmd.Flags().Int("keys", 100000, "number of distinct keys")
	cmd.Flags().Int64("seed", 1, "seed for shuffling keys")
	return cmd
}

func benchCommandFunc(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	order, err := flags.GetInt("order")
	if err != nil {
		return err
	}
	workers, err := flags.GetInt("workers")
	if err != nil {
		return err
	}
	nkeys, err := flags.GetInt("keys")
	if err != nil {
		return err
	}
	seed, err := flags.GetInt64("seed")
	if err != nil {
		return err
	}
	if nkeys < 0 {
		return fmt.Errorf("number of keys must not be negative")
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	reg := stats.NewRegistry()
	m, err := syncmap.New[int, int](s.intConfig(order), reg)
	if err != nil {
		return err
	}
	reg.Stat("tree.events", "structural events of the tree", s.tally.String)
	p := pool.New(workers, pool.WithStats(reg))
	handles := make([]*syncmap.Handle[int, int], p.Size())
	for i := range handles {
		handles[i] = m.Handle()
	}
	keys := rand.New(rand.NewSource(seed)).Perm(nkeys)
	phases := reg.Timer("bench.phase", "wall time per benchmark phase").Shard()

	runPhase := func(name string, op func(h *syncmap.Handle[int, int], k int)) {
		sw := stats.Start(phases)
		for lo := 0; lo < len(keys); lo += benchBatch {
			batch := keys[lo:min(lo+benchBatch, len(keys))]
			p.Submit(func(worker int) {
				h := handles[worker]
				for _, k := range batch {
					op(h, k)
				}
			})
		}
		p.Wait()
		d := sw.Stop()
		fmt.Fprintf(s.out, "%-8s %10s  len=%d\n", name, stats.FormatDuration(d), m.Len())
	}

	heading.Fprintf(s.out, "%d keys, %d workers, order %d\n", nkeys, p.Size(), order)
	runPhase("insert", func(h *syncmap.Handle[int, int], k int) { h.Insert(k, k) })
	runPhase("get", func(h *syncmap.Handle[int, int], k int) { h.Get(k) })
	runPhase("rank", func(h *syncmap.Handle[int, int], k int) {
		if r := h.Rank(k); r >= 0 {
			h.Select(r)
		}
	})
	runPhase("remove", func(h *syncmap.Handle[int, int], k int) {
		if k%2 == 0 {
			h.Remove(k)
		}
	})
	p.Close()
	for _, h := range handles {
		h.Release()
	}
	phases.Release()

	if err := m.Check(); err != nil {
		failure.Fprintf(s.out, "check failed: %v\n", err)
		return err
	}
	if want := nkeys / 2; m.Len() != want {
		return fmt.Errorf("expected %d keys after removes, have %d", want, m.Len())
	}
	success.Fprintln(s.out, "check ok")
	return reg.Report(s.out)
}
