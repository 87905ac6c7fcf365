package command

import (
	"math/rand"

	"github.com/npillmayer/ostree/btree"
	"github.com/spf13/cobra"
)

// NewDotCommand returns the Graphviz export subcommand.
func NewDotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "print a tree of random keys in Graphviz DOT format",
		Long: `Print a tree of random keys in Graphviz DOT format.
Render it with, e.g.,

    ostree dot --keys 40 | dot -Tsvg > tree.svg`,
		Args: cobra.NoArgs,
		RunE: dotCommandFunc,
	}
	addOrderFlag(cmd.Flags(), 4)
	cmd.Flags().Int("keys", 20, "number of keys to insert")
	cmd.Flags().Int64("seed", 1, "seed for drawing keys")
	return cmd
}

func dotCommandFunc(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	order, err := flags.GetInt("order")
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
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	tree, err := btree.New[int, struct{}](s.intConfig(order))
	if err != nil {
		return err
	}
	rnd := rand.New(rand.NewSource(seed))
	for tree.Len() < nkeys {
		tree.Insert(rnd.Intn(10*nkeys), struct{}{})
	}
	return tree.ToDot(s.out)
}
