package command

import (
	"fmt"
	"io"

	"github.com/npillmayer/ostree/btree"
	"github.com/spf13/cobra"
)

// demoKeys is the insertion sequence of the demo.
var demoKeys = []int{10, 20, 5, 6, 12, 30, 7, 17}

// NewDemoCommand returns the demo subcommand.
func NewDemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "insert and remove a few keys, printing the tree after each step",
		Args:  cobra.NoArgs,
		RunE:  demoCommandFunc,
	}
	addOrderFlag(cmd.Flags(), btree.MinOrder)
	return cmd
}

func demoCommandFunc(cmd *cobra.Command, args []string) error {
	order, err := cmd.Flags().GetInt("order")
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	tree, err := btree.New[int, string](s.intConfig(order))
	if err != nil {
		return err
	}
	out := s.out
	heading.Fprintf(out, "inserting %v into a tree of order %d\n", demoKeys, order)
	for _, k := range demoKeys {
		tree.Insert(k, fmt.Sprintf("v%d", k))
	}
	if err := printTree(out, tree); err != nil {
		return err
	}
	fmt.Fprintf(out, "rank(12) = %d\n", tree.Rank(12))
	if k, v, err := tree.Select(tree.Len() / 2); err == nil {
		fmt.Fprintf(out, "select(%d) = %d,%s\n", tree.Len()/2, k, v)
	}

	heading.Fprintln(out, "removing 10")
	if !tree.Remove(10) {
		return fmt.Errorf("key 10 missing from demo tree")
	}
	if err := printTree(out, tree); err != nil {
		return err
	}

	heading.Fprintln(out, "removing all keys")
	for _, k := range demoKeys {
		tree.Remove(k)
	}
	if err := printTree(out, tree); err != nil {
		return err
	}
	faint.Fprintf(out, "structural events: %s\n", s.tally)
	return nil
}

// printTree prints the entries, the node outline and the check result.
func printTree[V any](out io.Writer, tree *btree.Tree[int, V]) error {
	fmt.Fprintf(out, "len=%d height=%d\n", tree.Len(), tree.Height())
	if err := tree.Dump(out); err != nil {
		return err
	}
	if err := tree.Outline(out); err != nil {
		return err
	}
	if err := tree.Check(); err != nil {
		failure.Fprintf(out, "check failed: %v\n", err)
		return err
	}
	success.Fprintln(out, "check ok")
	return nil
}
