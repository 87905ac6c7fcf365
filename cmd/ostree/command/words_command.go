package command

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/npillmayer/ostree/btree"
	"github.com/npillmayer/ostree/wordfreq"
	"github.com/spf13/cobra"
)

// NewWordsCommand returns the word counting subcommand.
func NewWordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words FILE",
		Short: "count the words of a text or HTML file",
		Args:  cobra.ExactArgs(1),
		RunE:  wordsCommandFunc,
	}
	addOrderFlag(cmd.Flags(), btree.DefaultOrder)
	cmd.Flags().Bool("html", false, "input is HTML; count the words of its text nodes")
	cmd.Flags().Int("top", 10, "number of most frequent words to list (-1 for all)")
	return cmd
}

func wordsCommandFunc(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	order, err := flags.GetInt("order")
	if err != nil {
		return err
	}
	isHTML, err := flags.GetBool("html")
	if err != nil {
		return err
	}
	top, err := flags.GetInt("top")
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	counter, err := wordfreq.New(btree.Config[string]{
		Order:    order,
		Tracer:   s.tracer,
		Observer: s.observer(),
	})
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if isHTML {
		_, err = counter.CountHTML(f)
	} else {
		_, err = counter.CountText(f)
	}
	if err != nil {
		return fmt.Errorf("counting words of %s: %w", args[0], err)
	}

	out := s.out
	heading.Fprintf(out, "%s: %d words, vocabulary of %d\n", args[0], counter.Total(), counter.Vocabulary())
	tw := tabwriter.NewWriter(out, 4, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "COUNT\tRANK\tWORD\t")
	for _, wc := range counter.Top(top) {
		fmt.Fprintf(tw, "%d\t%d\t%s\t\n", wc.Count, wc.Rank, wc.Word)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	t := counter.Tree()
	faint.Fprintf(out, "tree height %d, structural events: %s\n", t.Height(), s.tally)
	return t.Check()
}
