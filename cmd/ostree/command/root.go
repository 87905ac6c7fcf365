package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/npillmayer/ostree/btree"
	"github.com/npillmayer/ostree/events"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed, color.Bold)
	faint   = color.New(color.Faint)
)

// NewRootCommand returns the ostree command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ostree",
		Short:         "Play with order-statistics B-trees",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("trace", "error", "trace level: error, info or debug")
	rootCmd.PersistentFlags().Bool("events", false, "print structural tree events as they happen")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		noColor, err := cmd.Flags().GetBool("no-color")
		if err != nil {
			return err
		}
		color.NoColor = noColor || !isTerminal(cmd.OutOrStdout())
		return nil
	}

	rootCmd.AddCommand(
		NewDemoCommand(),
		NewShellCommand(),
		NewWordsCommand(),
		NewBenchCommand(),
		NewDotCommand(),
	)
	return rootCmd
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func addOrderFlag(flags *pflag.FlagSet, def int) {
	flags.Int("order", def, fmt.Sprintf("branching factor of the tree (%d…%d)", btree.MinOrder, btree.MaxOrder))
}

// session bundles what every subcommand needs for building trees: a tracer
// configured from --trace and the event observers requested with --events.
type session struct {
	out     io.Writer
	tracer  tracing.Trace
	tally   *events.Tally
	cast    *events.Broadcaster
	printed chan int
	cancel  context.CancelFunc
}

func newSession(cmd *cobra.Command) (*session, error) {
	level, err := cmd.Flags().GetString("trace")
	if err != nil {
		return nil, err
	}
	tr, err := newTracer(level)
	if err != nil {
		return nil, err
	}
	s := &session{
		out:    cmd.OutOrStdout(),
		tracer: tr,
		tally:  &events.Tally{},
	}
	withEvents, err := cmd.Flags().GetBool("events")
	if err != nil {
		return nil, err
	}
	if withEvents {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.cast = events.NewBroadcaster(ctx)
		ch, err := s.cast.Subscribe(ctx, 256)
		if err != nil {
			cancel()
			return nil, err
		}
		s.printed = make(chan int, 1)
		go func() {
			s.printed <- events.Print(cmd.ErrOrStderr(), ch)
		}()
	}
	return s, nil
}

// observer returns the observer to install into trees of this session.
func (s *session) observer() btree.Observer {
	if s.cast == nil {
		return s.tally
	}
	return events.Multi(s.tally, s.cast)
}

func (s *session) intConfig(order int) btree.Config[int] {
	return btree.Config[int]{
		Order:    order,
		Less:     func(a, b int) bool { return a < b },
		Tracer:   s.tracer,
		Observer: s.observer(),
	}
}

// close shuts down event printing, waiting for pending events to be printed.
func (s *session) close() {
	if s.cast == nil {
		return
	}
	s.cast.Close()
	n := <-s.printed
	s.cancel()
	s.tracer.Debugf("printed %d events", n)
}

func newTracer(level string) (tracing.Trace, error) {
	tr := gologadapter.New()
	switch strings.ToLower(level) {
	case "error":
		tr.SetTraceLevel(tracing.LevelError)
	case "info":
		tr.SetTraceLevel(tracing.LevelInfo)
	case "debug":
		tr.SetTraceLevel(tracing.LevelDebug)
	default:
		return nil, fmt.Errorf("unknown trace level %q", level)
	}
	return tr, nil
}
