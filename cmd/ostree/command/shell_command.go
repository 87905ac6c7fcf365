package command

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/npillmayer/ostree/btree"
	"github.com/spf13/cobra"
)

// NewShellCommand returns the interactive shell subcommand.
func NewShellCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "read commands from stdin and apply them to a tree with integer keys",
		Args:  cobra.NoArgs,
		RunE:  shellCommandFunc,
	}
	addOrderFlag(cmd.Flags(), btree.DefaultOrder)
	return cmd
}

func shellCommandFunc(cmd *cobra.Command, args []string) error {
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
	sh := &shell{
		scanner:     bufio.NewScanner(cmd.InOrStdin()),
		out:         s.out,
		tree:        tree,
		interactive: isTerminal(cmd.InOrStdin()),
	}
	return sh.run()
}

type shell struct {
	scanner     *bufio.Scanner
	out         io.Writer
	tree        *btree.Tree[int, string]
	interactive bool
}

func (sh *shell) run() error {
	if sh.interactive {
		sh.printHelp()
	}
	sh.printPrompt()
	for sh.scanner.Scan() {
		if !sh.processInput(sh.scanner.Text()) {
			return nil
		}
		sh.printPrompt()
	}
	return sh.scanner.Err()
}

func (sh *shell) printHelp() {
	fmt.Fprint(sh.out, `
Order-statistics B-tree shell

Available Commands:
  SET <key> <val>  Insert or replace a key-value pair
  GET <key>        Retrieve the value for key
  DEL <key>        Remove key
  RANK <key>       Number of keys less than key
  SELECT <i>       Entry at position i (0-based)
  LEN              Number of keys
  DUMP             Print all entries and the node outline
  CHECK            Validate the tree invariants
  HELP             Show this text
  EXIT             Terminate this session
`)
}

func (sh *shell) printPrompt() {
	if sh.interactive {
		fmt.Fprint(sh.out, "> ")
	}
}

// processInput executes one command line. It returns false on EXIT.
func (sh *shell) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]
	switch command {
	default:
		failure.Fprintf(sh.out, "Unknown command %q\n", command)
	case "set":
		sh.processSet(args)
	case "get":
		sh.processGet(args)
	case "del":
		sh.processDelete(args)
	case "rank":
		sh.processRank(args)
	case "select":
		sh.processSelect(args)
	case "len":
		fmt.Fprintln(sh.out, sh.tree.Len())
	case "dump":
		sh.tree.Dump(sh.out)
		sh.tree.Outline(sh.out)
	case "check":
		if err := sh.tree.Check(); err != nil {
			failure.Fprintln(sh.out, err)
		} else {
			success.Fprintln(sh.out, "ok")
		}
	case "help":
		sh.printHelp()
	case "exit", "quit":
		return false
	}
	return true
}

func (sh *shell) intArg(args []string, usage string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintln(sh.out, "Usage:", usage)
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		failure.Fprintf(sh.out, "Not an integer: %q\n", args[0])
		return 0, false
	}
	return n, true
}

func (sh *shell) processSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(sh.out, "Usage: SET <key> <value>")
		return
	}
	key, ok := sh.intArg(args[:1], "SET <key> <value>")
	if !ok {
		return
	}
	if sh.tree.Insert(key, args[1]) {
		fmt.Fprintln(sh.out, "inserted")
	} else {
		fmt.Fprintln(sh.out, "replaced")
	}
}

func (sh *shell) processGet(args []string) {
	key, ok := sh.intArg(args, "GET <key>")
	if !ok {
		return
	}
	if v, found := sh.tree.Get(key); found {
		fmt.Fprintln(sh.out, v)
		return
	}
	fmt.Fprintln(sh.out, "Key not found.")
}

func (sh *shell) processDelete(args []string) {
	key, ok := sh.intArg(args, "DEL <key>")
	if !ok {
		return
	}
	if !sh.tree.Remove(key) {
		fmt.Fprintln(sh.out, "Key not found.")
		return
	}
	fmt.Fprintln(sh.out, "deleted")
}

func (sh *shell) processRank(args []string) {
	key, ok := sh.intArg(args, "RANK <key>")
	if !ok {
		return
	}
	fmt.Fprintln(sh.out, sh.tree.Rank(key))
}

func (sh *shell) processSelect(args []string) {
	i, ok := sh.intArg(args, "SELECT <i>")
	if !ok {
		return
	}
	k, v, err := sh.tree.Select(i)
	if err != nil {
		failure.Fprintln(sh.out, err)
		return
	}
	fmt.Fprintf(sh.out, "%d %s\n", k, v)
}
