// Command ostree exercises order-statistics B-trees from the command line:
// a scripted demo, an interactive shell, a word counter, a concurrent
// benchmark and a Graphviz exporter.
package main

import (
	"os"

	"github.com/npillmayer/ostree/cmd/ostree/command"
)

func main() {
	root := command.NewRootCommand()
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
