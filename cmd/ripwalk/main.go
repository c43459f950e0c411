// Command ripwalk is the CLI front end for the ripwalk library: a find
// subcommand for glob/metadata-filtered path search, and a search
// subcommand for regex content search over the same filtered walk.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "ripwalk",
		Short:   "Find files and search their contents",
		Version: version + " (" + commit + ")",
	}

	root.AddCommand(newFindCmd())
	root.AddCommand(newSearchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		if ctx.Err() != nil {
			return 130
		}
		if isBrokenPipe(err) {
			return 0
		}
		return 1
	}
	return 0
}
