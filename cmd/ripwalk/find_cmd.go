package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivoronin/ripwalk"
	"github.com/ivoronin/ripwalk/internal/progressbar"
)

func newFindCmd() *cobra.Command {
	o := &commonOptions{}

	cmd := &cobra.Command{
		Use:   "find [pattern] [paths...]",
		Short: "Find files matching a glob and metadata filters",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, roots := splitArgs(args, len(args) > 0)
			return runFindCmd(cmd, o, pattern, roots)
		},
	}
	bindCommonFlags(cmd, o)
	return cmd
}

func runFindCmd(cmd *cobra.Command, o *commonOptions, pattern string, roots []string) error {
	req := ripwalk.Request{Roots: roots, Glob: pattern}
	if err := applyCommon(cmd, o, &req); err != nil {
		return err
	}

	diagnostics := make(chan *ripwalk.PerEntryWarning, 16)
	req.Diagnostics = diagnostics
	go drainDiagnostics(diagnostics)

	results, err := ripwalk.Find(cmd.Context(), req)
	if err != nil {
		return err
	}

	bar := progressbar.New(!o.noProgress)
	stats := progressbar.NewStats()
	bar.Describe(stats)

	w := os.Stdout
	for path := range results {
		stats.Visited.Add(1)
		stats.Matched.Add(1)
		if _, err := fmt.Fprintln(w, string(path)); err != nil {
			if isBrokenPipe(err) {
				drainAndDiscard(results)
				return nil
			}
			return err
		}
		bar.Describe(stats)
	}
	bar.Finish(stats)

	if o.stats {
		fmt.Fprintln(os.Stderr, stats.String())
	}
	return cmd.Context().Err()
}

func drainDiagnostics(ch <-chan *ripwalk.PerEntryWarning) {
	for w := range ch {
		fmt.Fprintf(os.Stderr, "warning: %v\n", w)
	}
}

func drainAndDiscard[T any](ch <-chan T) {
	for range ch {
	}
}
