package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivoronin/ripwalk"
	"github.com/ivoronin/ripwalk/internal/progressbar"
)

func newSearchCmd() *cobra.Command {
	o := &commonOptions{}
	var glob string
	var multiline bool

	cmd := &cobra.Command{
		Use:   "search <regex> [paths...]",
		Short: "Search file contents for a regex, streaming one match per line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regex, roots := splitArgs(args, true)
			return runSearchCmd(cmd, o, regex, glob, multiline, roots)
		},
	}
	bindCommonFlags(cmd, o)
	cmd.Flags().StringVarP(&glob, "glob", "g", "", "restrict to paths matching this glob, in addition to the regex")
	cmd.Flags().BoolVarP(&multiline, "multiline", "U", false, "compile the regex with the (?m) flag (matching is per line either way)")
	return cmd
}

func runSearchCmd(cmd *cobra.Command, o *commonOptions, regex, glob string, multiline bool, roots []string) error {
	req := ripwalk.Request{
		Roots:            roots,
		Glob:             glob,
		ContentRegex:     regex,
		ContentMultiline: multiline,
	}
	if err := applyCommon(cmd, o, &req); err != nil {
		return err
	}

	diagnostics := make(chan *ripwalk.PerEntryWarning, 16)
	req.Diagnostics = diagnostics
	go drainDiagnostics(diagnostics)

	results, err := ripwalk.Search(cmd.Context(), req)
	if err != nil {
		return err
	}

	bar := progressbar.New(!o.noProgress)
	stats := progressbar.NewStats()
	bar.Describe(stats)

	w := os.Stdout
	for m := range results {
		stats.Matched.Add(1)
		stats.Bytes.Add(int64(len(m.Text)))
		if _, err := fmt.Fprintf(w, "%s:%d:%s\n", m.Path, m.Line, m.Text); err != nil {
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
