package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ivoronin/ripwalk"
)

// commonOptions holds the CLI flags shared by find and search: everything
// in SearchRequest except the content regex itself.
type commonOptions struct {
	fileType   string
	extensions []string
	exclude    []string

	minDepth int
	maxDepth int

	minSizeStr string
	maxSizeStr string

	mtimeAfterStr, mtimeBeforeStr string
	atimeAfterStr, atimeBeforeStr string
	ctimeAfterStr, ctimeBeforeStr string

	hidden            bool
	noIgnore          bool
	ignoreFiles       []string
	followSymlinks    bool
	sameFileSystem    bool

	caseMode string
	sortKey  string
	threads  int

	noProgress bool
	stats      bool
}

func bindCommonFlags(cmd *cobra.Command, o *commonOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&o.fileType, "type", "t", "", "restrict to file|dir|symlink")
	flags.StringSliceVarP(&o.extensions, "extension", "e", nil, "restrict to extension, repeatable")
	flags.StringSliceVarP(&o.exclude, "exclude", "E", nil, "glob pattern to reject, repeatable")

	flags.IntVar(&o.minDepth, "min-depth", -1, "minimum depth, 0 = a root itself")
	flags.IntVar(&o.maxDepth, "max-depth", -1, "maximum depth")

	flags.StringVar(&o.minSizeStr, "min-size", "", "minimum size, e.g. 100, 1K, 10M")
	flags.StringVar(&o.maxSizeStr, "max-size", "", "maximum size")

	flags.StringVar(&o.mtimeAfterStr, "mtime-after", "", "only entries modified after (RFC3339 or relative age like 3d)")
	flags.StringVar(&o.mtimeBeforeStr, "mtime-before", "", "only entries modified before")
	flags.StringVar(&o.atimeAfterStr, "atime-after", "", "only entries accessed after")
	flags.StringVar(&o.atimeBeforeStr, "atime-before", "", "only entries accessed before")
	flags.StringVar(&o.ctimeAfterStr, "ctime-after", "", "only entries changed after")
	flags.StringVar(&o.ctimeBeforeStr, "ctime-before", "", "only entries changed before")

	flags.BoolVarP(&o.hidden, "hidden", "H", false, "include dot-prefixed entries")
	flags.BoolVar(&o.noIgnore, "no-ignore", false, "do not respect .gitignore and git exclude files (.ignore/.fdignore still apply)")
	flags.StringSliceVar(&o.ignoreFiles, "ignore-file", nil, "additional ignore file, repeatable")
	flags.BoolVarP(&o.followSymlinks, "follow", "L", false, "follow symlinks")
	flags.BoolVar(&o.sameFileSystem, "same-file-system", false, "do not cross device boundaries")

	flags.StringVar(&o.caseMode, "case", "smart", "case sensitivity: smart|sensitive|insensitive")
	flags.StringVar(&o.sortKey, "sort", "", "sort by name|path|size|mtime (forces buffering)")
	flags.IntVarP(&o.threads, "threads", "j", runtime.NumCPU(), "worker count")

	flags.BoolVar(&o.noProgress, "no-progress", false, "disable progress spinner")
	flags.BoolVar(&o.stats, "stats", false, "print a summary line after completion")
}

// applyCommon fills in every Request field commonOptions covers, given the
// flag set so optional (unset) numeric/time bounds stay nil.
func applyCommon(cmd *cobra.Command, o *commonOptions, req *ripwalk.Request) error {
	req.FileType = parseFileType(o.fileType)
	req.Extensions = o.extensions
	req.Exclude = o.exclude

	if cmd.Flags().Changed("min-depth") {
		req.MinDepth = &o.minDepth
	}
	if cmd.Flags().Changed("max-depth") {
		req.MaxDepth = &o.maxDepth
	}

	if o.minSizeStr != "" {
		n, err := parseSize(o.minSizeStr)
		if err != nil {
			return fmt.Errorf("--min-size: %w", err)
		}
		req.MinSize = &n
	}
	if o.maxSizeStr != "" {
		n, err := parseSize(o.maxSizeStr)
		if err != nil {
			return fmt.Errorf("--max-size: %w", err)
		}
		req.MaxSize = &n
	}

	var err error
	if req.MtimeAfter, err = parseTimeFlag(o.mtimeAfterStr, "--mtime-after"); err != nil {
		return err
	}
	if req.MtimeBefore, err = parseTimeFlag(o.mtimeBeforeStr, "--mtime-before"); err != nil {
		return err
	}
	if req.AtimeAfter, err = parseTimeFlag(o.atimeAfterStr, "--atime-after"); err != nil {
		return err
	}
	if req.AtimeBefore, err = parseTimeFlag(o.atimeBeforeStr, "--atime-before"); err != nil {
		return err
	}
	if req.CtimeAfter, err = parseTimeFlag(o.ctimeAfterStr, "--ctime-after"); err != nil {
		return err
	}
	if req.CtimeBefore, err = parseTimeFlag(o.ctimeBeforeStr, "--ctime-before"); err != nil {
		return err
	}

	req.Hidden = o.hidden
	req.RespectVCSIgnores = !o.noIgnore
	req.CustomIgnoreFiles = o.ignoreFiles
	req.FollowSymlinks = o.followSymlinks
	req.SameFileSystem = o.sameFileSystem
	req.Threads = o.threads

	caseMode, err := parseCaseMode(o.caseMode)
	if err != nil {
		return err
	}
	req.GlobCaseSensitive = caseMode
	req.ContentCaseSensitive = caseMode

	sortKey, err := parseSortKey(o.sortKey)
	if err != nil {
		return err
	}
	req.Sort = sortKey

	return nil
}

func parseTimeFlag(s, flag string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", flag, err)
	}
	return &t, nil
}

func parseFileType(s string) ripwalk.FileType {
	switch s {
	case "file":
		return ripwalk.FileTypeFile
	case "dir", "directory":
		return ripwalk.FileTypeDir
	case "symlink":
		return ripwalk.FileTypeSymlink
	default:
		return ripwalk.AnyFileType
	}
}

func parseCaseMode(s string) (ripwalk.CaseSensitivity, error) {
	switch s {
	case "", "smart":
		return ripwalk.CaseSmart, nil
	case "sensitive":
		return ripwalk.CaseSensitive, nil
	case "insensitive":
		return ripwalk.CaseInsensitive, nil
	default:
		return 0, fmt.Errorf("--case: want smart|sensitive|insensitive, got %q", s)
	}
}

func parseSortKey(s string) (ripwalk.SortKey, error) {
	switch s {
	case "":
		return ripwalk.SortNone, nil
	case "name":
		return ripwalk.SortByName, nil
	case "path":
		return ripwalk.SortByPath, nil
	case "size":
		return ripwalk.SortBySize, nil
	case "mtime":
		return ripwalk.SortByMtime, nil
	default:
		return 0, fmt.Errorf("--sort: want name|path|size|mtime, got %q", s)
	}
}

// splitArgs separates an fd-style "[pattern] [paths...]" argument list. A
// bare "." is supplied when no path is given.
func splitArgs(args []string, hasExplicitPattern bool) (pattern string, roots []string) {
	if hasExplicitPattern && len(args) > 0 {
		pattern = args[0]
		args = args[1:]
	}
	if len(args) == 0 {
		return pattern, []string{"."}
	}
	return pattern, args
}
