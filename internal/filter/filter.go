// Package filter evaluates one directory entry against a request's
// matching criteria in a fixed predicate order, short-circuiting as soon
// as a verdict is reached.
package filter

import (
	"strings"
	"time"

	"github.com/ivoronin/ripwalk/internal/entry"
	"github.com/ivoronin/ripwalk/internal/ignore"
	"github.com/ivoronin/ripwalk/internal/patterncache"
)

// Verdict is the outcome of evaluating one Entry.
type Verdict int

const (
	// Accept means the entry is a match and (if a directory) its children
	// should be visited.
	Accept Verdict = iota
	// Reject means the entry is not a match, but (if a directory) its
	// children should still be visited.
	Reject
	// RejectAndPrune means the entry is not a match and, being a
	// directory, its subtree should not be visited at all.
	RejectAndPrune
)

// FileType mirrors the root package's FileType without importing it
// (which would create an import cycle, since the root package imports
// this one).
type FileType int

const (
	AnyFileType FileType = iota
	FileTypeFile
	FileTypeDir
	FileTypeSymlink
)

// Criteria is the resolved, immutable set of predicates a Filter checks.
// The root package builds one Criteria per Request.
type Criteria struct {
	Glob       patterncache.Matcher // nil means match-any
	FileType   FileType
	Extensions []string // compared case-insensitively, leading "." optional
	Exclude    []patterncache.Matcher

	MinDepth, MaxDepth *int
	MinSize, MaxSize   *int64

	MtimeAfter, MtimeBefore *int64
	AtimeAfter, AtimeBefore *int64
	CtimeAfter, CtimeBefore *int64

	Hidden bool
}

// Filter evaluates entries against a fixed Criteria and the ignore stack
// in effect for the directory each entry lives in.
type Filter struct {
	c Criteria
}

// New builds a Filter for the given, already-resolved Criteria.
func New(c Criteria) *Filter {
	return &Filter{c: c}
}

// Evaluate applies the predicate chain to e, given the ignore Stack
// covering e's parent directory. Predicate order:
//
//  1. depth bounds
//  2. ignore-stack verdict, then (if neutral) the hidden-file rule
//  3. file_type
//  4. extension
//  5. glob
//  6. exclude patterns
//  7. size
//  8. mtime/atime/ctime
//
// A directory failing any predicate after (2) is Rejected, not pruned,
// except for a matching exclude pattern (6): only an explicit ignore-stack
// Ignored verdict, the hidden-file rule, an exclude match, or exceeding
// the maximum depth prunes a directory's subtree outright.
func (f *Filter) Evaluate(e *entry.Entry, stack *ignore.Stack) Verdict {
	isDir := e.Kind == entry.KindDir

	if f.c.MaxDepth != nil && e.Depth > *f.c.MaxDepth {
		return RejectAndPrune
	}

	verdict := ignore.Neutral
	if stack != nil {
		verdict = stack.Evaluate(e.Path, isDir)
	}
	switch verdict {
	case ignore.Ignored:
		if isDir {
			return RejectAndPrune
		}
		return Reject
	case ignore.Neutral:
		if !f.c.Hidden && isHidden(e.Base()) {
			if isDir {
				return RejectAndPrune
			}
			return Reject
		}
	case ignore.Included:
		// explicit re-inclusion overrides the hidden-file rule
	}

	belowMinDepth := f.c.MinDepth != nil && e.Depth < *f.c.MinDepth

	if f.c.FileType != AnyFileType && !matchesFileType(f.c.FileType, e.Kind) {
		return Reject
	}

	if len(f.c.Extensions) > 0 && !matchesExtension(f.c.Extensions, e.Base()) {
		return Reject
	}

	if f.c.Glob != nil && !f.c.Glob.Matches(e.Base()) && !f.c.Glob.Matches(e.Path) {
		return Reject
	}

	for _, ex := range f.c.Exclude {
		if ex.Matches(e.Base()) || ex.Matches(e.Path) {
			return rejectAndPrune(isDir)
		}
	}

	if f.c.MinSize != nil && e.Size() < *f.c.MinSize {
		return Reject
	}
	if f.c.MaxSize != nil && e.Size() > *f.c.MaxSize {
		return Reject
	}

	if !f.withinTimeBounds(e) {
		return Reject
	}

	if belowMinDepth {
		return Reject
	}
	return Accept
}

// rejectAndPrune yields RejectAndPrune for a directory (an excluded
// directory's subtree is never explored) and Reject for a file.
func rejectAndPrune(isDir bool) Verdict {
	if isDir {
		return RejectAndPrune
	}
	return Reject
}

func matchesFileType(want FileType, k entry.Kind) bool {
	switch want {
	case FileTypeFile:
		return k == entry.KindFile
	case FileTypeDir:
		return k == entry.KindDir
	case FileTypeSymlink:
		return k == entry.KindSymlink
	default:
		return true
	}
}

func matchesExtension(exts []string, base string) bool {
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return false
	}
	got := strings.ToLower(base[i+1:])
	for _, e := range exts {
		if strings.ToLower(strings.TrimPrefix(e, ".")) == got {
			return true
		}
	}
	return false
}

func isHidden(base string) bool {
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

func (f *Filter) withinTimeBounds(e *entry.Entry) bool {
	if f.c.MtimeAfter != nil || f.c.MtimeBefore != nil {
		if !inRange(e.ModTime(), f.c.MtimeAfter, f.c.MtimeBefore) {
			return false
		}
	}
	if f.c.AtimeAfter != nil || f.c.AtimeBefore != nil {
		t, ok := e.AccessTime()
		if !ok || !inRange(t, f.c.AtimeAfter, f.c.AtimeBefore) {
			return false
		}
	}
	if f.c.CtimeAfter != nil || f.c.CtimeBefore != nil {
		t, ok := e.ChangeTime()
		if !ok || !inRange(t, f.c.CtimeAfter, f.c.CtimeBefore) {
			return false
		}
	}
	return true
}

func inRange(t time.Time, after, before *int64) bool {
	u := t.Unix()
	if after != nil && u < *after {
		return false
	}
	if before != nil && u > *before {
		return false
	}
	return true
}
