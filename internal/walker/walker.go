// Package walker implements the concurrent fan-out/fan-in directory
// traversal at the heart of both Find and Search: one goroutine per
// directory, a semaphore bounding how many directory reads run at once,
// and a WaitGroup to know when every goroutine has finished.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ivoronin/ripwalk/internal/diag"
	"github.com/ivoronin/ripwalk/internal/entry"
	"github.com/ivoronin/ripwalk/internal/filter"
	"github.com/ivoronin/ripwalk/internal/ignore"
	"github.com/ivoronin/ripwalk/internal/types"
)

// Options configures a Walker's traversal behavior, independent of the
// match/reject predicates (which live in filter.Criteria).
type Options struct {
	Threads           int
	FollowSymlinks    bool
	SameFileSystem    bool
	RespectVCSIgnores bool
	CustomIgnoreFiles []string
	Diagnostics       diag.Sink
}

// Walker traverses a set of root directories, applying a Filter to every
// entry and invoking a callback for each one accepted.
type Walker struct {
	filter  *filter.Filter
	opts    Options
	sem     types.Semaphore
	wg      sync.WaitGroup
	visited sync.Map // string(root) -> struct{}, for at-most-once-per-root de-dup
}

// New builds a Walker bound to f and opts. Threads <= 0 selects
// runtime.NumCPU(), capped at 8 rather than unbounded concurrency.
func New(f *filter.Filter, opts Options) *Walker {
	threads := opts.Threads
	if threads <= 0 {
		threads = min(runtime.NumCPU(), 8)
	}
	return &Walker{
		filter: f,
		opts:   opts,
		sem:    types.NewSemaphore(threads),
	}
}

// devIno identifies a directory for symlink-loop detection.
type devIno struct {
	dev, ino uint64
}

// Visit is called once for every entry the Filter accepts. It must not
// retain e beyond the call; e is reused by neither the walker nor the
// caller, but its lazily-fetched stat cache is only valid for the
// duration of the call.
type Visit func(e *entry.Entry)

// Walk traverses every root in order, emitting accepted entries to visit.
// A root that cannot be opened produces one diagnostic (wrapping a
// traversal-scoped error) and does not prevent the other roots from being
// walked. Walk blocks until the whole traversal completes, ctx is
// canceled, or the caller's visit panics.
func (w *Walker) Walk(ctx context.Context, roots []string, visit Visit) {
	for _, root := range roots {
		select {
		case <-ctx.Done():
			return
		default:
		}
		w.walkRoot(ctx, root, visit)
	}
}

func (w *Walker) walkRoot(ctx context.Context, root string, visit Visit) {
	abs, err := filepath.Abs(root)
	if err != nil {
		w.opts.Diagnostics.SendRoot(root, err)
		return
	}
	if _, dup := w.visited.LoadOrStore(abs, struct{}{}); dup {
		return // at most once per root
	}

	e := &entry.Entry{Path: abs, Root: abs, Depth: 0}
	fi, err := e.Lstat()
	if err != nil {
		w.opts.Diagnostics.SendRoot(abs, err)
		return
	}
	rootIsSymlink := fi.Mode()&os.ModeSymlink != 0
	e.Kind = kindOf(fi, rootIsSymlink)
	if rootIsSymlink && w.opts.FollowSymlinks {
		if target, err := os.Stat(abs); err == nil && target.IsDir() {
			e.Kind = entry.KindDir
		}
	}

	rootStack, err := ignore.Root(abs, w.opts.RespectVCSIgnores, w.opts.CustomIgnoreFiles)
	if err != nil {
		w.opts.Diagnostics.SendRoot(abs, err)
		return
	}

	var rootDev uint64
	if dev, _, ok := e.DeviceInode(); ok {
		rootDev = dev
	}

	if e.Kind != entry.KindDir {
		// A root that is itself a file: evaluate it directly, no
		// recursion possible.
		switch w.filter.Evaluate(e, rootStack) {
		case filter.Accept:
			visit(e)
		}
		return
	}

	w.wg.Add(1)
	w.walkDir(ctx, e, rootStack, rootDev, nil, visit)
	w.wg.Wait()
}

// walkDir processes one directory: it lists its children, evaluates each
// of them against the filter, and recursively fans out over
// subdirectories. The directory e itself is not evaluated here, so a root
// directory is never passed to visit.
func (w *Walker) walkDir(ctx context.Context, e *entry.Entry, stack *ignore.Stack, rootDev uint64, ancestors []devIno, visit Visit) {
	defer w.wg.Done()

	select {
	case <-ctx.Done():
		return
	default:
	}

	w.sem.Acquire()
	entries, readErr := os.ReadDir(e.Path)
	w.sem.Release()
	if readErr != nil {
		if e.Depth == 0 {
			w.opts.Diagnostics.SendRoot(e.Path, readErr)
		} else {
			w.opts.Diagnostics.Send(e.Path, readErr)
		}
		return
	}

	childStack := stack.Child(e.Path, w.opts.RespectVCSIgnores, false)

	for _, de := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		childPath := filepath.Join(e.Path, de.Name())
		child := &entry.Entry{
			Path:  childPath,
			Depth: e.Depth + 1,
			Root:  e.Root,
		}
		fi, err := child.Lstat()
		if err != nil {
			w.opts.Diagnostics.Send(childPath, err)
			continue
		}
		isSymlink := fi.Mode()&os.ModeSymlink != 0
		child.Kind = kindOf(fi, isSymlink)

		followed := false
		if isSymlink && w.opts.FollowSymlinks {
			if target, err := os.Stat(childPath); err == nil && target.IsDir() {
				child.Kind = entry.KindDir
				followed = true
			}
		}

		verdict := w.filter.Evaluate(child, childStack)
		if verdict == filter.Accept {
			visit(child)
		}
		if verdict == filter.RejectAndPrune {
			continue
		}

		recurseInto := child.Kind == entry.KindDir && (!isSymlink || followed)
		if !recurseInto {
			continue
		}

		if w.opts.SameFileSystem {
			if dev, _, ok := child.DeviceInode(); ok && dev != rootDev {
				continue
			}
		}

		childAncestors := ancestors
		if isSymlink && followed {
			dev, ino, ok := child.DeviceInode()
			if ok {
				if loopDetected(ancestors, devIno{dev, ino}) {
					w.opts.Diagnostics.Send(childPath, errSymlinkLoop)
					continue
				}
				childAncestors = append(append([]devIno(nil), ancestors...), devIno{dev, ino})
			}
		}

		w.wg.Add(1)
		go w.walkDir(ctx, child, childStack, rootDev, childAncestors, visit)
	}
}

func loopDetected(ancestors []devIno, cur devIno) bool {
	for _, a := range ancestors {
		if a == cur {
			return true
		}
	}
	return false
}

func kindOf(fi os.FileInfo, isSymlink bool) entry.Kind {
	switch {
	case isSymlink:
		return entry.KindSymlink
	case fi.IsDir():
		return entry.KindDir
	case fi.Mode().IsRegular():
		return entry.KindFile
	default:
		return entry.KindOther
	}
}

var errSymlinkLoop = symlinkLoopError{}

type symlinkLoopError struct{}

func (symlinkLoopError) Error() string { return "symlink loop detected" }
