package ripwalk

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/ivoronin/ripwalk/internal/entry"
	"github.com/ivoronin/ripwalk/internal/filter"
	"github.com/ivoronin/ripwalk/internal/resultchan"
	"github.com/ivoronin/ripwalk/internal/types"
	"github.com/ivoronin/ripwalk/internal/walker"
)

func runFind(ctx context.Context, req Request) (<-chan PathResult, error) {
	criteria, err := buildCriteria(req)
	if err != nil {
		return nil, err
	}
	f := filter.New(criteria)

	class := resultchan.StandardFind
	if req.Sort != SortNone {
		class = resultchan.Sorted
	}
	out := make(chan PathResult, resultchan.Capacity(class, req.Threads))

	sink, closeDiag := diagnosticsBridge(req)
	w := walker.New(f, walkerOptionsFor(req, sink))

	go func() {
		defer close(out)
		defer closeDiag()

		var bufMu sync.Mutex
		var buffered []PathResult
		visit := func(e *entry.Entry) {
			p := PathResult(e.Path)
			if req.Sort != SortNone {
				bufMu.Lock()
				buffered = append(buffered, p)
				bufMu.Unlock()
				return
			}
			select {
			case out <- p:
			case <-ctx.Done():
			}
		}

		w.Walk(ctx, req.Roots, visit)

		if req.Sort == SortNone {
			return
		}
		for _, p := range sortResults(buffered, req.Sort) {
			select {
			case out <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// sortResults orders a fully-buffered slice of results by key, using the
// generic Sorted[T,K] collection (internal/types) for the sort-and-copy
// step.
func sortResults(items []PathResult, key SortKey) []PathResult {
	switch key {
	case SortByName:
		return types.NewSorted(items, func(p PathResult) string {
			return filepath.Base(string(p))
		}).Items()
	case SortByPath:
		return types.NewSorted(items, func(p PathResult) string {
			return string(p)
		}).Items()
	case SortBySize:
		return types.NewSorted(items, func(p PathResult) int64 {
			return statInt64(string(p), func(fi os.FileInfo) int64 { return fi.Size() })
		}).Items()
	case SortByMtime:
		return types.NewSorted(items, func(p PathResult) int64 {
			return statInt64(string(p), func(fi os.FileInfo) int64 { return fi.ModTime().Unix() })
		}).Items()
	default:
		return items
	}
}

func statInt64(path string, f func(os.FileInfo) int64) int64 {
	fi, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	return f(fi)
}
