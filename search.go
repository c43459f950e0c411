package ripwalk

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/ivoronin/ripwalk/internal/entry"
	"github.com/ivoronin/ripwalk/internal/filter"
	"github.com/ivoronin/ripwalk/internal/regexcache"
	"github.com/ivoronin/ripwalk/internal/resultchan"
	"github.com/ivoronin/ripwalk/internal/search"
	"github.com/ivoronin/ripwalk/internal/types"
	"github.com/ivoronin/ripwalk/internal/walker"
)

func runSearch(ctx context.Context, req Request) (<-chan ContentMatch, error) {
	criteria, err := buildCriteria(req)
	if err != nil {
		return nil, err
	}
	// Search only ever scans regular files; a glob/file_type combination
	// that asks for directories or symlinks would never reach the
	// searcher, so the filter still applies file_type/extension/etc as
	// given and the visit callback below skips non-regular entries.
	f := filter.New(criteria)

	searcher, err := search.New(contentRegexCache(), req.ContentRegex, regexcache.CaseMode(req.ContentCaseSensitive), req.ContentMultiline)
	if err != nil {
		return nil, asPatternError(req.ContentRegex, err)
	}

	class := resultchan.ContentSearch
	if req.Sort != SortNone {
		class = resultchan.Sorted
	}
	out := make(chan ContentMatch, resultchan.Capacity(class, req.Threads))

	sink, closeDiag := diagnosticsBridge(req)
	w := walker.New(f, walkerOptionsFor(req, sink))

	go func() {
		defer close(out)
		defer closeDiag()

		var bufMu sync.Mutex
		var buffered []ContentMatch
		emit := func(m ContentMatch) {
			if req.Sort != SortNone {
				bufMu.Lock()
				buffered = append(buffered, m)
				bufMu.Unlock()
				return
			}
			select {
			case out <- m:
			case <-ctx.Done():
			}
		}

		visit := func(e *entry.Entry) {
			if e.Kind != entry.KindFile {
				return
			}
			scanErr := searcher.Scan(e.Path, func(line search.Line) {
				spans := make([]MatchSpan, len(line.Matches))
				for i, s := range line.Matches {
					spans[i] = MatchSpan{Start: s.Start, End: s.End}
				}
				emit(ContentMatch{Path: e.Path, Line: line.Number, Text: line.Text, Matches: spans})
			})
			if scanErr != nil {
				sink.Send(e.Path, scanErr)
			}
		}

		w.Walk(ctx, req.Roots, visit)

		if req.Sort == SortNone {
			return
		}
		for _, m := range sortMatches(buffered, req.Sort) {
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func sortMatches(items []ContentMatch, key SortKey) []ContentMatch {
	switch key {
	case SortByName:
		return types.NewSorted(items, func(m ContentMatch) string { return filepath.Base(m.Path) }).Items()
	case SortByPath:
		return types.NewSorted(items, func(m ContentMatch) string { return m.Path }).Items()
	default:
		// size/mtime sorting has no natural meaning for a line match;
		// fall back to path order.
		return types.NewSorted(items, func(m ContentMatch) string { return m.Path }).Items()
	}
}
