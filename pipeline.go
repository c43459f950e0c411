package ripwalk

import (
	"sync"

	"github.com/ivoronin/ripwalk/internal/diag"
	"github.com/ivoronin/ripwalk/internal/filter"
	"github.com/ivoronin/ripwalk/internal/patterncache"
	"github.com/ivoronin/ripwalk/internal/regexcache"
	"github.com/ivoronin/ripwalk/internal/walker"
)

// Process-wide caches: spec-required "lazily initialized, shared by every
// concurrent Find/Search call" state. Initialized once, on first use, via
// sync.Once rather than a package init() so a process that never calls
// Find/Search never pays the seed-pattern compilation cost.
var (
	sharedPatternCacheOnce sync.Once
	sharedPatternCache     *patterncache.Cache

	sharedRegexCacheOnce sync.Once
	sharedRegexCache     *regexcache.Cache
)

func patternCache() *patterncache.Cache {
	sharedPatternCacheOnce.Do(func() {
		sharedPatternCache = patterncache.New(patterncache.DefaultCapacity)
	})
	return sharedPatternCache
}

func contentRegexCache() *regexcache.Cache {
	sharedRegexCacheOnce.Do(func() {
		sharedRegexCache = regexcache.New(regexcache.DefaultCapacity)
	})
	return sharedRegexCache
}

// buildCriteria translates a Request's matching fields into filter.Criteria,
// compiling the glob and exclude patterns through the shared PatternCache.
func buildCriteria(req Request) (filter.Criteria, error) {
	c := filter.Criteria{
		FileType:   filter.FileType(req.FileType),
		Extensions: req.Extensions,

		MinDepth: req.MinDepth,
		MaxDepth: req.MaxDepth,
		MinSize:  req.MinSize,
		MaxSize:  req.MaxSize,

		MtimeAfter:  req.MtimeAfter,
		MtimeBefore: req.MtimeBefore,
		AtimeAfter:  req.AtimeAfter,
		AtimeBefore: req.AtimeBefore,
		CtimeAfter:  req.CtimeAfter,
		CtimeBefore: req.CtimeBefore,

		Hidden: req.Hidden,
	}

	if req.Glob != "" && req.Glob != "*" {
		m, err := patternCache().Get(req.Glob, patterncache.CaseMode(req.GlobCaseSensitive))
		if err != nil {
			return c, asPatternError(req.Glob, err)
		}
		c.Glob = m
	}

	for _, ex := range req.Exclude {
		m, err := patternCache().Get(ex, patterncache.CaseMode(req.GlobCaseSensitive))
		if err != nil {
			return c, asPatternError(ex, err)
		}
		c.Exclude = append(c.Exclude, m)
	}

	return c, nil
}

func asPatternError(pattern string, err error) error {
	if ipe, ok := err.(*patterncache.InvalidPatternError); ok {
		return &PatternError{Pattern: pattern, Reason: ipe.Reason}
	}
	return err
}

// walkerOptionsFor builds the internal walker's Options from a Request and
// a diagnostics sink already bridged to Request.Diagnostics.
func walkerOptionsFor(req Request, sink diag.Sink) walker.Options {
	return walker.Options{
		Threads:           req.Threads,
		FollowSymlinks:    req.FollowSymlinks,
		SameFileSystem:    req.SameFileSystem,
		RespectVCSIgnores: req.RespectVCSIgnores,
		CustomIgnoreFiles: req.CustomIgnoreFiles,
		Diagnostics:       sink,
	}
}

// diagnosticsBridge relays internal diag.Warning values onto the caller's
// Request.Diagnostics channel as *PerEntryWarning, and closes the caller's
// channel once the walk has finished and every pending warning has been
// relayed. It returns a nil Sink (diagnostics dropped) when the caller did
// not supply a channel.
func diagnosticsBridge(req Request) (sink diag.Sink, closeFn func()) {
	if req.Diagnostics == nil {
		return nil, func() {}
	}
	internal := make(chan diag.Warning, 64)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		for w := range internal {
			err := w.Err
			if w.Root {
				err = &TraversalError{Root: w.Path, Err: w.Err}
			}
			req.Diagnostics <- &PerEntryWarning{Path: w.Path, Err: err}
		}
	}()
	return diag.Sink(internal), func() {
		close(internal)
		<-relayDone
		close(req.Diagnostics)
	}
}
