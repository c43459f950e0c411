// Package patterncache compiles glob patterns on demand and serves repeat
// compilations from a bounded LRU.
//
// # Why This Design?
//
//   - LRU eviction bounds memory regardless of how many distinct patterns a
//     long-lived process sees across many Find/Search calls.
//   - A literal pattern (no glob metacharacters) is detected and served by a
//     byte-compare Matcher instead of the general doublestar engine — this
//     is a correctness-preserving optimization, never a different match
//     result.
//   - The cache is pre-seeded at first use with a fixed set of common
//     language-extension globs so the first request for them never pays
//     compilation cost.
//   - Compilation is lock-free with respect to other entries; only LRU
//     bookkeeping (promotion, eviction) is serialized, mirroring the
//     hit/miss-counter-behind-a-mutex shape used for the template cache in
//     the alert-history service this module borrows the LRU shape from.
package patterncache

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is the design-target LRU capacity.
const DefaultCapacity = 256

// seedPatterns are compiled eagerly at cache construction, once per case
// sensitivity, so the first lookup for any of them is always a hit.
var seedPatterns = []string{
	"*.go", "*.py", "*.js", "*.ts", "*.rs", "*.java",
	"*.c", "*.cpp", "*.h", "*.md", "*.json", "*.yaml", "*.yml", "*.toml",
}

// Matcher answers whether a path matches a compiled pattern. It is safe to
// share across goroutines.
type Matcher interface {
	Matches(path string) bool
}

type literalMatcher struct {
	literal       string
	caseSensitive bool
}

func (m literalMatcher) Matches(path string) bool {
	if m.caseSensitive {
		return path == m.literal
	}
	return strings.EqualFold(path, m.literal)
}

type globMatcher struct {
	pattern       string
	caseSensitive bool
}

func (m globMatcher) Matches(path string) bool {
	p := path
	pat := m.pattern
	if !m.caseSensitive {
		p = strings.ToLower(p)
		pat = strings.ToLower(pat)
	}
	ok, _ := doublestar.Match(pat, p)
	return ok
}

// key is the LRU key: a pattern is compiled separately per effective case
// sensitivity, since "*.GO" case-sensitive and case-insensitive are
// different matchers even though they share a pattern string.
type key struct {
	pattern       string
	caseSensitive bool
}

// Cache is a bounded, thread-safe glob-pattern compiler and LRU.
//
// The cache is process-wide, lazily initialized state: New may be called
// once per process and the resulting Cache shared by every concurrent
// Find/Search call.
type Cache struct {
	mu    sync.Mutex
	lru   *lru.Cache[key, Matcher]
	hits  atomic.Int64
	misses atomic.Int64
}

// New creates a Cache with the given capacity, pre-seeded with
// seedPatterns. Capacity <= 0 falls back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l, err := lru.New[key, Matcher](capacity)
	if err != nil {
		// Only returns an error for capacity <= 0, which we've guarded
		// against above.
		panic("patterncache: " + err.Error())
	}
	c := &Cache{lru: l}
	for _, p := range seedPatterns {
		for _, sensitive := range []bool{true, false} {
			if m, err := compile(p, sensitive); err == nil {
				c.lru.Add(key{pattern: p, caseSensitive: sensitive}, m)
			}
		}
	}
	return c
}

// Stats reports cumulative hit/miss counters for observability. Not part
// of the external contract.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Get compiles pattern (applying smart-case resolution if requested) and
// returns a Matcher, serving repeat requests from the LRU. It never fails
// for a syntactically valid glob; invalid patterns return a descriptive
// error the caller wraps into ripwalk.PatternError.
func (c *Cache) Get(pattern string, caseSensitive CaseMode) (Matcher, error) {
	sensitive := caseSensitive.Resolve(pattern)
	k := key{pattern: pattern, caseSensitive: sensitive}

	c.mu.Lock()
	if m, ok := c.lru.Get(k); ok {
		c.mu.Unlock()
		c.hits.Add(1)
		return m, nil
	}
	c.mu.Unlock()

	c.misses.Add(1)
	m, err := compile(pattern, sensitive)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.lru.Add(k, m)
	c.mu.Unlock()
	return m, nil
}

// compile builds a Matcher for pattern, taking the literal fast path when
// pattern has no glob metacharacters.
func compile(pattern string, caseSensitive bool) (Matcher, error) {
	if isLiteral(pattern) {
		return literalMatcher{literal: pattern, caseSensitive: caseSensitive}, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &InvalidPatternError{Pattern: pattern, Reason: "malformed glob syntax"}
	}
	return globMatcher{pattern: pattern, caseSensitive: caseSensitive}, nil
}

// isLiteral reports whether pattern contains no glob metacharacters, so it
// can be served by a plain byte compare instead of the glob engine.
func isLiteral(pattern string) bool {
	return strings.IndexAny(pattern, "*?[]{}\\") == -1
}

// InvalidPatternError is returned by Get for a syntactically invalid glob.
type InvalidPatternError struct {
	Pattern string
	Reason  string
}

func (e *InvalidPatternError) Error() string {
	return "invalid glob " + e.Pattern + ": " + e.Reason
}

// CaseMode mirrors ripwalk.CaseSensitivity without importing the root
// package (which would create an import cycle); ripwalk converts its own
// enum to this one at the call site.
type CaseMode int

const (
	CaseSmart CaseMode = iota
	CaseSensitiveMode
	CaseInsensitiveMode
)

// Resolve applies smart-case: sensitive iff pattern contains any uppercase
// letter.
func (m CaseMode) Resolve(pattern string) bool {
	switch m {
	case CaseSensitiveMode:
		return true
	case CaseInsensitiveMode:
		return false
	default: // CaseSmart
		return strings.ToLower(pattern) != pattern
	}
}
