// Package regexcache compiles content-search regexes on demand and serves
// repeat compilations from a bounded LRU, identical in shape to
// internal/patterncache but keyed by (pattern, case-sensitivity,
// multiline) and backed by the coregex engine instead of a glob library.
package regexcache

import (
	"sync"
	"sync/atomic"

	"github.com/coregx/coregex"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity mirrors patterncache.DefaultCapacity.
const DefaultCapacity = 256

// CaseMode mirrors patterncache.CaseMode; duplicated rather than shared to
// keep the two caches independently importable without a third leaf
// package.
type CaseMode int

const (
	CaseSmart CaseMode = iota
	CaseSensitiveMode
	CaseInsensitiveMode
)

func (m CaseMode) resolve(pattern string) bool {
	switch m {
	case CaseSensitiveMode:
		return true
	case CaseInsensitiveMode:
		return false
	default:
		for _, r := range pattern {
			if r >= 'A' && r <= 'Z' {
				return true
			}
		}
		return false
	}
}

type key struct {
	pattern       string
	caseSensitive bool
	multiline     bool
}

// Regex is the matcher coregex.Regex returns, narrowed to what
// internal/search needs so tests can fake it without a real compile.
type Regex interface {
	FindAll(b []byte, n int) [][]byte
	FindAllIndex(b []byte, n int) [][]int
}

// regexAdapter adapts *coregex.Regex to Regex, filling in FindAllIndex via
// FindAllSubmatchIndex-equivalent span extraction since coregex v0.1.0 does
// not expose FindAllIndex directly but does expose FindIndex plus byte
// offsets via successive searches.
type regexAdapter struct {
	re *coregex.Regex
}

func (a regexAdapter) FindAll(b []byte, n int) [][]byte {
	return a.re.FindAll(b, n)
}

func (a regexAdapter) FindAllIndex(b []byte, n int) [][]int {
	var out [][]int
	offset := 0
	for n < 0 || len(out) < n {
		idx := a.re.FindIndex(b[offset:])
		if idx == nil {
			break
		}
		start, end := idx[0]+offset, idx[1]+offset
		out = append(out, []int{start, end})
		if idx[1] == idx[0] {
			offset = end + 1 // avoid an infinite loop on empty matches
		} else {
			offset = end
		}
		if offset > len(b) {
			break
		}
	}
	return out
}

// Cache is a bounded, thread-safe content-regex compiler and LRU.
type Cache struct {
	mu     sync.Mutex
	lru    *lru.Cache[key, Regex]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Cache with the given capacity. Capacity <= 0 falls back to
// DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l, err := lru.New[key, Regex](capacity)
	if err != nil {
		panic("regexcache: " + err.Error())
	}
	return &Cache{lru: l}
}

// Stats reports cumulative hit/miss counters for observability.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Get compiles pattern under the requested case-sensitivity/multiline
// combination, serving repeat requests from the LRU.
func (c *Cache) Get(pattern string, caseSensitive CaseMode, multiline bool) (Regex, error) {
	sensitive := caseSensitive.resolve(pattern)
	k := key{pattern: pattern, caseSensitive: sensitive, multiline: multiline}

	c.mu.Lock()
	if r, ok := c.lru.Get(k); ok {
		c.mu.Unlock()
		c.hits.Add(1)
		return r, nil
	}
	c.mu.Unlock()

	c.misses.Add(1)
	effective := pattern
	if multiline {
		effective = "(?m)" + effective
	}
	if !sensitive {
		effective = "(?i)" + effective
	}

	re, err := coregex.Compile(effective)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Reason: err.Error()}
	}
	r := regexAdapter{re: re}

	c.mu.Lock()
	c.lru.Add(k, r)
	c.mu.Unlock()
	return r, nil
}

// InvalidPatternError is returned by Get for a syntactically invalid
// regex.
type InvalidPatternError struct {
	Pattern string
	Reason  string
}

func (e *InvalidPatternError) Error() string {
	return "invalid regex " + e.Pattern + ": " + e.Reason
}
