// Package ripwalk provides a high-throughput, parallel filesystem search
// engine exposing two streaming primitives: Find, a glob/metadata-filtered
// path walk, and Search, a regex content scan over the same filtered
// stream.
//
// # Architecture Overview
//
// A request flows through a fixed pipeline:
//
//	roots ─► Walker ─► EntryFilter ─► Sink(path | content) ─► ResultChannel ─► caller
//	                       ▲                     ▲
//	                       │                     │
//	                 PatternCache          RegexCache
//
// The Walker performs a parallel, ignore-aware directory traversal
// (internal/walker). Each surviving directory entry is evaluated against
// the request's structural and metadata predicates by EntryFilter
// (internal/filter). Entries that pass are either emitted as paths (Find)
// or opened and scanned for regex matches (Search, internal/search).
// Compiled glob and regex patterns are served from bounded LRU caches
// (internal/patterncache, internal/regexcache) so repeated calls with the
// same patterns never pay recompilation cost.
//
// # Concurrency Model
//
// Find and Search both return immediately with a results channel (and an
// error for an invalid request); warnings go to the caller-supplied
// Request.Diagnostics channel. Producers run in a worker pool sized by
// Request.Threads and block on channel send when the caller is slow to
// drain (backpressure). Cancelling the context causes workers to stop
// opening new directories and exit on their next send. A caller that
// stops reading without cancelling the context leaves the producers
// blocked on send.
package ripwalk

import "context"

// Find walks roots matching the request's glob and metadata predicates and
// streams surviving paths. The returned channel is closed once the walk
// completes or ctx is cancelled. The diagnostics channel, if non-nil in the
// request, receives PerEntryWarning values for recoverable per-entry
// failures (permission denied, vanished files) and is closed alongside the
// results channel.
func Find(ctx context.Context, req Request) (<-chan PathResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return runFind(ctx, req)
}

// Search walks roots exactly as Find does, but for every surviving regular
// file it scans the content for req.ContentRegex and streams one
// ContentMatch per matching line.
func Search(ctx context.Context, req Request) (<-chan ContentMatch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ContentRegex == "" {
		return nil, &ConfigError{Reason: "search requires a non-empty ContentRegex"}
	}
	return runSearch(ctx, req)
}
