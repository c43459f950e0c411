// Package search implements line-oriented content search over a single
// file: binary-file sniffing, an mmap fast path for larger files, and
// regex matching through internal/regexcache. Its I/O shape (open, read
// or map the whole file, close) mirrors whole-file hashing utilities,
// adapted here to line-by-line regex scanning.
package search

import (
	"bytes"
	"os"

	"github.com/ivoronin/ripwalk/internal/regexcache"
)

// mmapThreshold is the file size at or above which Search maps the file
// instead of reading it into a heap buffer.
const mmapThreshold = 64 * 1024

// sniffSize is how many leading bytes are inspected for a NUL byte to
// decide whether a file is binary.
const sniffSize = 8000

// MatchSpan mirrors ripwalk.MatchSpan without importing the root package.
type MatchSpan struct {
	Start, End int
}

// Line is one matching line within a file.
type Line struct {
	Number  int // 1-based
	Text    string
	Matches []MatchSpan
}

// Searcher scans files for a single compiled pattern.
type Searcher struct {
	re regexcache.Regex
}

// New compiles pattern via cache and returns a Searcher ready to scan any
// number of files with it.
func New(cache *regexcache.Cache, pattern string, caseSensitive regexcache.CaseMode, multiline bool) (*Searcher, error) {
	re, err := cache.Get(pattern, caseSensitive, multiline)
	if err != nil {
		return nil, err
	}
	return &Searcher{re: re}, nil
}

// Scan searches path, invoking emit for every matching line in order.
// Binary files (a NUL byte within the first sniffSize bytes) are skipped
// without error, matching fd/ripgrep's default behavior.
func (s *Searcher) Scan(path string, emit func(Line)) error {
	data, closeFn, err := readFile(path)
	if err != nil {
		return err
	}
	defer closeFn()

	if isBinary(data) {
		return nil
	}

	lineStart := 0
	lineNo := 0
	for lineStart <= len(data) {
		nl := bytes.IndexByte(data[lineStart:], '\n')
		var line []byte
		var next int
		if nl < 0 {
			if lineStart == len(data) {
				break
			}
			line = data[lineStart:]
			next = len(data) + 1
		} else {
			line = data[lineStart : lineStart+nl]
			next = lineStart + nl + 1
		}
		line = bytes.TrimSuffix(line, []byte("\r"))
		lineNo++

		if idx := s.re.FindAllIndex(line, -1); len(idx) > 0 {
			spans := make([]MatchSpan, len(idx))
			for i, m := range idx {
				spans[i] = MatchSpan{Start: m[0], End: m[1]}
			}
			emit(Line{Number: lineNo, Text: string(line), Matches: spans})
		}
		lineStart = next
	}
	return nil
}

func isBinary(data []byte) bool {
	n := len(data)
	if n > sniffSize {
		n = sniffSize
	}
	return bytes.IndexByte(data[:n], 0) != -1
}

func readFull(f *os.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.ReadAt(buf[total:], int64(total))
		total += n
		if err != nil {
			if total == len(buf) {
				return total, nil
			}
			return total, err
		}
	}
	return total, nil
}
