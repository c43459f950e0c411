package filter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ivoronin/ripwalk/internal/entry"
	"github.com/ivoronin/ripwalk/internal/patterncache"
)

// globMatcher is a minimal patterncache.Matcher stand-in so these tests
// don't need to go through the LRU cache to exercise Filter.
type globMatcher string

func (m globMatcher) Matches(path string) bool {
	ok, _ := doublestar.Match(string(m), path)
	return ok
}

func newFileEntry(t *testing.T, path string, depth int) *entry.Entry {
	t.Helper()
	e := &entry.Entry{Path: path, Kind: entry.KindFile, Depth: depth}
	if _, err := e.Lstat(); err != nil {
		t.Fatalf("lstat %s: %v", path, err)
	}
	return e
}

func TestEvaluateExtension(t *testing.T) {
	dir := t.TempDir()
	goFile := filepath.Join(dir, "main.go")
	txtFile := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(goFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(txtFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	f := New(Criteria{Extensions: []string{"go"}})

	if v := f.Evaluate(newFileEntry(t, goFile, 1), nil); v != Accept {
		t.Errorf("main.go: got %v, want Accept", v)
	}
	if v := f.Evaluate(newFileEntry(t, txtFile, 1), nil); v != Reject {
		t.Errorf("readme.txt: got %v, want Reject", v)
	}
}

func TestEvaluateHiddenFileDefaultRejected(t *testing.T) {
	dir := t.TempDir()
	hidden := filepath.Join(dir, ".env")
	if err := os.WriteFile(hidden, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	f := New(Criteria{})
	e := newFileEntry(t, hidden, 1)

	if v := f.Evaluate(e, nil); v != Reject {
		t.Errorf("got %v, want Reject", v)
	}

	f = New(Criteria{Hidden: true})
	if v := f.Evaluate(e, nil); v != Accept {
		t.Errorf("with Hidden=true: got %v, want Accept", v)
	}
}

func TestEvaluateGlobMatchesBaseOrPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foo.go")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	f := New(Criteria{Glob: globMatcher("*.go")})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Accept {
		t.Errorf("got %v, want Accept", v)
	}

	f = New(Criteria{Glob: globMatcher("*.rs")})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Reject {
		t.Errorf("got %v, want Reject", v)
	}
}

func TestEvaluateExcludePrunesDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "node_modules")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	e := &entry.Entry{Path: sub, Kind: entry.KindDir, Depth: 1}
	if _, err := e.Lstat(); err != nil {
		t.Fatal(err)
	}

	f := New(Criteria{Exclude: []patterncache.Matcher{globMatcher("node_modules")}})
	if v := f.Evaluate(e, nil); v != RejectAndPrune {
		t.Errorf("got %v, want RejectAndPrune", v)
	}
}

func TestEvaluateMaxDepthPrunes(t *testing.T) {
	dir := t.TempDir()
	e := &entry.Entry{Path: dir, Kind: entry.KindDir, Depth: 3}
	if _, err := e.Lstat(); err != nil {
		t.Fatal(err)
	}

	maxDepth := 2
	f := New(Criteria{MaxDepth: &maxDepth})
	if v := f.Evaluate(e, nil); v != RejectAndPrune {
		t.Errorf("got %v, want RejectAndPrune", v)
	}
}

func TestEvaluateMinDepthRejectsButDoesNotPrune(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	minDepth := 2
	f := New(Criteria{MinDepth: &minDepth})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Reject {
		t.Errorf("got %v, want Reject (not pruned)", v)
	}
}

func TestEvaluateSizeBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	if err := os.WriteFile(path, make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}

	minSize := int64(50)
	maxSize := int64(50)
	f := New(Criteria{MinSize: &minSize})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Accept {
		t.Errorf("min-size 50 <= 100: got %v, want Accept", v)
	}

	f = New(Criteria{MaxSize: &maxSize})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Reject {
		t.Errorf("max-size 50 < 100: got %v, want Reject", v)
	}
}

func TestEvaluateMtimeBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-time.Hour).Unix()
	f := New(Criteria{MtimeAfter: &past})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Accept {
		t.Errorf("got %v, want Accept", v)
	}

	future := time.Now().Add(time.Hour).Unix()
	f = New(Criteria{MtimeAfter: &future})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Reject {
		t.Errorf("got %v, want Reject", v)
	}
}

func TestEvaluateFileType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	f := New(Criteria{FileType: FileTypeDir})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Reject {
		t.Errorf("got %v, want Reject", v)
	}

	f = New(Criteria{FileType: FileTypeFile})
	if v := f.Evaluate(newFileEntry(t, path, 1), nil); v != Accept {
		t.Errorf("got %v, want Accept", v)
	}
}
