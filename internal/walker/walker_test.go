package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ivoronin/ripwalk/internal/entry"
	"github.com/ivoronin/ripwalk/internal/filter"
)

func mustMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
}

func mustWriteFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func collectPaths(t *testing.T, root string, f *filter.Filter, opts Options) []string {
	t.Helper()
	w := New(f, opts)
	var got []string
	w.Walk(context.Background(), []string{root}, func(e *entry.Entry) {
		got = append(got, e.Path)
	})
	sort.Strings(got)
	return got
}

func TestWalkAcceptsAllByDefault(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"))
	mustMkdirAll(t, filepath.Join(root, "sub"))
	mustWriteFile(t, filepath.Join(root, "sub", "b.txt"))

	f := filter.New(filter.Criteria{})
	got := collectPaths(t, root, f, Options{})

	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "sub"),
		filepath.Join(root, "sub", "b.txt"),
	}
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWalkHiddenFilesExcludedByDefault(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "visible.txt"))
	mustWriteFile(t, filepath.Join(root, ".hidden"))

	f := filter.New(filter.Criteria{})
	got := collectPaths(t, root, f, Options{})

	if len(got) != 1 || got[0] != filepath.Join(root, "visible.txt") {
		t.Errorf("got %v, want only visible.txt", got)
	}
}

func TestWalkRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	mustMkdirAll(t, filepath.Join(root, "a", "b"))
	mustWriteFile(t, filepath.Join(root, "a", "b", "deep.txt"))
	mustWriteFile(t, filepath.Join(root, "a", "shallow.txt"))

	maxDepth := 1
	f := filter.New(filter.Criteria{MaxDepth: &maxDepth})
	got := collectPaths(t, root, f, Options{})

	for _, p := range got {
		if p == filepath.Join(root, "a", "b", "deep.txt") || p == filepath.Join(root, "a", "b") {
			t.Errorf("max-depth=1 should have pruned %q", p)
		}
	}
}

func TestWalkDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"))

	f := filter.New(filter.Criteria{})
	w := New(f, Options{})
	var visits int
	w.Walk(context.Background(), []string{root, root}, func(e *entry.Entry) {
		visits++
	})

	if visits != 1 {
		t.Errorf("got %d visits across duplicate roots, want 1", visits)
	}
}

func TestWalkRootIsAFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "solo.txt")
	mustWriteFile(t, path)

	f := filter.New(filter.Criteria{})
	got := collectPaths(t, path, f, Options{})

	if len(got) != 1 || got[0] != path {
		t.Errorf("got %v, want exactly [%s]", got, path)
	}
}

func TestWalkStopsOnContextCancel(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 50; i++ {
		mustMkdirAll(t, filepath.Join(root, "d", string(rune('a'+i))))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := filter.New(filter.Criteria{})
	w := New(f, Options{})
	var visited int
	w.Walk(ctx, []string{root}, func(e *entry.Entry) { visited++ })
	if visited != 0 {
		t.Errorf("expected no visits after cancellation, got %d", visited)
	}
}
