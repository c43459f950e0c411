package entry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLstatMemoizesResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := &Entry{Path: path, Root: dir}
	fi1, err := e.Lstat()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	fi2, err := e.Lstat()
	if err != nil {
		t.Fatalf("expected memoized result even after removal, got error: %v", err)
	}
	if fi1 != fi2 {
		t.Error("expected Lstat to return the same cached os.FileInfo on repeat calls")
	}
}

func TestSizeOfRegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	content := []byte("twelve bytes")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	e := &Entry{Path: path, Root: dir}
	if got, want := e.Size(), int64(len(content)); got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
}

func TestSizeOfDirectoryIsZero(t *testing.T) {
	dir := t.TempDir()
	e := &Entry{Path: dir, Root: dir}
	if got := e.Size(); got != 0 {
		t.Errorf("Size() of a directory = %d, want 0", got)
	}
}

func TestSizeOfMissingEntryIsZero(t *testing.T) {
	e := &Entry{Path: filepath.Join(t.TempDir(), "missing"), Root: "/"}
	if got := e.Size(); got != 0 {
		t.Errorf("Size() of a missing entry = %d, want 0", got)
	}
}

func TestModTimeOfMissingEntryIsZero(t *testing.T) {
	e := &Entry{Path: filepath.Join(t.TempDir(), "missing"), Root: "/"}
	if got := e.ModTime(); !got.IsZero() {
		t.Errorf("ModTime() of a missing entry = %v, want zero", got)
	}
}

func TestModTimeMatchesStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Lstat(path)
	if err != nil {
		t.Fatal(err)
	}

	e := &Entry{Path: path, Root: dir}
	if got := e.ModTime(); !got.Equal(fi.ModTime()) {
		t.Errorf("ModTime() = %v, want %v", got, fi.ModTime())
	}
}

func TestBase(t *testing.T) {
	cases := map[string]string{
		"/a/b/c.txt": "c.txt",
		"/a/b/":      "",
		"noslash":    "noslash",
		"/":          "",
	}
	for path, want := range cases {
		e := &Entry{Path: path}
		if got := e.Base(); got != want {
			t.Errorf("Base(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDeviceInodeOfMissingEntry(t *testing.T) {
	e := &Entry{Path: filepath.Join(t.TempDir(), "missing"), Root: "/"}
	if _, _, ok := e.DeviceInode(); ok {
		t.Error("expected DeviceInode to report unavailable for a missing entry")
	}
}

func TestDeviceInodeDistinguishesDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.txt")
	pathB := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(pathA, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pathB, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	eA := &Entry{Path: pathA, Root: dir}
	eB := &Entry{Path: pathB, Root: dir}
	devA, inoA, okA := eA.DeviceInode()
	devB, inoB, okB := eB.DeviceInode()
	if !okA || !okB || (inoA == 0 && inoB == 0) {
		t.Skip("platform does not supply device/inode information")
	}
	if devA == devB && inoA == inoB {
		t.Error("expected distinct files to report distinct (device, inode) pairs")
	}
}
