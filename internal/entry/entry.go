// Package entry defines the transient per-directory-entry value that
// flows from the Walker into the filter and downstream: created by the
// Walker, consumed by the filter and content searcher, never shared
// across threads.
package entry

import (
	"os"
	"sync"
	"time"
)

// Kind is the structural type of a directory entry.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
	KindOther
)

// Entry carries an absolute path, its structural kind, its depth from the
// nearest root, and a lazily-fetched metadata handle. Metadata is fetched
// at most once and memoized; an Entry is owned by a single goroutine and
// never shared across threads.
type Entry struct {
	Path  string
	Kind  Kind
	Depth int
	Root  string // the root this entry was discovered under

	statOnce sync.Once
	stat     os.FileInfo
	statErr  error

	// devIno is filled in alongside stat on platforms that support it;
	// used for same_file_system pruning and symlink-loop detection.
	dev, ino uint64
}

// Lstat returns the (possibly cached) lstat result for this entry — the
// entry's own metadata, never following a trailing symlink. Safe to call
// repeatedly; the underlying syscall runs at most once.
func (e *Entry) Lstat() (os.FileInfo, error) {
	e.statOnce.Do(func() {
		e.stat, e.statErr = os.Lstat(e.Path)
		if e.statErr == nil {
			e.dev, e.ino = deviceInode(e.stat)
		}
	})
	return e.stat, e.statErr
}

// Size returns the entry's size in bytes, or 0 if metadata is unavailable
// or the entry is not a regular file.
func (e *Entry) Size() int64 {
	fi, err := e.Lstat()
	if err != nil || !fi.Mode().IsRegular() {
		return 0
	}
	return fi.Size()
}

// ModTime returns the entry's modification time, or the zero Time if
// metadata is unavailable.
func (e *Entry) ModTime() time.Time {
	fi, err := e.Lstat()
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

// AccessTime returns the entry's last-access time and whether the
// platform supplied one.
func (e *Entry) AccessTime() (time.Time, bool) {
	fi, err := e.Lstat()
	if err != nil {
		return time.Time{}, false
	}
	return accessTime(fi)
}

// ChangeTime returns the entry's best-effort creation/change time and
// whether the platform supplied one. May be ctime rather than true
// birth-time, depending on platform support.
func (e *Entry) ChangeTime() (time.Time, bool) {
	fi, err := e.Lstat()
	if err != nil {
		return time.Time{}, false
	}
	return birthTime(fi)
}

// DeviceInode returns the (device, inode) pair identifying this entry, and
// whether the entry could be stat'd. On platforms without device/inode
// numbers both values are 0 while ok is still true. Used for
// same_file_system pruning and symlink-loop detection.
func (e *Entry) DeviceInode() (dev, ino uint64, ok bool) {
	if _, err := e.Lstat(); err != nil {
		return 0, 0, false
	}
	return e.dev, e.ino, true
}

// Base returns the final path component, used by the hidden-file rule and
// sort=name.
func (e *Entry) Base() string {
	i := len(e.Path) - 1
	for i >= 0 && e.Path[i] != '/' {
		i--
	}
	return e.Path[i+1:]
}
