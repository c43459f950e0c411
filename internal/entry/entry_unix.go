//go:build unix

package entry

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// deviceInode extracts the device and inode numbers from a unix FileInfo
// by reading them off the underlying *syscall.Stat_t.
func deviceInode(fi os.FileInfo) (dev, ino uint64) {
	st, ok := fi.Sys().(*unix.Stat_t)
	if !ok {
		return 0, 0
	}
	return uint64(st.Dev), st.Ino //nolint:unconvert // Dev is platform-dependent width
}

// timespec is a platform-neutral (seconds, nanoseconds) pair; each
// OS-specific statBirthTime implementation converts its native Timespec
// type into this before handing it back.
type timespec struct {
	Sec, Nsec int64
}

func (t timespec) toTime() time.Time {
	return time.Unix(t.Sec, t.Nsec)
}

// accessTime returns the last-access time from a unix FileInfo, delegating
// the Stat_t field access to the OS-specific statAccessTime (field names
// for the atime Timespec differ between Linux's Atim and Darwin's
// Atimespec).
func accessTime(fi os.FileInfo) (time.Time, bool) {
	st, ok := fi.Sys().(*unix.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	ts, ok := statAccessTime(st)
	if !ok {
		return time.Time{}, false
	}
	return ts.toTime(), true
}

// birthTime returns the filesystem birth time (creation time) for fi, and
// whether the platform/filesystem actually supplied one. Treated as
// best-effort: Linux reports the inode change time in its place, and the
// remaining platforms without birth-time support report none, so a ctime
// predicate matches no entry there.
func birthTime(fi os.FileInfo) (time.Time, bool) {
	st, ok := fi.Sys().(*unix.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	ts, ok := statBirthTime(st)
	if !ok {
		return time.Time{}, false
	}
	return ts.toTime(), true
}
