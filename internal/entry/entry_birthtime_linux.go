//go:build linux

package entry

import "golang.org/x/sys/unix"

// statBirthTime reports Linux's best available stand-in for creation
// time. The traditional Stat_t has no birth-time field at all, so we
// report the inode change time (Ctim) as a best-effort value instead of
// rejecting every entry outright.
func statBirthTime(st *unix.Stat_t) (timespec, bool) {
	return timespec{Sec: int64(st.Ctim.Sec), Nsec: int64(st.Ctim.Nsec)}, true
}

// statAccessTime reports the inode access time on Linux.
func statAccessTime(st *unix.Stat_t) (timespec, bool) {
	return timespec{Sec: int64(st.Atim.Sec), Nsec: int64(st.Atim.Nsec)}, true
}
