//go:build darwin

package entry

import "golang.org/x/sys/unix"

// statBirthTime reports the real filesystem birth time on Darwin, where
// Stat_t carries a Birthtimespec field.
func statBirthTime(st *unix.Stat_t) (timespec, bool) {
	return timespec{Sec: int64(st.Birthtimespec.Sec), Nsec: int64(st.Birthtimespec.Nsec)}, true
}

// statAccessTime reports the inode access time on Darwin.
func statAccessTime(st *unix.Stat_t) (timespec, bool) {
	return timespec{Sec: int64(st.Atimespec.Sec), Nsec: int64(st.Atimespec.Nsec)}, true
}
