//go:build unix && !linux && !darwin

package entry

import "golang.org/x/sys/unix"

// statBirthTime has no portable source of creation time on the remaining
// unix variants; we report "unavailable" so the ctime predicate rejects
// every entry rather than fabricate a value.
func statBirthTime(*unix.Stat_t) (timespec, bool) {
	return timespec{}, false
}

// statAccessTime has no verified-portable field name across the remaining
// unix variants in this build matrix; treated as unavailable.
func statAccessTime(*unix.Stat_t) (timespec, bool) {
	return timespec{}, false
}
