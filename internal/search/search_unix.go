//go:build unix

package search

import (
	"os"

	"golang.org/x/sys/unix"
)

// readFile returns the full contents of path, either via a read-only mmap
// (files at or above mmapThreshold) or a single buffered read (smaller
// files), along with a function to release any mapping.
func readFile(path string) (data []byte, closeFn func(), err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, func() {}, nil
	}

	if size >= mmapThreshold {
		mapped, mmapErr := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if mmapErr == nil {
			return mapped, func() { _ = unix.Munmap(mapped) }, nil
		}
		// fall through to a buffered read if mmap is unavailable (e.g. a
		// filesystem that does not support it)
	}

	buf := make([]byte, size)
	if _, err := readFull(f, buf); err != nil {
		return nil, nil, err
	}
	return buf, func() {}, nil
}
