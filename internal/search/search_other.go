//go:build !unix

package search

import "os"

// readFile falls back to a plain buffered read on platforms without the
// unix mmap syscalls.
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

	buf := make([]byte, size)
	if _, err := readFull(f, buf); err != nil {
		return nil, nil, err
	}
	return buf, func() {}, nil
}
