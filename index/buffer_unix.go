//go:build linux || darwin

package index

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile memory-maps path read-only and returns the mapped bytes plus a
// closer that unmaps it. Grounded on quellog's parser/mmap_parser.go, which
// calls syscall.Mmap directly; loglens uses golang.org/x/sys/unix instead so
// the same call shape extends to the windows build in buffer_windows.go.
func mmapFile(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := fi.Size()
	if size == 0 {
		return nil, func() error { return nil }, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	closer := func() error {
		return unix.Munmap(data)
	}
	return data, closer, nil
}
