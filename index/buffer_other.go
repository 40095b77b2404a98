//go:build !linux && !darwin && !windows

package index

import "fmt"

// mmapFile always fails on platforms with no mapping implementation here,
// so open() falls back to reading the whole file into memory. Same idiom as
// quellog's parser/mmap_parser_unsupported.go, which falls back to the
// buffered parser when mmap isn't available.
func mmapFile(path string) ([]byte, func() error, error) {
	return nil, nil, fmt.Errorf("mmap not supported on this platform")
}
