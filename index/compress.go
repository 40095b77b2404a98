package index

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// loadCompressed detects a compressed or archived log by extension and
// returns its fully decompressed content as a byte slice. There is no
// stable file descriptor to mmap once the bytes have passed through a
// decompressor, so the compressed path always materializes into memory
// rather than mapping — this only matters for previously-compressed
// inputs, not the common plain-text case.
//
// Grounded on quellog's parser/compression.go (newParallelGzipReader,
// newZstdDecoder) and its .7z/.tar handling instinct in parser/tar_parser.go,
// generalized here to "decompress the whole log for indexing" rather than
// "stream parsed LogEntry records".
func loadCompressed(path string) (data []byte, handled bool, err error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		data, err = decompressGzip(path)
		return data, true, err
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		data, err = decompressZstd(path)
		return data, true, err
	case strings.HasSuffix(lower, ".7z"):
		data, err = decompress7z(path)
		return data, true, err
	default:
		return nil, false, nil
	}
}

func decompressGzip(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r, err := pgzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	defer r.Close()

	return io.ReadAll(r)
}

func decompressZstd(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd %s: %w", path, err)
	}
	defer dec.Close()

	return io.ReadAll(dec)
}

// decompress7z extracts the first regular file member of a .7z archive.
// loglens only ever indexes one logical log at a time, so a multi-member
// archive's first file is taken to be the log; this mirrors a single-file
// mmap open rather than attempting archive-wide correlation (a non-goal).
func decompress7z(path string) ([]byte, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("7z %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("7z member %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("7z member %s: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("7z %s: no regular file member", path)
}
