package index

import (
	"runtime"
	"sync"
)

// buildOffsets computes the sorted, strictly-increasing line-start offsets
// for data, given the number of leading BOM bytes to skip and the detected
// encoding. offsets[0] is always startOffset; offsets[i] for i>0 is the byte
// position immediately after the i-th newline. The scan is split across a
// bounded number of goroutines, one per disjoint byte range, and the
// per-range results are concatenated in range order — no merge/sort step is
// needed since ranges are contiguous and already ordered.
func buildOffsets(data []byte, startOffset int, enc Encoding) []int {
	n := len(data)
	if n <= startOffset {
		return nil
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	total := n - startOffset
	chunkSize := (total + workers - 1) / workers
	if chunkSize < 1 {
		chunkSize = total
	}

	type rng struct{ start, end int }
	var ranges []rng
	for start := startOffset; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		ranges = append(ranges, rng{start, end})
	}

	perRange := make([][]int, len(ranges))
	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r rng) {
			defer wg.Done()
			perRange[i] = scanNewlines(data, r.start, r.end, startOffset, enc)
		}(i, r)
	}
	wg.Wait()

	offsets := make([]int, 0, total/32+1)
	offsets = append(offsets, startOffset)
	for _, offs := range perRange {
		offsets = append(offsets, offs...)
	}

	// Drop a phantom final "line" that starts exactly at EOF.
	if len(offsets) > 0 && offsets[len(offsets)-1] == n {
		offsets = offsets[:len(offsets)-1]
	}
	return offsets
}

// scanNewlines finds every line-start offset produced by a newline within
// data[start:end), using the encoding-specific newline code-unit rule from
// spec.md §4.1.
func scanNewlines(data []byte, start, end, startOffset int, enc Encoding) []int {
	var out []int
	switch enc {
	case UTF16LE:
		for i := start; i < end; i++ {
			if data[i] == 0x0A && (i-startOffset)%2 == 0 {
				out = append(out, i+2)
			}
		}
	case UTF16BE:
		for i := start; i < end; i++ {
			if data[i] == 0x0A && (i-startOffset)%2 == 1 {
				out = append(out, i+1)
			}
		}
	default: // UTF8
		for i := start; i < end; i++ {
			if data[i] == 0x0A {
				out = append(out, i+1)
			}
		}
	}
	return out
}

// lineBounds returns the byte range [start, end) of the i-th (0-based) line
// in offsets, given the total buffer length.
func lineBounds(offsets []int, i, totalLen int) (start, end int) {
	start = offsets[i]
	if i+1 < len(offsets) {
		end = offsets[i+1]
	} else {
		end = totalLen
	}
	return
}
