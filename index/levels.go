package index

import (
	"regexp"
	"runtime"
	"strings"
	"sync"
)

// DefaultLevelPattern is used when open() is given no level regex.
const DefaultLevelPattern = `(?i)\[(DEBUG|INFO|WARN|ERROR|FATAL|NORM|TRACE|SUCCESS)\]`

// DefaultBootPattern is used when open() is given no boot regex.
const DefaultBootPattern = `(?i)(system|boot|start)(ed|ing|up)`

// compileOrDefault compiles pattern, falling back to fallback (and warning)
// on a compile error. A blank pattern also falls back silently.
func compileOrDefault(pattern, fallback, label string) *regexp.Regexp {
	if pattern == "" {
		return regexp.MustCompile(fallback)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		warnBadRegex(label, pattern, err)
		return regexp.MustCompile(fallback)
	}
	return re
}

// classifyLevels computes the per-line level tag in parallel: each line's
// bytes are decoded once (the one up-front per-line decode the spec
// allows, since nearly every operator downstream needs it), matched
// against levelRe, and the first capture group is canonicalized to
// uppercase. A line with no match gets an empty level.
func classifyLevels(data []byte, offsets []int, enc Encoding, levelRe *regexp.Regexp) []string {
	n := len(offsets)
	levels := make([]string, n)
	if n == 0 {
		return levels
	}

	ForEachLineRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			start, end := lineBounds(offsets, i, len(data))
			line := decodeLine(enc, data[start:end])
			if m := levelRe.FindStringSubmatch(line); m != nil {
				if len(m) > 1 && m[1] != "" {
					levels[i] = strings.ToUpper(m[1])
				} else {
					levels[i] = strings.ToUpper(m[0])
				}
			}
		}
	})
	return levels
}

// countBootMatches counts, in parallel, how many lines match bootRe.
func countBootMatches(data []byte, offsets []int, enc Encoding, bootRe *regexp.Regexp) int {
	n := len(offsets)
	if n == 0 {
		return 0
	}

	counts := make([]int, n)
	ForEachLineRange(n, func(lo, hi int) {
		local := 0
		for i := lo; i < hi; i++ {
			start, end := lineBounds(offsets, i, len(data))
			line := decodeLine(enc, data[start:end])
			if bootRe.MatchString(line) {
				local++
			}
		}
		counts[lo] += local // any index in [lo,hi) works as an accumulator slot
	})

	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

// ForEachLineRange splits [0, n) into a bounded number of contiguous ranges
// and runs fn over each concurrently, blocking until all complete. This is
// the shared bounded data-parallel fan-out over the line-index domain used
// by every per-line operator in this package and by query/analytics.
func ForEachLineRange(n int, fn func(lo, hi int)) {
	if n == 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
