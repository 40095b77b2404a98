// Package query implements the Query Layer from spec.md §4.3: range reads,
// index-based reads, search, the three-phase filtered_indices trace view,
// save_filtered, and first_occurrence.
//
// Grounded on quellog's parallel-scan instinct (parser/mmap_parser.go splits
// the line domain across goroutines and merges in range order) and its
// regex-driven matching (analysis/patterns.go), generalized from "match SQL
// statements" to the spec's levels/keywords/refinements predicate grammar.
// The index.ForEachLineRange fan-out is shared with analytics; the decode
// cache in cache.go is used only by the operators in this package. Every
// operator here reduces to "decode a line, test a predicate, record a 0- or
// 1-based position."
package query

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/loglens/loglens/errkind"
	"github.com/loglens/loglens/index"
	"github.com/loglens/loglens/logmodel"
)

// Range returns every line in the 1-based half-open interval
// [startLine, endLine), clamped to the file's bounds. Decoding happens in
// parallel across the requested span.
func Range(idx *index.Index, startLine, endLine int) []logmodel.LogLine {
	n := idx.LineCount()
	if startLine < 1 {
		startLine = 1
	}
	if endLine > n+1 {
		endLine = n + 1
	}
	if startLine >= endLine {
		return nil
	}

	lo, hi := startLine-1, endLine-1 // to 0-based [lo, hi)
	out := make([]logmodel.LogLine, hi-lo)
	index.ForEachLineRange(hi-lo, func(rlo, rhi int) {
		for j := rlo; j < rhi; j++ {
			i := lo + j
			out[j] = logmodel.LogLine{
				LineNumber: i + 1,
				Content:    decodeCached(idx, i),
				Level:      idx.Levels[i],
			}
		}
	})
	return out
}

// LinesByIndices returns one LogLine per 0-based index in indices, in the
// same order as indices. Out-of-range entries are silently dropped.
func LinesByIndices(idx *index.Index, indices []int) []logmodel.LogLine {
	n := idx.LineCount()
	out := make([]logmodel.LogLine, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n {
			continue
		}
		out = append(out, logmodel.LogLine{
			LineNumber: i + 1,
			Content:    decodeCached(idx, i),
			Level:      idx.Levels[i],
		})
	}
	return out
}

// Search scans every line (restricted to lineRanges when non-empty) for
// query, case-insensitively, returning matches ascending by line number. An
// empty non-nil lineRanges means "match nothing."
func Search(idx *index.Index, query string, isRegex bool, lineRanges []logmodel.LineRange) ([]logmodel.LogLine, error) {
	n := idx.LineCount()
	if lineRanges != nil && len(lineRanges) == 0 {
		return nil, nil
	}

	query = strings.Trim(query, "\r\n")
	if query == "" {
		return nil, nil
	}

	var re *regexp.Regexp
	if isRegex {
		compiled, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return nil, errkind.Regex("search pattern invalid", err)
		}
		re = compiled
	}
	needle := strings.ToLower(query)

	matched := make([]bool, n)
	index.ForEachLineRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if len(lineRanges) > 0 && !logmodel.AnyContains(lineRanges, i+1) {
				continue
			}
			line := decodeCached(idx, i)
			if isRegex {
				matched[i] = re.MatchString(line)
			} else {
				matched[i] = strings.Contains(strings.ToLower(line), needle)
			}
		}
	})

	var out []logmodel.LogLine
	for i := 0; i < n; i++ {
		if matched[i] {
			out = append(out, logmodel.LogLine{
				LineNumber: i + 1,
				Content:    decodeCached(idx, i),
				Level:      idx.Levels[i],
			})
		}
	}
	return out, nil
}

// FilteredIndices implements the seed / context-expansion / refinement
// pipeline described in spec.md §4.3. Returns 0-based indices ascending.
func FilteredIndices(idx *index.Index, levels []string, lineRanges []logmodel.LineRange, keywords []string, contextLines int, refinements []string) ([]int, error) {
	n := idx.LineCount()

	levelSet := make(map[string]bool, len(levels))
	for _, l := range levels {
		levelSet[strings.ToUpper(l)] = true
	}
	lowerKeywords := make([]string, len(keywords))
	for i, k := range keywords {
		lowerKeywords[i] = strings.ToLower(k)
	}

	isSeed := func(i int) bool {
		if len(lineRanges) > 0 && !logmodel.AnyContains(lineRanges, i+1) {
			return false
		}
		if len(levelSet) > 0 && !levelSet[idx.LevelOrDefault(i, "INFO")] {
			return false
		}
		if len(lowerKeywords) == 0 {
			return true
		}
		line := strings.ToLower(decodeCached(idx, i))
		for _, kw := range lowerKeywords {
			if strings.Contains(line, kw) {
				return true
			}
		}
		return false
	}

	seeds := make([]bool, n)
	index.ForEachLineRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			seeds[i] = isSeed(i)
		}
	})

	inTrace := seeds
	if len(lowerKeywords) > 0 && contextLines > 0 {
		inTrace = make([]bool, n)
		for i, s := range seeds {
			if !s {
				continue
			}
			lo, hi := i-contextLines, i+contextLines
			if lo < 0 {
				lo = 0
			}
			if hi >= n {
				hi = n - 1
			}
			for j := lo; j <= hi; j++ {
				inTrace[j] = true
			}
		}
	}

	type refinement struct {
		kind string // "exclude", "regex", "exact", "include"
		text string
		re   *regexp.Regexp
	}
	parsed := make([]refinement, 0, len(refinements))
	for _, raw := range refinements {
		r := strings.TrimSpace(raw)
		if r == "" {
			continue
		}
		prefix, rest := r[0], strings.TrimSpace(r[1:])
		switch prefix {
		case '!':
			parsed = append(parsed, refinement{kind: "exclude", text: strings.ToLower(rest)})
		case '/':
			re, err := regexp.Compile("(?i)" + rest)
			if err != nil {
				return nil, errkind.Regex("refinement pattern invalid", err)
			}
			parsed = append(parsed, refinement{kind: "regex", re: re})
		case '=':
			parsed = append(parsed, refinement{kind: "exact", text: rest})
		case '?':
			parsed = append(parsed, refinement{kind: "include", text: strings.ToLower(rest)})
		default:
			parsed = append(parsed, refinement{kind: "include", text: strings.ToLower(r)})
		}
	}

	satisfies := func(i int) bool {
		if len(parsed) == 0 {
			return true
		}
		line := decodeCached(idx, i)
		lower := strings.ToLower(line)
		for _, r := range parsed {
			switch r.kind {
			case "exclude":
				if strings.Contains(lower, r.text) {
					return false
				}
			case "regex":
				if !r.re.MatchString(line) {
					return false
				}
			case "exact":
				if !strings.Contains(line, r.text) {
					return false
				}
			case "include":
				if !strings.Contains(lower, r.text) {
					return false
				}
			}
		}
		return true
	}

	var result []int
	for i := 0; i < n; i++ {
		if inTrace[i] && satisfies(i) {
			result = append(result, i)
		}
	}
	return result, nil
}

// SaveFiltered writes the selected 0-based indices to path, one per line,
// formatted "<1-based line number>: <content>" with trailing whitespace
// stripped. Out-of-range indices are skipped. The output is always UTF-8,
// LF-terminated, per spec.md §6.
func SaveFiltered(idx *index.Index, path string, indices []int) error {
	f, err := os.Create(path)
	if err != nil {
		return errkind.IO("failed to create filtered output file", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	n := idx.LineCount()
	for _, i := range indices {
		if i < 0 || i >= n {
			continue
		}
		line := strings.TrimRight(decodeCached(idx, i), " \t\r\n")
		if _, err := fmt.Fprintf(w, "%d: %s\n", i+1, line); err != nil {
			return errkind.IO("failed to write filtered output file", err)
		}
	}
	if err := w.Flush(); err != nil {
		return errkind.IO("failed to flush filtered output file", err)
	}
	return nil
}

// FirstOccurrence returns the smallest 0-based index whose line contains
// query (both lowercased), restricted to lineRanges when given. The result
// is deterministic regardless of how the scan is parallelized: every
// candidate match is collected, then the minimum is taken once all workers
// finish.
func FirstOccurrence(idx *index.Index, query string, lineRanges []logmodel.LineRange) (int, bool) {
	n := idx.LineCount()
	if lineRanges != nil && len(lineRanges) == 0 {
		return 0, false
	}
	needle := strings.ToLower(query)

	matched := make([]bool, n)
	index.ForEachLineRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if len(lineRanges) > 0 && !logmodel.AnyContains(lineRanges, i+1) {
				continue
			}
			if strings.Contains(strings.ToLower(decodeCached(idx, i)), needle) {
				matched[i] = true
			}
		}
	})

	for i, m := range matched {
		if m {
			return i, true
		}
	}
	return 0, false
}
