// Package analytics implements the Analytics operators from spec.md §4.4:
// pattern clustering, metric extraction, time-gap listing, workflow
// duration, and recurrent intervals. Each splits into a parallelizable
// per-line extraction phase and — where the operator has a sequential
// dependency on the line before it — a single-pass reduction, matching the
// concurrency model in spec.md §5.
//
// Grounded on quellog's analysis/patterns.go (fingerprint-by-substitution
// clustering over SQL statements) and analysis/histogram.go (timestamp
// bucketing), generalized from "SQL query shapes" to arbitrary log line
// fingerprints, metrics, gaps and workflows.
package analytics

import (
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/loglens/loglens/errkind"
	"github.com/loglens/loglens/index"
	"github.com/loglens/loglens/logmodel"
	"github.com/loglens/loglens/tstamp"
)

var (
	timePattern   = regexp.MustCompile(`\d{2}:\d{2}:\d{2}`)
	digitsPattern = regexp.MustCompile(`\d+`)
	hexPattern    = regexp.MustCompile(`0x[0-9a-fA-F]+`)
)

// fingerprint derives a line's pattern key by three sequential, order-
// dependent substitutions: clock times first, then any remaining run of
// digits, then hex addresses. Applying them in this order is deliberate —
// swapping it changes which lines cluster together.
func fingerprint(line string) string {
	s := timePattern.ReplaceAllString(line, "HH:MM:SS")
	s = digitsPattern.ReplaceAllString(s, "N")
	s = hexPattern.ReplaceAllString(s, "0xADDR")
	return s
}

// Patterns clusters every non-blank line by fingerprint and returns the top
// 50 by descending count (ties broken by fingerprint text, for a
// deterministic result independent of goroutine scheduling). Computed as a
// parallel map-reduce: each worker builds its own fingerprint→stat map over
// a disjoint line range, then the partial maps are merged range-order. Each
// partial map keeps the level of a fingerprint's first line in its range; on
// merge the earliest range's level is kept unless it is empty, in which case
// the first non-empty level from a later range replaces it.
func Patterns(idx *index.Index) []logmodel.PatternStat {
	n := idx.LineCount()
	if n == 0 {
		return nil
	}

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	type lineRange struct{ lo, hi int }
	var ranges []lineRange
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		ranges = append(ranges, lineRange{lo, hi})
	}

	partials := make([]map[string]*logmodel.PatternStat, len(ranges))
	var wg sync.WaitGroup
	for ri, r := range ranges {
		wg.Add(1)
		go func(ri int, r lineRange) {
			defer wg.Done()
			local := make(map[string]*logmodel.PatternStat)
			for i := r.lo; i < r.hi; i++ {
				line := idx.LineContent(i, true)
				if strings.TrimSpace(line) == "" {
					continue
				}
				fp := fingerprint(line)
				if st, ok := local[fp]; ok {
					st.Count++
				} else {
					local[fp] = &logmodel.PatternStat{Content: fp, Count: 1, Level: idx.Levels[i]}
				}
			}
			partials[ri] = local
		}(ri, r)
	}
	wg.Wait()

	merged := make(map[string]*logmodel.PatternStat)
	for _, local := range partials {
		for fp, st := range local {
			if existing, ok := merged[fp]; ok {
				existing.Count += st.Count
				if existing.Level == "" && st.Level != "" {
					existing.Level = st.Level
				}
			} else {
				merged[fp] = &logmodel.PatternStat{Content: st.Content, Count: st.Count, Level: st.Level}
			}
		}
	}

	out := make([]logmodel.PatternStat, 0, len(merged))
	for _, st := range merged {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Content < out[j].Content
	})
	if len(out) > 50 {
		out = out[:50]
	}
	return out
}

// Metrics extracts a numeric value from every line matching pattern: the
// first capture group if the pattern has one, else the whole match, parsed
// as a float. Lines that don't match, or whose matched text doesn't parse,
// are silently skipped. Result is ascending by line number.
func Metrics(idx *index.Index, pattern string) ([]logmodel.MetricDataPoint, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errkind.Regex("metric pattern invalid", err)
	}

	n := idx.LineCount()
	values := make([]float64, n)
	ok := make([]bool, n)
	index.ForEachLineRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			line := idx.LineContent(i, true)
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			text := m[0]
			if len(m) > 1 && m[1] != "" {
				text = m[1]
			}
			v, perr := strconv.ParseFloat(text, 64)
			if perr != nil {
				continue
			}
			values[i], ok[i] = v, true
		}
	})

	var out []logmodel.MetricDataPoint
	for i := 0; i < n; i++ {
		if ok[i] {
			out = append(out, logmodel.MetricDataPoint{LineNumber: i + 1, Value: values[i]})
		}
	}
	return out, nil
}

// extractTimestamps parses timestampPattern's first capture group against
// every line in parallel, returning the parsed millisecond value (0 when
// absent or unparseable) indexed by 0-based line.
func extractTimestamps(idx *index.Index, re *regexp.Regexp) []float64 {
	n := idx.LineCount()
	ts := make([]float64, n)
	index.ForEachLineRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			line := idx.LineContent(i, true)
			if m := re.FindStringSubmatch(line); len(m) > 1 {
				ts[i] = tstamp.Parse(m[1])
			}
		}
	})
	return ts
}

// TimeGaps reports every line whose extracted timestamp jumps by more than
// 10ms relative to the previous line that had a parseable one.
func TimeGaps(idx *index.Index, timestampPattern string) ([]logmodel.TimeGap, error) {
	re, err := regexp.Compile(timestampPattern)
	if err != nil {
		return nil, errkind.Regex("timestamp pattern invalid", err)
	}

	ts := extractTimestamps(idx, re)

	var out []logmodel.TimeGap
	lastValid := 0.0
	haveLast := false
	for i, v := range ts {
		if v == 0 {
			continue
		}
		if haveLast {
			gap := v - lastValid
			if gap > 10.0 {
				out = append(out, logmodel.TimeGap{LineNumber: i + 1, GapMs: gap})
			}
		}
		lastValid, haveLast = v, true
	}
	return out, nil
}

type workflowMark struct {
	line int
	ts   float64
}

// WorkflowDuration pairs start/end marker lines into duration segments.
// With idRegex, starts and ends are matched by extracted id (a map lookup);
// without it, pending starts are matched LIFO, which tolerates nested
// start/end pairs. A start with no matching end is discarded; an end with
// no matching start is ignored.
func WorkflowDuration(idx *index.Index, startPattern, endPattern, timestampPattern, idPattern string) ([]logmodel.WorkflowSegment, error) {
	startRe, err := regexp.Compile(startPattern)
	if err != nil {
		return nil, errkind.Regex("start pattern invalid", err)
	}
	endRe, err := regexp.Compile(endPattern)
	if err != nil {
		return nil, errkind.Regex("end pattern invalid", err)
	}
	tsRe, err := regexp.Compile(timestampPattern)
	if err != nil {
		return nil, errkind.Regex("timestamp pattern invalid", err)
	}
	var idRe *regexp.Regexp
	if idPattern != "" {
		idRe, err = regexp.Compile(idPattern)
		if err != nil {
			return nil, errkind.Regex("id pattern invalid", err)
		}
	}

	n := idx.LineCount()
	ts := make([]float64, n)
	ids := make([]string, n)
	isStart := make([]bool, n)
	isEnd := make([]bool, n)

	index.ForEachLineRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			line := idx.LineContent(i, true)
			if m := tsRe.FindStringSubmatch(line); len(m) > 1 {
				ts[i] = tstamp.Parse(m[1])
			}
			if idRe != nil {
				if m := idRe.FindStringSubmatch(line); len(m) > 1 {
					ids[i] = m[1]
				}
			}
			isStart[i] = startRe.MatchString(line)
			isEnd[i] = endRe.MatchString(line)
		}
	})

	var out []logmodel.WorkflowSegment
	lastValid := 0.0

	if idRe != nil {
		pending := make(map[string]workflowMark)
		for i := 0; i < n; i++ {
			if ts[i] > 0 {
				lastValid = ts[i]
			}
			switch {
			case isStart[i]:
				pending[ids[i]] = workflowMark{line: i + 1, ts: lastValid}
			case isEnd[i]:
				if mark, ok := pending[ids[i]]; ok {
					delete(pending, ids[i])
					if mark.ts > 0 && lastValid > 0 {
						out = append(out, logmodel.WorkflowSegment{
							StartLine: mark.line, EndLine: i + 1,
							StartTime: mark.ts, EndTime: lastValid,
							DurationMs: lastValid - mark.ts, ID: ids[i],
						})
					}
				}
			}
		}
		return out, nil
	}

	var stack []workflowMark
	for i := 0; i < n; i++ {
		if ts[i] > 0 {
			lastValid = ts[i]
		}
		switch {
		case isStart[i]:
			stack = append(stack, workflowMark{line: i + 1, ts: lastValid})
		case isEnd[i]:
			if len(stack) > 0 {
				mark := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if mark.ts > 0 && lastValid > 0 {
					out = append(out, logmodel.WorkflowSegment{
						StartLine: mark.line, EndLine: i + 1,
						StartTime: mark.ts, EndTime: lastValid,
						DurationMs: lastValid - mark.ts,
					})
				}
			}
		}
	}
	return out, nil
}

// RecurrentIntervals emits a segment between every pair of consecutive
// hit_regex matches. Each hit is timed by its own line's timestamp or, when
// that line has none, by the last parseable timestamp before it; hits before
// the first parseable timestamp are skipped. The first timed hit only
// establishes the baseline; no segment comes out of it alone.
func RecurrentIntervals(idx *index.Index, hitPattern, timestampPattern string) ([]logmodel.WorkflowSegment, error) {
	hitRe, err := regexp.Compile(hitPattern)
	if err != nil {
		return nil, errkind.Regex("hit pattern invalid", err)
	}
	tsRe, err := regexp.Compile(timestampPattern)
	if err != nil {
		return nil, errkind.Regex("timestamp pattern invalid", err)
	}

	n := idx.LineCount()
	ts := make([]float64, n)
	isHit := make([]bool, n)
	index.ForEachLineRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			line := idx.LineContent(i, true)
			if m := tsRe.FindStringSubmatch(line); len(m) > 1 {
				ts[i] = tstamp.Parse(m[1])
			}
			isHit[i] = hitRe.MatchString(line)
		}
	})

	var out []logmodel.WorkflowSegment
	var prev workflowMark
	haveBaseline := false
	lastValid := 0.0
	for i := 0; i < n; i++ {
		if ts[i] > 0 {
			lastValid = ts[i]
		}
		if !isHit[i] || lastValid <= 0 {
			continue
		}
		if !haveBaseline {
			prev = workflowMark{line: i + 1, ts: lastValid}
			haveBaseline = true
			continue
		}
		out = append(out, logmodel.WorkflowSegment{
			StartLine: prev.line, EndLine: i + 1,
			StartTime: prev.ts, EndTime: lastValid,
			DurationMs: lastValid - prev.ts,
		})
		prev = workflowMark{line: i + 1, ts: lastValid}
	}
	return out, nil
}
