// Package session implements the Session Segmenter from spec.md §4.2: three
// operators (boot regex, boot regex plus time-gap threshold, and a
// user-supplied splitter set) that all share one emission rule for turning a
// sequence of "is this line a split point" decisions into a ParsedLog.
//
// Grounded on quellog's own session/boundary instinct in parser/boundary.go
// (a single forward walk over line indices accumulating "current segment"
// state, emitting on a boundary condition and once more at EOF), generalized
// from "PostgreSQL log file rotation" to the spec's boot/time-gap/splitter
// rules.
package session

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/loglens/loglens/index"
	"github.com/loglens/loglens/ilog"
	"github.com/loglens/loglens/logmodel"
	"github.com/loglens/loglens/tstamp"
)

// detectFunc reports, for the 1-based line i, whether a new session begins
// at i, and if so the boot marker text to attach to the session that just
// ended.
type detectFunc func(i int) (split bool, marker string)

// walk runs detect over every line in [1, n] and assembles the session list
// per the shared emission rule: a split at line i>1 closes out the session
// that ran from currentStart to i-1; a split at line 1 is suppressed (no
// zero-length lead session); the final session always runs to n and is
// marked "End of File" when n > 0, or stands alone as "Full Log" when the
// file is empty.
func walk(n int, detect detectFunc) []logmodel.Session {
	if n == 0 {
		return []logmodel.Session{{ID: 0, StartLine: 1, EndLine: 0, BootMarker: "Full Log"}}
	}

	var sessions []logmodel.Session
	currentStart := 1
	id := 0

	for i := 1; i <= n; i++ {
		split, marker := detect(i)
		if !split || i == 1 {
			continue
		}
		sessions = append(sessions, logmodel.Session{
			ID:         id,
			StartLine:  currentStart,
			EndLine:    i - 1,
			BootMarker: marker,
		})
		id++
		currentStart = i
	}

	sessions = append(sessions, logmodel.Session{
		ID:         id,
		StartLine:  currentStart,
		EndLine:    n,
		BootMarker: "End of File",
	})
	return sessions
}

func compileOrDefault(pattern, fallback, label string) *regexp.Regexp {
	if pattern == "" {
		return regexp.MustCompile(fallback)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		ilog.Warn("%s regex %q invalid, falling back to default: %v", label, pattern, err)
		return regexp.MustCompile(fallback)
	}
	return re
}

// SegmentByBoot partitions idx into sessions at every line matching
// bootPattern (or index.DefaultBootPattern when blank). The marker recorded
// for each split is the matched line's own text, trimmed.
func SegmentByBoot(idx *index.Index, bootPattern string) logmodel.ParsedLog {
	n := idx.LineCount()
	bootRe := compileOrDefault(bootPattern, index.DefaultBootPattern, "boot")

	detect := func(i int) (bool, string) {
		line := idx.LineContent(i-1, true)
		if bootRe.MatchString(line) {
			return true, strings.TrimSpace(line)
		}
		return false, ""
	}
	return logmodel.ParsedLog{Sessions: walk(n, detect), LineCount: n}
}

// SegmentByBootWithGap layers a time-gap split on top of SegmentByBoot: a
// line whose extracted timestamp (via timestampPattern's first capture
// group) differs from the last successfully parsed timestamp by more than
// gapThresholdSeconds also starts a new session, marked with the gap size. A
// boot match always takes priority over a coincident gap match on the same
// line, and a boot-matching line never feeds the gap bookkeeping (its
// timestamp, if any, is skipped rather than becoming the new "last valid").
// A blank or malformed timestampPattern, or a non-positive
// gapThresholdSeconds, disables gap detection entirely and this degenerates
// to SegmentByBoot.
func SegmentByBootWithGap(idx *index.Index, bootPattern, timestampPattern string, gapThresholdSeconds float64) logmodel.ParsedLog {
	n := idx.LineCount()
	bootRe := compileOrDefault(bootPattern, index.DefaultBootPattern, "boot")

	var tsRe *regexp.Regexp
	if timestampPattern != "" {
		re, err := regexp.Compile(timestampPattern)
		if err != nil {
			ilog.Warn("timestamp regex %q invalid, gap detection disabled: %v", timestampPattern, err)
		} else {
			tsRe = re
		}
	}

	var lastMs float64
	haveLast := false

	detect := func(i int) (bool, string) {
		line := idx.LineContent(i-1, true)
		if bootRe.MatchString(line) {
			return true, strings.TrimSpace(line)
		}

		if tsRe == nil || gapThresholdSeconds <= 0.0 {
			return false, ""
		}
		m := tsRe.FindStringSubmatch(line)
		if len(m) <= 1 {
			return false, ""
		}
		ms := tstamp.Parse(m[1])
		if ms == 0 {
			return false, ""
		}
		gapMatch := false
		var gapSeconds float64
		if haveLast {
			diff := math.Abs(ms-lastMs) / 1000.0
			if diff > gapThresholdSeconds {
				gapMatch, gapSeconds = true, diff
			}
		}
		lastMs, haveLast = ms, true

		if gapMatch {
			return true, fmt.Sprintf("Time Gap Detected: %.2fs", gapSeconds)
		}
		return false, ""
	}
	return logmodel.ParsedLog{Sessions: walk(n, detect), LineCount: n}
}

// SegmentBySplitters partitions idx at every line matching any pattern in
// splitters. Patterns are tested in order and the first match on a line
// both decides the split and supplies the (trimmed) marker text, consistent
// with the boot-marker rule used elsewhere. An empty splitter set falls back
// to SegmentByBoot with the default boot pattern.
func SegmentBySplitters(idx *index.Index, splitters []string) logmodel.ParsedLog {
	if len(splitters) == 0 {
		return SegmentByBoot(idx, "")
	}

	n := idx.LineCount()
	res := make([]*regexp.Regexp, 0, len(splitters))
	for _, p := range splitters {
		re, err := regexp.Compile(p)
		if err != nil {
			ilog.Warn("splitter regex %q invalid, skipped: %v", p, err)
			continue
		}
		res = append(res, re)
	}
	if len(res) == 0 {
		return SegmentByBoot(idx, "")
	}

	detect := func(i int) (bool, string) {
		line := idx.LineContent(i-1, true)
		for _, re := range res {
			if re.MatchString(line) {
				return true, strings.TrimSpace(line)
			}
		}
		return false, ""
	}
	return logmodel.ParsedLog{Sessions: walk(n, detect), LineCount: n}
}
