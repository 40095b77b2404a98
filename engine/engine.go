// Package engine is the facade spec.md §6 describes: the engine exposes
// named commands invoked by the shell. Engine is that command surface
// rendered as Go methods — what a UI shell would call over its own RPC
// layer, and what cmd/loglens calls directly. Every segmentation, query and
// analytics method acquires the current Index from its Registry at entry and
// releases it before returning, satisfying the refcounting discipline in
// spec.md §5. Open installs a new Index; SaveSessions opens its own source
// file; ReadConfig/WriteConfig do not touch an Index.
package engine

import (
	"os"

	"github.com/loglens/loglens/analytics"
	"github.com/loglens/loglens/config"
	"github.com/loglens/loglens/errkind"
	"github.com/loglens/loglens/index"
	"github.com/loglens/loglens/logmodel"
	"github.com/loglens/loglens/query"
	"github.com/loglens/loglens/registry"
	"github.com/loglens/loglens/session"
)

// Engine pairs the stateless query/analytics/session operators with a
// Registry holding the current Index. cmd/loglens and the tests construct
// their own with New(); Default shares the process-wide registry.
type Engine struct {
	reg *registry.Registry
}

// New returns an Engine with its own empty Registry.
func New() *Engine {
	return &Engine{reg: registry.New()}
}

// Default is the process-wide engine, backed by registry.Default.
var Default = &Engine{reg: registry.Default}

// SegmentResult is the engine-level rendering of spec.md §6's
// `ParsedLog{sessions, line_count, levels}` result shape: the session list
// plus the per-line level tags already classified at open time.
type SegmentResult struct {
	Sessions  []logmodel.Session
	LineCount int
	Levels    []string
}

// Open builds a fresh Index from path and installs it as current,
// replacing (and releasing) whatever was open before.
func (e *Engine) Open(path, bootRegex, levelRegex string) (logmodel.FileInfo, error) {
	idx, info, err := index.Open(path, bootRegex, levelRegex)
	if err != nil {
		return logmodel.FileInfo{}, err
	}
	e.reg.Install(idx)
	return info, nil
}

func (e *Engine) acquire() (*index.Index, error) {
	return e.reg.Acquire()
}

// SegmentByBoot runs the boot/time-gap session segmenter over the current
// Index. levelRegex is accepted for command-surface parity with spec.md §6
// but unused here: levels are fixed at Open time and segmentation never
// reclassifies them (see DESIGN.md).
func (e *Engine) SegmentByBoot(bootRegex, levelRegex, timestampRegex string, timeGapThreshold float64) (SegmentResult, error) {
	idx, err := e.acquire()
	if err != nil {
		return SegmentResult{}, err
	}
	defer idx.Release()

	var parsed logmodel.ParsedLog
	if timestampRegex == "" {
		parsed = session.SegmentByBoot(idx, bootRegex)
	} else {
		parsed = session.SegmentByBootWithGap(idx, bootRegex, timestampRegex, timeGapThreshold)
	}
	return SegmentResult{Sessions: parsed.Sessions, LineCount: parsed.LineCount, Levels: idx.Levels}, nil
}

// SegmentBySplitters runs the user-splitter-set segmenter over the current
// Index. levelRegex is unused for the same reason as in SegmentByBoot.
func (e *Engine) SegmentBySplitters(splitterRegexes []string, levelRegex string) (SegmentResult, error) {
	idx, err := e.acquire()
	if err != nil {
		return SegmentResult{}, err
	}
	defer idx.Release()

	parsed := session.SegmentBySplitters(idx, splitterRegexes)
	return SegmentResult{Sessions: parsed.Sessions, LineCount: parsed.LineCount, Levels: idx.Levels}, nil
}

// Range returns lines [startLine, endLine) (1-based) from the current Index.
func (e *Engine) Range(startLine, endLine int) ([]logmodel.LogLine, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return query.Range(idx, startLine, endLine), nil
}

// LinesByIndices returns one line per 0-based index, in caller order.
func (e *Engine) LinesByIndices(indices []int) ([]logmodel.LogLine, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return query.LinesByIndices(idx, indices), nil
}

// Search runs a substring or regex search over the current Index.
func (e *Engine) Search(q string, isRegex bool, lineRanges []logmodel.LineRange) ([]logmodel.LogLine, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return query.Search(idx, q, isRegex, lineRanges)
}

// FilteredIndices runs the seed/context-expansion/refinement trace pipeline.
func (e *Engine) FilteredIndices(levels []string, lineRanges []logmodel.LineRange, keywords []string, contextLines int, refinements []string) ([]int, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return query.FilteredIndices(idx, levels, lineRanges, keywords, contextLines, refinements)
}

// SaveFiltered writes the selected indices of the current Index to path.
func (e *Engine) SaveFiltered(path string, indices []int) error {
	idx, err := e.acquire()
	if err != nil {
		return err
	}
	defer idx.Release()
	return query.SaveFiltered(idx, path, indices)
}

// FirstOccurrence returns the smallest matching 0-based index, if any.
func (e *Engine) FirstOccurrence(q string, lineRanges []logmodel.LineRange) (int, bool, error) {
	idx, err := e.acquire()
	if err != nil {
		return 0, false, err
	}
	defer idx.Release()
	i, ok := query.FirstOccurrence(idx, q, lineRanges)
	return i, ok, nil
}

// Patterns clusters every non-blank line by fingerprint.
func (e *Engine) Patterns() ([]logmodel.PatternStat, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return analytics.Patterns(idx), nil
}

// Metrics extracts a numeric series from lines matching pattern.
func (e *Engine) Metrics(pattern string) ([]logmodel.MetricDataPoint, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return analytics.Metrics(idx, pattern)
}

// TimeGaps reports timestamp jumps over 10ms.
func (e *Engine) TimeGaps(timestampRegex string) ([]logmodel.TimeGap, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return analytics.TimeGaps(idx, timestampRegex)
}

// WorkflowDuration pairs start/end markers into duration segments.
func (e *Engine) WorkflowDuration(startRegex, endRegex, timestampRegex, idRegex string) ([]logmodel.WorkflowSegment, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return analytics.WorkflowDuration(idx, startRegex, endRegex, timestampRegex, idRegex)
}

// RecurrentIntervals measures the gap between consecutive hits of a regex.
func (e *Engine) RecurrentIntervals(hitRegex, timestampRegex string) ([]logmodel.WorkflowSegment, error) {
	idx, err := e.acquire()
	if err != nil {
		return nil, err
	}
	defer idx.Release()
	return analytics.RecurrentIntervals(idx, hitRegex, timestampRegex)
}

// SaveSessions writes the 1-based inclusive line ranges of sourcePath to
// targetPath, independently of whatever Index is current — it opens
// sourcePath itself (without installing it in the Registry) since the two
// paths may differ. Ranges are written back to back with no separator and
// no line-number prefix, each line LF-terminated.
func (e *Engine) SaveSessions(sourcePath, targetPath string, ranges []logmodel.LineRange) error {
	idx, _, err := index.Open(sourcePath, "", "")
	if err != nil {
		return err
	}
	defer idx.Release()

	n := idx.LineCount()
	var lines []logmodel.LogLine
	for _, r := range ranges {
		start, end := r.Start, r.End
		if start < 1 {
			start = 1
		}
		if end > n {
			end = n
		}
		for i := start; i <= end; i++ {
			lines = append(lines, logmodel.LogLine{LineNumber: i, Content: idx.LineContent(i-1, true)})
		}
	}
	return writeLines(targetPath, lines)
}

// ReadConfig reads path as an opaque YAML document.
func (e *Engine) ReadConfig(path string) (any, error) {
	return config.Read(path)
}

// WriteConfig writes content to path as YAML.
func (e *Engine) WriteConfig(path string, content any) error {
	return config.Write(path, content)
}

func writeLines(path string, lines []logmodel.LogLine) error {
	f, err := os.Create(path)
	if err != nil {
		return errkind.IO("failed to create session output file", err)
	}
	defer f.Close()

	for _, l := range lines {
		if _, err := f.WriteString(l.Content + "\n"); err != nil {
			return errkind.IO("failed to write session output file", err)
		}
	}
	return nil
}
