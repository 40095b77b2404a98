package analytics_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loglens/loglens/analytics"
	"github.com/loglens/loglens/index"
)

func openFixture(t *testing.T, content string) *index.Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	idx, _, err := index.Open(path, "", "")
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(idx.Release)
	return idx
}

func TestPatterns_MergesAcrossFingerprint(t *testing.T) {
	var lines []string
	for i := 0; i < 1000; i++ {
		lines = append(lines, "2024-01-01 12:00:00 [INFO] msg 42")
	}
	for i := 0; i < 500; i++ {
		lines = append(lines, "2024-01-01 12:00:00 [INFO] msg 43")
	}
	idx := openFixture(t, strings.Join(lines, "\n")+"\n")

	stats := analytics.Patterns(idx)
	if len(stats) != 1 {
		t.Fatalf("got %d fingerprints, want 1: %+v", len(stats), stats)
	}
	if stats[0].Count != 1500 {
		t.Errorf("count = %d, want 1500", stats[0].Count)
	}
	if stats[0].Level != "INFO" {
		t.Errorf("level = %q, want INFO", stats[0].Level)
	}
	want := "N-N-N HH:MM:SS [INFO] msg N"
	if stats[0].Content != want {
		t.Errorf("fingerprint = %q, want %q", stats[0].Content, want)
	}
}

func TestPatterns_TopFiftyOrderedByCountDescending(t *testing.T) {
	var lines []string
	for i := 0; i < 60; i++ {
		count := 60 - i
		for j := 0; j < count; j++ {
			// Letters, not digits: digit runs are masked to N by the
			// fingerprint and would collapse every pattern into one.
			lines = append(lines, fmt.Sprintf("pattern-%c%c occurs", 'a'+i/26, 'a'+i%26))
		}
	}
	idx := openFixture(t, strings.Join(lines, "\n")+"\n")

	stats := analytics.Patterns(idx)
	if len(stats) != 50 {
		t.Fatalf("got %d stats, want 50 (capped)", len(stats))
	}
	for i := 1; i < len(stats); i++ {
		if stats[i].Count > stats[i-1].Count {
			t.Fatalf("not descending at %d: %d > %d", i, stats[i].Count, stats[i-1].Count)
		}
	}
}

func TestMetrics_ExtractsCaptureGroupOrWholeMatch(t *testing.T) {
	idx := openFixture(t, "latency=12.5ms\nno match here\nlatency=7ms\n")

	got, err := analytics.Metrics(idx, `latency=([\d.]+)ms`)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d points, want 2: %+v", len(got), got)
	}
	if got[0].LineNumber != 1 || got[0].Value != 12.5 {
		t.Errorf("point 0 = %+v", got[0])
	}
	if got[1].LineNumber != 3 || got[1].Value != 7 {
		t.Errorf("point 1 = %+v", got[1])
	}
}

func TestTimeGaps_OnlyOverThreshold(t *testing.T) {
	idx := openFixture(t, "[010] a\n[010] b\n[500] c\n")

	got, err := analytics.TimeGaps(idx, `\[(\d+)\]`)
	if err != nil {
		t.Fatalf("TimeGaps: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d gaps, want 1: %+v", len(got), got)
	}
	if got[0].LineNumber != 3 {
		t.Errorf("gap line = %d, want 3", got[0].LineNumber)
	}
}

func TestWorkflowDuration_WithIDs(t *testing.T) {
	content := "start req=A @1\nstart req=B @2\nend req=A @5\nend req=B @6\n"
	idx := openFixture(t, content)

	got, err := analytics.WorkflowDuration(idx, `^start`, `^end`, `@(\d+)`, `req=(\w+)`)
	if err != nil {
		t.Fatalf("WorkflowDuration: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(got), got)
	}
	byID := map[string]float64{}
	for _, seg := range got {
		byID[seg.ID] = seg.DurationMs
	}
	if byID["A"] != 4000 || byID["B"] != 4000 {
		t.Fatalf("durations = %+v, want A=4000 B=4000", byID)
	}
}

func TestWorkflowDuration_WithoutIDsIsLIFO(t *testing.T) {
	content := "start outer @10\nstart inner @20\nend inner @30\nend outer @90\n"
	idx := openFixture(t, content)

	got, err := analytics.WorkflowDuration(idx, `^start`, `^end`, `@(\d+)`, "")
	if err != nil {
		t.Fatalf("WorkflowDuration: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(got), got)
	}
	if got[0].StartLine != 2 || got[0].EndLine != 3 {
		t.Errorf("inner segment = %+v, want StartLine=2 EndLine=3", got[0])
	}
	if got[1].StartLine != 1 || got[1].EndLine != 4 {
		t.Errorf("outer segment = %+v, want StartLine=1 EndLine=4", got[1])
	}
}

func TestRecurrentIntervals_FirstHitIsBaselineOnly(t *testing.T) {
	content := "hit @1\nfiller\nhit @4\nfiller\nhit @11\n"
	idx := openFixture(t, content)

	got, err := analytics.RecurrentIntervals(idx, `^hit`, `@(\d+)`)
	if err != nil {
		t.Fatalf("RecurrentIntervals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(got), got)
	}
	if got[0].DurationMs != 3000 || got[1].DurationMs != 7000 {
		t.Fatalf("durations = %v, %v; want 3000, 7000", got[0].DurationMs, got[1].DurationMs)
	}
}

func TestRecurrentIntervals_HitWithoutOwnTimestampUsesLastValid(t *testing.T) {
	// The second "hit" carries no timestamp of its own; it must use the
	// last-valid timestamp carried forward from the preceding line rather
	// than being dropped entirely.
	content := "hit @1\nhit\nhit @11\n"
	idx := openFixture(t, content)

	got, err := analytics.RecurrentIntervals(idx, `^hit`, `@(\d+)`)
	if err != nil {
		t.Fatalf("RecurrentIntervals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(got), got)
	}
	if got[0].StartLine != 1 || got[0].EndLine != 2 || got[0].DurationMs != 0 {
		t.Errorf("first segment = %+v, want StartLine=1 EndLine=2 DurationMs=0 (carried-forward timestamp)", got[0])
	}
	if got[1].StartLine != 2 || got[1].EndLine != 3 || got[1].DurationMs != 10000 {
		t.Errorf("second segment = %+v, want StartLine=2 EndLine=3 DurationMs=10000", got[1])
	}
}
