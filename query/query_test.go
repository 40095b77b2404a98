package query_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loglens/loglens/index"
	"github.com/loglens/loglens/logmodel"
	"github.com/loglens/loglens/query"
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

func lineContents(lines []logmodel.LogLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Content
	}
	return out
}

func TestRange_HalfOpenAndClamped(t *testing.T) {
	idx := openFixture(t, "one\ntwo\nthree\nfour\n")

	got := query.Range(idx, 1, idx.LineCount()+1)
	if len(got) != 4 {
		t.Fatalf("got %d lines, want 4", len(got))
	}
	for i, l := range got {
		if l.LineNumber != i+1 {
			t.Errorf("line %d has LineNumber %d", i, l.LineNumber)
		}
	}

	if got := query.Range(idx, -5, 99); len(got) != 4 {
		t.Errorf("Range(-5,99) returned %d lines, want 4 (clamped to the file)", len(got))
	}

	if got := query.Range(idx, 3, 3); got != nil {
		t.Errorf("Range(3,3) = %v, want nil (start >= end)", got)
	}
}

func TestLinesByIndices_PreservesOrderAndDropsOutOfRange(t *testing.T) {
	idx := openFixture(t, "a\nb\nc\n")

	got := query.LinesByIndices(idx, []int{2, 99, 0, -1})
	want := []string{"c", "a"}
	if strings.Join(lineContents(got), ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", lineContents(got), want)
	}
	if got[0].LineNumber != 3 || got[1].LineNumber != 1 {
		t.Errorf("line numbers = %d,%d want 3,1", got[0].LineNumber, got[1].LineNumber)
	}
}

func TestSearch_WithRanges(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "filler"
	}
	lines[4] = "has x here"   // line 5
	lines[14] = "has x here"  // line 15
	lines[54] = "has x here"  // line 55
	lines[89] = "has x here"  // line 90
	idx := openFixture(t, strings.Join(lines, "\n")+"\n")

	got, err := query.Search(idx, "x", false, []logmodel.LineRange{{Start: 10, End: 20}, {Start: 50, End: 60}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0].LineNumber != 15 || got[1].LineNumber != 55 {
		t.Fatalf("got %+v, want lines 15 and 55", got)
	}
}

func TestSearch_RegexAndSubstringAgree(t *testing.T) {
	idx := openFixture(t, "alpha\nbeta\ngamma\n")

	substr, err := query.Search(idx, "beta", false, nil)
	if err != nil {
		t.Fatalf("Search substring: %v", err)
	}
	rx, err := query.Search(idx, "beta", true, nil)
	if err != nil {
		t.Fatalf("Search regex: %v", err)
	}
	if len(substr) != 1 || len(rx) != 1 || substr[0].LineNumber != rx[0].LineNumber {
		t.Fatalf("substring and regex search diverge: %+v vs %+v", substr, rx)
	}
}

func TestSearch_EmptyQueryReturnsNothing(t *testing.T) {
	idx := openFixture(t, "alpha\nbeta\ngamma\n")

	got, err := query.Search(idx, "", false, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil for an empty query", got)
	}

	got, err = query.Search(idx, "\r\n", false, nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil for a newline-only query", got)
	}
}

func TestFilteredIndices_SeedAndContextExpansion(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = "[INFO] normal line"
	}
	lines[2] = "[INFO] an error occurred"   // line 3
	lines[6] = "[INFO] error but transient" // line 7
	idx := openFixture(t, strings.Join(lines, "\n")+"\n")

	got, err := query.FilteredIndices(idx, []string{"INFO"}, nil, []string{"error"}, 1, []string{"!transient"})
	if err != nil {
		t.Fatalf("FilteredIndices: %v", err)
	}
	want := []int{1, 2, 3, 5, 7}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFilteredIndices_NoContextExpansionWithoutKeywords(t *testing.T) {
	idx := openFixture(t, "[ERROR] a\n[INFO] b\n[ERROR] c\n")

	got, err := query.FilteredIndices(idx, []string{"ERROR"}, nil, nil, 5, nil)
	if err != nil {
		t.Fatalf("FilteredIndices: %v", err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("got %v, want [0 2] (level filter only, no context expansion)", got)
	}
}

func TestFilteredIndices_WhitespaceRefinementsAreTrimmedOrDropped(t *testing.T) {
	idx := openFixture(t, "[ERROR] a\n[ERROR] b\n[ERROR] c\n")

	// A blank/whitespace-only refinement contributes no constraint and is
	// dropped rather than becoming a literal "match three spaces" include.
	got, err := query.FilteredIndices(idx, []string{"ERROR"}, nil, nil, 0, []string{"   "})
	if err != nil {
		t.Fatalf("FilteredIndices: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %v, want all 3 lines (blank refinement is a no-op)", got)
	}

	// A leading space before the exclude prefix must not hide the prefix.
	got, err = query.FilteredIndices(idx, []string{"ERROR"}, nil, nil, 0, []string{" !b"})
	if err != nil {
		t.Fatalf("FilteredIndices: %v", err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("got %v, want [0 2] (\" !b\" excludes the line containing \"b\")", got)
	}
}

func TestSaveFiltered_FormatsAndSkipsOutOfRange(t *testing.T) {
	idx := openFixture(t, "first\nsecond\nthird\n")
	out := filepath.Join(t.TempDir(), "out.txt")

	if err := query.SaveFiltered(idx, out, []int{0, 99, 2}); err != nil {
		t.Fatalf("SaveFiltered: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "1: first\n3: third\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", string(data), want)
	}
}

func TestFirstOccurrence(t *testing.T) {
	idx := openFixture(t, "alpha\nbeta NEEDLE\ngamma needle again\n")

	i, ok := query.FirstOccurrence(idx, "needle", nil)
	if !ok || i != 1 {
		t.Fatalf("got (%d,%v), want (1,true)", i, ok)
	}
}

func TestFirstOccurrence_NoMatch(t *testing.T) {
	idx := openFixture(t, "alpha\nbeta\n")

	_, ok := query.FirstOccurrence(idx, "zzz", nil)
	if ok {
		t.Fatal("expected no match")
	}
}
