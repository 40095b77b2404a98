package tstamp_test

import (
	"testing"

	"github.com/loglens/loglens/tstamp"
)

func TestParse_NumericSecondsVsMillis(t *testing.T) {
	if got := tstamp.Parse("1.5"); got != 1500 {
		t.Errorf("Parse(\"1.5\") = %v, want 1500 (seconds path)", got)
	}
	if got := tstamp.Parse("20000000000"); got != 20000000000 {
		t.Errorf("Parse(large) = %v, want unchanged (already milliseconds)", got)
	}
}

func TestParse_DateFormats(t *testing.T) {
	cases := []string{
		"2024-01-02 03:04:05.123",
		"2024-01-02 03:04:05",
		"2024-01-02_03:04:05",
		"2024-01-02T03:04:05.123",
		"2024/01/02 03:04:05.123",
	}
	for _, s := range cases {
		if got := tstamp.Parse(s); got == 0 {
			t.Errorf("Parse(%q) = 0, want a nonzero timestamp", s)
		}
	}
}

func TestParse_TimeOnlyFormatsAreComparable(t *testing.T) {
	a := tstamp.Parse("10:00:00")
	b := tstamp.Parse("10:00:05")
	if b-a != 5000 {
		t.Errorf("b-a = %v, want 5000ms", b-a)
	}
}

func TestParse_UnparseableReturnsZero(t *testing.T) {
	if got := tstamp.Parse("not a timestamp"); got != 0 {
		t.Errorf("Parse(garbage) = %v, want 0", got)
	}
	if got := tstamp.Parse(""); got != 0 {
		t.Errorf("Parse(\"\") = %v, want 0", got)
	}
}
