// Package tstamp converts the many timestamp spellings that show up in log
// lines into a single comparable unit: milliseconds since the Unix epoch.
//
// Grounded on quellog's timestamp handling instinct in parser/autodetect.go
// (multiple candidate layouts tried in order, first match wins) but
// generalized from "PostgreSQL log timestamp" to the spec's broader format
// list plus bare numeric uptime values.
package tstamp

import (
	"strconv"
	"strings"
	"time"
)

// referenceDate anchors time-only formats ("15:04:05") to a stable date so
// that differences between two time-only timestamps are still meaningful in
// millisecond magnitude. The exact date is arbitrary; only stability across
// calls matters.
var referenceDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// numericSecondsCutoff is the boundary the spec uses to decide whether a
// bare numeric value is seconds or milliseconds: values below it are
// seconds-since-epoch (or relative uptime seconds), values at or above it
// are already milliseconds.
const numericSecondsCutoff = 1e10

// layouts are tried in order against the original string and, where the
// string contains an underscore or 'T' separator, again after normalizing
// that separator to a space.
var layouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02_15:04:05",
	"2006-01-02T15:04:05.000",
	"2006/01/02 15:04:05.000",
	"15:04:05.000",
	"15:04:05",
}

// Parse converts s to milliseconds since the Unix epoch. It returns 0.0 when
// s matches none of the supported numeric or date/time forms; callers treat
// 0.0 as "no timestamp" per the spec.
func Parse(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v < numericSecondsCutoff {
			return v * 1000
		}
		return v
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return toMillis(t, layout)
		}
	}

	// Retry with underscore/'T' separators normalized to a space, for
	// layouts that assume a space-separated date and time.
	normalized := strings.Replace(strings.Replace(s, "_", " ", 1), "T", " ", 1)
	if normalized != s {
		for _, layout := range layouts {
			spaced := strings.Replace(strings.Replace(layout, "_", " ", 1), "T", " ", 1)
			if t, err := time.Parse(spaced, normalized); err == nil {
				return toMillis(t, layout)
			}
		}
	}

	return 0
}

// toMillis converts a parsed time to epoch milliseconds, anchoring
// time-only layouts to referenceDate so the magnitude is meaningful.
func toMillis(t time.Time, layout string) float64 {
	if layout == "15:04:05.000" || layout == "15:04:05" {
		t = time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(),
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return float64(t.UnixMilli())
}
