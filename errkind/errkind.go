// Package errkind provides the small set of sentinel errors the engine
// surfaces to callers, plus wrapping helpers in the style of quellog's
// parser.Err* variables (parser/autodetect.go) and dtail's
// internal/errors package.
package errkind

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Only these three ever cross the engine boundary. There is
// no DecodeWarning error: invalid bytes are replaced with U+FFFD during
// decoding, without logging and without returning an error.
var (
	// ErrNoIndex is returned by any query run before a successful open.
	ErrNoIndex = errors.New("no index")
	// ErrIO covers mmap/open/stat/write failures.
	ErrIO = errors.New("io error")
	// ErrRegex covers pattern compile failures surfaced to the caller
	// (as opposed to level/boot regexes, which fall back to defaults
	// instead of erroring).
	ErrRegex = errors.New("regex error")
)

// IO wraps err as an IoError with msg as the human-readable prefix, matching
// the "Failed to read source file: …" style the spec requires.
func IO(msg string, err error) error {
	return fmt.Errorf("%s: %w: %v", msg, ErrIO, err)
}

// Regex wraps err as a RegexError, matching the "Start Regex Error: …" style.
func Regex(msg string, err error) error {
	return fmt.Errorf("%s: %w: %v", msg, ErrRegex, err)
}

// NoIndex returns the sentinel NoIndex error.
func NoIndex() error {
	return ErrNoIndex
}

// Is reports whether err is (wraps) target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
