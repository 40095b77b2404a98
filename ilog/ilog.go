// Package ilog provides the engine's internal, non-fatal diagnostics:
// malformed-regex fallbacks, index release failures, and similar. It
// never panics and never fails a query — matching the spec's rule that
// invalid per-line bytes and bad optional regexes degrade gracefully.
//
// The [INFO]/[WARN]/[ERROR] prefixing mirrors quellog's ad hoc
// cmd/execute.go logging (`fmt.Println("[INFO] ...")`,
// `log.Fatalf("[ERROR] ...")`), minus the Fatalf: the engine is a library
// and must never exit the host process.
package ilog

import "log"

// Warn logs a non-fatal engine warning, e.g. a level/boot regex falling
// back to its default.
func Warn(format string, args ...any) {
	log.Printf("[WARN] "+format, args...)
}

// Info logs a routine engine event, e.g. an index rebuild.
func Info(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}
