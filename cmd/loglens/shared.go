package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/loglens/loglens/engine"
	"github.com/loglens/loglens/logmodel"
)

// openEngine opens path on a fresh Engine, the way every subcommand below
// gets an Index to operate on: this CLI has no persistent session, so each
// invocation re-opens its target.
func openEngine(path, bootRegex, levelRegex string) (*engine.Engine, logmodel.FileInfo, error) {
	e := engine.New()
	info, err := e.Open(path, bootRegex, levelRegex)
	if err != nil {
		return nil, logmodel.FileInfo{}, err
	}
	return e, info, nil
}

// parseRanges turns repeated "start:end" flag values into LineRanges.
func parseRanges(specs []string) ([]logmodel.LineRange, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make([]logmodel.LineRange, 0, len(specs))
	for _, s := range specs {
		parts := strings.SplitN(s, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid range %q, want start:end", s)
		}
		start, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid range start %q: %w", s, err)
		}
		end, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid range end %q: %w", s, err)
		}
		out = append(out, logmodel.LineRange{Start: start, End: end})
	}
	return out, nil
}

func parseIndices(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q: %w", a, err)
		}
		out[i] = v
	}
	return out, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
