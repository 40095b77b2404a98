package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	qBootRegex  string
	qLevelRegex string
	qRanges     []string

	searchRegex bool

	filterLevels   []string
	filterKeywords []string
	filterContext  int
	filterRefine   []string

	saveFilteredPath string
)

var rangeCmd = &cobra.Command{
	Use:   "range <path> <start> <end>",
	Short: "Print lines [start, end) (1-based)",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], qBootRegex, qLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		start, err1 := strconv.Atoi(args[1])
		end, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			fatalf("start/end must be integers")
		}
		lines, err := e.Range(start, end)
		if err != nil {
			fatalf("%v", err)
		}
		printLines(lines)
	},
}

var linesCmd = &cobra.Command{
	Use:   "lines <path> <index...>",
	Short: "Print lines by 0-based index, in the given order",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], qBootRegex, qLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		indices, err := parseIndices(args[1:])
		if err != nil {
			fatalf("%v", err)
		}
		lines, err := e.LinesByIndices(indices)
		if err != nil {
			fatalf("%v", err)
		}
		printLines(lines)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <path> <query>",
	Short: "Search lines for a substring or regex",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], qBootRegex, qLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		ranges, err := parseRanges(qRanges)
		if err != nil {
			fatalf("%v", err)
		}
		lines, err := e.Search(args[1], searchRegex, ranges)
		if err != nil {
			fatalf("%v", err)
		}
		printLines(lines)
	},
}

var filteredIndicesCmd = &cobra.Command{
	Use:   "filtered-indices <path>",
	Short: "Run the seed/context/refinement trace pipeline",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], qBootRegex, qLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		ranges, err := parseRanges(qRanges)
		if err != nil {
			fatalf("%v", err)
		}
		indices, err := e.FilteredIndices(filterLevels, ranges, filterKeywords, filterContext, filterRefine)
		if err != nil {
			fatalf("%v", err)
		}
		printIndices(indices)
	},
}

var saveFilteredCmd = &cobra.Command{
	Use:   "save-filtered <path> <index...>",
	Short: "Write selected 0-based indices to --out, numbered and trimmed",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if saveFilteredPath == "" {
			fatalf("--out is required")
		}
		e, _, err := openEngine(args[0], qBootRegex, qLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		indices, err := parseIndices(args[1:])
		if err != nil {
			fatalf("%v", err)
		}
		if err := e.SaveFiltered(saveFilteredPath, indices); err != nil {
			fatalf("%v", err)
		}
	},
}

var firstOccurrenceCmd = &cobra.Command{
	Use:   "first-occurrence <path> <query>",
	Short: "Print the smallest 0-based index containing query",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], qBootRegex, qLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		ranges, err := parseRanges(qRanges)
		if err != nil {
			fatalf("%v", err)
		}
		i, ok, err := e.FirstOccurrence(args[1], ranges)
		if err != nil {
			fatalf("%v", err)
		}
		if !ok {
			fmt.Println("no match")
			return
		}
		fmt.Println(i)
	},
}

func init() {
	for _, c := range []*cobra.Command{rangeCmd, linesCmd, searchCmd, filteredIndicesCmd, saveFilteredCmd, firstOccurrenceCmd} {
		c.Flags().StringVar(&qBootRegex, "boot-regex", "", "boot-marker regex used at open time")
		c.Flags().StringVar(&qLevelRegex, "level-regex", "", "level-classification regex used at open time")
	}

	searchCmd.Flags().BoolVar(&searchRegex, "regex", false, "treat query as a regex")
	searchCmd.Flags().StringArrayVar(&qRanges, "range", nil, "restrict to start:end (1-based, repeatable)")

	filteredIndicesCmd.Flags().StringSliceVar(&filterLevels, "level", nil, "restrict to these levels (repeatable)")
	filteredIndicesCmd.Flags().StringArrayVar(&qRanges, "range", nil, "restrict to start:end (1-based, repeatable)")
	filteredIndicesCmd.Flags().StringSliceVar(&filterKeywords, "keyword", nil, "seed keyword (repeatable)")
	filteredIndicesCmd.Flags().IntVar(&filterContext, "context-lines", 0, "context lines around each seed")
	filteredIndicesCmd.Flags().StringArrayVar(&filterRefine, "refine", nil, "refinement predicate (!/=/? prefixed, repeatable)")

	firstOccurrenceCmd.Flags().StringArrayVar(&qRanges, "range", nil, "restrict to start:end (1-based, repeatable)")

	saveFilteredCmd.Flags().StringVar(&saveFilteredPath, "out", "", "output file path")

	rootCmd.AddCommand(rangeCmd, linesCmd, searchCmd, filteredIndicesCmd, saveFilteredCmd, firstOccurrenceCmd)
}
