package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loglens/loglens/logmodel"
)

var (
	aBootRegex  string
	aLevelRegex string

	wfStartRegex string
	wfEndRegex   string
	wfTsRegex    string
	wfIDRegex    string
)

var patternsCmd = &cobra.Command{
	Use:   "patterns <path>",
	Short: "Cluster non-blank lines by fingerprint, top 50 by count",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], aBootRegex, aLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		stats, err := e.Patterns()
		if err != nil {
			fatalf("%v", err)
		}
		for _, s := range stats {
			fmt.Printf("%6d  [%-5s]  %s\n", s.Count, s.Level, s.Content)
		}
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics <path> <regex>",
	Short: "Extract a numeric series from lines matching regex",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], aBootRegex, aLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		points, err := e.Metrics(args[1])
		if err != nil {
			fatalf("%v", err)
		}
		for _, p := range points {
			fmt.Printf("%6d  %g\n", p.LineNumber, p.Value)
		}
	},
}

var timeGapsCmd = &cobra.Command{
	Use:   "time-gaps <path> <timestamp-regex>",
	Short: "List lines whose timestamp jumped by more than 10ms",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], aBootRegex, aLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		gaps, err := e.TimeGaps(args[1])
		if err != nil {
			fatalf("%v", err)
		}
		for _, g := range gaps {
			fmt.Printf("%6d  +%gms\n", g.LineNumber, g.GapMs)
		}
	},
}

var workflowDurationCmd = &cobra.Command{
	Use:   "workflow-duration <path>",
	Short: "Pair start/end marker lines into duration segments",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], aBootRegex, aLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		segs, err := e.WorkflowDuration(wfStartRegex, wfEndRegex, wfTsRegex, wfIDRegex)
		if err != nil {
			fatalf("%v", err)
		}
		printSegments(segs)
	},
}

var recurrentIntervalsCmd = &cobra.Command{
	Use:   "recurrent-intervals <path> <hit-regex> <timestamp-regex>",
	Short: "Measure the gap between consecutive matches of hit-regex",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := openEngine(args[0], aBootRegex, aLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		segs, err := e.RecurrentIntervals(args[1], args[2])
		if err != nil {
			fatalf("%v", err)
		}
		printSegments(segs)
	},
}

func printSegments(segs []logmodel.WorkflowSegment) {
	for _, s := range segs {
		label := s.ID
		if label == "" {
			label = "-"
		}
		fmt.Printf("%6d-%-6d  %8gms  id=%s\n", s.StartLine, s.EndLine, s.DurationMs, label)
	}
}

func init() {
	for _, c := range []*cobra.Command{patternsCmd, metricsCmd, timeGapsCmd, workflowDurationCmd, recurrentIntervalsCmd} {
		c.Flags().StringVar(&aBootRegex, "boot-regex", "", "boot-marker regex used at open time")
		c.Flags().StringVar(&aLevelRegex, "level-regex", "", "level-classification regex used at open time")
	}

	workflowDurationCmd.Flags().StringVar(&wfStartRegex, "start-regex", "", "start-marker regex")
	workflowDurationCmd.Flags().StringVar(&wfEndRegex, "end-regex", "", "end-marker regex")
	workflowDurationCmd.Flags().StringVar(&wfTsRegex, "timestamp-regex", "", "timestamp regex (capture group 1)")
	workflowDurationCmd.Flags().StringVar(&wfIDRegex, "id-regex", "", "optional id regex (capture group 1)")

	rootCmd.AddCommand(patternsCmd, metricsCmd, timeGapsCmd, workflowDurationCmd, recurrentIntervalsCmd)
}
