package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	openBootRegex  string
	openLevelRegex string
)

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Open a log file and print its summary",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, info, err := openEngine(args[0], openBootRegex, openLevelRegex)
		if err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("%s  %d bytes  %d lines  %d sessions\n", info.Name, info.Size, info.Lines, info.Sessions)
	},
}

func init() {
	openCmd.Flags().StringVar(&openBootRegex, "boot-regex", "", "boot-marker regex (default built-in pattern)")
	openCmd.Flags().StringVar(&openLevelRegex, "level-regex", "", "level-classification regex (default built-in pattern)")
	rootCmd.AddCommand(openCmd)
}
