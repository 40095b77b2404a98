// Command loglens is a thin Cobra CLI over package engine, one subcommand
// per row of the command surface table (spec.md §6). It exists only to
// exercise and demo the engine end-to-end without a desktop shell; it is
// not a general name-keyed RPC dispatcher.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "loglens [command]",
	Short: "Interactive log index engine",
	Long: `loglens indexes a log file in memory and answers range, search,
trace and analytics queries against it.

Every subcommand below opens its target file fresh (there is no
long-lived server process here), runs its operation, and prints the
result.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
