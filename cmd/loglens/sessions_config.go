package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/loglens/loglens/engine"
)

var saveSessionsRanges []string

var saveSessionsCmd = &cobra.Command{
	Use:   "save-sessions <source> <target>",
	Short: "Write selected line ranges of source to target",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ranges, err := parseRanges(saveSessionsRanges)
		if err != nil {
			fatalf("%v", err)
		}
		if err := engine.New().SaveSessions(args[0], args[1], ranges); err != nil {
			fatalf("%v", err)
		}
	},
}

var readConfigCmd = &cobra.Command{
	Use:   "read-config <path>",
	Short: "Read a YAML config file and print it back as YAML",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		content, err := engine.New().ReadConfig(args[0])
		if err != nil {
			fatalf("%v", err)
		}
		out, err := yaml.Marshal(content)
		if err != nil {
			fatalf("failed to render config: %v", err)
		}
		fmt.Print(string(out))
	},
}

var writeConfigCmd = &cobra.Command{
	Use:   "write-config <path>",
	Short: "Write a YAML document read from stdin to path",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatalf("failed to read stdin: %v", err)
		}
		var content any
		if err := yaml.Unmarshal(data, &content); err != nil {
			fatalf("stdin is not valid YAML: %v", err)
		}
		if err := engine.New().WriteConfig(args[0], content); err != nil {
			fatalf("%v", err)
		}
	},
}

func init() {
	saveSessionsCmd.Flags().StringArrayVar(&saveSessionsRanges, "range", nil, "start:end line range (1-based, repeatable)")
	rootCmd.AddCommand(saveSessionsCmd, readConfigCmd, writeConfigCmd)
}
