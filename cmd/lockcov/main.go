// Package main provides the entry point for the lockcov CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/lockcov/cmd/lockcov/commands"
	"github.com/Sumatoshi-tech/lockcov/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := commands.NewAnalyzeCommand()
	rootCmd.AddCommand(commands.NewVersionCommand())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
