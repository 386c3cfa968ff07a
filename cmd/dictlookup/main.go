package main

import (
	"os"

	"codeberg.org/snonux/dictlookup/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command; it serves when no subcommand is given
	rootCmd := cli.CreateRootCommand(flags)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
