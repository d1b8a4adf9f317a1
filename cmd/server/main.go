package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set via ldflags during build.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "visadesk",
	Short:         "Case management backend for an immigration practice",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "visadesk:", err)
		os.Exit(1)
	}
}
