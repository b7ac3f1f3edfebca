// Package main provides the command-line interface for the water-systems
// flow substrate.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "wsi",
	Short: "WSI CLI tool can run water-system flow simulations built on " +
		"the transport substrate.",
	Long: `WSI CLI tool can run water-system flow simulations built on the ` +
		`transport substrate. Currently, it supports running a demonstration ` +
		`supply network with flow recording and live monitoring.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
