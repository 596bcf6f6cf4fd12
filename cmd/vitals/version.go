// ABOUTME: CLI command printing the build version.
// ABOUTME: Version is set via ldflags at build time.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the vitals version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vitals %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
