package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "godsync",
	Short:   "godsync - content-defined delta synchronization",
	Long:    "godsync builds chunk signatures, diffs them into patches, and applies those patches locally or by pulling only the missing bytes over HTTP/S3 byte ranges.",
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
