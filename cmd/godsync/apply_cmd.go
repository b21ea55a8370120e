// cmd/godsync/apply_cmd.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrexox/godsync/pkg/godsync"
)

func init() {
	rootCmd.AddCommand(applyCmd())
}

func applyCmd() *cobra.Command {
	var patchPath, sourcePath, outputPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply a patch to a local source file",
		Long:  "Replay a patch's Copy/Insert operations against a local source file to reconstruct the target.",
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := os.Open(patchPath)
			if err != nil {
				return fmt.Errorf("open patch: %w", err)
			}
			defer patch.Close()

			source, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer source.Close()

			out, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer out.Close()

			if err := godsync.Apply(patch, source, out); err != nil {
				return fmt.Errorf("apply patch: %w", err)
			}

			if !quiet {
				fmt.Printf("Reconstructed %s\n", outputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&patchPath, "patch", "p", "", "Patch file (required)")
	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Local source file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Reconstructed output file (required)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress summary output")

	_ = cmd.MarkFlagRequired("patch")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
