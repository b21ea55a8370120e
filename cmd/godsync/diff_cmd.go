// cmd/godsync/diff_cmd.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrexox/godsync/pkg/godsync"
)

func init() {
	rootCmd.AddCommand(diffCmd())
}

func diffCmd() *cobra.Command {
	var sourcePath, targetPath, outputPath string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Diff two files and write a patch",
		Long:  "Build signatures for source and target, plan the Copy/Insert operations that turn source into target, and write the resulting patch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer source.Close()

			target, err := os.Open(targetPath)
			if err != nil {
				return fmt.Errorf("open target: %w", err)
			}
			defer target.Close()

			params := godsync.DefaultParams()

			sourceSig, err := godsync.BuildSignature(source, params, nil)
			if err != nil {
				return fmt.Errorf("build source signature: %w", err)
			}
			targetSig, err := godsync.BuildSignature(target, params, nil)
			if err != nil {
				return fmt.Errorf("build target signature: %w", err)
			}

			ops, stats := godsync.Diff(sourceSig, targetSig)

			if _, err := target.Seek(0, 0); err != nil {
				return fmt.Errorf("rewinding target: %w", err)
			}

			out, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer out.Close()

			if err := godsync.WritePatch(out, ops, target); err != nil {
				return fmt.Errorf("write patch: %w", err)
			}

			if !quiet {
				fmt.Printf("Wrote patch: %d operations\n", len(ops))
				fmt.Print(godsync.FormatSummary(stats))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Source file (required)")
	cmd.Flags().StringVarP(&targetPath, "target", "t", "", "Target file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output patch file (required)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress summary output")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
