// cmd/godsync/synctree_cmd.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrexox/godsync/pkg/godsync"
)

func init() {
	rootCmd.AddCommand(syncTreeCmd())
}

func syncTreeCmd() *cobra.Command {
	var sourceRoot, destRoot string
	var dryRun, quiet bool
	var minSize, avgSize, maxSize uint32

	cmd := &cobra.Command{
		Use:   "synctree",
		Short: "Sync a directory tree, file by file",
		Long:  "Walk a source directory and bring a destination directory's files in sync one at a time, honoring .syncignore patterns and skipping files already identical.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := godsync.SyncTreeOptions{
				Params: godsync.Params{MinSize: minSize, AvgSize: avgSize, MaxSize: maxSize},
				DryRun: dryRun,
			}

			var cb godsync.ProgressCallback
			var bars interface{ Wait() }
			if !quiet {
				c, progress := godsync.ProgressBarCallback()
				cb = c
				bars = progress
			}

			stats, err := godsync.SyncTree(sourceRoot, destRoot, opts, cb)
			if bars != nil {
				bars.Wait()
			}
			if err != nil {
				return fmt.Errorf("sync tree: %w", err)
			}

			if !quiet {
				fmt.Printf("Files: %d total, %d synced, %d identical, %d skipped\n",
					stats.FilesTotal, stats.FilesSynced, stats.FilesIdentical, stats.FilesSkipped)
				fmt.Print(godsync.FormatSummary(stats.Stats))
				for _, e := range stats.Errors {
					fmt.Printf("error: %v\n", e)
				}
			}
			if len(stats.Errors) > 0 {
				return fmt.Errorf("synctree: %d file(s) failed", len(stats.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourceRoot, "source", "s", "", "Source directory (required)")
	cmd.Flags().StringVarP(&destRoot, "dest", "d", "", "Destination directory (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress progress and summary output")
	cmd.Flags().Uint32Var(&minSize, "min-size", godsync.DefaultParams().MinSize, "Minimum chunk size in bytes")
	cmd.Flags().Uint32Var(&avgSize, "avg-size", godsync.DefaultParams().AvgSize, "Average chunk size in bytes")
	cmd.Flags().Uint32Var(&maxSize, "max-size", godsync.DefaultParams().MaxSize, "Maximum chunk size in bytes")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("dest")

	return cmd
}
