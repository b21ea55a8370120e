// cmd/godsync/signature_cmd.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrexox/godsync/internal/sigstore"
	"github.com/mrexox/godsync/pkg/godsync"
)

func init() {
	rootCmd.AddCommand(signatureCmd())
}

func signatureCmd() *cobra.Command {
	var inputPath, outputPath, cacheDir string
	var minSize, avgSize, maxSize uint32
	var quiet bool

	cmd := &cobra.Command{
		Use:   "signature",
		Short: "Build a chunk signature for a file",
		Long:  "Chunk a file with FastCDC and write its signature (ordered hash/offset/length list) to a file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			params := godsync.Params{MinSize: minSize, AvgSize: avgSize, MaxSize: maxSize}

			var progressCb godsync.ProgressCallback
			var bars interface{ Wait() }
			if !quiet {
				cb, progress := godsync.ProgressBarCallback()
				progressCb = cb
				bars = progress
			}

			sig, err := godsync.BuildSignature(in, params, progressCb)
			if bars != nil {
				bars.Wait()
			}
			if err != nil {
				return fmt.Errorf("build signature: %w", err)
			}

			out, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer out.Close()

			if err := godsync.WriteSignature(out, sig); err != nil {
				return fmt.Errorf("write signature: %w", err)
			}

			if cacheDir != "" {
				store, err := sigstore.NewFSStore(cacheDir)
				if err != nil {
					return fmt.Errorf("opening signature cache: %w", err)
				}
				if err := store.Put(cmd.Context(), inputPath, sig); err != nil {
					return fmt.Errorf("caching signature: %w", err)
				}
			}

			if !quiet {
				fmt.Printf("Wrote signature: %d chunks, %d bytes covered\n", len(sig.Chunks), sig.Size())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output signature file (required)")
	cmd.Flags().Uint32Var(&minSize, "min-size", godsync.DefaultParams().MinSize, "Minimum chunk size in bytes")
	cmd.Flags().Uint32Var(&avgSize, "avg-size", godsync.DefaultParams().AvgSize, "Average chunk size in bytes")
	cmd.Flags().Uint32Var(&maxSize, "max-size", godsync.DefaultParams().MaxSize, "Maximum chunk size in bytes")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress progress output")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "If set, also cache the built signature under this directory keyed by input path")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
