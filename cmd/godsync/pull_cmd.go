// cmd/godsync/pull_cmd.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/mrexox/godsync/pkg/godsync"
)

func init() {
	rootCmd.AddCommand(pullCmd())
}

func pullCmd() *cobra.Command {
	var sourcePath, targetSigPath, targetURI, outputPath string
	var maxConcurrent int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Reconstruct a remote target by fetching only its missing byte ranges",
		Long:  "Diff a local source against a remote target's signature, then fetch only the Insert ranges over HTTP or S3 and reconstruct the target locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("open source: %w", err)
			}
			defer source.Close()

			sigFile, err := os.Open(targetSigPath)
			if err != nil {
				return fmt.Errorf("open target signature: %w", err)
			}
			defer sigFile.Close()

			targetSig, err := godsync.ReadSignature(sigFile)
			if err != nil {
				return fmt.Errorf("read target signature: %w", err)
			}

			sourceSig, err := godsync.BuildSignature(source, targetSig.Params, nil)
			if err != nil {
				return fmt.Errorf("build source signature: %w", err)
			}
			if _, err := source.Seek(0, 0); err != nil {
				return fmt.Errorf("rewinding source: %w", err)
			}

			ops, stats := godsync.Diff(sourceSig, targetSig)

			fetcher, err := newFetcher(cmd.Context(), targetURI)
			if err != nil {
				return fmt.Errorf("configure range fetcher: %w", err)
			}

			out, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer out.Close()

			opts := godsync.PullOptions{MaxConcurrentFetches: maxConcurrent}
			if err := godsync.Pull(cmd.Context(), ops, source, targetURI, fetcher, out, opts); err != nil {
				return fmt.Errorf("pull: %w", err)
			}

			if !quiet {
				fmt.Print(godsync.FormatSummary(stats))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sourcePath, "source", "s", "", "Local source file (required)")
	cmd.Flags().StringVar(&targetSigPath, "target-sig", "", "Target signature file (required)")
	cmd.Flags().StringVarP(&targetURI, "target-uri", "t", "", "Target URI: http(s):// or s3://bucket/key (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Reconstructed output file (required)")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "Max concurrent range fetches (0 = default)")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress summary output")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target-sig")
	_ = cmd.MarkFlagRequired("target-uri")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newFetcher(ctx context.Context, uri string) (godsync.RangeFetcher, error) {
	if strings.HasPrefix(uri, "s3://") {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		return godsync.NewS3RangeFetcher(s3.NewFromConfig(cfg)), nil
	}
	return godsync.NewHTTPRangeFetcher(http.DefaultClient), nil
}
