// cmd/godsync/verify_cmd.go

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrexox/godsync/pkg/godsync"
)

func init() {
	rootCmd.AddCommand(verifyCmd())
}

func verifyCmd() *cobra.Command {
	var inputPath, sigPath string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a file against a signature",
		Long:  "Rebuild a file's signature using the chunk parameters recorded in a reference signature, and report whether the two match.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer in.Close()

			sigFile, err := os.Open(sigPath)
			if err != nil {
				return fmt.Errorf("open signature: %w", err)
			}
			defer sigFile.Close()

			want, err := godsync.ReadSignature(sigFile)
			if err != nil {
				return fmt.Errorf("read signature: %w", err)
			}

			result, err := godsync.Verify(in, want)
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}

			fmt.Println(result.Summary())
			if !result.Matches {
				return fmt.Errorf("verification failed: %d chunk(s) mismatched", result.ChunksMismatched)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file to verify (required)")
	cmd.Flags().StringVar(&sigPath, "signature", "", "Reference signature file (required)")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("signature")

	return cmd
}
