// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vecprep/internal/verify"
	"github.com/pdiddy/vecprep/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check extracted vectors against a reference SHA-256",
	Long: `Verify hashes messages/msg0, msg1, ... with the standard library
SHA-256 and compares each digest with hashes/hashN. It stops at the first
missing message and reports an error if later message files exist.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Int("limit", 0, "verify at most this many vectors (0 = all)")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	cfg := types.VerifyConfig{
		OutDir: viper.GetString(keyOut),
		Limit:  limit,
	}

	summary, err := verify.Verify(context.Background(), cfg, os.Stderr)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d of %d vector(s) failed verification",
			summary.Mismatched+summary.MissingHash, summary.Total())
	}
	return nil
}
