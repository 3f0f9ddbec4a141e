// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vecprep/internal/fetch"
	"github.com/pdiddy/vecprep/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "vecprep/0.1"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Download a response file to --input",
	Long: `Fetch downloads a CAVP response file and saves it at the --input path.
Rate-limited (429) and unavailable (503) responses are retried with
exponential backoff. An existing file is replaced only after a complete
download.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	fetchCmd.Flags().Int("retries", 0, "retries on 429/503 responses (default 4)")
	viper.BindPFlag("timeout", fetchCmd.Flags().Lookup("timeout"))

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	timeout := viper.GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	retries, _ := cmd.Flags().GetInt("retries")

	cfg := types.FetchConfig{
		Timeout:    timeout,
		UserAgent:  defaultUserAgent,
		MaxRetries: retries,
	}
	client := &http.Client{Timeout: cfg.Timeout}

	_, err := fetch.Download(context.Background(), client, args[0], viper.GetString(keyInput), cfg, os.Stderr)
	return err
}
