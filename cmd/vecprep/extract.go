// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vecprep/internal/catalog"
	"github.com/pdiddy/vecprep/internal/extract"
	"github.com/pdiddy/vecprep/pkg/types"
)

const keySizesFile = "sizes_file"

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write messages/msgN and hashes/hashN for every Msg/MD pair",
	Long: `Extract scans the response file line by line. Each Msg line and the
line after it form one vector: the Msg hex is decoded into messages/msgN
and the digest is written verbatim to hashes/hashN, with N counting from 0
in file order. Len lines, headers, and blank lines are ignored.

The command fails on an odd-length or non-hex message, on a Msg line with
no line after it, and when messages/ or hashes/ does not exist. Files for
vectors before the failing one are kept.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("sizes-file", "", "also write each vector's Len value, one per line, to this file")
	extractCmd.Flags().Bool("catalog", false, "index the extracted vectors in the catalog")
	viper.BindPFlag(keySizesFile, extractCmd.Flags().Lookup("sizes-file"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := types.ExtractConfig{
		Input:     viper.GetString(keyInput),
		OutDir:    viper.GetString(keyOut),
		SizesFile: viper.GetString(keySizesFile),
	}

	summary, err := extract.Extract(cfg, os.Stderr)
	if err != nil {
		return err
	}

	withCatalog, _ := cmd.Flags().GetBool("catalog")
	if !withCatalog {
		return nil
	}

	data, err := os.ReadFile(cfg.Input)
	if err != nil {
		return fmt.Errorf("reading %s for catalog: %w", cfg.Input, err)
	}
	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Ingest(context.Background(), cfg.Input, catalog.Checksum(data), summary.Written, os.Stderr)
	return err
}
