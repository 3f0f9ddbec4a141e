// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vecprep/internal/catalog"
	"github.com/pdiddy/vecprep/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Index, query, and export test vectors (SQLite)",
	Long: `Catalog keeps a local SQLite index of the vectors in one or more
response files. Use subcommands to ingest files, query them, or export.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Parse response files and store their vectors",
	Long: `Ingest parses each response file (default: --input) and stores its
vectors. Files whose content is unchanged since the last ingest are skipped.`,
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{viper.GetString(keyInput)}
	}

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	failed := 0
	for _, path := range args {
		if _, err := store.IngestFile(context.Background(), path, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "failed   %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed ingest", failed)
	}
	return nil
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List catalogued vectors",
	Long: `Query lists vectors filtered by source file, Len range, or digest,
ordered by source and index.`,
	Args: cobra.NoArgs,
	RunE: runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Query(context.Background(), queryOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(os.Stdout, entries, jsonOutput)
}

func formatQueryOutput(w io.Writer, entries []catalog.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No vectors found.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-8s  %-8s  %-24s  %s\n", "Index", "Len", "Bytes", "Source", "MD")
	fmt.Fprintln(w, strings.Repeat("-", 115))
	for _, e := range entries {
		source := e.Source
		if len(source) > 24 {
			source = "..." + source[len(source)-21:]
		}
		fmt.Fprintf(w, "%-5d  %-8d  %-8d  %-24s  %s\n", e.Index, e.LenBits, e.MsgBytes, source, e.Digest)
	}
	fmt.Fprintf(w, "\n%d vectors\n", len(entries))
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes catalogued vectors to <catalog-dir>/export.yaml or
export.json. It accepts the same filters as query.`,
	Args: cobra.NoArgs,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), opts)
	case "json":
		path, err = store.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Exported to", path)
	return nil
}

// --- shared helpers ---

func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		Dir:        viper.GetString(keyCatalogDir),
		MaxResults: viper.GetInt("max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command) catalog.QueryOptions {
	source, _ := cmd.Flags().GetString("source")
	minLen, _ := cmd.Flags().GetInt("min-len")
	maxLen, _ := cmd.Flags().GetInt("max-len")
	digest, _ := cmd.Flags().GetString("md")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Source:     source,
		MinLen:     minLen,
		MaxLen:     maxLen,
		Digest:     digest,
		MaxResults: limit,
	}
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().String("source", "", "filter by response file path")
	c.Flags().Int("min-len", 0, "minimum Len in bits")
	c.Flags().Int("max-len", 0, "maximum Len in bits (0 = unbounded)")
	c.Flags().String("md", "", "filter by expected digest")
	c.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	catalogCmd.PersistentFlags().Int("max-results", 100, "default maximum number of query results")
	viper.BindPFlag("max_results", catalogCmd.PersistentFlags().Lookup("max-results"))

	addFilterFlags(catalogQueryCmd)
	catalogQueryCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(catalogExportCmd)
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
