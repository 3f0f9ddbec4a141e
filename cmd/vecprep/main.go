// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vecprep CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vecprep/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Viper keys shared by several subcommands.
const (
	keyInput      = "input"
	keyOut        = "out"
	keyCatalogDir = "catalog_dir"
)

// rootCmd is the base command for the vecprep CLI.
var rootCmd = &cobra.Command{
	Use:   "vecprep",
	Short: "Prepare NIST CAVP SHA-256 test vectors",
	Long: `vecprep turns a NIST CAVP response file (SHA256LongMsg.rsp) into the
message and hash files that hash implementation test suites read:
messages/msgN holds the raw message bytes and hashes/hashN holds the
expected digest as hex.

Run "vecprep extract" with no flags to process SHA256LongMsg.rsp in the
current directory. messages/ and hashes/ must already exist.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./vecprep.yaml or ~/.config/vecprep/vecprep.yaml)")
	pf.String("input", types.DefaultInput, "CAVP response file")
	pf.String("out", ".", "directory containing messages/ and hashes/")
	pf.String("catalog-dir", types.DefaultCatalogDir, "directory for the vector catalog database")

	viper.BindPFlag(keyInput, pf.Lookup("input"))
	viper.BindPFlag(keyOut, pf.Lookup("out"))
	viper.BindPFlag(keyCatalogDir, pf.Lookup("catalog-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vecprep")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vecprep"))
		}
	}

	viper.SetEnvPrefix("VECPREP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
