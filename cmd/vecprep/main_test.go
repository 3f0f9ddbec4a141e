// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vecprep/internal/catalog"
)

const exampleRSP = `Len = 8
Msg = ab
MD = 1234abcd

Len = 0
Msg = 00
MD = deadbeef
`

func execute(t *testing.T, args ...string) error {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "SHA256LongMsg.rsp")
	require.NoError(t, os.WriteFile(input, []byte(exampleRSP), 0o644))
	for _, d := range []string{"messages", "hashes"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, d), 0o755))
	}

	err := execute(t, "extract", "--input", input, "--out", dir,
		"--catalog", "--catalog-dir", filepath.Join(dir, "catalog"))
	require.NoError(t, err)

	msg, err := os.ReadFile(filepath.Join(dir, "messages", "msg1"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, msg)
	hash, err := os.ReadFile(filepath.Join(dir, "hashes", "hash1"))
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", string(hash))
	assert.FileExists(t, filepath.Join(dir, "catalog", "vectors.db"))
}

func TestExtractCommandFailsWithoutOutputDirs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "SHA256LongMsg.rsp")
	require.NoError(t, os.WriteFile(input, []byte(exampleRSP), 0o644))

	err := execute(t, "extract", "--input", input, "--out", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory missing")
}

func TestFormatQueryOutput(t *testing.T) {
	entries := []catalog.Entry{
		{Source: "/very/long/path/to/vectors/SHA256LongMsg.rsp", Index: 0, LenBits: 8, MsgBytes: 1, Digest: "1234abcd"},
	}

	var table bytes.Buffer
	require.NoError(t, formatQueryOutput(&table, entries, false))
	assert.Contains(t, table.String(), "...")
	assert.Contains(t, table.String(), "1234abcd")
	assert.Contains(t, table.String(), "1 vectors")

	var js bytes.Buffer
	require.NoError(t, formatQueryOutput(&js, entries, true))
	assert.Contains(t, js.String(), `"md": "1234abcd"`)

	var empty bytes.Buffer
	require.NoError(t, formatQueryOutput(&empty, nil, false))
	assert.Equal(t, "No vectors found.\n", empty.String())
}
