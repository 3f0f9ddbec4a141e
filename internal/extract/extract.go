// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract writes parsed test vectors to disk as message/hash file pairs.
//
// For vector N it writes messages/msgN (raw bytes) and hashes/hashN (the digest
// hex exactly as it appeared in the response file, no trailing newline).
// Output directories must exist beforehand; Extract never creates them.
package extract

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/vecprep/internal/rsp"
	"github.com/pdiddy/vecprep/pkg/types"
)

const (
	msgPrefix  = "msg"
	hashPrefix = "hash"
)

// ErrOutputDirMissing reports that messages/ or hashes/ does not exist.
var ErrOutputDirMissing = errors.New("output directory missing")

// Summary holds the outcome of an extraction run.
type Summary struct {
	Vectors      int
	MessageBytes int64

	// Written lists the vectors whose files were written, in order.
	Written []types.Vector
}

// MessagePath returns the path of message file index under outDir.
func MessagePath(outDir string, index int) string {
	return filepath.Join(outDir, types.DefaultMessagesDir, msgPrefix+strconv.Itoa(index))
}

// HashPath returns the path of hash file index under outDir.
func HashPath(outDir string, index int) string {
	return filepath.Join(outDir, types.DefaultHashesDir, hashPrefix+strconv.Itoa(index))
}

// Extract parses cfg.Input and writes one message/hash pair per vector.
//
// Vectors are written as they are parsed, so on error the files for every
// earlier vector remain on disk. The returned Summary counts what was written.
func Extract(cfg types.ExtractConfig, w io.Writer) (Summary, error) {
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "."
	}

	f, err := os.Open(cfg.Input)
	if err != nil {
		return Summary{}, fmt.Errorf("opening response file: %w", err)
	}
	lines, err := rsp.ReadLines(f)
	f.Close()
	if err != nil {
		return Summary{}, fmt.Errorf("reading %s: %w", cfg.Input, err)
	}

	var summary Summary
	checked := false

	err = rsp.Walk(lines, func(v types.Vector) error {
		if !checked {
			if err := checkOutputDirs(outDir); err != nil {
				return err
			}
			checked = true
		}
		if err := WriteVector(outDir, v); err != nil {
			return err
		}
		fmt.Fprintf(w, "extracted: msg%d (%d bytes)\n", v.Index, len(v.Message))
		summary.Vectors++
		summary.MessageBytes += int64(len(v.Message))
		summary.Written = append(summary.Written, v)
		return nil
	})
	if err != nil {
		fmt.Fprintf(w, "failed:    %s after %d vector(s) (%v)\n", cfg.Input, summary.Vectors, err)
		return summary, fmt.Errorf("extracting %s: %w", cfg.Input, err)
	}

	if cfg.SizesFile != "" {
		if err := WriteSizes(cfg.SizesFile, summary.Written); err != nil {
			return summary, err
		}
	}

	fmt.Fprintf(w, "\nExtract summary: %d vector(s), %d message byte(s)\n",
		summary.Vectors, summary.MessageBytes)
	return summary, nil
}

// WriteVector writes the message and hash files for v.
func WriteVector(outDir string, v types.Vector) error {
	msgPath := MessagePath(outDir, v.Index)
	if err := os.WriteFile(msgPath, v.Message, 0o644); err != nil {
		return wrapWriteErr(msgPath, err)
	}
	hashPath := HashPath(outDir, v.Index)
	if err := os.WriteFile(hashPath, []byte(v.Digest), 0o644); err != nil {
		return wrapWriteErr(hashPath, err)
	}
	return nil
}

// WriteSizes writes one Len value per line, in vector order.
func WriteSizes(path string, vectors []types.Vector) error {
	var b strings.Builder
	for _, v := range vectors {
		b.WriteString(strconv.Itoa(v.LenBits))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing sizes file: %w", err)
	}
	return nil
}

func checkOutputDirs(outDir string) error {
	for _, sub := range []string{types.DefaultMessagesDir, types.DefaultHashesDir} {
		dir := filepath.Join(outDir, sub)
		info, err := os.Stat(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrOutputDirMissing, dir)
			}
			return fmt.Errorf("checking %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%w: %s is not a directory", ErrOutputDirMissing, dir)
		}
	}
	return nil
}

func wrapWriteErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: writing %s: %v", ErrOutputDirMissing, path, err)
	}
	return fmt.Errorf("writing %s: %w", path, err)
}
