// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks extracted vectors against a reference SHA-256.
package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/vecprep/internal/extract"
	"github.com/pdiddy/vecprep/pkg/types"
)

// ErrGap reports a message file that exists past the first missing index.
var ErrGap = errors.New("non-contiguous message files")

// Status is the outcome for a single vector.
type Status string

const (
	StatusOK          Status = "ok"
	StatusMismatch    Status = "mismatch"
	StatusMissingHash Status = "missing-hash"
)

// Result describes one verified vector.
type Result struct {
	Index  int
	Status Status
	Want   string
	Got    string
}

// Summary holds counts from a verification run.
type Summary struct {
	OK          int
	Mismatched  int
	MissingHash int
	Results     []Result
}

// Total returns the number of vectors examined.
func (s Summary) Total() int {
	return s.OK + s.Mismatched + s.MissingHash
}

// HasFailures reports whether any vector did not verify.
func (s Summary) HasFailures() bool {
	return s.Mismatched > 0 || s.MissingHash > 0
}

// Verify hashes messages/msg0, msg1, ... under cfg.OutDir until the first
// missing index and compares each digest with hashes/hashN. Comparison is
// case-insensitive; the hash file is otherwise taken verbatim.
func Verify(ctx context.Context, cfg types.VerifyConfig, w io.Writer) (Summary, error) {
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "."
	}

	var summary Summary
	i := 0
	for ; cfg.Limit <= 0 || i < cfg.Limit; i++ {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		msg, err := os.ReadFile(extract.MessagePath(outDir, i))
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("reading message %d: %w", i, err)
		}

		r := check(outDir, i, msg)
		summary.Results = append(summary.Results, r)
		switch r.Status {
		case StatusOK:
			summary.OK++
			fmt.Fprintf(w, "ok:       msg%d\n", i)
		case StatusMismatch:
			summary.Mismatched++
			fmt.Fprintf(w, "mismatch: msg%d (want %s, got %s)\n", i, r.Want, r.Got)
		case StatusMissingHash:
			summary.MissingHash++
			fmt.Fprintf(w, "missing:  hash%d\n", i)
		}
	}

	if cfg.Limit <= 0 {
		if err := checkGap(outDir, i); err != nil {
			return summary, err
		}
	}

	fmt.Fprintf(w, "\nVerify summary: %d ok, %d mismatched, %d missing hash (total: %d)\n",
		summary.OK, summary.Mismatched, summary.MissingHash, summary.Total())
	return summary, nil
}

// Sum returns the lowercase hex SHA-256 of msg.
func Sum(msg []byte) string {
	sum := sha256.Sum256(msg)
	return hex.EncodeToString(sum[:])
}

func check(outDir string, i int, msg []byte) Result {
	got := Sum(msg)
	want, err := os.ReadFile(extract.HashPath(outDir, i))
	if err != nil {
		return Result{Index: i, Status: StatusMissingHash, Got: got}
	}
	r := Result{Index: i, Want: string(want), Got: got}
	if strings.EqualFold(r.Want, got) {
		r.Status = StatusOK
	} else {
		r.Status = StatusMismatch
	}
	return r
}

// checkGap reports message files with an index at or above missing.
func checkGap(outDir string, missing int) error {
	dir := filepath.Join(outDir, types.DefaultMessagesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("listing %s: %w", dir, err)
	}
	for _, e := range entries {
		var n int
		if _, err := fmt.Sscanf(e.Name(), "msg%d", &n); err != nil {
			continue
		}
		if n > missing && e.Name() == fmt.Sprintf("msg%d", n) {
			return fmt.Errorf("%w: msg%d missing but %s exists", ErrGap, missing, e.Name())
		}
	}
	return nil
}
