// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions filters catalog queries. Zero values mean "no filter".
type QueryOptions struct {
	// Source restricts results to one response file path.
	Source string

	// MinLen and MaxLen bound LenBits inclusively. MaxLen 0 means unbounded.
	MinLen int
	MaxLen int

	// Digest matches the MD value case-insensitively.
	Digest string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry is a catalogued vector. It is also the export record.
type Entry struct {
	Source    string `json:"source" yaml:"source"`
	Index     int    `json:"index" yaml:"index"`
	Line      int    `json:"line" yaml:"line"`
	LenBits   int    `json:"len_bits" yaml:"len_bits"`
	DigestLen int    `json:"digest_len,omitempty" yaml:"digest_len,omitempty"`
	MsgBytes  int    `json:"msg_bytes" yaml:"msg_bytes"`
	MsgHex    string `json:"msg" yaml:"msg"`
	Digest    string `json:"md" yaml:"md"`
}

// Query returns catalogued vectors ordered by source and index.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT source, idx, line, len_bits, digest_len, msg_bytes, msg_hex, digest
		FROM vectors WHERE 1=1`)

	if opts.Source != "" {
		qb.WriteString(` AND source = ?`)
		args = append(args, opts.Source)
	}
	if opts.MinLen > 0 {
		qb.WriteString(` AND len_bits >= ?`)
		args = append(args, opts.MinLen)
	}
	if opts.MaxLen > 0 {
		qb.WriteString(` AND len_bits <= ?`)
		args = append(args, opts.MaxLen)
	}
	if opts.Digest != "" {
		qb.WriteString(` AND lower(digest) = lower(?)`)
		args = append(args, opts.Digest)
	}

	qb.WriteString(` ORDER BY source, idx LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Source, &e.Index, &e.Line, &e.LenBits, &e.DigestLen,
			&e.MsgBytes, &e.MsgHex, &e.Digest); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Sources returns the ingested source paths in order.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM sources ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
