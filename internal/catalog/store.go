// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes extracted test vectors in a local SQLite database.
//
// Each response file is a source. Re-ingesting a source whose content is
// unchanged is a no-op; a changed source replaces all of its vectors.
package catalog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vecprep/internal/rsp"
	"github.com/pdiddy/vecprep/pkg/types"
)

const (
	dbFile            = "vectors.db"
	defaultMaxResults = 100
)

// Store manages the catalog database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates cfg.Dir/vectors.db and its schema.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = types.DefaultCatalogDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			path TEXT PRIMARY KEY,
			sha256 TEXT NOT NULL,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS vectors (
			source TEXT NOT NULL REFERENCES sources(path) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			line INTEGER,
			len_bits INTEGER,
			digest_len INTEGER,
			msg_bytes INTEGER NOT NULL,
			msg_hex TEXT NOT NULL,
			digest TEXT NOT NULL,
			PRIMARY KEY (source, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vectors_len ON vectors(len_bits)`,
		`CREATE INDEX IF NOT EXISTS idx_vectors_digest ON vectors(digest)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestStatus is the outcome of ingesting one source.
type IngestStatus string

const (
	IngestIndexed IngestStatus = "indexed"
	IngestUpdated IngestStatus = "updated"
	IngestSkipped IngestStatus = "skipped"
)

// Checksum returns the hex SHA-256 of data, used to detect changed sources.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IngestFile parses the response file at path and ingests its vectors.
func (s *Store) IngestFile(ctx context.Context, path string, w io.Writer) (IngestStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	vectors, err := rsp.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	return s.Ingest(ctx, path, Checksum(data), vectors, w)
}

// Ingest stores vectors under source. If the stored checksum equals
// checksum the source is skipped; otherwise its previous rows are replaced
// in a single transaction.
func (s *Store) Ingest(ctx context.Context, source, checksum string, vectors []types.Vector, w io.Writer) (IngestStatus, error) {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT sha256 FROM sources WHERE path = ?`, source).Scan(&stored)
	switch {
	case err == nil && stored == checksum:
		fmt.Fprintf(w, "skipped  %s\n", source)
		return IngestSkipped, nil
	case err != nil && err != sql.ErrNoRows:
		return "", fmt.Errorf("looking up source %s: %w", source, err)
	}
	isUpdate := err == nil

	if err := s.replaceSource(ctx, source, checksum, vectors); err != nil {
		fmt.Fprintf(w, "failed   %s: %v\n", source, err)
		return "", err
	}

	if isUpdate {
		fmt.Fprintf(w, "updated  %s (%d vectors)\n", source, len(vectors))
		return IngestUpdated, nil
	}
	fmt.Fprintf(w, "indexed  %s (%d vectors)\n", source, len(vectors))
	return IngestIndexed, nil
}

func (s *Store) replaceSource(ctx context.Context, source, checksum string, vectors []types.Vector) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vectors WHERE source = ?`, source); err != nil {
		return fmt.Errorf("deleting old vectors: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (path, sha256, ingested_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET sha256=excluded.sha256, ingested_at=excluded.ingested_at`,
		source, checksum, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO vectors (source, idx, line, len_bits, digest_len, msg_bytes, msg_hex, digest)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range vectors {
		_, err := stmt.ExecContext(ctx,
			source, v.Index, v.Line, v.LenBits, v.DigestLen,
			len(v.Message), v.MessageHex, v.Digest,
		)
		if err != nil {
			return fmt.Errorf("inserting vector %d: %w", v.Index, err)
		}
	}

	return tx.Commit()
}
