// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sourcestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/medgraph/pkg/types"
)

// SQLite is the persistent Store: one documents table holding each
// annotated document as JSON.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens or creates the document database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening document database: %w", err)
	}

	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS documents (
			source_id TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Put saves doc under sourceID, replacing any previous version.
func (s *SQLite) Put(ctx context.Context, sourceID string, doc *types.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (source_id, doc) VALUES (?, ?)
		 ON CONFLICT(source_id) DO UPDATE SET doc=excluded.doc`,
		sourceID, string(data)); err != nil {
		return fmt.Errorf("storing document %s: %w", sourceID, err)
	}
	return nil
}

// Get returns the document stored under sourceID.
func (s *SQLite) Get(ctx context.Context, sourceID string) (*types.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE source_id = ?`, sourceID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, sourceID)
		}
		return nil, fmt.Errorf("loading document %s: %w", sourceID, err)
	}

	var doc types.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", sourceID, err)
	}
	return &doc, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
