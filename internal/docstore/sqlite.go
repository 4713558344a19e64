// internal/docstore/sqlite.go
//
// SQLite-backed implementation of the document Store interface. Documents
// live in a single `documents` table as JSON blobs keyed by path, which
// keeps the store schema-free the way the original document database was.
//
// The table is created by the sql/ migrations; see db.go at the module root.

package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLite stores documents in a relational table of (path, json, updated_at).
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an opened database handle. The documents table must exist.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

func (s *SQLite) Get(ctx context.Context, path string) (Fields, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE path=?`, path,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("docstore get %s: %w", path, err)
	}
	var fields Fields
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("docstore decode %s: %w", path, err)
	}
	return fields, nil
}

func (s *SQLite) Set(ctx context.Context, path string, fields Fields, merge bool) error {
	write := fields
	if merge {
		existing, err := s.Get(ctx, path)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if existing != nil {
			for k, v := range fields {
				existing[k] = v
			}
			write = existing
		}
	}
	b, err := json.Marshal(write)
	if err != nil {
		return fmt.Errorf("docstore encode %s: %w", path, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO documents (path, data, updated_at) VALUES (?,?,?)
        ON CONFLICT(path) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
		path, string(b), now,
	)
	if err != nil {
		return fmt.Errorf("docstore set %s: %w", path, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path=?`, path); err != nil {
		return fmt.Errorf("docstore delete %s: %w", path, err)
	}
	return nil
}
