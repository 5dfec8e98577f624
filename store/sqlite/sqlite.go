/*
Package sqlite provides a SQLite-backed DocumentStore.

PURPOSE:
  A local single-file backend for development and tests, exposing the same
  check-and-set semantics as the GitHub backend. Every successful write
  regenerates the document's version tag, so a writer holding a stale tag
  always observes ErrConflict, never a silent overwrite.

VERSION TAGS:
  Opaque UUID strings, regenerated on every write. The tag carries no
  ordering; it only answers "has this document changed since I read it".

CONCURRENCY:
  The conditional UPDATE (WHERE path = ? AND version = ?) makes the
  compare-and-swap atomic at the database level. WAL mode keeps readers
  from blocking behind the single writer.

USAGE:
  s, err := sqlite.New("./leavedesk.db")
  defer s.Close()

SEE ALSO:
  - store/store.go: interface and error contract
  - store/github: the production backend this one mirrors
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/yeorum/leavedesk/store"
)

// Store implements store.DocumentStore on a local SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path. Use ":memory:" for tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS documents (
		path    TEXT PRIMARY KEY,
		content BLOB NOT NULL,
		version TEXT NOT NULL
	);`)
	return err
}

func (s *Store) Read(ctx context.Context, path string) ([]byte, string, error) {
	var content []byte
	var version string
	err := s.db.QueryRowContext(ctx,
		`SELECT content, version FROM documents WHERE path = ?`, path,
	).Scan(&content, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", store.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: read %s: %v", store.ErrTransport, path, err)
	}
	return content, version, nil
}

// Write performs an atomic compare-and-swap: the row is updated only when the
// stored version still matches the caller's tag.
func (s *Store) Write(ctx context.Context, path string, content []byte, version, _ string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET content = ?, version = ? WHERE path = ? AND version = ?`,
		content, uuid.NewString(), path, version,
	)
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", store.ErrTransport, path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", store.ErrTransport, path, err)
	}
	if n == 0 {
		// Either the document vanished or the tag is stale.
		var exists int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM documents WHERE path = ?`, path,
		).Scan(&exists); err == nil && exists == 0 {
			return store.ErrNotFound
		}
		return store.ErrConflict
	}
	return nil
}

func (s *Store) Create(ctx context.Context, path string, content []byte, _ string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (path, content, version) VALUES (?, ?, ?)`,
		path, content, uuid.NewString(),
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return store.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", store.ErrTransport, path, err)
	}
	return nil
}
