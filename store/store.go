/*
Package store defines the document-store contract the leave repository
persists through, and the sentinel errors every implementation maps onto.

CONTRACT:
  Read   -> (content, version tag) or ErrNotFound
  Write  -> conditional update; the supplied version tag must still match the
            store's current tag, otherwise ErrConflict. Never a silent
            overwrite.
  Create -> used only when no prior version tag exists; ErrAlreadyExists if
            someone else created the document first.

Writes are all-or-nothing at document granularity; there is no partial
persistence. Transport-level failures wrap ErrTransport so callers can
distinguish "the store said no" from "the store was unreachable".

IMPLEMENTATIONS:
  - store/github: GitHub Contents API (version tag = blob SHA)
  - store/sqlite: local single-file backend for dev and tests
  - store/memory: in-memory, for tests
*/
package store

import (
	"context"
	"errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned by Read when the document does not exist.
	// This is a normal condition for collections that haven't been created yet.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned by Write when the supplied version tag no longer
	// matches the store's current tag. The caller's snapshot is stale.
	ErrConflict = errors.New("document version conflict")

	// ErrAlreadyExists is returned by Create when the document already exists.
	ErrAlreadyExists = errors.New("document already exists")

	// ErrTransport wraps network/availability failures.
	ErrTransport = errors.New("store transport failure")
)

// =============================================================================
// DOCUMENT STORE
// =============================================================================

// DocumentStore is the persistence boundary. Every mutation in the system
// funnels through a read-version -> transform -> conditional-write sequence
// against one of these.
//
// The message parameter is a human-readable change description; backends with
// a commit log (GitHub) record it, others ignore it.
type DocumentStore interface {
	// Read returns the document content and its opaque version tag.
	Read(ctx context.Context, path string) (content []byte, version string, err error)

	// Write replaces the document content if version still matches.
	Write(ctx context.Context, path string, content []byte, version, message string) error

	// Create writes a document that must not yet exist.
	Create(ctx context.Context, path string, content []byte, message string) error
}
