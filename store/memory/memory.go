// Package memory provides an in-memory DocumentStore for tests.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/yeorum/leavedesk/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type document struct {
	content []byte
	version int
}

type Store struct {
	mu        sync.RWMutex
	documents map[string]*document

	// failNext, when set, is returned by the next Write/Create and cleared.
	// Lets tests exercise transport-failure paths.
	failNext error
}

func New() *Store {
	return &Store{documents: make(map[string]*document)}
}

func (s *Store) Read(_ context.Context, path string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[path]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	content := make([]byte, len(doc.content))
	copy(content, doc.content)
	return content, strconv.Itoa(doc.version), nil
}

func (s *Store) Write(_ context.Context, path string, content []byte, version, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}
	doc, ok := s.documents[path]
	if !ok {
		return store.ErrNotFound
	}
	if strconv.Itoa(doc.version) != version {
		return store.ErrConflict
	}
	doc.content = append([]byte(nil), content...)
	doc.version++
	return nil
}

func (s *Store) Create(_ context.Context, path string, content []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return err
	}
	if _, ok := s.documents[path]; ok {
		return store.ErrAlreadyExists
	}
	s.documents[path] = &document{content: append([]byte(nil), content...), version: 1}
	return nil
}

func (s *Store) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

// =============================================================================
// TEST HELPERS
// =============================================================================

// Seed stores content directly, creating the document or bumping its version.
func (s *Store) Seed(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.documents[path]; ok {
		doc.content = append([]byte(nil), content...)
		doc.version++
		return
	}
	s.documents[path] = &document{content: append([]byte(nil), content...), version: 1}
}

// FailNext makes the next Write or Create return err.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Content returns the current document content, or nil if absent.
func (s *Store) Content(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[path]
	if !ok {
		return nil
	}
	return append([]byte(nil), doc.content...)
}
