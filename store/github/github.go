/*
Package github implements the DocumentStore on the GitHub Contents API.

PURPOSE:
  The production datastore: each collection is a file in a version-controlled
  repository. The blob SHA doubles as the version tag, which gives us
  check-and-set semantics for free — GitHub rejects an update whose SHA no
  longer matches the current blob with 409 Conflict.

CONTENT HANDLING:
  go-github transparently base64-decodes file content on read and encodes on
  write, so this package only deals in raw bytes.

ERROR MAPPING:
  404 on read          -> store.ErrNotFound (normal for missing collections)
  409 on update        -> store.ErrConflict (stale version tag)
  422 on create        -> store.ErrAlreadyExists
  anything else        -> wraps store.ErrTransport

SEE ALSO:
  - store/store.go: interface and error contract
*/
package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v60/github"
	"go.uber.org/zap"

	"github.com/yeorum/leavedesk/store"
)

// Store talks to a single repository's contents.
type Store struct {
	client *gh.Client
	owner  string
	repo   string
	branch string // empty means the repository default branch
	log    *zap.Logger
}

// New builds a Store for owner/repo. The token may be empty for public
// read-only access, but every write requires one.
func New(token, owner, repo, branch string, log *zap.Logger) *Store {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: client, owner: owner, repo: repo, branch: branch, log: log}
}

func (s *Store) Read(ctx context.Context, path string) ([]byte, string, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: s.branch}
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return nil, "", store.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: get %s: %v", store.ErrTransport, path, err)
	}
	if file == nil {
		return nil, "", fmt.Errorf("%w: %s is a directory, not a file", store.ErrTransport, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode %s: %v", store.ErrTransport, path, err)
	}
	return []byte(content), file.GetSHA(), nil
}

func (s *Store) Write(ctx context.Context, path string, content []byte, version, message string) error {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: content,
		SHA:     gh.String(version),
	}
	if s.branch != "" {
		opts.Branch = gh.String(s.branch)
	}

	_, resp, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, opts)
	switch {
	case resp != nil && resp.StatusCode == http.StatusConflict:
		s.log.Warn("stale version tag on write",
			zap.String("path", path), zap.String("version", version))
		return store.ErrConflict
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		return store.ErrNotFound
	case err != nil:
		return fmt.Errorf("%w: update %s: %v", store.ErrTransport, path, err)
	}

	s.log.Debug("document updated", zap.String("path", path), zap.String("message", message))
	return nil
}

func (s *Store) Create(ctx context.Context, path string, content []byte, message string) error {
	opts := &gh.RepositoryContentFileOptions{
		Message: gh.String(message),
		Content: content,
	}
	if s.branch != "" {
		opts.Branch = gh.String(s.branch)
	}

	_, resp, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, path, opts)
	switch {
	case resp != nil && resp.StatusCode == http.StatusUnprocessableEntity:
		return store.ErrAlreadyExists
	case err != nil:
		return fmt.Errorf("%w: create %s: %v", store.ErrTransport, path, err)
	}

	s.log.Debug("document created", zap.String("path", path), zap.String("message", message))
	return nil
}
