/*
repository.go - Collection persistence through the document store

READ PATH:
  Snapshot() loads employees, vacations, constraints and config as one unit
  and caches the result for a bounded freshness window (default 5 minutes).
  Invalidate() drops the cache; every successful mutation calls it so the
  next read observes the just-written state.

WRITE PATH:
  Every mutation is a read-current-version -> transform -> conditional-write
  sequence against live store content, never against the cache. A stale
  version tag surfaces as store.ErrConflict; the caller reloads and retries.
  When a collection does not exist yet there is no version tag to present,
  so the create path is used instead.
*/
package leave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yeorum/leavedesk/store"
)

// Paths locates the four persisted collections inside the document store.
type Paths struct {
	Employees   string
	Vacations   string
	Constraints string
	Config      string
}

func DefaultPaths() Paths {
	return Paths{
		Employees:   "data/employees.csv",
		Vacations:   "data/vacations.csv",
		Constraints: "data/constraints.csv",
		Config:      "data/config.json",
	}
}

// DefaultCacheTTL bounds snapshot staleness between mutations.
const DefaultCacheTTL = 5 * time.Minute

// Repository translates domain entities to and from the flat tabular wire
// format and owns the snapshot cache.
type Repository struct {
	store store.DocumentStore
	paths Paths
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time

	mu       sync.Mutex
	cached   *Snapshot
	cachedAt time.Time
}

func NewRepository(ds store.DocumentStore, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{
		store: ds,
		paths: DefaultPaths(),
		ttl:   DefaultCacheTTL,
		log:   log,
		now:   time.Now,
	}
}

// SetPaths overrides the collection locations. Call before first use.
func (r *Repository) SetPaths(p Paths) { r.paths = p }

// SetCacheTTL overrides the snapshot freshness window.
func (r *Repository) SetCacheTTL(ttl time.Duration) { r.ttl = ttl }

// =============================================================================
// SNAPSHOT LOAD + CACHE
// =============================================================================

// Snapshot returns the current domain snapshot, served from cache while it is
// fresh. Missing collections load as empty; malformed content is an error.
func (r *Repository) Snapshot(ctx context.Context) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != nil && r.now().Sub(r.cachedAt) < r.ttl {
		return r.cached, nil
	}

	snap, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	r.cached = snap
	r.cachedAt = r.now()
	return snap, nil
}

// Invalidate drops the cached snapshot so the next read goes to the store.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cached = nil
}

func (r *Repository) load(ctx context.Context) (*Snapshot, error) {
	employeesContent, err := r.readOrEmpty(ctx, r.paths.Employees)
	if err != nil {
		return nil, err
	}
	vacationsContent, err := r.readOrEmpty(ctx, r.paths.Vacations)
	if err != nil {
		return nil, err
	}
	constraintsContent, err := r.readOrEmpty(ctx, r.paths.Constraints)
	if err != nil {
		return nil, err
	}
	configContent, err := r.readOrEmpty(ctx, r.paths.Config)
	if err != nil {
		return nil, err
	}

	employees, err := decodeEmployees(employeesContent)
	if err != nil {
		return nil, err
	}
	requests, err := decodeRequests(vacationsContent)
	if err != nil {
		return nil, err
	}
	constraints, err := decodeConstraints(constraintsContent)
	if err != nil {
		return nil, err
	}
	policy := DefaultPolicy()
	if len(configContent) > 0 {
		policy, err = decodePolicy(configContent)
		if err != nil {
			return nil, err
		}
	}

	r.log.Debug("snapshot loaded",
		zap.Int("employees", len(employees)),
		zap.Int("requests", len(requests)),
		zap.Int("constraints", len(constraints)),
		zap.Int("daily_limit", policy.DailyLimit))

	return NewSnapshot(employees, requests, constraints, policy), nil
}

// readOrEmpty treats a missing collection as empty content.
func (r *Repository) readOrEmpty(ctx context.Context, path string) ([]byte, error) {
	content, _, err := r.store.Read(ctx, path)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return content, nil
}

// =============================================================================
// VACATION MUTATIONS
// =============================================================================

// AppendRequest appends one request to the vacations collection via the
// version-tagged read-modify-write cycle.
func (r *Repository) AppendRequest(ctx context.Context, req VacationRequest) error {
	return r.rewriteVacations(ctx, func(requests []VacationRequest) ([]VacationRequest, string, error) {
		message := fmt.Sprintf("Vacation request by %s via leavedesk", req.Employee)
		return append(requests, req), message, nil
	})
}

// UpdateRequestStatus moves one pending request to a terminal status.
func (r *Repository) UpdateRequestStatus(ctx context.Context, id RequestID, status Status) error {
	return r.rewriteVacations(ctx, func(requests []VacationRequest) ([]VacationRequest, string, error) {
		if id < 0 || int(id) >= len(requests) {
			return nil, "", ErrRequestNotFound
		}
		if requests[id].Status != StatusPending {
			return nil, "", ErrNotPending
		}
		requests[id].Status = status

		verb := "Rejected"
		if status == StatusApproved {
			verb = "Approved"
		}
		message := fmt.Sprintf("%s request for %s via leavedesk", verb, requests[id].Employee)
		return requests, message, nil
	})
}

// rewriteVacations runs the read -> transform -> conditional-write sequence
// on the vacations collection. The transform sees freshly decoded store
// content, not the cache, and returns the commit message for the write.
func (r *Repository) rewriteVacations(ctx context.Context, transform func([]VacationRequest) ([]VacationRequest, string, error)) error {
	content, version, err := r.store.Read(ctx, r.paths.Vacations)
	exists := true
	if errors.Is(err, store.ErrNotFound) {
		exists = false
		content, err = nil, nil
	}
	if err != nil {
		return err
	}

	requests, err := decodeRequests(content)
	if err != nil {
		return err
	}
	updated, message, err := transform(requests)
	if err != nil {
		return err
	}

	encoded := encodeRequests(updated)
	if exists {
		err = r.store.Write(ctx, r.paths.Vacations, encoded, version, message)
	} else {
		err = r.store.Create(ctx, r.paths.Vacations, encoded, message)
	}
	if err != nil {
		return err
	}

	r.dropCache()
	return nil
}

// =============================================================================
// ADMIN MUTATIONS
// =============================================================================

// AddEmployee appends a new employee; duplicate names are rejected.
func (r *Repository) AddEmployee(ctx context.Context, e Employee) error {
	content, version, err := r.store.Read(ctx, r.paths.Employees)
	exists := true
	if errors.Is(err, store.ErrNotFound) {
		exists = false
		content = nil
	} else if err != nil {
		return err
	}

	employees, err := decodeEmployees(content)
	if err != nil {
		return err
	}
	for _, existing := range employees {
		if existing.Name == e.Name {
			return ErrDuplicateEmployee
		}
	}
	employees = append(employees, e)

	encoded := encodeEmployees(employees)
	message := fmt.Sprintf("Add employee %s via leavedesk", e.Name)
	if exists {
		err = r.store.Write(ctx, r.paths.Employees, encoded, version, message)
	} else {
		err = r.store.Create(ctx, r.paths.Employees, encoded, message)
	}
	if err != nil {
		return err
	}

	r.dropCache()
	return nil
}

// RemoveEmployee deletes an employee row. Their request history stays.
func (r *Repository) RemoveEmployee(ctx context.Context, name string) error {
	content, version, err := r.store.Read(ctx, r.paths.Employees)
	if errors.Is(err, store.ErrNotFound) {
		return ErrEmployeeNotFound
	}
	if err != nil {
		return err
	}

	employees, err := decodeEmployees(content)
	if err != nil {
		return err
	}
	kept := employees[:0]
	found := false
	for _, e := range employees {
		if e.Name == name {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return ErrEmployeeNotFound
	}

	message := fmt.Sprintf("Remove employee %s via leavedesk", name)
	if err := r.store.Write(ctx, r.paths.Employees, encodeEmployees(kept), version, message); err != nil {
		return err
	}

	r.dropCache()
	return nil
}

// AddConstraint stores a normalized exclusion pair. Adding an existing pair
// (in either order) is a no-op success.
func (r *Repository) AddConstraint(ctx context.Context, a, b string) error {
	c, err := NewConstraint(a, b)
	if err != nil {
		return err
	}

	content, version, err := r.store.Read(ctx, r.paths.Constraints)
	exists := true
	if errors.Is(err, store.ErrNotFound) {
		exists = false
		content = nil
	} else if err != nil {
		return err
	}

	constraints, err := decodeConstraints(content)
	if err != nil {
		return err
	}
	for _, existing := range constraints {
		if existing == c {
			return nil
		}
	}
	constraints = append(constraints, c)

	encoded := encodeConstraints(constraints)
	message := fmt.Sprintf("Add constraint between %s and %s via leavedesk", c.A, c.B)
	if exists {
		err = r.store.Write(ctx, r.paths.Constraints, encoded, version, message)
	} else {
		err = r.store.Create(ctx, r.paths.Constraints, encoded, message)
	}
	if err != nil {
		return err
	}

	r.dropCache()
	return nil
}

// SetDailyLimit persists a new headcount cap. Pre-existing approved requests
// that violate a lowered cap are not retroactively corrected.
func (r *Repository) SetDailyLimit(ctx context.Context, limit int) error {
	if limit < 1 {
		return ErrInvalidDailyLimit
	}

	_, version, err := r.store.Read(ctx, r.paths.Config)
	exists := true
	if errors.Is(err, store.ErrNotFound) {
		exists = false
	} else if err != nil {
		return err
	}

	encoded := encodePolicy(Policy{DailyLimit: limit})
	if exists {
		err = r.store.Write(ctx, r.paths.Config, encoded, version, "Update daily limit via leavedesk")
	} else {
		err = r.store.Create(ctx, r.paths.Config, encoded, "Create config file via leavedesk")
	}
	if err != nil {
		return err
	}

	r.dropCache()
	return nil
}

func (r *Repository) dropCache() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}
