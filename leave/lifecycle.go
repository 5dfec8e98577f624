/*
lifecycle.go - Request state machine

  pending -> approved   (terminal)
  pending -> rejected   (terminal)

No other transitions exist. Submission validates against the snapshot at
hand; the conditional write is the actual race-safety boundary. On
store.ErrConflict the in-memory state is stale: the cache has been or will
be invalidated and the caller re-reads, re-validates, and re-submits. The
manager never retries on its own.
*/
package leave

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Manager drives the request lifecycle, delegating persistence to the
// repository.
type Manager struct {
	repo *Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewManager(repo *Repository, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{repo: repo, log: log, now: time.Now}
}

// Submit validates a prospective request and, if admissible, persists it in
// pending state. Submissions are not idempotent: the same payload twice
// yields two pending rows.
func (m *Manager) Submit(ctx context.Context, employee string, start, end Date, lt LeaveType) (*VacationRequest, error) {
	if !lt.Valid() {
		return nil, ErrInvalidLeaveType
	}

	snap, err := m.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(snap, employee, start, end); err != nil {
		return nil, err
	}

	req := VacationRequest{
		Employee:    employee,
		Start:       start,
		End:         end,
		Type:        lt,
		Status:      StatusPending,
		RequestedAt: DateOf(m.now()),
	}
	if err := m.repo.AppendRequest(ctx, req); err != nil {
		return nil, err
	}

	m.log.Info("vacation request submitted",
		zap.String("employee", employee),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
		zap.String("leave_type", string(lt)))
	return &req, nil
}

// Decide moves a pending request to approved or rejected. Deciding an
// already-decided request returns ErrNotPending. On any write failure the
// change is not durable; the repository cache is left invalidated so the
// caller's next read reloads from the store.
func (m *Manager) Decide(ctx context.Context, id RequestID, approve bool) error {
	status := StatusRejected
	if approve {
		status = StatusApproved
	}

	if err := m.repo.UpdateRequestStatus(ctx, id, status); err != nil {
		// Discard any stale view of the collection; the store is the truth.
		m.repo.Invalidate()
		return err
	}

	m.log.Info("vacation request decided",
		zap.Int("request_id", int(id)),
		zap.String("status", string(status)))
	return nil
}
