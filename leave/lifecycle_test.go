package leave

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yeorum/leavedesk/store"
	"github.com/yeorum/leavedesk/store/memory"
)

func newTestManager(ms *memory.Store) (*Manager, *Repository) {
	repo, _ := newTestRepository(ms)
	m := NewManager(repo, nil)
	m.now = func() time.Time {
		return time.Date(2025, time.January, 20, 9, 0, 0, 0, time.UTC)
	}
	return m, repo
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestSubmit_PersistsPendingRequest(t *testing.T) {
	ms := memory.New()
	seedCollections(ms)
	m, repo := newTestManager(ms)
	ctx := context.Background()

	req, err := m.Submit(ctx, "이영희", NewDate(2025, time.February, 3), NewDate(2025, time.February, 4), LeaveFull)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if req.Status != StatusPending {
		t.Errorf("expected pending status, got %q", req.Status)
	}
	if !req.RequestedAt.Equal(NewDate(2025, time.January, 20)) {
		t.Errorf("expected request date 2025-01-20, got %s", req.RequestedAt)
	}

	snap, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	rows := snap.RequestsFor("이영희")
	if len(rows) != 1 || rows[0].Status != StatusPending {
		t.Fatalf("expected one persisted pending row, got %+v", rows)
	}
}

func TestSubmit_NotIdempotent(t *testing.T) {
	// The same payload twice yields two independent pending rows.
	ms := memory.New()
	seedCollections(ms)
	m, repo := newTestManager(ms)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := m.Submit(ctx, "이영희", NewDate(2025, time.February, 3), NewDate(2025, time.February, 3), LeaveHalf); err != nil {
			t.Fatalf("Submit #%d failed: %v", i+1, err)
		}
	}

	snap, _ := repo.Snapshot(ctx)
	if got := len(snap.RequestsFor("이영희")); got != 2 {
		t.Errorf("expected 2 rows, got %d", got)
	}
}

func TestSubmit_RejectsInvalidInput(t *testing.T) {
	ms := memory.New()
	seedCollections(ms)
	m, _ := newTestManager(ms)
	ctx := context.Background()
	feb := func(d int) Date { return NewDate(2025, time.February, d) }

	cases := []struct {
		name string
		call func() error
		want error
	}{
		{"unknown leave type", func() error {
			_, err := m.Submit(ctx, "이영희", feb(3), feb(4), LeaveType("vacation"))
			return err
		}, ErrInvalidLeaveType},
		{"end before start", func() error {
			_, err := m.Submit(ctx, "이영희", feb(4), feb(3), LeaveFull)
			return err
		}, ErrInvalidPeriod},
		{"unknown employee", func() error {
			_, err := m.Submit(ctx, "ghost", feb(3), feb(4), LeaveFull)
			return err
		}, ErrEmployeeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSubmit_RejectedByExclusionConstraint(t *testing.T) {
	// 김철수 is approved Jan 10-12 and constrained against 이영희.
	ms := memory.New()
	seedCollections(ms)
	m, _ := newTestManager(ms)

	_, err := m.Submit(context.Background(), "이영희",
		NewDate(2025, time.January, 12), NewDate(2025, time.January, 13), LeaveFull)

	var conflict *ExclusionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ExclusionConflictError, got %v", err)
	}
	if conflict.Partner != "김철수" || !conflict.Date.Equal(NewDate(2025, time.January, 12)) {
		t.Errorf("unexpected conflict detail: %+v", conflict)
	}
}

func TestSubmit_SurfacesWriteConflict(t *testing.T) {
	ms := memory.New()
	seedCollections(ms)
	m, _ := newTestManager(ms)
	ms.FailNext(store.ErrConflict)

	_, err := m.Submit(context.Background(), "이영희",
		NewDate(2025, time.February, 3), NewDate(2025, time.February, 4), LeaveFull)
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict to surface, got %v", err)
	}
}

// =============================================================================
// DECIDE
// =============================================================================

func TestDecide_ApproveAndReject(t *testing.T) {
	ms := memory.New()
	seedCollections(ms)
	m, repo := newTestManager(ms)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := m.Submit(ctx, "이영희", NewDate(2025, time.March, 1+i), NewDate(2025, time.March, 1+i), LeaveFull); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	// Seeded collection holds one approved row at index 0; the two pending
	// submissions landed at indexes 1 and 2.
	if err := m.Decide(ctx, 1, true); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := m.Decide(ctx, 2, false); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	snap, _ := repo.Snapshot(ctx)
	if got := snap.Requests()[1].Status; got != StatusApproved {
		t.Errorf("expected approved, got %q", got)
	}
	if got := snap.Requests()[2].Status; got != StatusRejected {
		t.Errorf("expected rejected, got %q", got)
	}

	content := string(ms.Content("data/vacations.csv"))
	if !strings.Contains(content, "승인") || !strings.Contains(content, "반려") {
		t.Errorf("decided statuses not persisted:\n%s", content)
	}
}

func TestDecide_TerminalRequestIsImmutable(t *testing.T) {
	ms := memory.New()
	seedCollections(ms)
	m, _ := newTestManager(ms)

	// Index 0 is already approved; neither re-approving nor rejecting is legal.
	for _, approve := range []bool{true, false} {
		if err := m.Decide(context.Background(), 0, approve); !errors.Is(err, ErrNotPending) {
			t.Errorf("approve=%v: expected ErrNotPending, got %v", approve, err)
		}
	}
}

func TestDecide_UnknownRequestID(t *testing.T) {
	ms := memory.New()
	seedCollections(ms)
	m, _ := newTestManager(ms)

	for _, id := range []RequestID{-1, 99} {
		if err := m.Decide(context.Background(), id, true); !errors.Is(err, ErrRequestNotFound) {
			t.Errorf("id %d: expected ErrRequestNotFound, got %v", id, err)
		}
	}
}
