package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(d int) Date { return NewDate(2025, time.January, d) }

func approved(name string, start, end Date) VacationRequest {
	return VacationRequest{
		Employee: name, Start: start, End: end,
		Type: LeaveFull, Status: StatusApproved,
		RequestedAt: NewDate(2024, time.December, 1),
	}
}

func employee(name string, totalDays int) Employee {
	return Employee{Name: name, TotalLeaveDays: decimal.NewFromInt(int64(totalDays))}
}

func mustConstraint(t *testing.T, a, b string) Constraint {
	t.Helper()
	c, err := NewConstraint(a, b)
	if err != nil {
		t.Fatalf("NewConstraint(%q, %q): %v", a, b, err)
	}
	return c
}

// =============================================================================
// VALIDATE - Preconditions
// =============================================================================

func TestValidate_UnknownEmployee(t *testing.T) {
	snap := NewSnapshot([]Employee{employee("A", 15)}, nil, nil, DefaultPolicy())

	err := Validate(snap, "nobody", day(1), day(2))
	if !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestValidate_StartAfterEnd(t *testing.T) {
	snap := NewSnapshot([]Employee{employee("A", 15)}, nil, nil, DefaultPolicy())

	err := Validate(snap, "A", day(5), day(3))
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

// =============================================================================
// VALIDATE - Daily limit
// =============================================================================

func TestValidate_DailyLimit_FirstOffendingDay(t *testing.T) {
	// GIVEN: limit=2, A and B both approved Jan 10-12
	// WHEN: C requests Jan 11-13
	// THEN: rejected with a daily-limit violation on Jan 11 (first offending
	//       day, not Jan 12)
	snap := NewSnapshot(
		[]Employee{employee("A", 15), employee("B", 15), employee("C", 15)},
		[]VacationRequest{
			approved("A", day(10), day(12)),
			approved("B", day(10), day(12)),
		},
		nil,
		Policy{DailyLimit: 2},
	)

	err := Validate(snap, "C", day(11), day(13))
	if !errors.Is(err, ErrDailyLimitExceeded) {
		t.Fatalf("expected ErrDailyLimitExceeded, got %v", err)
	}

	var dle *DailyLimitError
	if !errors.As(err, &dle) {
		t.Fatalf("expected *DailyLimitError, got %T", err)
	}
	if dle.Date.String() != "2025-01-11" {
		t.Errorf("expected violation on 2025-01-11, got %s", dle.Date)
	}
	if dle.Limit != 2 {
		t.Errorf("expected limit 2 in error, got %d", dle.Limit)
	}
}

func TestValidate_DailyLimit_BelowCapPasses(t *testing.T) {
	snap := NewSnapshot(
		[]Employee{employee("A", 15), employee("C", 15)},
		[]VacationRequest{approved("A", day(10), day(12))},
		nil,
		Policy{DailyLimit: 2},
	)

	if err := Validate(snap, "C", day(11), day(13)); err != nil {
		t.Errorf("expected ok below the cap, got %v", err)
	}
}

func TestValidate_PendingRequestsNeverBlock(t *testing.T) {
	// GIVEN: limit=1 and a PENDING (not approved) request covering the range
	// THEN: a new submission passes — only approved requests count
	pending := approved("A", day(10), day(12))
	pending.Status = StatusPending

	snap := NewSnapshot(
		[]Employee{employee("A", 15), employee("B", 15)},
		[]VacationRequest{pending},
		nil,
		Policy{DailyLimit: 1},
	)

	if err := Validate(snap, "B", day(10), day(12)); err != nil {
		t.Errorf("pending requests must not block: %v", err)
	}
}

func TestValidate_RejectedRequestsNeverBlock(t *testing.T) {
	rejected := approved("A", day(10), day(12))
	rejected.Status = StatusRejected

	snap := NewSnapshot(
		[]Employee{employee("A", 15), employee("B", 15)},
		[]VacationRequest{rejected},
		nil,
		Policy{DailyLimit: 1},
	)

	if err := Validate(snap, "B", day(10), day(12)); err != nil {
		t.Errorf("rejected requests must not block: %v", err)
	}
}

// =============================================================================
// VALIDATE - Exclusion constraints
// =============================================================================

func TestValidate_ExclusionConflict_FirstOffendingDay(t *testing.T) {
	// GIVEN: constraint (A,B); A approved Jan 5-6
	// WHEN: B requests Jan 6-7
	// THEN: rejected for conflict with A on Jan 6
	snap := NewSnapshot(
		[]Employee{employee("A", 15), employee("B", 15)},
		[]VacationRequest{approved("A", day(5), day(6))},
		[]Constraint{mustConstraint(t, "A", "B")},
		DefaultPolicy(),
	)

	err := Validate(snap, "B", day(6), day(7))
	if !errors.Is(err, ErrExclusionConflict) {
		t.Fatalf("expected ErrExclusionConflict, got %v", err)
	}

	var ece *ExclusionConflictError
	if !errors.As(err, &ece) {
		t.Fatalf("expected *ExclusionConflictError, got %T", err)
	}
	if ece.Partner != "A" {
		t.Errorf("expected conflict partner A, got %s", ece.Partner)
	}
	if ece.Date.String() != "2025-01-06" {
		t.Errorf("expected conflict on 2025-01-06, got %s", ece.Date)
	}
}

func TestValidate_ExclusionConstraintIsSymmetric(t *testing.T) {
	// The pair is unordered: the constraint stored as (A,B) also bars A when
	// B holds the approved request.
	snap := NewSnapshot(
		[]Employee{employee("A", 15), employee("B", 15)},
		[]VacationRequest{approved("B", day(5), day(6))},
		[]Constraint{mustConstraint(t, "A", "B")},
		DefaultPolicy(),
	)

	if err := Validate(snap, "A", day(6), day(7)); !errors.Is(err, ErrExclusionConflict) {
		t.Errorf("expected ErrExclusionConflict for the other direction, got %v", err)
	}
}

func TestValidate_NonOverlappingRangesPass(t *testing.T) {
	snap := NewSnapshot(
		[]Employee{employee("A", 15), employee("B", 15)},
		[]VacationRequest{approved("A", day(5), day(6))},
		[]Constraint{mustConstraint(t, "A", "B")},
		DefaultPolicy(),
	)

	if err := Validate(snap, "B", day(7), day(8)); err != nil {
		t.Errorf("non-overlapping ranges must pass, got %v", err)
	}
}

func TestValidate_LimitCheckedBeforeConstraints(t *testing.T) {
	// GIVEN: a day where both the cap is reached and a partner is on leave
	// THEN: the daily-limit violation wins — it is checked first per day
	snap := NewSnapshot(
		[]Employee{employee("A", 15), employee("B", 15), employee("C", 15)},
		[]VacationRequest{
			approved("A", day(10), day(10)),
			approved("B", day(10), day(10)),
		},
		[]Constraint{mustConstraint(t, "A", "C")},
		Policy{DailyLimit: 2},
	)

	err := Validate(snap, "C", day(10), day(10))
	if !errors.Is(err, ErrDailyLimitExceeded) {
		t.Errorf("expected the daily-limit violation to win, got %v", err)
	}
}

// =============================================================================
// REMAINING LEAVE
// =============================================================================

func TestRemainingLeave_ApprovedFullDayConsumes(t *testing.T) {
	// GIVEN: total 15, one approved full-day request Feb 1 - Feb 3 (3 days)
	// THEN: remaining = 12
	snap := NewSnapshot(
		[]Employee{employee("A", 15)},
		[]VacationRequest{approved("A", NewDate(2025, time.February, 1), NewDate(2025, time.February, 3))},
		nil,
		DefaultPolicy(),
	)

	balance, err := RemainingLeave(snap, "A")
	if err != nil {
		t.Fatalf("RemainingLeave failed: %v", err)
	}
	if !balance.Used.Equal(decimal.NewFromInt(3)) {
		t.Errorf("expected 3 used, got %s", balance.Used)
	}
	if !balance.Remaining.Equal(decimal.NewFromInt(12)) {
		t.Errorf("expected 12 remaining, got %s", balance.Remaining)
	}
}

func TestRemainingLeave_OnlyApprovedFullDayCounts(t *testing.T) {
	pendingFull := approved("A", day(1), day(2))
	pendingFull.Status = StatusPending
	approvedHalf := approved("A", day(5), day(5))
	approvedHalf.Type = LeaveHalf
	approvedSick := approved("A", day(7), day(9))
	approvedSick.Type = LeaveSick

	snap := NewSnapshot(
		[]Employee{employee("A", 15)},
		[]VacationRequest{pendingFull, approvedHalf, approvedSick},
		nil,
		DefaultPolicy(),
	)

	balance, err := RemainingLeave(snap, "A")
	if err != nil {
		t.Fatalf("RemainingLeave failed: %v", err)
	}
	if !balance.Remaining.Equal(decimal.NewFromInt(15)) {
		t.Errorf("only approved full-day leave consumes the balance; got remaining %s", balance.Remaining)
	}
}

func TestRemainingLeave_UnknownEmployee(t *testing.T) {
	snap := NewSnapshot(nil, nil, nil, DefaultPolicy())
	if _, err := RemainingLeave(snap, "ghost"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("expected ErrEmployeeNotFound, got %v", err)
	}
}
