/*
eligibility.go - Admissibility rules and balance computation

ALGORITHM (Validate):
  Walk every calendar day of the requested range in ascending order. For each
  day, first the headcount cap, then the exclusion constraints in stored
  order. The first violation found wins and later days are never examined, so
  the reported offense is always the earliest one.

  Only approved requests block a submission. Pending requests never count:
  nothing stops a flood of provisionally-conflicting submissions that could
  not all be approved — admission control happens once more at approval time
  only through the admin's judgment, not through this check.

BALANCE:
  remaining = total entitlement - sum of inclusive day counts over approved
  full-day requests. Half-day, sick and other leave never consume the
  full-day balance. An over-drawing submission is not blocked here.

No caching: every call recomputes from the snapshot at hand. The dataset is
small and the persist step's version tag, not this check, is the actual
race-safety boundary.
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// VALIDATE - Headcount cap and exclusion constraints
// =============================================================================

// Validate checks whether a prospective request for [start, end] by employee
// is admissible against the snapshot. Returns nil, or the first violation in
// date order: ErrEmployeeNotFound, ErrInvalidPeriod, a *DailyLimitError or a
// *ExclusionConflictError.
func Validate(snap *Snapshot, employee string, start, end Date) error {
	if _, ok := snap.Employee(employee); !ok {
		return ErrEmployeeNotFound
	}
	if start.After(end) {
		return ErrInvalidPeriod
	}

	limit := snap.DailyLimit()
	partners := snap.ConstraintsFor(employee)

	var violation error
	EachDay(start, end, func(day Date) bool {
		approved := snap.ApprovedOn(day)
		if len(approved) >= limit {
			violation = &DailyLimitError{Date: day, Limit: limit}
			return false
		}
		for _, p := range partners {
			if contains(approved, p) {
				violation = &ExclusionConflictError{Partner: p, Date: day}
				return false
			}
		}
		return true
	})
	return violation
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// =============================================================================
// BALANCE - Full-day leave bookkeeping
// =============================================================================

// Balance is an employee's full-day leave position, recomputable
// idempotently from any snapshot.
type Balance struct {
	Total     decimal.Decimal
	Used      decimal.Decimal
	Remaining decimal.Decimal
}

// RemainingLeave computes the balance over approved full-day requests only.
func RemainingLeave(snap *Snapshot, employee string) (Balance, error) {
	emp, ok := snap.Employee(employee)
	if !ok {
		return Balance{}, ErrEmployeeNotFound
	}

	used := decimal.Zero
	for _, r := range snap.RequestsFor(employee) {
		if r.Status == StatusApproved && r.Type == LeaveFull {
			used = used.Add(decimal.NewFromInt(int64(r.Days())))
		}
	}

	return Balance{
		Total:     emp.TotalLeaveDays,
		Used:      used,
		Remaining: emp.TotalLeaveDays.Sub(used),
	}, nil
}
