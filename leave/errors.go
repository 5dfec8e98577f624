/*
errors.go - Centralized error types for the leave core

ERROR CATEGORIES:
  1. Validation errors - bad input or inadmissible requests; nothing mutated
  2. Lifecycle errors  - illegal state transitions
  3. Store errors      - surfaced from the store package (conflict, transport)

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, leave.ErrDailyLimitExceeded) { ... }

  and recover structured detail with errors.As:

    var dle *leave.DailyLimitError
    if errors.As(err, &dle) { ... dle.Date ... }

SEE ALSO:
  - store/store.go: ErrConflict, ErrNotFound, ErrTransport
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/yeorum/leavedesk/store"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a request ID doesn't resolve.
	ErrRequestNotFound = errors.New("request not found")

	// ErrInvalidPeriod is returned when a range is malformed (start after end).
	ErrInvalidPeriod = errors.New("invalid period: start after end")

	// ErrInvalidLeaveType is returned for values outside the closed enumeration.
	ErrInvalidLeaveType = errors.New("invalid leave type")

	// ErrDailyLimitExceeded is returned when a day in the requested range is
	// already at the approved-headcount cap.
	ErrDailyLimitExceeded = errors.New("daily vacation limit exceeded")

	// ErrExclusionConflict is returned when a constraint partner already holds
	// an approved request covering a day in the range.
	ErrExclusionConflict = errors.New("exclusion constraint conflict")

	// ErrNotPending is returned when deciding a request that has already been
	// approved or rejected. Decided requests are immutable.
	ErrNotPending = errors.New("request is not pending")

	// ErrDuplicateEmployee is returned when adding an employee whose name is
	// already taken.
	ErrDuplicateEmployee = errors.New("employee already exists")

	// ErrInvalidConstraint is returned for constraint pairs that are not two
	// distinct non-empty names.
	ErrInvalidConstraint = errors.New("constraint must pair two distinct employees")

	// ErrInvalidDailyLimit is returned for non-positive daily limits.
	ErrInvalidDailyLimit = errors.New("daily limit must be at least 1")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the first offending day
// =============================================================================

// DailyLimitError reports the first day, in date order, on which the approved
// headcount is already at the cap.
type DailyLimitError struct {
	Date  Date
	Limit int
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily limit exceeded on %s (max %d)", e.Date, e.Limit)
}

func (e *DailyLimitError) Unwrap() error { return ErrDailyLimitExceeded }

// ExclusionConflictError reports the first constraint partner found with an
// approved request covering a day in the range.
type ExclusionConflictError struct {
	Partner string
	Date    Date
}

func (e *ExclusionConflictError) Error() string {
	return fmt.Sprintf("conflicts with %s on %s", e.Partner, e.Date)
}

func (e *ExclusionConflictError) Unwrap() error { return ErrExclusionConflict }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid or inadmissible
// client input. Nothing was persisted; retrying the same payload will fail
// the same way.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidLeaveType) ||
		errors.Is(err, ErrDailyLimitExceeded) ||
		errors.Is(err, ErrExclusionConflict) ||
		errors.Is(err, ErrNotPending) ||
		errors.Is(err, ErrDuplicateEmployee) ||
		errors.Is(err, ErrInvalidConstraint) ||
		errors.Is(err, ErrInvalidDailyLimit)
}

// IsNotFound returns true if the error names a missing employee or request.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsRetryable returns true if the caller should reload the snapshot,
// re-validate, and try again. That is the only retry policy in the system and
// it is the caller's responsibility.
func IsRetryable(err error) bool {
	return errors.Is(err, store.ErrConflict)
}
