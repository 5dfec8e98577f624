/*
Package leave implements the vacation-tracking core: the domain model, the
eligibility rules that decide whether a request is admissible, the request
lifecycle, and the repository that persists collections through a
version-tagged document store.

KEY CONCEPTS:
  - Employee:        name + annual leave entitlement
  - VacationRequest: inclusive date range with a leave type and a status
  - Constraint:      unordered pair of employees barred from overlapping
                     approved vacations
  - Policy:          the daily headcount cap for approved vacationers
  - Snapshot:        one atomic, read-only load of all of the above

DESIGN PRINCIPLES:
  1. Requests are append-only; a decided request never changes again
  2. Validation always recomputes from the full snapshot (small data,
     freshness over speed)
  3. The persist step, not validation, is the race-safety boundary:
     every write is guarded by the store's version tag

SEE ALSO:
  - eligibility.go: admissibility rules and balance computation
  - lifecycle.go:   submit/decide state machine
  - repository.go:  collection persistence and snapshot caching
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee is identified by name; names are unique within the company.
type Employee struct {
	Name string

	// TotalLeaveDays is the annual full-day leave entitlement.
	TotalLeaveDays decimal.Decimal
}

// =============================================================================
// LEAVE TYPE - Closed enumeration
// =============================================================================

type LeaveType string

const (
	LeaveFull  LeaveType = "full"  // 연차: consumes the annual balance
	LeaveHalf  LeaveType = "half"  // 반차
	LeaveSick  LeaveType = "sick"  // 병가
	LeaveOther LeaveType = "other" // 기타
)

// leaveTypeLabels maps leave types to the Korean vocabulary used in the
// persisted collections and in user-facing text.
var leaveTypeLabels = map[LeaveType]string{
	LeaveFull:  "연차",
	LeaveHalf:  "반차",
	LeaveSick:  "병가",
	LeaveOther: "기타",
}

// Label returns the Korean display/wire label.
func (lt LeaveType) Label() string { return leaveTypeLabels[lt] }

func (lt LeaveType) Valid() bool {
	_, ok := leaveTypeLabels[lt]
	return ok
}

// =============================================================================
// STATUS - pending -> approved | rejected, both terminal
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"  // 대기
	StatusApproved Status = "approved" // 승인
	StatusRejected Status = "rejected" // 반려
)

var statusLabels = map[Status]string{
	StatusPending:  "대기",
	StatusApproved: "승인",
	StatusRejected: "반려",
}

func (s Status) Label() string { return statusLabels[s] }

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

// =============================================================================
// VACATION REQUEST
// =============================================================================

// RequestID identifies a request by its position in the persisted vacations
// collection. The collection is append-only ordered and every mutation is
// guarded by the store's version tag, so a stale ID surfaces as a version
// conflict rather than hitting the wrong row.
type RequestID int

// VacationRequest is an inclusive [Start, End] date range. Once the status
// leaves pending the request is immutable.
type VacationRequest struct {
	Employee    string
	Start       Date
	End         Date
	Type        LeaveType
	Status      Status
	RequestedAt Date
}

// Covers reports whether day falls within the request's range.
func (r VacationRequest) Covers(day Date) bool {
	return !r.Start.After(day) && !r.End.Before(day)
}

// Days returns the inclusive day count of the range.
func (r VacationRequest) Days() int { return DaysInclusive(r.Start, r.End) }

// =============================================================================
// EXCLUSION CONSTRAINT - Unordered pair of distinct employees
// =============================================================================

// Constraint bars two employees from holding approved vacations covering the
// same day. Stored normalized (A < B) so duplicates in either order collapse.
type Constraint struct {
	A string
	B string
}

// NewConstraint builds a normalized constraint. The pair must name two
// distinct, non-empty employees.
func NewConstraint(a, b string) (Constraint, error) {
	if a == "" || b == "" || a == b {
		return Constraint{}, ErrInvalidConstraint
	}
	if b < a {
		a, b = b, a
	}
	return Constraint{A: a, B: b}, nil
}

// Partner returns the other member of the pair, or "" if name is not a member.
func (c Constraint) Partner(name string) string {
	switch name {
	case c.A:
		return c.B
	case c.B:
		return c.A
	default:
		return ""
	}
}

// =============================================================================
// POLICY
// =============================================================================

// DefaultDailyLimit applies when the config collection is absent or silent.
const DefaultDailyLimit = 5

// Policy holds company-wide vacation policy knobs.
type Policy struct {
	// DailyLimit is the maximum number of employees who may hold an approved
	// request covering any single calendar day.
	DailyLimit int
}

func DefaultPolicy() Policy { return Policy{DailyLimit: DefaultDailyLimit} }
