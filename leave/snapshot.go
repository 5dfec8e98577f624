package leave

// =============================================================================
// SNAPSHOT - One atomic, read-only load of all collections
// =============================================================================

// Snapshot holds the employees, vacation requests, exclusion constraints and
// policy as loaded together from the repository. It is immutable: mutation
// goes through the Manager, which writes through the repository and
// invalidates the cache so the next Snapshot observes the new state.
type Snapshot struct {
	employees   []Employee
	requests    []VacationRequest
	constraints []Constraint
	policy      Policy
}

func NewSnapshot(employees []Employee, requests []VacationRequest, constraints []Constraint, policy Policy) *Snapshot {
	return &Snapshot{
		employees:   employees,
		requests:    requests,
		constraints: constraints,
		policy:      policy,
	}
}

// Employees returns all employees in stored order.
func (s *Snapshot) Employees() []Employee {
	out := make([]Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

// Employee looks up an employee by name.
func (s *Snapshot) Employee(name string) (Employee, bool) {
	for _, e := range s.employees {
		if e.Name == name {
			return e, true
		}
	}
	return Employee{}, false
}

// Requests returns all vacation requests in collection order. The slice index
// is the RequestID.
func (s *Snapshot) Requests() []VacationRequest {
	out := make([]VacationRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Request resolves a RequestID against the collection.
func (s *Snapshot) Request(id RequestID) (VacationRequest, bool) {
	if id < 0 || int(id) >= len(s.requests) {
		return VacationRequest{}, false
	}
	return s.requests[id], true
}

// RequestsFor returns one employee's full request history in stored order.
func (s *Snapshot) RequestsFor(name string) []VacationRequest {
	var out []VacationRequest
	for _, r := range s.requests {
		if r.Employee == name {
			out = append(out, r)
		}
	}
	return out
}

// ApprovedOn returns the names of employees holding an approved request
// covering day, in stored order. Pending and rejected requests never appear.
func (s *Snapshot) ApprovedOn(day Date) []string {
	var names []string
	for _, r := range s.requests {
		if r.Status == StatusApproved && r.Covers(day) {
			names = append(names, r.Employee)
		}
	}
	return names
}

// Constraints returns all exclusion constraints in stored order.
func (s *Snapshot) Constraints() []Constraint {
	out := make([]Constraint, len(s.constraints))
	copy(out, s.constraints)
	return out
}

// ConstraintsFor returns the partners name may never overlap with, iterating
// constraints in their stored order.
func (s *Snapshot) ConstraintsFor(name string) []string {
	var partners []string
	for _, c := range s.constraints {
		if p := c.Partner(name); p != "" {
			partners = append(partners, p)
		}
	}
	return partners
}

// DailyLimit returns the configured approved-headcount cap per day.
func (s *Snapshot) DailyLimit() int { return s.policy.DailyLimit }

// Policy returns the full policy object.
func (s *Snapshot) Policy() Policy { return s.policy }
