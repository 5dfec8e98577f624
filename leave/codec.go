/*
codec.go - Flat tabular serialization for the persisted collections

WIRE FORMAT (fixed header-derived column order):
  employees.csv:   employee_name, total_leave_days
  vacations.csv:   employee_name, start_date, end_date, leave_type, status, request_date
  constraints.csv: employee_name_1, employee_name_2
  config.json:     {"daily_limit": N}, default 5 when absent

Status and leave type are persisted with the Korean vocabulary
(대기/승인/반려, 연차/반차/병가/기타). Dates are YYYY-MM-DD civil dates.

Malformed rows are rejected with a row-numbered error, never silently
coerced. Decoding an absent or empty document yields the empty collection.
*/
package leave

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	employeesHeader   = []string{"employee_name", "total_leave_days"}
	vacationsHeader   = []string{"employee_name", "start_date", "end_date", "leave_type", "status", "request_date"}
	constraintsHeader = []string{"employee_name_1", "employee_name_2"}
)

// =============================================================================
// WIRE VOCABULARY
// =============================================================================

func parseLeaveType(label string) (LeaveType, error) {
	for lt, l := range leaveTypeLabels {
		if l == label {
			return lt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLeaveType, label)
}

func parseStatus(label string) (Status, error) {
	for s, l := range statusLabels {
		if l == label {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", label)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func decodeEmployees(content []byte) ([]Employee, error) {
	rows, err := readRows(content, employeesHeader)
	if err != nil {
		return nil, fmt.Errorf("employees: %w", err)
	}

	employees := make([]Employee, 0, len(rows))
	for i, row := range rows {
		if row[0] == "" {
			return nil, fmt.Errorf("employees row %d: empty employee_name", i+1)
		}
		days, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, fmt.Errorf("employees row %d: total_leave_days %q: %w", i+1, row[1], err)
		}
		if days.IsNegative() {
			return nil, fmt.Errorf("employees row %d: total_leave_days must be non-negative", i+1)
		}
		employees = append(employees, Employee{Name: row[0], TotalLeaveDays: days})
	}
	return employees, nil
}

func encodeEmployees(employees []Employee) []byte {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{e.Name, e.TotalLeaveDays.String()})
	}
	return writeRows(employeesHeader, rows)
}

// =============================================================================
// VACATION REQUESTS
// =============================================================================

func decodeRequests(content []byte) ([]VacationRequest, error) {
	rows, err := readRows(content, vacationsHeader)
	if err != nil {
		return nil, fmt.Errorf("vacations: %w", err)
	}

	requests := make([]VacationRequest, 0, len(rows))
	for i, row := range rows {
		req, err := decodeRequestRow(row)
		if err != nil {
			return nil, fmt.Errorf("vacations row %d: %w", i+1, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func decodeRequestRow(row []string) (VacationRequest, error) {
	if row[0] == "" {
		return VacationRequest{}, fmt.Errorf("empty employee_name")
	}
	start, err := ParseDate(row[1])
	if err != nil {
		return VacationRequest{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := ParseDate(row[2])
	if err != nil {
		return VacationRequest{}, fmt.Errorf("end_date: %w", err)
	}
	if start.After(end) {
		return VacationRequest{}, ErrInvalidPeriod
	}
	lt, err := parseLeaveType(row[3])
	if err != nil {
		return VacationRequest{}, err
	}
	status, err := parseStatus(row[4])
	if err != nil {
		return VacationRequest{}, err
	}
	requested, err := ParseDate(row[5])
	if err != nil {
		return VacationRequest{}, fmt.Errorf("request_date: %w", err)
	}
	return VacationRequest{
		Employee:    row[0],
		Start:       start,
		End:         end,
		Type:        lt,
		Status:      status,
		RequestedAt: requested,
	}, nil
}

func encodeRequests(requests []VacationRequest) []byte {
	rows := make([][]string, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, []string{
			r.Employee,
			r.Start.String(),
			r.End.String(),
			r.Type.Label(),
			r.Status.Label(),
			r.RequestedAt.String(),
		})
	}
	return writeRows(vacationsHeader, rows)
}

// =============================================================================
// CONSTRAINTS
// =============================================================================

// decodeConstraints normalizes pairs and drops duplicates, so a pair stored
// in either order is treated as one constraint.
func decodeConstraints(content []byte) ([]Constraint, error) {
	rows, err := readRows(content, constraintsHeader)
	if err != nil {
		return nil, fmt.Errorf("constraints: %w", err)
	}

	seen := make(map[Constraint]bool, len(rows))
	constraints := make([]Constraint, 0, len(rows))
	for i, row := range rows {
		c, err := NewConstraint(row[0], row[1])
		if err != nil {
			return nil, fmt.Errorf("constraints row %d: %w", i+1, err)
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		constraints = append(constraints, c)
	}
	return constraints, nil
}

func encodeConstraints(constraints []Constraint) []byte {
	rows := make([][]string, 0, len(constraints))
	for _, c := range constraints {
		rows = append(rows, []string{c.A, c.B})
	}
	return writeRows(constraintsHeader, rows)
}

// =============================================================================
// CONFIG
// =============================================================================

type configDocument struct {
	DailyLimit int `json:"daily_limit"`
}

func decodePolicy(content []byte) (Policy, error) {
	var doc configDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return Policy{}, fmt.Errorf("config: %w", err)
	}
	if doc.DailyLimit == 0 {
		return DefaultPolicy(), nil
	}
	if doc.DailyLimit < 0 {
		return Policy{}, fmt.Errorf("config: %w", ErrInvalidDailyLimit)
	}
	return Policy{DailyLimit: doc.DailyLimit}, nil
}

func encodePolicy(p Policy) []byte {
	b, _ := json.MarshalIndent(configDocument{DailyLimit: p.DailyLimit}, "", "  ")
	return b
}

// =============================================================================
// CSV PLUMBING
// =============================================================================

// readRows parses CSV content, validates the header against the expected
// column order, and returns the data rows. Empty content is an empty
// collection.
func readRows(content []byte, header []string) ([][]string, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = len(header)
	r.TrimLeadingSpace = true

	got, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("unexpected header %q (want %q)",
				strings.Join(got, ","), strings.Join(header, ","))
		}
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func writeRows(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(header)
	w.WriteAll(rows)
	return buf.Bytes()
}
