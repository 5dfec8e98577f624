/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

Dates cross the API as YYYY-MM-DD strings; leave types and statuses as the
English enum values (full/half/sick/other, pending/approved/rejected). The
Korean vocabulary lives only in the persisted collections.
*/
package api

import (
	"github.com/yeorum/leavedesk/leave"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	Name           string  `json:"employee_name"`
	TotalLeaveDays float64 `json:"total_leave_days"`
}

type CreateEmployeeRequest struct {
	Name           string  `json:"employee_name"`
	TotalLeaveDays float64 `json:"total_leave_days"`
}

type BalanceDTO struct {
	Employee  string  `json:"employee_name"`
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

// =============================================================================
// VACATION REQUESTS
// =============================================================================

type RequestDTO struct {
	ID          int    `json:"id"`
	Employee    string `json:"employee_name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	LeaveType   string `json:"leave_type"`
	Status      string `json:"status"`
	RequestDate string `json:"request_date"`
}

func requestDTO(id leave.RequestID, r leave.VacationRequest) RequestDTO {
	return RequestDTO{
		ID:          int(id),
		Employee:    r.Employee,
		StartDate:   r.Start.String(),
		EndDate:     r.End.String(),
		LeaveType:   string(r.Type),
		Status:      string(r.Status),
		RequestDate: r.RequestedAt.String(),
	}
}

type SubmitRequestRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	LeaveType string `json:"leave_type"`
}

// =============================================================================
// POLICY / CONSTRAINTS
// =============================================================================

type DailyLimitDTO struct {
	DailyLimit int `json:"daily_limit"`
}

type ConstraintDTO struct {
	EmployeeName1 string `json:"employee_name_1"`
	EmployeeName2 string `json:"employee_name_2"`
}

// =============================================================================
// ASSISTANT
// =============================================================================

type AskRequest struct {
	Employee string `json:"employee_name"`
	Question string `json:"question"`
}

type AskResponse struct {
	Reply string `json:"reply"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
