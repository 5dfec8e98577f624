/*
handlers.go - HTTP handlers for the leave service

REQUEST FLOW:
  1. Parse and validate input
  2. Call domain logic (snapshot accessors, eligibility, lifecycle manager)
  3. Serialize response

ERROR HANDLING:
  - 400: malformed input
  - 404: unknown employee or request
  - 409: version conflict — caller should reload and retry
  - 422: admissible-input, inadmissible-request (limit/exclusion violations)
  - 502: document store or assistant unreachable
  - 503: assistant not configured
No error here is fatal to the process; every interaction is independent.

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yeorum/leavedesk/assistant"
	"github.com/yeorum/leavedesk/leave"
	"github.com/yeorum/leavedesk/store"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo    *leave.Repository
	Manager *leave.Manager

	// Advisor may be nil when no completion service is configured; the ask
	// endpoint then answers 503.
	Advisor *assistant.Advisor

	Log *zap.Logger
}

func NewHandler(repo *leave.Repository, manager *leave.Manager, advisor *assistant.Advisor, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Repo: repo, Manager: manager, Advisor: advisor, Log: log}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Repo.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	employees := snap.Employees()
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		total, _ := e.TotalLeaveDays.Float64()
		dtos[i] = EmployeeDTO{Name: e.Name, TotalLeaveDays: total}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee adds an employee. Admin only.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "employee_name is required", nil)
		return
	}
	if req.TotalLeaveDays < 0 {
		writeError(w, http.StatusBadRequest, "total_leave_days must be non-negative", nil)
		return
	}

	emp := leave.Employee{
		Name:           req.Name,
		TotalLeaveDays: decimal.NewFromFloat(req.TotalLeaveDays),
	}
	if err := h.Repo.AddEmployee(r.Context(), emp); err != nil {
		h.writeDomainError(w, err)
		return
	}

	total, _ := emp.TotalLeaveDays.Float64()
	writeJSON(w, http.StatusCreated, EmployeeDTO{Name: emp.Name, TotalLeaveDays: total})
}

// DeleteEmployee removes an employee. Their request history stays. Admin only.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Repo.RemoveEmployee(r.Context(), name); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBalance returns the full-day leave balance for an employee.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, err := h.Repo.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	balance, err := leave.RemainingLeave(snap, name)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	total, _ := balance.Total.Float64()
	used, _ := balance.Used.Float64()
	remaining, _ := balance.Remaining.Float64()
	writeJSON(w, http.StatusOK, BalanceDTO{Employee: name, Total: total, Used: used, Remaining: remaining})
}

// ListEmployeeRequests returns one employee's full request history.
func (h *Handler) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	snap, err := h.Repo.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if _, ok := snap.Employee(name); !ok {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	dtos := []RequestDTO{}
	for id, req := range snap.Requests() {
		if req.Employee == name {
			dtos = append(dtos, requestDTO(leave.RequestID(id), req))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REQUEST LIFECYCLE HANDLERS
// =============================================================================

// SubmitRequest validates and files a vacation request for an employee.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := leave.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := leave.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	created, err := h.Manager.Submit(r.Context(), name, start, end, leave.LeaveType(req.LeaveType))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, RequestDTO{
		Employee:    created.Employee,
		StartDate:   created.Start.String(),
		EndDate:     created.End.String(),
		LeaveType:   string(created.Type),
		Status:      string(created.Status),
		RequestDate: created.RequestedAt.String(),
	})
}

// ListPendingRequests returns requests awaiting a decision. Admin only.
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, leave.StatusPending)
}

// ListApprovedRequests returns the company-wide approved schedule.
func (h *Handler) ListApprovedRequests(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, leave.StatusApproved)
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request, status leave.Status) {
	snap, err := h.Repo.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	dtos := []RequestDTO{}
	for id, req := range snap.Requests() {
		if req.Status == status {
			dtos = append(dtos, requestDTO(leave.RequestID(id), req))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApproveRequest moves a pending request to approved. Admin only.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

// RejectRequest moves a pending request to rejected. Admin only.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request id", err)
		return
	}

	if err := h.Manager.Decide(r.Context(), leave.RequestID(id), approve); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// POLICY / CONSTRAINT HANDLERS
// =============================================================================

// GetDailyLimit returns the configured headcount cap.
func (h *Handler) GetDailyLimit(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Repo.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DailyLimitDTO{DailyLimit: snap.DailyLimit()})
}

// SetDailyLimit updates the headcount cap. Admin only.
func (h *Handler) SetDailyLimit(w http.ResponseWriter, r *http.Request) {
	var req DailyLimitDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Repo.SetDailyLimit(r.Context(), req.DailyLimit); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DailyLimitDTO{DailyLimit: req.DailyLimit})
}

// ListConstraints returns the exclusion pairs.
func (h *Handler) ListConstraints(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Repo.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	constraints := snap.Constraints()
	dtos := make([]ConstraintDTO, len(constraints))
	for i, c := range constraints {
		dtos[i] = ConstraintDTO{EmployeeName1: c.A, EmployeeName2: c.B}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddConstraint stores a new exclusion pair. Admin only.
func (h *Handler) AddConstraint(w http.ResponseWriter, r *http.Request) {
	var req ConstraintDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.Repo.AddConstraint(r.Context(), req.EmployeeName1, req.EmployeeName2); err != nil {
		h.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// =============================================================================
// ASSISTANT HANDLER
// =============================================================================

// Ask relays a free-text question to the assistant. The reply is advisory
// text only; nothing in it is parsed or acted on.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	if h.Advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "Assistant is not configured", nil)
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Employee == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "employee_name and question are required", nil)
		return
	}

	snap, err := h.Repo.Snapshot(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	reply, err := h.Advisor.Ask(r.Context(), snap, req.Employee, req.Question)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AskResponse{Reply: reply})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain and store errors onto HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "Collection changed since last read; reload and retry", err)
	case leave.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, leave.ErrDailyLimitExceeded) || errors.Is(err, leave.ErrExclusionConflict):
		writeError(w, http.StatusUnprocessableEntity, "Request not admissible", err)
	case leave.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case errors.Is(err, assistant.ErrAssistant):
		writeError(w, http.StatusBadGateway, "Assistant request failed", err)
	case errors.Is(err, store.ErrTransport):
		writeError(w, http.StatusBadGateway, "Document store unavailable", err)
	default:
		h.Log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
