package http

import (
	"encoding/json"
	"net/http"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/leave"
	"github.com/nimbus-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type LeaveHandler interface {
	Balances(w http.ResponseWriter, r *http.Request)
	Accrue(w http.ResponseWriter, r *http.Request)
	Consume(w http.ResponseWriter, r *http.Request)
	SetBalance(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	ledgerService leave.LedgerService
}

func NewLeaveHandler(ledgerService leave.LedgerService) LeaveHandler {
	return &leaveHandlerImpl{
		ledgerService: ledgerService,
	}
}

func toBalanceResponse(bal leave.Balance) leave.BalanceResponse {
	resp := leave.BalanceResponse{
		EmployeeID: bal.EmployeeID,
		LeaveType:  string(bal.LeaveType),
		Balance:    bal.Balance.String(),
	}
	if !bal.UpdatedAt.IsZero() {
		resp.UpdatedAt = bal.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// Balances implements LeaveHandler.
func (h *leaveHandlerImpl) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledgerService.Balances(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, bal := range balances {
		responses = append(responses, toBalanceResponse(bal))
	}

	response.Success(w, responses)
}

func (h *leaveHandlerImpl) decodeMutation(w http.ResponseWriter, r *http.Request) (leave.Type, decimal.Decimal, bool) {
	var req leave.MutateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return "", decimal.Zero, false
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error(), nil)
		return "", decimal.Zero, false
	}
	days, _ := decimal.NewFromString(req.Days)
	return leave.Type(req.LeaveType), days, true
}

// Accrue implements LeaveHandler.
func (h *leaveHandlerImpl) Accrue(w http.ResponseWriter, r *http.Request) {
	leaveType, days, ok := h.decodeMutation(w, r)
	if !ok {
		return
	}

	bal, err := h.ledgerService.AddLeaveDays(r.Context(), chi.URLParam(r, "employeeID"), leaveType, days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave days added", toBalanceResponse(bal))
}

// Consume implements LeaveHandler.
func (h *leaveHandlerImpl) Consume(w http.ResponseWriter, r *http.Request) {
	leaveType, days, ok := h.decodeMutation(w, r)
	if !ok {
		return
	}

	bal, consumed, err := h.ledgerService.UseLeaveDays(r.Context(), chi.URLParam(r, "employeeID"), leaveType, days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ConsumeResponse{
		Consumed: consumed,
		Balance:  toBalanceResponse(bal),
	})
}

// SetBalance implements LeaveHandler.
func (h *leaveHandlerImpl) SetBalance(w http.ResponseWriter, r *http.Request) {
	leaveType, days, ok := h.decodeMutation(w, r)
	if !ok {
		return
	}

	bal, err := h.ledgerService.SetBalance(r.Context(), chi.URLParam(r, "employeeID"), leaveType, days)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance set", toBalanceResponse(bal))
}
