package http

import (
	"net/http"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/payroll"
	"github.com/nimbus-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	ListByPeriod(w http.ResponseWriter, r *http.Request)
	PeriodTotals(w http.ResponseWriter, r *http.Request)
	Process(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	records, err := h.payrollService.Generate(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll drafts generated", records)
}

// ListByPeriod implements PayrollHandler.
func (h *payrollHandlerImpl) ListByPeriod(w http.ResponseWriter, r *http.Request) {
	records, err := h.payrollService.ListByPeriod(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// PeriodTotals implements PayrollHandler.
func (h *payrollHandlerImpl) PeriodTotals(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	totals, err := h.payrollService.PeriodTotals(r.Context(), chi.URLParam(r, "periodID"), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, totals)
}

// Process implements PayrollHandler.
func (h *payrollHandlerImpl) Process(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.Process(r.Context(), chi.URLParam(r, "recordID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record processed", nil)
}

// MarkPaid implements PayrollHandler.
func (h *payrollHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.MarkPaid(r.Context(), chi.URLParam(r, "recordID")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll record marked as paid", nil)
}
