package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/timecorrection"
	"github.com/nimbus-hr/attendance-backend-go/internal/handler/http/middleware"
	"github.com/nimbus-hr/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeCorrectionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type timeCorrectionHandlerImpl struct {
	correctionService timecorrection.RequestService
}

func NewTimeCorrectionHandler(correctionService timecorrection.RequestService) TimeCorrectionHandler {
	return &timeCorrectionHandlerImpl{
		correctionService: correctionService,
	}
}

// Create implements TimeCorrectionHandler.
func (h *timeCorrectionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req timecorrection.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	created, err := h.correctionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time correction request submitted", created)
}

// Get implements TimeCorrectionHandler.
func (h *timeCorrectionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.correctionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements TimeCorrectionHandler.
func (h *timeCorrectionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter timecorrection.ListFilter
	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("status"); v != "" {
		filter.Status = &v
	}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.correctionService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Approve implements TimeCorrectionHandler.
func (h *timeCorrectionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	var req timecorrection.ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = middleware.ApproverID(r)
	if req.ApproverID == "" {
		response.Unauthorized(w, "Approver identity missing from token")
		return
	}

	result, err := h.correctionService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time correction request resolved", result)
}

// Delete implements TimeCorrectionHandler.
func (h *timeCorrectionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.correctionService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time correction request deleted", nil)
}
