package response

import (
	"errors"
	"net/http"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/leave"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/payroll"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/timecorrection"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is inactive")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this day")
	case errors.Is(err, attendance.ErrDuplicateSession):
		Conflict(w, "This session slot has already been punched")
	case errors.Is(err, attendance.ErrInvalidSessionType):
		BadRequest(w, "Invalid session type", nil)

	// Overtime domain errors
	case errors.Is(err, overtime.ErrRequestNotFound):
		NotFound(w, "Overtime request not found")
	case errors.Is(err, overtime.ErrPastDateNotAllowed),
		errors.Is(err, overtime.ErrInvalidTimeRange),
		errors.Is(err, overtime.ErrHoursMismatch),
		errors.Is(err, overtime.ErrNonPositiveHours):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, overtime.ErrOverlappingRequest):
		Conflict(w, "A pending overtime request overlaps this time range")
	case errors.Is(err, overtime.ErrAlreadyProcessed):
		Conflict(w, "Overtime request already processed")
	case errors.Is(err, overtime.ErrCannotDeleteProcessed):
		Conflict(w, "Only pending overtime requests can be deleted")

	// Time correction domain errors
	case errors.Is(err, timecorrection.ErrRequestNotFound):
		NotFound(w, "Time correction request not found")
	case errors.Is(err, timecorrection.ErrFutureDateNotAllowed):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timecorrection.ErrDuplicatePendingRequest):
		Conflict(w, "A pending correction already exists for this session")
	case errors.Is(err, timecorrection.ErrAlreadyProcessed):
		Conflict(w, "Time correction request already processed")
	case errors.Is(err, timecorrection.ErrCannotDeleteProcessed):
		Conflict(w, "Only pending time correction requests can be deleted")

	// Leave domain errors
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInvalidLeaveType),
		errors.Is(err, leave.ErrNonPositiveDays),
		errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrRecordNotDraft):
		Conflict(w, "Payroll record is no longer a draft")
	case errors.Is(err, payroll.ErrRecordNotProcessed):
		Conflict(w, "Payroll record has not been processed")
	case errors.Is(err, payroll.ErrMissingBaseSalary):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
