package overtime

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/leave"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/overtime"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/settings"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/timeofday"
	"github.com/shopspring/decimal"
)

// hoursEpsilon tolerates drift between the client's requested hours and the
// window arithmetic, up to six minutes.
const hoursEpsilon = 0.1

type RequestServiceImpl struct {
	tx database.TxRunner
	overtime.RequestRepository
	records  attendance.RecordRepository
	sessions attendance.SessionRepository
	employee.EmployeeRepository
	leaveBalances leave.BalanceRepository
	settings      settings.Repository

	// accrualEnabled turns approved overtime hours into vacation leave
	// credit at the configured ratio.
	accrualEnabled bool
	logger         *slog.Logger
}

func NewRequestService(
	tx database.TxRunner,
	requests overtime.RequestRepository,
	records attendance.RecordRepository,
	sessions attendance.SessionRepository,
	employees employee.EmployeeRepository,
	leaveBalances leave.BalanceRepository,
	settingsRepo settings.Repository,
	accrualEnabled bool,
	logger *slog.Logger,
) overtime.RequestService {
	return &RequestServiceImpl{
		tx:                 tx,
		RequestRepository:  requests,
		records:            records,
		sessions:           sessions,
		EmployeeRepository: employees,
		leaveBalances:      leaveBalances,
		settings:           settingsRepo,
		accrualEnabled:     accrualEnabled,
		logger:             logger,
	}
}

// Create implements overtime.RequestService.
func (s *RequestServiceImpl) Create(ctx context.Context, req overtime.CreateRequest) (overtime.Response, error) {
	if err := req.Validate(); err != nil {
		return overtime.Response{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return overtime.Response{}, err
	}
	if !emp.IsActive() {
		return overtime.Response{}, employee.ErrEmployeeInactive
	}

	requestDate, _ := time.Parse("2006-01-02", req.RequestDate)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if requestDate.Before(today) {
		return overtime.Response{}, overtime.ErrPastDateNotAllowed
	}

	start, _ := timeofday.Parse(req.StartTime)
	end, _ := timeofday.Parse(req.EndTime)
	if !start.Before(end) {
		return overtime.Response{}, overtime.ErrInvalidTimeRange
	}

	windowHours := end.Sub(start)
	if math.Abs(windowHours-req.RequestedHours) > hoursEpsilon {
		return overtime.Response{}, overtime.ErrHoursMismatch
	}
	if req.RequestedHours <= 0 {
		return overtime.Response{}, overtime.ErrNonPositiveHours
	}

	pending, err := s.RequestRepository.ListPendingByEmployeeAndDate(ctx, req.EmployeeID, requestDate)
	if err != nil {
		return overtime.Response{}, err
	}
	candidate := overtime.Request{StartTime: start, EndTime: end}
	for _, other := range pending {
		if candidate.Overlaps(other) {
			return overtime.Response{}, overtime.ErrOverlappingRequest
		}
	}

	created, err := s.RequestRepository.Create(ctx, overtime.Request{
		EmployeeID:     req.EmployeeID,
		RequestDate:    requestDate,
		StartTime:      start,
		EndTime:        end,
		RequestedHours: req.RequestedHours,
		Reason:         req.Reason,
		Status:         overtime.StatusPending,
	})
	if err != nil {
		return overtime.Response{}, err
	}

	return toResponse(created), nil
}

// Approve implements overtime.RequestService. The status flip, the
// appended timeline block and the optional leave accrual commit or roll
// back together.
func (s *RequestServiceImpl) Approve(ctx context.Context, req overtime.ApproveRequest) (overtime.Response, error) {
	status := overtime.StatusRejected
	if req.Approved {
		status = overtime.StatusApproved
	}

	var updated overtime.Request
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.RequestRepository.UpdateStatus(ctx, req.ID, status, req.ApproverID, time.Now().UTC(), req.Comments)
		if err != nil {
			return err
		}

		if !req.Approved {
			return nil
		}

		if err := s.appendOvertimeBlock(ctx, updated); err != nil {
			return err
		}

		if s.accrualEnabled {
			if err := s.accrueLeave(ctx, updated); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return overtime.Response{}, err
	}

	return toResponse(updated), nil
}

// appendOvertimeBlock lands the approved window on the day's timeline as
// an overtime session carrying both endpoints.
func (s *RequestServiceImpl) appendOvertimeBlock(ctx context.Context, req overtime.Request) error {
	record, err := s.getOrCreateRecord(ctx, req.EmployeeID, req.RequestDate)
	if err != nil {
		return err
	}

	if err := s.records.Lock(ctx, record.ID); err != nil {
		return err
	}

	clockIn := req.StartTime.On(req.RequestDate, time.UTC)
	clockOut := req.EndTime.On(req.RequestDate, time.UTC)
	if _, err := s.sessions.Create(ctx, attendance.Session{
		RecordID:        record.ID,
		SessionType:     attendance.SessionOvertime,
		ClockIn:         &clockIn,
		ClockOut:        &clockOut,
		CalculatedHours: req.RequestedHours,
	}); err != nil {
		return err
	}

	sessions, err := s.sessions.ListByRecord(ctx, record.ID)
	if err != nil {
		return err
	}
	totals := attendance.CalculateDay(sessions)
	return s.records.UpdateStatus(ctx, record.ID, totals.Status)
}

func (s *RequestServiceImpl) getOrCreateRecord(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	record, err := s.records.GetByEmployeeAndDate(ctx, employeeID, date)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, attendance.ErrRecordNotFound) {
		return attendance.Record{}, err
	}

	record, err = s.records.Create(ctx, employeeID, date, attendance.StatusAbsent)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, attendance.ErrDuplicateRecord) {
		return s.records.GetByEmployeeAndDate(ctx, employeeID, date)
	}
	return attendance.Record{}, err
}

// accrueLeave credits vacation balance at the configured ratio per
// approved overtime hour. The ratio is read at approval time.
func (s *RequestServiceImpl) accrueLeave(ctx context.Context, req overtime.Request) error {
	ratioStr, err := s.settings.Get(ctx, settings.KeyOvertimeToLeaveRatio)
	if err != nil {
		if !errors.Is(err, settings.ErrSettingNotFound) {
			return err
		}
		ratioStr = settings.DefaultOvertimeToLeaveRatio
	}

	ratio, err := decimal.NewFromString(ratioStr)
	if err != nil {
		s.logger.Warn("invalid overtime accrual ratio, using default",
			slog.String("value", ratioStr),
		)
		ratio, _ = decimal.NewFromString(settings.DefaultOvertimeToLeaveRatio)
	}

	days := decimal.NewFromFloat(req.RequestedHours).Mul(ratio)
	if !days.IsPositive() {
		return nil
	}

	_, err = s.leaveBalances.AddDays(ctx, req.EmployeeID, leave.TypeVacation, days)
	return err
}

// Delete implements overtime.RequestService.
func (s *RequestServiceImpl) Delete(ctx context.Context, id string) error {
	return s.RequestRepository.Delete(ctx, id)
}

// Get implements overtime.RequestService.
func (s *RequestServiceImpl) Get(ctx context.Context, id string) (overtime.Response, error) {
	req, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return overtime.Response{}, err
	}
	return toResponse(req), nil
}

// List implements overtime.RequestService.
func (s *RequestServiceImpl) List(ctx context.Context, filter overtime.ListFilter) (overtime.ListResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Page == 0 {
		filter.Page = 1
	}

	requests, total, err := s.RequestRepository.List(ctx, filter)
	if err != nil {
		return overtime.ListResponse{}, err
	}

	responses := make([]overtime.Response, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, toResponse(req))
	}

	return overtime.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Requests:   responses,
	}, nil
}

func toResponse(req overtime.Request) overtime.Response {
	var approvedAt *string
	if req.ApprovedAt != nil {
		formatted := req.ApprovedAt.Format(time.RFC3339)
		approvedAt = &formatted
	}

	return overtime.Response{
		ID:             req.ID,
		EmployeeID:     req.EmployeeID,
		EmployeeName:   req.EmployeeName,
		RequestDate:    req.RequestDate.Format("2006-01-02"),
		StartTime:      req.StartTime.String(),
		EndTime:        req.EndTime.String(),
		RequestedHours: req.RequestedHours,
		Reason:         req.Reason,
		Status:         string(req.Status),
		ApprovedBy:     req.ApprovedBy,
		ApprovedAt:     approvedAt,
		Comments:       req.Comments,
		CreatedAt:      req.CreatedAt.Format(time.RFC3339),
	}
}
