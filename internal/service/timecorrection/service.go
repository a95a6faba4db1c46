package timecorrection

import (
	"context"
	"errors"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/timecorrection"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/timeofday"
)

type RequestServiceImpl struct {
	tx database.TxRunner
	timecorrection.RequestRepository
	records  attendance.RecordRepository
	sessions attendance.SessionRepository
	employee.EmployeeRepository
}

func NewRequestService(
	tx database.TxRunner,
	requests timecorrection.RequestRepository,
	records attendance.RecordRepository,
	sessions attendance.SessionRepository,
	employees employee.EmployeeRepository,
) timecorrection.RequestService {
	return &RequestServiceImpl{
		tx:                 tx,
		RequestRepository:  requests,
		records:            records,
		sessions:           sessions,
		EmployeeRepository: employees,
	}
}

// Create implements timecorrection.RequestService.
func (s *RequestServiceImpl) Create(ctx context.Context, req timecorrection.CreateRequest) (timecorrection.Response, error) {
	if err := req.Validate(); err != nil {
		return timecorrection.Response{}, err
	}

	sessionType := attendance.SessionType(req.SessionType)
	if sessionType == attendance.SessionOvertime {
		// Overtime blocks come from approved requests; they are corrected
		// by deleting and re-requesting, not through this workflow.
		return timecorrection.Response{}, attendance.ErrInvalidSessionType
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return timecorrection.Response{}, err
	}
	if !emp.IsActive() {
		return timecorrection.Response{}, employee.ErrEmployeeInactive
	}

	requestDate, _ := time.Parse("2006-01-02", req.RequestDate)
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if requestDate.After(today) {
		return timecorrection.Response{}, timecorrection.ErrFutureDateNotAllowed
	}

	hasPending, err := s.RequestRepository.HasPending(ctx, req.EmployeeID, requestDate, sessionType)
	if err != nil {
		return timecorrection.Response{}, err
	}
	if hasPending {
		return timecorrection.Response{}, timecorrection.ErrDuplicatePendingRequest
	}

	requestedTime, _ := timeofday.Parse(req.RequestedTime)
	created, err := s.RequestRepository.Create(ctx, timecorrection.Request{
		EmployeeID:    req.EmployeeID,
		RequestDate:   requestDate,
		SessionType:   sessionType,
		RequestedTime: requestedTime,
		Reason:        req.Reason,
		Status:        timecorrection.StatusPending,
	})
	if err != nil {
		return timecorrection.Response{}, err
	}

	return toResponse(created), nil
}

// Approve implements timecorrection.RequestService. An approval rewrites
// the named session slot (creating it if the punch was missed entirely)
// and recomputes the day, all in one transaction.
func (s *RequestServiceImpl) Approve(ctx context.Context, req timecorrection.ApproveRequest) (timecorrection.Response, error) {
	status := timecorrection.StatusRejected
	if req.Approved {
		status = timecorrection.StatusApproved
	}

	var updated timecorrection.Request
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.RequestRepository.UpdateStatus(ctx, req.ID, status, req.ApproverID, time.Now().UTC(), req.Comments)
		if err != nil {
			return err
		}

		if !req.Approved {
			return nil
		}

		return s.applyCorrection(ctx, updated)
	})
	if err != nil {
		return timecorrection.Response{}, err
	}

	return toResponse(updated), nil
}

func (s *RequestServiceImpl) applyCorrection(ctx context.Context, req timecorrection.Request) error {
	record, err := s.getOrCreateRecord(ctx, req.EmployeeID, req.RequestDate)
	if err != nil {
		return err
	}

	if err := s.records.Lock(ctx, record.ID); err != nil {
		return err
	}

	corrected := req.RequestedTime.On(req.RequestDate, time.UTC)

	session, err := s.sessions.GetBySlot(ctx, record.ID, req.SessionType)
	switch {
	case err == nil:
		var clockIn, clockOut *time.Time
		if req.SessionType.IsIn() {
			clockIn = &corrected
		} else {
			clockOut = &corrected
		}
		if err := s.sessions.UpdateTimes(ctx, session.ID, clockIn, clockOut); err != nil {
			return err
		}
	case errors.Is(err, attendance.ErrSessionNotFound):
		session := attendance.Session{
			RecordID:    record.ID,
			SessionType: req.SessionType,
		}
		if req.SessionType.IsIn() {
			session.ClockIn = &corrected
		} else {
			session.ClockOut = &corrected
		}
		if _, err := s.sessions.Create(ctx, session); err != nil {
			return err
		}
	default:
		return err
	}

	return s.recomputeDay(ctx, record.ID)
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

func (s *RequestServiceImpl) recomputeDay(ctx context.Context, recordID string) error {
	sessions, err := s.sessions.ListByRecord(ctx, recordID)
	if err != nil {
		return err
	}

	totals := attendance.CalculateDay(sessions)
	if err := s.records.UpdateStatus(ctx, recordID, totals.Status); err != nil {
		return err
	}

	for id, hours := range attendance.SessionHours(sessions) {
		for _, sess := range sessions {
			if sess.ID == id && sess.CalculatedHours != hours {
				if err := s.sessions.UpdateCalculatedHours(ctx, id, hours); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// Delete implements timecorrection.RequestService.
func (s *RequestServiceImpl) Delete(ctx context.Context, id string) error {
	return s.RequestRepository.Delete(ctx, id)
}

// Get implements timecorrection.RequestService.
func (s *RequestServiceImpl) Get(ctx context.Context, id string) (timecorrection.Response, error) {
	req, err := s.RequestRepository.GetByID(ctx, id)
	if err != nil {
		return timecorrection.Response{}, err
	}
	return toResponse(req), nil
}

// List implements timecorrection.RequestService.
func (s *RequestServiceImpl) List(ctx context.Context, filter timecorrection.ListFilter) (timecorrection.ListResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Page == 0 {
		filter.Page = 1
	}

	requests, total, err := s.RequestRepository.List(ctx, filter)
	if err != nil {
		return timecorrection.ListResponse{}, err
	}

	responses := make([]timecorrection.Response, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, toResponse(req))
	}

	return timecorrection.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		Requests:   responses,
	}, nil
}

func toResponse(req timecorrection.Request) timecorrection.Response {
	var approvedAt *string
	if req.ApprovedAt != nil {
		formatted := req.ApprovedAt.Format(time.RFC3339)
		approvedAt = &formatted
	}

	return timecorrection.Response{
		ID:            req.ID,
		EmployeeID:    req.EmployeeID,
		EmployeeName:  req.EmployeeName,
		RequestDate:   req.RequestDate.Format("2006-01-02"),
		SessionType:   string(req.SessionType),
		RequestedTime: req.RequestedTime.String(),
		Reason:        req.Reason,
		Status:        string(req.Status),
		ApprovedBy:    req.ApprovedBy,
		ApprovedAt:    approvedAt,
		Comments:      req.Comments,
		CreatedAt:     req.CreatedAt.Format(time.RFC3339),
	}
}
