package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/nimbus-hr/attendance-backend-go/internal/service/file"
)

type TimelineServiceImpl struct {
	tx database.TxRunner
	attendance.RecordRepository
	attendance.SessionRepository
	employee.EmployeeRepository
	fileService file.FileService
	logger      *slog.Logger
}

func NewTimelineService(
	tx database.TxRunner,
	records attendance.RecordRepository,
	sessions attendance.SessionRepository,
	employees employee.EmployeeRepository,
	fileService file.FileService,
	logger *slog.Logger,
) attendance.TimelineService {
	return &TimelineServiceImpl{
		tx:                 tx,
		RecordRepository:   records,
		SessionRepository:  sessions,
		EmployeeRepository: employees,
		fileService:        fileService,
		logger:             logger,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// ClockEvent implements attendance.TimelineService.
func (s *TimelineServiceImpl) ClockEvent(ctx context.Context, req attendance.ClockEventRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	sessionType := attendance.SessionType(req.SessionType)
	if sessionType == attendance.SessionOvertime {
		// Overtime blocks enter the timeline through approval, never
		// through the clock.
		return attendance.DayResponse{}, attendance.ErrInvalidSessionType
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if !emp.IsActive() {
		return attendance.DayResponse{}, employee.ErrEmployeeInactive
	}

	eventTime := time.Now().UTC()
	if req.Timestamp != nil {
		eventTime = req.Timestamp.UTC()
	}
	date := time.Date(eventTime.Year(), eventTime.Month(), eventTime.Day(), 0, 0, 0, 0, time.UTC)

	// Best-effort proof photo: a storage failure is logged, never blocks
	// the punch.
	var selfiePath *string
	if req.SelfieData != "" {
		path, upErr := s.fileService.UploadSelfie(ctx, req.EmployeeID, date, req.SelfieData)
		if upErr != nil {
			s.logger.Warn("selfie upload failed, recording punch without proof",
				slog.String("employee_id", req.EmployeeID),
				slog.String("error", upErr.Error()),
			)
		} else {
			selfiePath = &path
		}
	}

	record, err := s.getOrCreateRecord(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// The row lock serializes concurrent punches on the same day.
		if err := s.RecordRepository.Lock(ctx, record.ID); err != nil {
			return err
		}

		session := attendance.Session{
			RecordID:    record.ID,
			SessionType: sessionType,
			SelfiePath:  selfiePath,
			QRCodeHash:  req.QRCodeHash,
		}
		if sessionType.IsIn() {
			session.ClockIn = &eventTime
		} else {
			session.ClockOut = &eventTime
		}

		if _, err := s.SessionRepository.Create(ctx, session); err != nil {
			return err
		}

		return s.recomputeDay(ctx, record.ID)
	})
	if err != nil {
		// The proof photo was persisted before the transaction; don't
		// leave it orphaned when the punch itself is rolled back.
		if selfiePath != nil {
			if delErr := s.fileService.DeleteFile(ctx, *selfiePath); delErr != nil {
				s.logger.Warn("failed to remove selfie of rejected punch",
					slog.String("path", *selfiePath),
					slog.String("error", delErr.Error()),
				)
			}
		}
		return attendance.DayResponse{}, err
	}

	return s.buildDayResponse(ctx, record.ID)
}

// getOrCreateRecord creates the day record lazily; a concurrent creator
// winning the insert race is fine, we just re-fetch its row.
func (s *TimelineServiceImpl) getOrCreateRecord(ctx context.Context, employeeID string, date time.Time) (attendance.Record, error) {
	record, err := s.RecordRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, attendance.ErrRecordNotFound) {
		return attendance.Record{}, err
	}

	record, err = s.RecordRepository.Create(ctx, employeeID, date, attendance.StatusAbsent)
	if err == nil {
		return record, nil
	}
	if errors.Is(err, attendance.ErrDuplicateRecord) {
		return s.RecordRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	}
	return attendance.Record{}, err
}

// recomputeDay reruns the calculator over the day's sessions and writes
// back the derived status and per-session hours.
func (s *TimelineServiceImpl) recomputeDay(ctx context.Context, recordID string) error {
	sessions, err := s.SessionRepository.ListByRecord(ctx, recordID)
	if err != nil {
		return err
	}

	totals := attendance.CalculateDay(sessions)
	if err := s.RecordRepository.UpdateStatus(ctx, recordID, totals.Status); err != nil {
		return err
	}

	for id, hours := range attendance.SessionHours(sessions) {
		for _, sess := range sessions {
			if sess.ID == id && sess.CalculatedHours != hours {
				if err := s.SessionRepository.UpdateCalculatedHours(ctx, id, hours); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// GetDay implements attendance.TimelineService.
func (s *TimelineServiceImpl) GetDay(ctx context.Context, employeeID string, date string) (attendance.DayResponse, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}

	record, err := s.RecordRepository.GetByEmployeeAndDate(ctx, employeeID, parsed)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	return s.buildDayResponse(ctx, record.ID)
}

// ClockState implements attendance.TimelineService. The next expected punch
// follows from the latest session alone: an open in-half wants an out, any
// balanced or overtime tail wants the next in.
func (s *TimelineServiceImpl) ClockState(ctx context.Context, employeeID string, date string) (attendance.ClockStateResponse, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return attendance.ClockStateResponse{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}

	state := attendance.ClockStateResponse{
		EmployeeID: employeeID,
		Date:       date,
		NextAction: "clock_in",
	}

	latest, err := s.SessionRepository.LatestForDay(ctx, employeeID, parsed)
	if errors.Is(err, attendance.ErrSessionNotFound) {
		return state, nil
	}
	if err != nil {
		return attendance.ClockStateResponse{}, err
	}

	state.LatestSession = &attendance.SessionResponse{
		ID:              latest.ID,
		SessionType:     string(latest.SessionType),
		ClockIn:         timePtrToString(latest.ClockIn),
		ClockOut:        timePtrToString(latest.ClockOut),
		SelfiePath:      latest.SelfiePath,
		CalculatedHours: latest.CalculatedHours,
	}
	if latest.SessionType.IsIn() {
		state.NextAction = "clock_out"
	}

	return state, nil
}

// History implements attendance.TimelineService.
func (s *TimelineServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	if filter.Page == 0 {
		filter.Page = 1
	}

	records, total, err := s.RecordRepository.ListByEmployeeAndRange(ctx, filter)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	days := make([]attendance.DayResponse, 0, len(records))
	for _, record := range records {
		day, err := s.dayResponseFor(ctx, record)
		if err != nil {
			return attendance.HistoryResponse{}, err
		}
		days = append(days, day)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.HistoryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Days:       days,
	}, nil
}

// Summary implements attendance.TimelineService.
func (s *TimelineServiceImpl) Summary(ctx context.Context, employeeID string, startDate, endDate string) (attendance.SummaryResponse, error) {
	from, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
	}
	to, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("end_date must be YYYY-MM-DD: %w", err)
	}
	if to.Before(from) {
		return attendance.SummaryResponse{}, fmt.Errorf("end_date must not be before start_date")
	}

	summary, err := s.RecordRepository.Summarize(ctx, employeeID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	// Absence is derived, not stored: a weekday in range with no record at
	// all counts as absent.
	absent := businessDays(from, to) - summary.PresentDays - summary.LateDays - summary.PartialDays
	if absent < 0 {
		absent = 0
	}

	return attendance.SummaryResponse{
		EmployeeID:  employeeID,
		StartDate:   startDate,
		EndDate:     endDate,
		PresentDays: summary.PresentDays,
		LateDays:    summary.LateDays,
		PartialDays: summary.PartialDays,
		AbsentDays:  absent,
		TotalHours:  summary.TotalHours,
	}, nil
}

func businessDays(from, to time.Time) int {
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

func (s *TimelineServiceImpl) buildDayResponse(ctx context.Context, recordID string) (attendance.DayResponse, error) {
	record, err := s.RecordRepository.GetByID(ctx, recordID)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	return s.dayResponseFor(ctx, record)
}

func (s *TimelineServiceImpl) dayResponseFor(ctx context.Context, record attendance.Record) (attendance.DayResponse, error) {
	sessions, err := s.SessionRepository.ListByRecord(ctx, record.ID)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	totals := attendance.CalculateDay(sessions)

	sessionResponses := make([]attendance.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		sessionResponses = append(sessionResponses, attendance.SessionResponse{
			ID:              sess.ID,
			SessionType:     string(sess.SessionType),
			ClockIn:         timePtrToString(sess.ClockIn),
			ClockOut:        timePtrToString(sess.ClockOut),
			SelfiePath:      sess.SelfiePath,
			CalculatedHours: sess.CalculatedHours,
		})
	}

	return attendance.DayResponse{
		RecordID:      record.ID,
		EmployeeID:    record.EmployeeID,
		Date:          record.Date.Format("2006-01-02"),
		OverallStatus: string(record.OverallStatus),
		TotalHours:    totals.TotalHours,
		RegularHours:  totals.RegularHours,
		OvertimeHours: totals.OvertimeHours,
		LateHours:     totals.LateHours,
		Sessions:      sessionResponses,
	}, nil
}
