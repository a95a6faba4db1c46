package attendance

import (
	"context"
	"time"
)

type RecordRepository interface {
	// Create inserts a new day record with the given default status.
	// Returns ErrDuplicateRecord when (employee, date) already exists so
	// concurrent creators can re-fetch instead of failing.
	Create(ctx context.Context, employeeID string, date time.Time, status DayStatus) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)
	// Lock takes the record's row lock; callers hold it for the rest of the
	// transaction to serialize concurrent session appends.
	Lock(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status DayStatus) error
	ListByEmployeeAndRange(ctx context.Context, filter HistoryFilter) ([]Record, int64, error)
	// Summarize counts day statuses and sums calculated hours over a range.
	// Absent days are derived by the caller from the calendar.
	Summarize(ctx context.Context, employeeID string, from, to time.Time) (Summary, error)
}

type SessionRepository interface {
	// Create inserts a session. Non-overtime slots are unique per record;
	// a duplicate slot surfaces as ErrDuplicateSession.
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	// ListByRecord returns the record's sessions ordered by clock time,
	// not by insertion sequence.
	ListByRecord(ctx context.Context, recordID string) ([]Session, error)
	// GetBySlot fetches the session occupying a non-overtime slot.
	GetBySlot(ctx context.Context, recordID string, sessionType SessionType) (Session, error)
	UpdateTimes(ctx context.Context, id string, clockIn, clockOut *time.Time) error
	UpdateCalculatedHours(ctx context.Context, id string, hours float64) error
	// LatestForDay returns the employee's most recent session on a date,
	// used to derive the current clock state.
	LatestForDay(ctx context.Context, employeeID string, date time.Time) (Session, error)
}
