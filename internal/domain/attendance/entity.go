package attendance

import (
	"time"
)

// Record is one employee's one calendar day of attendance. Created lazily on
// the first session of the day; OverallStatus is a derived field, recomputed
// whenever the day's sessions change.
type Record struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	OverallStatus DayStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

// Session is a typed clock event within a day. In-halves carry ClockIn,
// out-halves carry ClockOut, overtime rows carry the full approved window.
type Session struct {
	ID              string
	RecordID        string
	SessionType     SessionType
	ClockIn         *time.Time
	ClockOut        *time.Time
	SelfiePath      *string
	QRCodeHash      *string
	CalculatedHours float64
	CreatedAt       time.Time
}

type DayStatus string

const (
	StatusPresent DayStatus = "present"
	StatusLate    DayStatus = "late"
	StatusAbsent  DayStatus = "absent"
	StatusPartial DayStatus = "partial"
)

type SessionType string

const (
	SessionMorningIn    SessionType = "morning_in"
	SessionMorningOut   SessionType = "morning_out"
	SessionAfternoonIn  SessionType = "afternoon_in"
	SessionAfternoonOut SessionType = "afternoon_out"
	SessionOvertime     SessionType = "overtime"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionMorningIn, SessionMorningOut, SessionAfternoonIn, SessionAfternoonOut, SessionOvertime:
		return true
	}
	return false
}

// IsIn reports whether the type is an in-half carrying ClockIn.
func (t SessionType) IsIn() bool {
	return t == SessionMorningIn || t == SessionAfternoonIn
}

// IsOut reports whether the type is an out-half carrying ClockOut.
func (t SessionType) IsOut() bool {
	return t == SessionMorningOut || t == SessionAfternoonOut
}

// Summary aggregates a date range for dashboards and the payroll contract.
type Summary struct {
	PresentDays int
	LateDays    int
	PartialDays int
	AbsentDays  int
	TotalHours  float64
}
