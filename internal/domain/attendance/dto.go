package attendance

import (
	"fmt"
	"strings"
	"time"
)

type ClockEventRequest struct {
	EmployeeID  string     `json:"employee_id"`
	SessionType string     `json:"session_type"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	SelfieData  string     `json:"selfie_data,omitempty"`
	QRCodeHash  *string    `json:"qr_code_hash,omitempty"`
}

func (r ClockEventRequest) Validate() error {
	if r.EmployeeID == "" {
		return fmt.Errorf("employee_id is required")
	}
	if !SessionType(r.SessionType).Valid() {
		return ErrInvalidSessionType
	}
	if r.SelfieData != "" && !strings.HasPrefix(r.SelfieData, "data:") {
		return fmt.Errorf("selfie_data must be a data URI")
	}
	return nil
}

type SessionResponse struct {
	ID              string  `json:"id"`
	SessionType     string  `json:"session_type"`
	ClockIn         *string `json:"clock_in,omitempty"`
	ClockOut        *string `json:"clock_out,omitempty"`
	SelfiePath      *string `json:"selfie_path,omitempty"`
	CalculatedHours float64 `json:"calculated_hours"`
}

type DayResponse struct {
	RecordID      string            `json:"record_id"`
	EmployeeID    string            `json:"employee_id"`
	Date          string            `json:"date"`
	OverallStatus string            `json:"overall_status"`
	TotalHours    float64           `json:"total_hours"`
	RegularHours  float64           `json:"regular_hours"`
	OvertimeHours float64           `json:"overtime_hours"`
	LateHours     float64           `json:"late_hours"`
	Sessions      []SessionResponse `json:"sessions"`
}

// ClockStateResponse tells a client which punch comes next. NextAction is
// "clock_in" when the day is balanced (or empty) and "clock_out" when the
// latest session is an open in-half.
type ClockStateResponse struct {
	EmployeeID    string           `json:"employee_id"`
	Date          string           `json:"date"`
	NextAction    string           `json:"next_action"`
	LatestSession *SessionResponse `json:"latest_session,omitempty"`
}

type HistoryFilter struct {
	EmployeeID string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
	SortOrder  string
}

type HistoryResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Days       []DayResponse `json:"days"`
}

type SummaryResponse struct {
	EmployeeID  string  `json:"employee_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	PresentDays int     `json:"present_days"`
	LateDays    int     `json:"late_days"`
	PartialDays int     `json:"partial_days"`
	AbsentDays  int     `json:"absent_days"`
	TotalHours  float64 `json:"total_hours"`
}
