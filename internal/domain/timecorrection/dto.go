package timecorrection

import (
	"fmt"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/timeofday"
)

type CreateRequest struct {
	EmployeeID    string `json:"employee_id"`
	RequestDate   string `json:"request_date"`
	SessionType   string `json:"session_type"`
	RequestedTime string `json:"requested_time"`
	Reason        string `json:"reason"`
}

func (r CreateRequest) Validate() error {
	if r.EmployeeID == "" {
		return fmt.Errorf("employee_id is required")
	}
	if _, err := time.Parse("2006-01-02", r.RequestDate); err != nil {
		return fmt.Errorf("request_date must be YYYY-MM-DD: %w", err)
	}
	if !attendance.SessionType(r.SessionType).Valid() {
		return attendance.ErrInvalidSessionType
	}
	if _, err := timeofday.Parse(r.RequestedTime); err != nil {
		return fmt.Errorf("requested_time: %w", err)
	}
	if r.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	return nil
}

type ApproveRequest struct {
	ID         string  `json:"-"`
	ApproverID string  `json:"-"`
	Approved   bool    `json:"approved"`
	Comments   *string `json:"comments,omitempty"`
}

type ListFilter struct {
	EmployeeID *string
	Status     *string
	Page       int
	Limit      int
}

type Response struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	RequestDate   string  `json:"request_date"`
	SessionType   string  `json:"session_type"`
	RequestedTime string  `json:"requested_time"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	ApprovedBy    *string `json:"approved_by,omitempty"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
	Comments      *string `json:"comments,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type ListResponse struct {
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
	Requests   []Response `json:"requests"`
}
