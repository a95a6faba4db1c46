package timecorrection

import (
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/timeofday"
)

// Request asks to fix one session slot's clock time on a past day.
// Same lifecycle shape as an overtime request: pending, resolved once,
// then immutable.
type Request struct {
	ID            string
	EmployeeID    string
	RequestDate   time.Time
	SessionType   attendance.SessionType
	RequestedTime timeofday.TimeOfDay
	Reason        string
	Status        Status
	ApprovedBy    *string
	ApprovedAt    *time.Time
	Comments      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)
