package overtime

import (
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/timeofday"
)

// Request is an employee-submitted ask for pre-approved extra hours.
// Lifecycle: created pending, flipped exactly once by an approver, then
// immutable except for its own approval metadata.
type Request struct {
	ID             string
	EmployeeID     string
	RequestDate    time.Time
	StartTime      timeofday.TimeOfDay
	EndTime        timeofday.TimeOfDay
	RequestedHours float64
	Reason         string
	Status         Status
	ApprovedBy     *string
	ApprovedAt     *time.Time
	Comments       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	EmployeeName *string
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Overlaps reports whether two requests' [start,end) windows intersect.
func (r Request) Overlaps(other Request) bool {
	return timeofday.Overlaps(r.StartTime, r.EndTime, other.StartTime, other.EndTime)
}
