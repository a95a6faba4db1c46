package timecorrection

import (
	"context"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
)

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// HasPending feeds the duplicate check on (employee, date, session slot).
	HasPending(ctx context.Context, employeeID string, date time.Time, sessionType attendance.SessionType) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]Request, int64, error)
	// UpdateStatus asserts the prior status was pending; a lost race
	// surfaces as ErrAlreadyProcessed.
	UpdateStatus(ctx context.Context, id string, status Status, approverID string, approvedAt time.Time, comments *string) (Request, error)
	Delete(ctx context.Context, id string) error
}
