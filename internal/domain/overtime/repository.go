package overtime

import (
	"context"
	"time"
)

type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// ListPendingByEmployeeAndDate feeds the overlap check at create time.
	ListPendingByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Request, error)
	List(ctx context.Context, filter ListFilter) ([]Request, int64, error)
	// UpdateStatus flips pending to a terminal status. The update asserts the
	// prior status was pending; a lost race surfaces as ErrAlreadyProcessed.
	UpdateStatus(ctx context.Context, id string, status Status, approverID string, approvedAt time.Time, comments *string) (Request, error)
	// Delete removes a pending request. ErrCannotDeleteProcessed otherwise.
	Delete(ctx context.Context, id string) error
}
