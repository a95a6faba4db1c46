package overtime

import "context"

type RequestService interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	// Approve resolves a pending request. On approval the approved window is
	// appended to the day's attendance timeline and, when the accrual rule
	// is enabled, vacation leave is credited - all in one transaction.
	Approve(ctx context.Context, req ApproveRequest) (Response, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Response, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
}
