package timecorrection

import "context"

type RequestService interface {
	Create(ctx context.Context, req CreateRequest) (Response, error)
	// Approve overwrites or creates the named session slot and recomputes
	// the day's status through the hours calculator, in one transaction.
	Approve(ctx context.Context, req ApproveRequest) (Response, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Response, error)
	List(ctx context.Context, filter ListFilter) (ListResponse, error)
}
