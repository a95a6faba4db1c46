package payroll

import "context"

type Service interface {
	// Generate materializes draft records for every active employee in the
	// period from the attendance hour totals. Existing drafts are
	// regenerated; processed records are left alone.
	Generate(ctx context.Context, periodID string) ([]RecordResponse, error)
	PeriodTotals(ctx context.Context, periodID, employeeID string) (PeriodTotalsResponse, error)
	ListByPeriod(ctx context.Context, periodID string) ([]RecordResponse, error)
	Process(ctx context.Context, recordID string) error
	MarkPaid(ctx context.Context, recordID string) error
}
