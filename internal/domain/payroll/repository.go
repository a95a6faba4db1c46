package payroll

import (
	"context"
	"time"
)

type Repository interface {
	GetPeriod(ctx context.Context, id string) (Period, error)
	// HourTotalsForEmployee sums the attendance timeline's calculated hours
	// over [from, to]. This is the payroll input contract: re-running it
	// after any timeline mutation yields the current truth.
	HourTotalsForEmployee(ctx context.Context, employeeID string, from, to time.Time) (HourTotals, error)
	// UpsertRecord replaces the draft for (period, employee); it must not
	// touch records that are already processed or paid.
	UpsertRecord(ctx context.Context, rec Record) (Record, error)
	GetRecord(ctx context.Context, periodID, employeeID string) (Record, error)
	ListByPeriod(ctx context.Context, periodID string) ([]Record, error)
	// TransitionStatus moves a record along draft -> processed -> paid,
	// asserting the prior status in the update itself.
	TransitionStatus(ctx context.Context, id string, from, to Status) error
}
