package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

type BalanceRepository interface {
	// AddDays upserts-and-increments in a single statement so concurrent
	// accruals (two overtime approvals landing together) cannot lose an
	// update.
	AddDays(ctx context.Context, employeeID string, leaveType Type, days decimal.Decimal) (Balance, error)
	// ConsumeDays decrements only when the balance covers the requested
	// days, as one guarded statement. consumed=false means the balance was
	// short and nothing changed.
	ConsumeDays(ctx context.Context, employeeID string, leaveType Type, days decimal.Decimal) (Balance, bool, error)
	Get(ctx context.Context, employeeID string, leaveType Type) (Balance, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Balance, error)
	// Set overwrites the balance (HR bulk upsert path only).
	Set(ctx context.Context, employeeID string, leaveType Type, days decimal.Decimal) (Balance, error)
}
