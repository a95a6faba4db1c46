package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

type LedgerService interface {
	AddLeaveDays(ctx context.Context, employeeID string, leaveType Type, days decimal.Decimal) (Balance, error)
	// UseLeaveDays is a no-op returning consumed=false when the balance is
	// short; the balance never goes below zero.
	UseLeaveDays(ctx context.Context, employeeID string, leaveType Type, days decimal.Decimal) (Balance, bool, error)
	Balances(ctx context.Context, employeeID string) ([]Balance, error)
	SetBalance(ctx context.Context, employeeID string, leaveType Type, days decimal.Decimal) (Balance, error)
}
