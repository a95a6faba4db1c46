package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the running entitlement of paid days off for one
// (employee, leave type). Mutated additively or subtractively, never
// overwritten destructively except by the HR bulk upsert.
type Balance struct {
	ID         string
	EmployeeID string
	LeaveType  Type
	Balance    decimal.Decimal
	UpdatedAt  time.Time
}

type Type string

const (
	TypeVacation  Type = "vacation"
	TypeSick      Type = "sick"
	TypeMaternity Type = "maternity"
	TypeOther     Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeVacation, TypeSick, TypeMaternity, TypeOther:
		return true
	}
	return false
}
