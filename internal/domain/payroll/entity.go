package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one pay period. Attendance totals are summed over its
// [StartDate, EndDate] calendar days.
type Period struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}

// Record is one employee's computed pay for one period. Derived from the
// attendance timeline; never hand-edited once processed.
type Record struct {
	ID                 string
	PayrollPeriodID    string
	EmployeeID         string
	BaseSalary         decimal.Decimal
	TotalWorkedHours   float64
	TotalRegularHours  float64
	TotalOvertimeHours float64
	TotalLateHours     float64
	LateDeductions     decimal.Decimal
	GrossPay           decimal.Decimal
	NetPay             decimal.Decimal
	TotalDeductions    decimal.Decimal
	TotalBenefits      decimal.Decimal
	Status             Status
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	EmployeeName *string
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusProcessed Status = "processed"
	StatusPaid      Status = "paid"
)

// HourTotals is the attendance-derived input contract for one employee in
// one period, re-derivable at any time by summing calculator outputs.
type HourTotals struct {
	WorkedHours   float64
	RegularHours  float64
	OvertimeHours float64
	LateHours     float64
}
