package leave

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type MutateBalanceRequest struct {
	LeaveType string `json:"leave_type"`
	Days      string `json:"days"`
}

func (r MutateBalanceRequest) Validate() error {
	if !Type(r.LeaveType).Valid() {
		return ErrInvalidLeaveType
	}
	if _, err := decimal.NewFromString(r.Days); err != nil {
		return fmt.Errorf("days must be a decimal number: %w", err)
	}
	return nil
}

type BalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	Balance    string `json:"balance"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

type ConsumeResponse struct {
	Consumed bool            `json:"consumed"`
	Balance  BalanceResponse `json:"balance"`
}
