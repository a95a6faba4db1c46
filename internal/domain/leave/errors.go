package leave

import "errors"

var (
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrInvalidLeaveType    = errors.New("invalid leave type")
	ErrNonPositiveDays     = errors.New("days must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
)
