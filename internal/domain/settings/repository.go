package settings

import (
	"context"
	"errors"
)

var ErrSettingNotFound = errors.New("setting not found")

const (
	// KeyOvertimeToLeaveRatio is the decimal-string ratio credited to the
	// vacation balance per approved overtime hour when the accrual rule is
	// enabled. Read at approval time, not cached.
	KeyOvertimeToLeaveRatio = "overtime_to_leave_ratio"

	// DefaultOvertimeToLeaveRatio is 1 leave day per 8 overtime hours.
	DefaultOvertimeToLeaveRatio = "0.125"
)

type Repository interface {
	Get(ctx context.Context, key string) (string, error)
}
