package payroll

import "errors"

var (
	ErrPeriodNotFound     = errors.New("payroll period not found")
	ErrRecordNotFound     = errors.New("payroll record not found")
	ErrRecordNotDraft     = errors.New("payroll record is no longer a draft")
	ErrRecordNotProcessed = errors.New("payroll record has not been processed")
	ErrMissingBaseSalary  = errors.New("employee has no base salary configured")
)
