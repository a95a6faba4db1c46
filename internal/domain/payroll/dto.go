package payroll

type GeneratePeriodRequest struct {
	PeriodID string `json:"period_id"`
}

type RecordResponse struct {
	ID                 string  `json:"id"`
	PayrollPeriodID    string  `json:"payroll_period_id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	BaseSalary         string  `json:"base_salary"`
	TotalWorkedHours   float64 `json:"total_worked_hours"`
	TotalRegularHours  float64 `json:"total_regular_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	TotalLateHours     float64 `json:"total_late_hours"`
	LateDeductions     string  `json:"late_deductions"`
	GrossPay           string  `json:"gross_pay"`
	NetPay             string  `json:"net_pay"`
	TotalDeductions    string  `json:"total_deductions"`
	TotalBenefits      string  `json:"total_benefits"`
	Status             string  `json:"status"`
}

type PeriodTotalsResponse struct {
	PeriodID      string  `json:"period_id"`
	EmployeeID    string  `json:"employee_id"`
	WorkedHours   float64 `json:"worked_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	LateHours     float64 `json:"late_hours"`
}
