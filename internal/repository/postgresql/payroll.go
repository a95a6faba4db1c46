package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/attendance"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/payroll"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

const payrollRecordColumns = `
	id, payroll_period_id, employee_id, base_salary::text,
	total_worked_hours, total_regular_hours, total_overtime_hours, total_late_hours,
	late_deductions::text, gross_pay::text, net_pay::text,
	total_deductions::text, total_benefits::text,
	status, created_at, updated_at
`

func scanPayrollRecord(row pgx.Row, withEmployee bool) (payroll.Record, error) {
	var rec payroll.Record
	var baseSalary, lateDeductions, grossPay, netPay, totalDeductions, totalBenefits string

	dest := []interface{}{
		&rec.ID, &rec.PayrollPeriodID, &rec.EmployeeID, &baseSalary,
		&rec.TotalWorkedHours, &rec.TotalRegularHours, &rec.TotalOvertimeHours, &rec.TotalLateHours,
		&lateDeductions, &grossPay, &netPay,
		&totalDeductions, &totalBenefits,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &rec.EmployeeName)
	}

	if err := row.Scan(dest...); err != nil {
		return payroll.Record{}, err
	}

	for _, field := range []struct {
		raw  string
		dst  *decimal.Decimal
		name string
	}{
		{baseSalary, &rec.BaseSalary, "base salary"},
		{lateDeductions, &rec.LateDeductions, "late deductions"},
		{grossPay, &rec.GrossPay, "gross pay"},
		{netPay, &rec.NetPay, "net pay"},
		{totalDeductions, &rec.TotalDeductions, "total deductions"},
		{totalBenefits, &rec.TotalBenefits, "total benefits"},
	} {
		parsed, err := decimal.NewFromString(field.raw)
		if err != nil {
			return payroll.Record{}, fmt.Errorf("failed to parse %s: %w", field.name, err)
		}
		*field.dst = parsed
	}

	return rec, nil
}

// GetPeriod implements payroll.Repository.
func (r *payrollRepository) GetPeriod(ctx context.Context, id string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_date, end_date, created_at
		FROM payroll_periods
		WHERE id = $1
	`

	var p payroll.Period
	err := q.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

// HourTotalsForEmployee implements payroll.Repository. Regular and overtime
// hours split on session type; late hours are derived per day as the
// shortfall against the standard day, matching the calculator. Records
// without any session are absent days, not eight late hours, so they are
// kept out of the per-day sums.
func (r *payrollRepository) HourTotalsForEmployee(ctx context.Context, employeeID string, from, to time.Time) (payroll.HourTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(d.regular_hours + d.overtime_hours), 0),
			COALESCE(SUM(d.regular_hours), 0),
			COALESCE(SUM(d.overtime_hours), 0),
			COALESCE(SUM(GREATEST($4 - d.regular_hours, 0)), 0)
		FROM (
			SELECT
				COALESCE(SUM(s.calculated_hours) FILTER (WHERE s.session_type <> 'overtime'), 0) AS regular_hours,
				COALESCE(SUM(s.calculated_hours) FILTER (WHERE s.session_type = 'overtime'), 0) AS overtime_hours
			FROM attendance_records r
			LEFT JOIN attendance_sessions s ON s.record_id = r.id
			WHERE r.employee_id = $1 AND r.date BETWEEN $2 AND $3
			GROUP BY r.id
			HAVING COUNT(s.id) > 0
		) d
	`

	var totals payroll.HourTotals
	err := q.QueryRow(ctx, query, employeeID, from, to, attendance.StandardDayHours).Scan(
		&totals.WorkedHours, &totals.RegularHours, &totals.OvertimeHours, &totals.LateHours,
	)
	if err != nil {
		return payroll.HourTotals{}, fmt.Errorf("failed to sum hour totals: %w", err)
	}

	return totals, nil
}

// UpsertRecord implements payroll.Repository. The conflict branch only
// rewrites drafts; a processed or paid record blocks regeneration.
func (r *payrollRepository) UpsertRecord(ctx context.Context, rec payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_records (
			payroll_period_id, employee_id, base_salary,
			total_worked_hours, total_regular_hours, total_overtime_hours, total_late_hours,
			late_deductions, gross_pay, net_pay, total_deductions, total_benefits, status
		) VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8::numeric, $9::numeric, $10::numeric, $11::numeric, $12::numeric, 'draft')
		ON CONFLICT (payroll_period_id, employee_id)
		DO UPDATE SET
			base_salary = EXCLUDED.base_salary,
			total_worked_hours = EXCLUDED.total_worked_hours,
			total_regular_hours = EXCLUDED.total_regular_hours,
			total_overtime_hours = EXCLUDED.total_overtime_hours,
			total_late_hours = EXCLUDED.total_late_hours,
			late_deductions = EXCLUDED.late_deductions,
			gross_pay = EXCLUDED.gross_pay,
			net_pay = EXCLUDED.net_pay,
			total_deductions = EXCLUDED.total_deductions,
			total_benefits = EXCLUDED.total_benefits,
			updated_at = now()
		WHERE payroll_records.status = 'draft'
		RETURNING ` + payrollRecordColumns

	saved, err := scanPayrollRecord(q.QueryRow(ctx, query,
		rec.PayrollPeriodID, rec.EmployeeID, rec.BaseSalary.String(),
		rec.TotalWorkedHours, rec.TotalRegularHours, rec.TotalOvertimeHours, rec.TotalLateHours,
		rec.LateDeductions.String(), rec.GrossPay.String(), rec.NetPay.String(),
		rec.TotalDeductions.String(), rec.TotalBenefits.String(),
	), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotDraft
		}
		return payroll.Record{}, fmt.Errorf("failed to upsert payroll record: %w", err)
	}

	return saved, nil
}

// GetRecord implements payroll.Repository.
func (r *payrollRepository) GetRecord(ctx context.Context, periodID, employeeID string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.payroll_period_id, p.employee_id, p.base_salary::text,
			   p.total_worked_hours, p.total_regular_hours, p.total_overtime_hours, p.total_late_hours,
			   p.late_deductions::text, p.gross_pay::text, p.net_pay::text,
			   p.total_deductions::text, p.total_benefits::text,
			   p.status, p.created_at, p.updated_at,
			   e.full_name AS employee_name
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.payroll_period_id = $1 AND p.employee_id = $2
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, periodID, employeeID), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

// ListByPeriod implements payroll.Repository.
func (r *payrollRepository) ListByPeriod(ctx context.Context, periodID string) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.payroll_period_id, p.employee_id, p.base_salary::text,
			   p.total_worked_hours, p.total_regular_hours, p.total_overtime_hours, p.total_late_hours,
			   p.late_deductions::text, p.gross_pay::text, p.net_pay::text,
			   p.total_deductions::text, p.total_benefits::text,
			   p.status, p.created_at, p.updated_at,
			   e.full_name AS employee_name
		FROM payroll_records p
		LEFT JOIN employees e ON e.id = p.employee_id
		WHERE p.payroll_period_id = $1
		ORDER BY e.full_name NULLS LAST, p.employee_id
	`

	rows, err := q.Query(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	records := make([]payroll.Record, 0)
	for rows.Next() {
		rec, err := scanPayrollRecord(rows, true)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

// TransitionStatus implements payroll.Repository. The update asserts the
// prior status, so draft -> processed -> paid cannot skip or repeat a step.
func (r *payrollRepository) TransitionStatus(ctx context.Context, id string, from, to payroll.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id, from, to).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payroll_records WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
				return fmt.Errorf("failed to check payroll record: %w", checkErr)
			}
			if !exists {
				return payroll.ErrRecordNotFound
			}
			if from == payroll.StatusDraft {
				return payroll.ErrRecordNotDraft
			}
			return payroll.ErrRecordNotProcessed
		}
		return fmt.Errorf("failed to transition payroll record status: %w", err)
	}

	return nil
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}
