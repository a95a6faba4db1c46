package payroll

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/payroll"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

var (
	// monthlyWorkHours converts a monthly base salary to an hourly rate.
	monthlyWorkHours = decimal.NewFromInt(173)

	// overtimeMultiplier is the premium applied to overtime hours.
	overtimeMultiplier = decimal.NewFromFloat(1.5)
)

type ServiceImpl struct {
	tx database.TxRunner
	payroll.Repository
	employee.EmployeeRepository
	logger *slog.Logger
}

func NewService(
	tx database.TxRunner,
	repo payroll.Repository,
	employees employee.EmployeeRepository,
	logger *slog.Logger,
) payroll.Service {
	return &ServiceImpl{
		tx:                 tx,
		Repository:         repo,
		EmployeeRepository: employees,
		logger:             logger,
	}
}

// Generate implements payroll.Service. Every active employee gets a draft
// record computed from the attendance timeline; employees whose record is
// already processed or paid are left untouched.
func (s *ServiceImpl) Generate(ctx context.Context, periodID string) ([]payroll.RecordResponse, error) {
	period, err := s.Repository.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.RecordResponse, 0, len(employees))
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, emp := range employees {
			rec, err := s.computeRecord(ctx, period, emp)
			if err != nil {
				if errors.Is(err, payroll.ErrMissingBaseSalary) {
					s.logger.Warn("skipping employee without base salary",
						slog.String("employee_id", emp.ID),
						slog.String("period_id", period.ID),
					)
					continue
				}
				return err
			}

			saved, err := s.Repository.UpsertRecord(ctx, rec)
			if err != nil {
				if errors.Is(err, payroll.ErrRecordNotDraft) {
					s.logger.Info("leaving processed payroll record untouched",
						slog.String("employee_id", emp.ID),
						slog.String("period_id", period.ID),
					)
					continue
				}
				return err
			}

			responses = append(responses, toRecordResponse(saved))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return responses, nil
}

// computeRecord derives one employee's pay from the period's hour totals.
func (s *ServiceImpl) computeRecord(ctx context.Context, period payroll.Period, emp employee.Employee) (payroll.Record, error) {
	if emp.BaseSalary == nil {
		return payroll.Record{}, payroll.ErrMissingBaseSalary
	}

	totals, err := s.Repository.HourTotalsForEmployee(ctx, emp.ID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.Record{}, err
	}

	baseSalary := *emp.BaseSalary
	hourlyRate := baseSalary.Div(monthlyWorkHours)

	overtimePay := hourlyRate.Mul(overtimeMultiplier).Mul(decimal.NewFromFloat(totals.OvertimeHours))
	lateDeductions := hourlyRate.Mul(decimal.NewFromFloat(totals.LateHours))

	grossPay := baseSalary.Add(overtimePay)
	totalDeductions := lateDeductions
	totalBenefits := decimal.Zero
	netPay := grossPay.Sub(totalDeductions).Add(totalBenefits)

	return payroll.Record{
		PayrollPeriodID:    period.ID,
		EmployeeID:         emp.ID,
		BaseSalary:         baseSalary,
		TotalWorkedHours:   totals.WorkedHours,
		TotalRegularHours:  totals.RegularHours,
		TotalOvertimeHours: totals.OvertimeHours,
		TotalLateHours:     totals.LateHours,
		LateDeductions:     lateDeductions.Round(2),
		GrossPay:           grossPay.Round(2),
		NetPay:             netPay.Round(2),
		TotalDeductions:    totalDeductions.Round(2),
		TotalBenefits:      totalBenefits,
		Status:             payroll.StatusDraft,
	}, nil
}

// PeriodTotals implements payroll.Service.
func (s *ServiceImpl) PeriodTotals(ctx context.Context, periodID, employeeID string) (payroll.PeriodTotalsResponse, error) {
	period, err := s.Repository.GetPeriod(ctx, periodID)
	if err != nil {
		return payroll.PeriodTotalsResponse{}, err
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return payroll.PeriodTotalsResponse{}, err
	}

	totals, err := s.Repository.HourTotalsForEmployee(ctx, employeeID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.PeriodTotalsResponse{}, err
	}

	return payroll.PeriodTotalsResponse{
		PeriodID:      period.ID,
		EmployeeID:    employeeID,
		WorkedHours:   totals.WorkedHours,
		RegularHours:  totals.RegularHours,
		OvertimeHours: totals.OvertimeHours,
		LateHours:     totals.LateHours,
	}, nil
}

// ListByPeriod implements payroll.Service.
func (s *ServiceImpl) ListByPeriod(ctx context.Context, periodID string) ([]payroll.RecordResponse, error) {
	if _, err := s.Repository.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}

	records, err := s.Repository.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}

	return responses, nil
}

// Process implements payroll.Service.
func (s *ServiceImpl) Process(ctx context.Context, recordID string) error {
	return s.Repository.TransitionStatus(ctx, recordID, payroll.StatusDraft, payroll.StatusProcessed)
}

// MarkPaid implements payroll.Service.
func (s *ServiceImpl) MarkPaid(ctx context.Context, recordID string) error {
	return s.Repository.TransitionStatus(ctx, recordID, payroll.StatusProcessed, payroll.StatusPaid)
}

func toRecordResponse(rec payroll.Record) payroll.RecordResponse {
	return payroll.RecordResponse{
		ID:                 rec.ID,
		PayrollPeriodID:    rec.PayrollPeriodID,
		EmployeeID:         rec.EmployeeID,
		EmployeeName:       rec.EmployeeName,
		BaseSalary:         rec.BaseSalary.String(),
		TotalWorkedHours:   rec.TotalWorkedHours,
		TotalRegularHours:  rec.TotalRegularHours,
		TotalOvertimeHours: rec.TotalOvertimeHours,
		TotalLateHours:     rec.TotalLateHours,
		LateDeductions:     rec.LateDeductions.String(),
		GrossPay:           rec.GrossPay.String(),
		NetPay:             rec.NetPay.String(),
		TotalDeductions:    rec.TotalDeductions.String(),
		TotalBenefits:      rec.TotalBenefits.String(),
		Status:             string(rec.Status),
	}
}
