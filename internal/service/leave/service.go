package leave

import (
	"context"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type LedgerServiceImpl struct {
	leave.BalanceRepository
	employee.EmployeeRepository
}

func NewLedgerService(
	balances leave.BalanceRepository,
	employees employee.EmployeeRepository,
) leave.LedgerService {
	return &LedgerServiceImpl{
		BalanceRepository:  balances,
		EmployeeRepository: employees,
	}
}

// AddLeaveDays implements leave.LedgerService.
func (s *LedgerServiceImpl) AddLeaveDays(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, error) {
	if !leaveType.Valid() {
		return leave.Balance{}, leave.ErrInvalidLeaveType
	}
	if !days.IsPositive() {
		return leave.Balance{}, leave.ErrNonPositiveDays
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.Balance{}, err
	}

	return s.BalanceRepository.AddDays(ctx, employeeID, leaveType, days)
}

// UseLeaveDays implements leave.LedgerService.
func (s *LedgerServiceImpl) UseLeaveDays(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, bool, error) {
	if !leaveType.Valid() {
		return leave.Balance{}, false, leave.ErrInvalidLeaveType
	}
	if !days.IsPositive() {
		return leave.Balance{}, false, leave.ErrNonPositiveDays
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.Balance{}, false, err
	}

	return s.BalanceRepository.ConsumeDays(ctx, employeeID, leaveType, days)
}

// Balances implements leave.LedgerService.
func (s *LedgerServiceImpl) Balances(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	return s.BalanceRepository.ListByEmployee(ctx, employeeID)
}

// SetBalance implements leave.LedgerService.
func (s *LedgerServiceImpl) SetBalance(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, error) {
	if !leaveType.Valid() {
		return leave.Balance{}, leave.ErrInvalidLeaveType
	}
	if days.IsNegative() {
		return leave.Balance{}, leave.ErrNonPositiveDays
	}
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.Balance{}, err
	}

	return s.BalanceRepository.Set(ctx, employeeID, leaveType, days)
}
