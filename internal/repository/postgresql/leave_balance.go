package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/leave"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepository struct {
	db *database.DB
}

func scanLeaveBalance(row pgx.Row) (leave.Balance, error) {
	var bal leave.Balance
	var amount string

	if err := row.Scan(&bal.ID, &bal.EmployeeID, &bal.LeaveType, &amount, &bal.UpdatedAt); err != nil {
		return leave.Balance{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to parse leave balance: %w", err)
	}
	bal.Balance = parsed

	return bal, nil
}

// AddDays implements leave.BalanceRepository. One statement, so two
// concurrent accruals both land.
func (r *leaveBalanceRepository) AddDays(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type, balance)
		VALUES ($1, $2, $3::numeric)
		ON CONFLICT (employee_id, leave_type)
		DO UPDATE SET balance = leave_balances.balance + EXCLUDED.balance, updated_at = now()
		RETURNING id, employee_id, leave_type, balance::text, updated_at
	`

	bal, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveType, days.String()))
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to add leave days: %w", err)
	}

	return bal, nil
}

// ConsumeDays implements leave.BalanceRepository. The guard in the WHERE
// clause makes insufficient balance a no-op instead of a negative balance.
func (r *leaveBalanceRepository) ConsumeDays(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET balance = balance - $3::numeric, updated_at = now()
		WHERE employee_id = $1 AND leave_type = $2 AND balance >= $3::numeric
		RETURNING id, employee_id, leave_type, balance::text, updated_at
	`

	bal, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveType, days.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			current, getErr := r.Get(ctx, employeeID, leaveType)
			if getErr != nil {
				if errors.Is(getErr, leave.ErrBalanceNotFound) {
					return leave.Balance{
						EmployeeID: employeeID,
						LeaveType:  leaveType,
						Balance:    decimal.Zero,
					}, false, nil
				}
				return leave.Balance{}, false, getErr
			}
			return current, false, nil
		}
		return leave.Balance{}, false, fmt.Errorf("failed to consume leave days: %w", err)
	}

	return bal, true, nil
}

// Get implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID string, leaveType leave.Type) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, balance::text, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type = $2
	`

	bal, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return bal, nil
}

// ListByEmployee implements leave.BalanceRepository.
func (r *leaveBalanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, balance::text, updated_at
		FROM leave_balances
		WHERE employee_id = $1
		ORDER BY leave_type
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.Balance, 0)
	for rows.Next() {
		bal, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, bal)
	}

	return balances, nil
}

// Set implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Set(ctx context.Context, employeeID string, leaveType leave.Type, days decimal.Decimal) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type, balance)
		VALUES ($1, $2, $3::numeric)
		ON CONFLICT (employee_id, leave_type)
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = now()
		RETURNING id, employee_id, leave_type, balance::text, updated_at
	`

	bal, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveType, days.String()))
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to set leave balance: %w", err)
	}

	return bal, nil
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}
