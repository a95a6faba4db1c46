package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimbus-hr/attendance-backend-go/internal/domain/employee"
	"github.com/nimbus-hr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepository struct {
	db *database.DB
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, full_name, status, base_salary::text, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	var baseSalary *string
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Status, &baseSalary,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	if baseSalary != nil {
		salary, err := decimal.NewFromString(*baseSalary)
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to parse base salary: %w", err)
		}
		emp.BaseSalary = &salary
	}

	return emp, nil
}

// ListActive implements employee.EmployeeRepository.
func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, full_name, status, base_salary::text, created_at, updated_at
		FROM employees
		WHERE status = 'active'
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var emp employee.Employee
		var baseSalary *string
		if err := rows.Scan(
			&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Status, &baseSalary,
			&emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if baseSalary != nil {
			salary, err := decimal.NewFromString(*baseSalary)
			if err != nil {
				return nil, fmt.Errorf("failed to parse base salary: %w", err)
			}
			emp.BaseSalary = &salary
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}
