package employee

import "context"

// EmployeeRepository is the read model over the employee directory. The
// directory itself is administered elsewhere; workflows only need identity,
// activity status and the base salary for payroll inputs.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
