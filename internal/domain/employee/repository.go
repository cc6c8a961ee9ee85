package employee

import "context"

// EmployeeRepository is read-only: employees are owned by the institute directory.
type EmployeeRepository interface {
	// ListActive returns every Active employee with their branch assignments.
	ListActive(ctx context.Context) ([]Employee, error)

	// GetByID returns one employee regardless of status.
	GetByID(ctx context.Context, id string) (Employee, error)
}
