package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

const employeeBranchQuery = `
	SELECT e.id, e.name, e.user_code, e.status, b.branch, b.timing_start, b.timing_end
	FROM employees e
	LEFT JOIN employee_branches b ON b.employee_id = e.id
`

// ListActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActive(ctx context.Context) ([]employee.Employee, error) {
	query := employeeBranchQuery + `
		WHERE e.status = $1
		ORDER BY e.name, e.id, b.branch
	`
	employees, err := e.list(ctx, query, employee.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	query := employeeBranchQuery + `
		WHERE e.id = $1
		ORDER BY b.branch
	`
	employees, err := e.list(ctx, query, id)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to get employee %s: %w", id, err)
	}
	if len(employees) == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employees[0], nil
}

// list folds one row per branch assignment back into employees, keeping query order.
func (e *employeeRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		employees []employee.Employee
		index     = make(map[string]int)
	)
	for rows.Next() {
		var (
			emp                    employee.Employee
			branch                 *string
			timingStart, timingEnd *string
		)
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.UserCode, &emp.Status, &branch, &timingStart, &timingEnd); err != nil {
			return nil, err
		}

		i, ok := index[emp.ID]
		if !ok {
			i = len(employees)
			index[emp.ID] = i
			employees = append(employees, emp)
		}
		if branch == nil || *branch == "" {
			continue
		}

		assignment := employee.BranchAssignment{Branch: *branch}
		if timingStart != nil || timingEnd != nil {
			assignment.Timing = &employee.Timing{Start: deref(timingStart), End: deref(timingEnd)}
		}
		employees[i].Branches = append(employees[i].Branches, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}
