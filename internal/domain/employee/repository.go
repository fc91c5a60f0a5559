package employee

import "context"

// EmployeeRepository is the narrow directory contract the attendance and
// leave pipelines depend on. Directory maintenance lives elsewhere.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// Exists reports whether an employee record exists, active or not.
	Exists(ctx context.Context, id string) (bool, error)

	// RegionOf returns the employee's region code, nil when unassigned.
	RegionOf(ctx context.Context, id string) (*string, error)

	// ListActiveIDs returns the IDs of all active employees, used by
	// recompute and accrual runs.
	ListActiveIDs(ctx context.Context) ([]string, error)
}
