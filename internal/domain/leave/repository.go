package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByCode(ctx context.Context, code string) (LeaveType, error)
	Create(ctx context.Context, lt LeaveType) (LeaveType, error)
	Update(ctx context.Context, lt LeaveType) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]LeaveType, error)
}

type LeaveBalanceRepository interface {
	// Get returns the ledger row, nil when it does not exist yet
	Get(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)

	Create(ctx context.Context, b LeaveBalance) (LeaveBalance, error)
	Update(ctx context.Context, b LeaveBalance) error

	// ListByEmployeeYear returns the annual ledger rows of an employee for a
	// year; month-scoped rows are excluded
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// ListByEmployeeYearMonth returns only the month-scoped rows for the
	// given year and month
	ListByEmployeeYearMonth(ctx context.Context, employeeID string, year, month int) ([]LeaveBalance, error)
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	Update(ctx context.Context, req LeaveRequest) error

	// ListOverlapping returns requests of the employee in given statuses whose
	// [start, end] interval intersects [start, end]
	ListOverlapping(ctx context.Context, employeeID string, start, end time.Time, statuses []RequestStatus) ([]LeaveRequest, error)

	// HasApprovedInMonth reports whether an APPROVED request of the leave type
	// intersects the given calendar month
	HasApprovedInMonth(ctx context.Context, employeeID, leaveTypeID string, year int, month time.Month) (bool, error)

	// SumPermissionHoursInMonth totals requested hours of APPROVED HOUR-unit
	// requests of the leave type starting in the given month
	SumPermissionHoursInMonth(ctx context.Context, employeeID, leaveTypeID string, year int, month time.Month) (decimal.Decimal, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListByStatus(ctx context.Context, status RequestStatus) ([]LeaveRequest, error)
}
