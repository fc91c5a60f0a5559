package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service covers leave types and the balance ledger.
type Service interface {
	CreateType(ctx context.Context, req CreateTypeRequest) (TypeResponse, error)
	UpdateType(ctx context.Context, req UpdateTypeRequest) (TypeResponse, error)
	DeleteType(ctx context.Context, id string) error
	ListTypes(ctx context.Context) ([]TypeResponse, error)

	SeedBalance(ctx context.Context, req SeedBalanceRequest) (BalanceResponse, error)
	AccrueBalance(ctx context.Context, req AccrueBalanceRequest) (BalanceResponse, error)
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (BalanceResponse, error)

	// RunMonthlyAccrual accrues the configured hours for every active employee.
	RunMonthlyAccrual(ctx context.Context, req AccrualRunRequest) (AccrualRunResponse, error)

	// ListBalances returns the employee's ledger rows for a year. A non-nil
	// month restricts the view to requests intersecting that month; the
	// ledger rows themselves are annual.
	ListBalances(ctx context.Context, employeeID string, year int, month *int) ([]BalanceResponse, error)

	MonthPermissionHours(ctx context.Context, employeeID, typeCode string, year, month int) (PermissionHoursResponse, error)
}

// RequestService is the request state machine.
type RequestService interface {
	Apply(ctx context.Context, req ApplyRequest) (RequestResponse, error)
	Decide(ctx context.Context, req DecideRequest) (RequestResponse, error)
	Cancel(ctx context.Context, employeeID, requestID string) (RequestResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]RequestResponse, error)
	ListPending(ctx context.Context) ([]RequestResponse, error)
}

// Ledger is the balance arithmetic shared by Service and RequestService.
// Every mutator recomputes closing = opening + accrued + adjusted - used.
type Ledger interface {
	Seed(ctx context.Context, employeeID, leaveTypeID string, year int, opening decimal.Decimal) (LeaveBalance, error)
	Accrue(ctx context.Context, employeeID, leaveTypeID string, year int, hours decimal.Decimal) (LeaveBalance, error)
	Adjust(ctx context.Context, employeeID, leaveTypeID string, year int, delta decimal.Decimal) (LeaveBalance, error)
	Use(ctx context.Context, employeeID, leaveTypeID string, year int, hours decimal.Decimal) (LeaveBalance, error)

	// GetOrCreate returns the ledger row, creating a zeroed one when absent.
	GetOrCreate(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
}
