package leave

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
)

// balanceLedger keeps closing = opening + accrued + adjusted - used on every
// mutation. Rows are created lazily the first time a (employee, type, year)
// tuple is touched.
type balanceLedger struct {
	balances leave.LeaveBalanceRepository
}

func NewLedger(balances leave.LeaveBalanceRepository) leave.Ledger {
	return &balanceLedger{balances: balances}
}

func (l *balanceLedger) GetOrCreate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	b, err := l.balances.Get(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to get balance: %w", err)
	}
	if b != nil {
		return *b, nil
	}
	created, err := l.balances.Create(ctx, leave.LeaveBalance{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
	})
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to create balance: %w", err)
	}
	return created, nil
}

func (l *balanceLedger) Seed(ctx context.Context, employeeID, leaveTypeID string, year int, opening decimal.Decimal) (leave.LeaveBalance, error) {
	return l.mutate(ctx, employeeID, leaveTypeID, year, func(b *leave.LeaveBalance) {
		// Seeding a row that already has an opening is a no-op so re-running
		// a yearly seed cannot double balances.
		if b.Opening.IsZero() {
			b.Opening = opening
		}
	})
}

func (l *balanceLedger) Accrue(ctx context.Context, employeeID, leaveTypeID string, year int, hours decimal.Decimal) (leave.LeaveBalance, error) {
	return l.mutate(ctx, employeeID, leaveTypeID, year, func(b *leave.LeaveBalance) {
		b.Accrued = b.Accrued.Add(hours)
	})
}

func (l *balanceLedger) Adjust(ctx context.Context, employeeID, leaveTypeID string, year int, delta decimal.Decimal) (leave.LeaveBalance, error) {
	return l.mutate(ctx, employeeID, leaveTypeID, year, func(b *leave.LeaveBalance) {
		b.Adjusted = b.Adjusted.Add(delta)
	})
}

func (l *balanceLedger) Use(ctx context.Context, employeeID, leaveTypeID string, year int, hours decimal.Decimal) (leave.LeaveBalance, error) {
	return l.mutate(ctx, employeeID, leaveTypeID, year, func(b *leave.LeaveBalance) {
		b.Used = b.Used.Add(hours)
	})
}

func (l *balanceLedger) mutate(ctx context.Context, employeeID, leaveTypeID string, year int, apply func(*leave.LeaveBalance)) (leave.LeaveBalance, error) {
	b, err := l.GetOrCreate(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	apply(&b)
	b.Closing = b.Opening.Add(b.Accrued).Add(b.Adjusted).Sub(b.Used)
	if err := l.balances.Update(ctx, b); err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to update balance: %w", err)
	}
	return b, nil
}
