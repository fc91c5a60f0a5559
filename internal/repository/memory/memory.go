// Package memory holds mutex-guarded map implementations of the repository
// interfaces. They back the service tests and double as a storage mode for
// local development without PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
)

// Store is the shared root so repositories built from the same Store see each
// other's writes, the way pool-backed repositories share a database.
type Store struct {
	mu sync.RWMutex

	employees map[string]employee.Employee
	sessions  map[string]attendance.AttendanceSession
	days      map[string]attendance.AttendanceDay
	types     map[string]leave.LeaveType
	balances  map[string]leave.LeaveBalance
	requests  map[string]leave.LeaveRequest
	workweeks map[string]policy.WorkweekPolicy
	holidays  map[string]policy.Holiday
}

func NewStore() *Store {
	return &Store{
		employees: make(map[string]employee.Employee),
		sessions:  make(map[string]attendance.AttendanceSession),
		days:      make(map[string]attendance.AttendanceDay),
		types:     make(map[string]leave.LeaveType),
		balances:  make(map[string]leave.LeaveBalance),
		requests:  make(map[string]leave.LeaveRequest),
		workweeks: make(map[string]policy.WorkweekPolicy),
		holidays:  make(map[string]policy.Holiday),
	}
}

func newID() string {
	return uuid.NewString()
}

// TxManager is a pass-through: the in-memory store has no transactions, each
// repository call is atomic under the store mutex.
type TxManager struct{}

func (TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
