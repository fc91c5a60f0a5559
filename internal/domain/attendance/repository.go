package attendance

import (
	"context"
	"time"
)

// SessionRepository defines data access for raw punch sessions.
type SessionRepository interface {
	// Create creates a new session (check-in)
	Create(ctx context.Context, session AttendanceSession) (AttendanceSession, error)

	// GetOpenSession returns the employee's open session, nil when none exists
	GetOpenSession(ctx context.Context, employeeID string) (*AttendanceSession, error)

	// Close sets the check-out instant on a session
	Close(ctx context.Context, id string, checkOut time.Time) error

	// ListByEmployeeAndDate returns all sessions assigned to one civil work date
	ListByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) ([]AttendanceSession, error)
}

// DayRepository defines data access for day rollup rows.
type DayRepository interface {
	// GetByEmployeeAndDate returns the day row, nil when none exists yet
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error)

	// Create inserts a new day row
	Create(ctx context.Context, day AttendanceDay) (AttendanceDay, error)

	// Update persists all mutable fields of an existing day row
	Update(ctx context.Context, day AttendanceDay) error

	// ListRange returns day rows for one employee over [from, to] inclusive,
	// ordered by date
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceDay, error)
}
