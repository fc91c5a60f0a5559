package attendance

import (
	"time"
)

// DayStatus is the classification of one employee-day after rollup.
type DayStatus string

const (
	StatusPresent DayStatus = "PRESENT"
	StatusAbsent  DayStatus = "ABSENT"
	StatusLeave   DayStatus = "LEAVE"
	StatusHoliday DayStatus = "HOLIDAY"
	StatusWeekend DayStatus = "WEEKEND"
)

// AttendanceSession is one raw punch pair. CheckOut stays nil while the
// session is open; at most one open session exists per employee.
type AttendanceSession struct {
	ID         string
	EmployeeID string
	CheckIn    time.Time
	CheckOut   *time.Time
	// WorkDate is the civil date assigned at check-in.
	WorkDate  time.Time
	CreatedAt time.Time
}

// AttendanceDay is the rollup of one (employee, civil date). All second
// counters are non-negative; Locked rejects further mutation once a pay
// period is closed.
type AttendanceDay struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	SecondsWorked    int64
	ExpectedSeconds  int64
	PaidLeaveSeconds int64
	OvertimeSeconds  int64
	UnderworkSeconds int64
	UnpaidSeconds    int64
	FirstCheckIn     *time.Time
	LastCheckOut     *time.Time
	Status           DayStatus
	Locked           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
