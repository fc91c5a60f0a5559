package attendance

import "errors"

// Attendance domain errors
var (
	// Punch errors
	ErrAlreadyCheckedIn      = errors.New("an open session already exists for this employee")
	ErrNoOpenSession         = errors.New("no open session to check out of")
	ErrCheckOutBeforeCheckIn = errors.New("check-out cannot precede check-in")

	// Day errors
	ErrPeriodLocked = errors.New("attendance day is locked for a closed pay period")
	ErrDayNotFound  = errors.New("attendance day not found")
)
