package leave

import "errors"

// Leave domain errors
var (
	// Type errors
	ErrLeaveTypeNotFound = errors.New("leave type not found")
	ErrLeaveTypeExists   = errors.New("leave type code already exists")

	// Ledger errors
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// Request errors
	ErrRequestNotFound       = errors.New("leave request not found")
	ErrAlreadyDecided        = errors.New("leave request has already been decided")
	ErrNotRequestOwner       = errors.New("leave request belongs to another employee")
	ErrMonthlyLimitExceeded  = errors.New("an approved leave of this type already exists in the month")
	ErrOverlappingRequest    = errors.New("an overlapping leave request already exists")
	ErrPermissionCapExceeded = errors.New("monthly permission hours cap exceeded")
	ErrHalfDayNotAllowed     = errors.New("this leave type does not allow half days")
	ErrPermissionNotAllowed  = errors.New("this leave type does not allow permission hours")
)
