package response

import (
	"errors"
	"net/http"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "An open session already exists")
	case errors.Is(err, attendance.ErrNoOpenSession):
		Conflict(w, "No open session to close")
	case errors.Is(err, attendance.ErrCheckOutBeforeCheckIn):
		BadRequest(w, "Check-out cannot precede check-in", nil)
	case errors.Is(err, attendance.ErrPeriodLocked):
		Conflict(w, "Attendance period is locked")
	case errors.Is(err, attendance.ErrDayNotFound):
		NotFound(w, "Attendance day not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeExists):
		Conflict(w, "Leave type code already exists")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAlreadyDecided):
		Conflict(w, "Leave request already decided")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Leave request belongs to another employee")
	case errors.Is(err, leave.ErrMonthlyLimitExceeded):
		Conflict(w, "Monthly limit for this leave type reached")
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "An overlapping leave request already exists")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrPermissionCapExceeded):
		BadRequest(w, "Monthly permission hours cap exceeded", nil)
	case errors.Is(err, leave.ErrHalfDayNotAllowed):
		BadRequest(w, "Leave type does not allow half days", nil)
	case errors.Is(err, leave.ErrPermissionNotAllowed):
		BadRequest(w, "Leave type does not allow permission hours", nil)

	// Policy domain errors
	case errors.Is(err, policy.ErrWorkweekPolicyNotFound):
		NotFound(w, "Workweek policy not found")
	case errors.Is(err, policy.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, policy.ErrHolidayExists):
		Conflict(w, "Holiday already exists for this date")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
