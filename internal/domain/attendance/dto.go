package attendance

import (
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInResponse struct {
	SessionID  string `json:"session_id"`
	EmployeeID string `json:"employee_id"`
	CheckIn    string `json:"check_in"`
	WorkDate   string `json:"work_date"`
}

type CheckOutResponse struct {
	SessionID     string `json:"session_id"`
	EmployeeID    string `json:"employee_id"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	WorkDate      string `json:"work_date"`
	SecondsWorked int64  `json:"seconds_worked"`
	// SplitAtMidnight is set when the interval crossed a local midnight and
	// the remainder was credited to the following date.
	SplitAtMidnight bool    `json:"split_at_midnight"`
	NextDate        *string `json:"next_date,omitempty"`
}

type TodayStatusResponse struct {
	Date           string  `json:"date"`
	ClosedSeconds  int64   `json:"closed_seconds"`
	RunningSeconds int64   `json:"running_seconds"`
	TotalSeconds   int64   `json:"total_seconds"`
	Present        bool    `json:"present"`
	OpenSession    bool    `json:"open_session"`
	FirstCheckIn   *string `json:"first_check_in,omitempty"`
}

type DayResponse struct {
	EmployeeID       string  `json:"employee_id"`
	Date             string  `json:"date"`
	SecondsWorked    int64   `json:"seconds_worked"`
	ExpectedSeconds  int64   `json:"expected_seconds"`
	PaidLeaveSeconds int64   `json:"paid_leave_seconds"`
	OvertimeSeconds  int64   `json:"overtime_seconds"`
	UnderworkSeconds int64   `json:"underwork_seconds"`
	UnpaidSeconds    int64   `json:"unpaid_seconds"`
	FirstCheckIn     *string `json:"first_check_in,omitempty"`
	LastCheckOut     *string `json:"last_check_out,omitempty"`
	Status           string  `json:"status"`
	Locked           bool    `json:"locked"`
}

type MonthViewResponse struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []DayResponse `json:"days"`
}

type RecomputeRangeRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	DateFrom    string   `json:"date_from"` // YYYY-MM-DD
	DateTo      string   `json:"date_to"`   // YYYY-MM-DD
}

func (r *RecomputeRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	// Empty employee_ids means every active employee.
	from, fromOK := validator.IsValidDate(r.DateFrom)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "date_from",
			Message: "date_from must be in YYYY-MM-DD format",
		})
	}

	to, toOK := validator.IsValidDate(r.DateTo)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "date_to",
			Message: "date_to must be in YYYY-MM-DD format",
		})
	}

	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_to",
			Message: "date_to must not precede date_from",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecomputeRangeResponse struct {
	DaysRecomputed int64 `json:"days_recomputed"`
}

type RangeReportRequest struct {
	EmployeeIDs   []string `json:"employee_ids"`
	DateFrom      string   `json:"date_from"` // YYYY-MM-DD
	DateTo        string   `json:"date_to"`   // YYYY-MM-DD
	IncludeAbsent bool     `json:"include_absent"`
}

func (r *RangeReportRequest) Validate() error {
	base := RecomputeRangeRequest{
		EmployeeIDs: r.EmployeeIDs,
		DateFrom:    r.DateFrom,
		DateTo:      r.DateTo,
	}
	if err := base.Validate(); err != nil {
		return err
	}
	if len(r.EmployeeIDs) == 0 {
		return validator.ValidationErrors{{
			Field:   "employee_ids",
			Message: "at least one employee_id is required",
		}}
	}
	return nil
}

// OverrideDayRequest lets an administrator correct a single day row, e.g.
// when an employee forgot to punch. Only provided fields are applied.
type OverrideDayRequest struct {
	EmployeeID       string  `json:"-"`
	Date             string  `json:"-"`
	Status           *string `json:"status,omitempty"`
	SecondsWorked    *int64  `json:"seconds_worked,omitempty"`
	ExpectedSeconds  *int64  `json:"expected_seconds,omitempty"`
	PaidLeaveSeconds *int64  `json:"paid_leave_seconds,omitempty"`
	UnpaidSeconds    *int64  `json:"unpaid_seconds,omitempty"`
}

func (r *OverrideDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Status != nil {
		validStatuses := []string{
			string(StatusPresent), string(StatusAbsent), string(StatusLeave),
			string(StatusHoliday), string(StatusWeekend),
		}
		if !validator.IsInSlice(*r.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PRESENT, ABSENT, LEAVE, HOLIDAY, WEEKEND",
			})
		}
	}

	for field, v := range map[string]*int64{
		"seconds_worked":     r.SecondsWorked,
		"expected_seconds":   r.ExpectedSeconds,
		"paid_leave_seconds": r.PaidLeaveSeconds,
		"unpaid_seconds":     r.UnpaidSeconds,
	} {
		if v != nil && *v < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MapDayToResponse converts an AttendanceDay entity to DayResponse
func MapDayToResponse(day AttendanceDay) DayResponse {
	return DayResponse{
		EmployeeID:       day.EmployeeID,
		Date:             day.Date.Format("2006-01-02"),
		SecondsWorked:    day.SecondsWorked,
		ExpectedSeconds:  day.ExpectedSeconds,
		PaidLeaveSeconds: day.PaidLeaveSeconds,
		OvertimeSeconds:  day.OvertimeSeconds,
		UnderworkSeconds: day.UnderworkSeconds,
		UnpaidSeconds:    day.UnpaidSeconds,
		FirstCheckIn:     timePtrToString(day.FirstCheckIn),
		LastCheckOut:     timePtrToString(day.LastCheckOut),
		Status:           string(day.Status),
		Locked:           day.Locked,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format("2006-01-02 15:04:05")
	return &format
}
