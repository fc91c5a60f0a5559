package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit is the accounting unit of a leave type.
type Unit string

const (
	UnitDay  Unit = "DAY"
	UnitHour Unit = "HOUR"
)

// RequestUnit is what a single request is measured in.
type RequestUnit string

const (
	RequestUnitDay     RequestUnit = "DAY"
	RequestUnitHalfDay RequestUnit = "HALF_DAY"
	RequestUnitHour    RequestUnit = "HOUR"
)

// RequestStatus is the request state machine: PENDING is the only
// non-terminal state.
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
)

func (s RequestStatus) Terminal() bool {
	return s != StatusPending
}

type LeaveType struct {
	ID                   string
	Code                 string
	Name                 string
	Unit                 Unit
	IsPaid               bool
	AllowHalfDay         bool
	AllowPermissionHours bool
	// MonthlyLimit caps approved requests of this type per calendar month;
	// zero disables the check.
	MonthlyLimit int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LeaveBalance is one ledger row per (employee, leave type, year). Closing
// is always derived: closing = opening + accrued + adjusted - used.
// Month is nil for annual ledger rows; month-scoped rows carry 1..12 and
// exist only as reporting views of the same accounting.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int
	Month       *int
	Opening     decimal.Decimal
	Accrued     decimal.Decimal
	Used        decimal.Decimal
	Adjusted    decimal.Decimal
	Closing     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	Unit        RequestUnit
	// RequestedHours is set only for HOUR-unit requests.
	RequestedHours decimal.Decimal
	Status         RequestStatus
	ApproverID     *string
	DecidedAt      *time.Time
	DecisionNote   *string
	Reason         *string
	CreatedAt      time.Time

	// DTO
	LeaveTypeCode *string
}
