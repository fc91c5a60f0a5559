package leave

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE TYPE DTOs
// ========================================

type CreateTypeRequest struct {
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	Unit                 string `json:"unit"`
	IsPaid               bool   `json:"is_paid"`
	AllowHalfDay         bool   `json:"allow_half_day"`
	AllowPermissionHours bool   `json:"allow_permission_hours"`
	MonthlyLimit         int    `json:"monthly_limit"`
}

func (r *CreateTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLeaveTypeCode(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 2-16 uppercase letters",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !validator.IsInSlice(r.Unit, []string{string(UnitDay), string(UnitHour)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "unit",
			Message: "unit must be one of: DAY, HOUR",
		})
	}

	if r.MonthlyLimit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "monthly_limit",
			Message: "monthly_limit must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateTypeRequest applies only the fields that are present. Code and unit
// are immutable once requests reference the type.
type UpdateTypeRequest struct {
	ID                   string  `json:"-"`
	Name                 *string `json:"name,omitempty"`
	IsPaid               *bool   `json:"is_paid,omitempty"`
	AllowHalfDay         *bool   `json:"allow_half_day,omitempty"`
	AllowPermissionHours *bool   `json:"allow_permission_hours,omitempty"`
	MonthlyLimit         *int    `json:"monthly_limit,omitempty"`
}

func (r *UpdateTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.MonthlyLimit != nil && *r.MonthlyLimit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "monthly_limit",
			Message: "monthly_limit must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TypeResponse struct {
	ID                   string `json:"id"`
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	Unit                 string `json:"unit"`
	IsPaid               bool   `json:"is_paid"`
	AllowHalfDay         bool   `json:"allow_half_day"`
	AllowPermissionHours bool   `json:"allow_permission_hours"`
	MonthlyLimit         int    `json:"monthly_limit"`
}

// ========================================
// LEAVE REQUEST DTOs
// ========================================

type ApplyRequest struct {
	EmployeeID string           `json:"-"`
	TypeCode   string           `json:"type_code"`
	Unit       string           `json:"unit"`
	StartDate  string           `json:"start_date"` // YYYY-MM-DD or RFC3339
	EndDate    string           `json:"end_date"`
	Hours      *decimal.Decimal `json:"hours,omitempty"`
	Reason     *string          `json:"reason,omitempty"`
}

func (r *ApplyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidLeaveTypeCode(r.TypeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "type_code",
			Message: "type_code must be 2-16 uppercase letters",
		})
	}

	validUnits := []string{string(RequestUnitDay), string(RequestUnitHalfDay), string(RequestUnitHour)}
	if !validator.IsInSlice(r.Unit, validUnits) {
		errs = append(errs, validator.ValidationError{
			Field:   "unit",
			Message: "unit must be one of: DAY, HALF_DAY, HOUR",
		})
	}

	start, startOK := validator.IsValidDateTime(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be YYYY-MM-DD or RFC3339",
		})
	}

	end, endOK := validator.IsValidDateTime(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be YYYY-MM-DD or RFC3339",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not precede start_date",
		})
	}

	if r.Unit == string(RequestUnitHour) {
		if r.Hours == nil || !r.Hours.IsPositive() {
			errs = append(errs, validator.ValidationError{
				Field:   "hours",
				Message: "hours must be positive for HOUR requests",
			})
		}
	}

	if r.Reason != nil && len(*r.Reason) > 200 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 200 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecideRequest struct {
	ID         string  `json:"-"`
	ApproverID string  `json:"-"`
	Decision   string  `json:"decision"`
	Note       *string `json:"note,omitempty"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "request id is required",
		})
	}

	if !validator.IsInSlice(r.Decision, []string{string(StatusApproved), string(StatusRejected)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: APPROVED, REJECTED",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RequestResponse struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	TypeCode     string           `json:"type_code"`
	Unit         string           `json:"unit"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	Hours        *decimal.Decimal `json:"hours,omitempty"`
	Status       string           `json:"status"`
	ApproverID   *string          `json:"approver_id,omitempty"`
	DecidedAt    *string          `json:"decided_at,omitempty"`
	DecisionNote *string          `json:"decision_note,omitempty"`
	Reason       *string          `json:"reason,omitempty"`
	CreatedAt    string           `json:"created_at"`
	// Paid reports whether the approval consumed the ledger; false means the
	// leave was recorded as loss of pay.
	Paid *bool `json:"paid,omitempty"`
}

// ========================================
// LEDGER DTOs
// ========================================

type SeedBalanceRequest struct {
	EmployeeID   string          `json:"employee_id"`
	TypeCode     string          `json:"type_code"`
	Year         int             `json:"year"`
	OpeningHours decimal.Decimal `json:"opening_hours"`
}

func (r *SeedBalanceRequest) Validate() error {
	return validateBalanceMutation(r.EmployeeID, r.TypeCode, r.Year, r.OpeningHours, false)
}

type AccrueBalanceRequest struct {
	EmployeeID string          `json:"employee_id"`
	TypeCode   string          `json:"type_code"`
	Year       int             `json:"year"`
	Hours      decimal.Decimal `json:"hours"`
}

func (r *AccrueBalanceRequest) Validate() error {
	return validateBalanceMutation(r.EmployeeID, r.TypeCode, r.Year, r.Hours, false)
}

type AdjustBalanceRequest struct {
	EmployeeID string          `json:"employee_id"`
	TypeCode   string          `json:"type_code"`
	Year       int             `json:"year"`
	DeltaHours decimal.Decimal `json:"delta_hours"`
}

func (r *AdjustBalanceRequest) Validate() error {
	// Adjustments may be negative to represent manual corrections.
	return validateBalanceMutation(r.EmployeeID, r.TypeCode, r.Year, r.DeltaHours, true)
}

func validateBalanceMutation(employeeID, typeCode string, year int, hours decimal.Decimal, allowNegative bool) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(employeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsValidLeaveTypeCode(typeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "type_code",
			Message: "type_code must be 2-16 uppercase letters",
		})
	}

	if year < 2000 || year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is out of range",
		})
	}

	if !allowNegative && hours.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "hours",
			Message: "hours must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AccrualRunRequest struct {
	TypeCode string          `json:"type_code"`
	Year     int             `json:"year"`
	Month    *int            `json:"month,omitempty"`
	Hours    decimal.Decimal `json:"hours"`
}

func (r *AccrualRunRequest) Validate() error {
	if r.Month != nil && (*r.Month < 1 || *r.Month > 12) {
		return validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be between 1 and 12",
		}}
	}
	return validateBalanceMutation("run", r.TypeCode, r.Year, r.Hours, false)
}

type AccrualRunResponse struct {
	EmployeesAccrued int `json:"employees_accrued"`
}

type BalanceResponse struct {
	EmployeeID string          `json:"employee_id"`
	TypeCode   string          `json:"type_code"`
	Year       int             `json:"year"`
	Month      *int            `json:"month,omitempty"`
	Opening    decimal.Decimal `json:"opening"`
	Accrued    decimal.Decimal `json:"accrued"`
	Used       decimal.Decimal `json:"used"`
	Adjusted   decimal.Decimal `json:"adjusted"`
	Closing    decimal.Decimal `json:"closing"`
}

type PermissionHoursResponse struct {
	EmployeeID string          `json:"employee_id"`
	TypeCode   string          `json:"type_code"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	UsedHours  decimal.Decimal `json:"used_hours"`
	CapHours   decimal.Decimal `json:"cap_hours"`
}

// MapRequestToResponse converts a LeaveRequest entity to RequestResponse
func MapRequestToResponse(req LeaveRequest) RequestResponse {
	resp := RequestResponse{
		ID:           req.ID,
		EmployeeID:   req.EmployeeID,
		Unit:         string(req.Unit),
		StartDate:    req.StartDate.Format("2006-01-02"),
		EndDate:      req.EndDate.Format("2006-01-02"),
		Status:       string(req.Status),
		ApproverID:   req.ApproverID,
		DecisionNote: req.DecisionNote,
		Reason:       req.Reason,
		CreatedAt:    req.CreatedAt.UTC().Format(time.RFC3339),
	}
	if req.LeaveTypeCode != nil {
		resp.TypeCode = *req.LeaveTypeCode
	}
	if req.Unit == RequestUnitHour {
		hours := req.RequestedHours
		resp.Hours = &hours
	}
	if req.DecidedAt != nil {
		decided := req.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &decided
	}
	return resp
}
