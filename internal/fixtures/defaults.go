package fixtures

import (
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

// GetDefaultLeaveTypes returns the standard leave catalogue for a fresh
// deployment.
func GetDefaultLeaveTypes() []leave.LeaveType {
	return []leave.LeaveType{
		// Earned leave: accrues monthly, full and half days.
		{
			Code:         "EL",
			Name:         "Earned Leave",
			Unit:         leave.UnitDay,
			IsPaid:       true,
			AllowHalfDay: true,
		},
		// Casual leave: capped at one approved request per month.
		{
			Code:         "CL",
			Name:         "Casual Leave",
			Unit:         leave.UnitDay,
			IsPaid:       true,
			AllowHalfDay: true,
			MonthlyLimit: 1,
		},
		// Sick leave.
		{
			Code:   "SL",
			Name:   "Sick Leave",
			Unit:   leave.UnitDay,
			IsPaid: true,
		},
		// Short permission slots, measured in hours.
		{
			Code:                 "PER",
			Name:                 "Permission Hours",
			Unit:                 leave.UnitHour,
			IsPaid:               true,
			AllowPermissionHours: true,
		},
		// Loss of pay, never touches the ledger.
		{
			Code: "LOP",
			Name: "Loss of Pay",
			Unit: leave.UnitDay,
		},
	}
}

// GetDefaultWorkweek returns the Monday-Friday policy with first and third
// Saturdays working, the common arrangement for the default region.
func GetDefaultWorkweek(region string) policy.WorkweekPolicy {
	return policy.WorkweekPolicy{
		Region: region,
		Week: policy.WeekPolicy{
			Mon: boolPtr(true),
			Tue: boolPtr(true),
			Wed: boolPtr(true),
			Thu: boolPtr(true),
			Fri: boolPtr(true),
			Sat: &policy.SaturdayRule{Ordinals: []string{"1st", "3rd"}},
			Sun: boolPtr(false),
		},
	}
}

// GetDefaultHolidays returns a starter national holiday calendar; dates that
// fall on fixed civil days recur annually.
func GetDefaultHolidays() []policy.Holiday {
	return []policy.Holiday{
		{
			Date:           time.Date(2025, time.January, 26, 0, 0, 0, 0, time.UTC),
			Name:           "Republic Day",
			IsPaid:         true,
			RecursAnnually: true,
		},
		{
			Date:           time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC),
			Name:           "Independence Day",
			IsPaid:         true,
			RecursAnnually: true,
		},
		{
			Date:           time.Date(2025, time.October, 2, 0, 0, 0, 0, time.UTC),
			Name:           "Gandhi Jayanti",
			IsPaid:         true,
			RecursAnnually: true,
		},
		{
			Date:   time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC),
			Name:   "Christmas",
			IsPaid: true,
			Region: strPtr("SOUTH"),
		},
	}
}
