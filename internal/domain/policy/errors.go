package policy

import "errors"

var (
	ErrWorkweekPolicyNotFound = errors.New("workweek policy not found for region")
	ErrHolidayNotFound        = errors.New("holiday not found")
	ErrHolidayExists          = errors.New("a holiday already exists for this date and region")
)
