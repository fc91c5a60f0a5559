package policy

import (
	"context"
	"time"
)

// Resolver answers calendar questions for the rollup engine. Both methods
// re-read the policy tables on every call; tables change between calls.
type Resolver interface {
	// IsWorkingDay reports whether date is a working day in the region.
	// A nil region uses the default Monday-Friday calendar.
	IsWorkingDay(ctx context.Context, region *string, date time.Time) (bool, error)

	// HolidayPayFlag returns whether date is a paid holiday, nil when the
	// date is not a holiday at all.
	HolidayPayFlag(ctx context.Context, region *string, date time.Time) (*bool, error)
}

// Service adds the administrative surface on top of Resolver.
type Service interface {
	Resolver

	UpsertWorkweek(ctx context.Context, req UpsertWorkweekRequest) (WorkweekResponse, error)
	GetWorkweek(ctx context.Context, region string) (WorkweekResponse, error)
	ListWorkweeks(ctx context.Context) ([]WorkweekResponse, error)

	CreateHoliday(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context, from, to string) ([]HolidayResponse, error)
}
