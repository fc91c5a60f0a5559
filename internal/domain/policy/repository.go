package policy

import (
	"context"
	"time"
)

type WorkweekPolicyRepository interface {
	// GetByRegion returns the region's policy, nil when the region has none
	GetByRegion(ctx context.Context, region string) (*WorkweekPolicy, error)

	// Upsert creates or replaces the region's policy document
	Upsert(ctx context.Context, p WorkweekPolicy) (WorkweekPolicy, error)

	List(ctx context.Context) ([]WorkweekPolicy, error)
}

type HolidayRepository interface {
	// FindForDate returns holiday entries matching the civil date for the
	// given region or globally, region-specific entries first. Annually
	// recurring entries match on month and day.
	FindForDate(ctx context.Context, region *string, date time.Time) ([]Holiday, error)

	Create(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string) error
	ListRange(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
