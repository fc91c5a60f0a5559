package timeutil

import (
	"fmt"
	"time"
)

// Zone wraps the deployment timezone used to assign instants to civil dates.
// The zone is fixed per deployment; all conversions in the attendance pipeline
// go through it.
type Zone struct {
	loc *time.Location
}

func NewZone(name string) (*Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return &Zone{loc: loc}, nil
}

func (z *Zone) Location() *time.Location {
	return z.loc
}

// LocalDate returns the civil date of t in the zone, as a UTC midnight
// time.Time so dates compare and marshal uniformly.
func (z *Zone) LocalDate(t time.Time) time.Time {
	local := t.In(z.loc)
	return Date(local.Year(), local.Month(), local.Day())
}

// MidnightAfter returns the first local midnight strictly after t, in UTC.
// A check-out past this instant splits the session between two civil dates.
func (z *Zone) MidnightAfter(t time.Time) time.Time {
	local := t.In(z.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, z.loc).AddDate(0, 0, 1)
	return next.UTC()
}

// Date builds a civil date as UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether two civil dates represent the same day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// NthWeekdayOfMonth returns which occurrence of its weekday the date is
// within its month: 1 for the 1st..7th, 2 for the 8th..14th, and so on.
func NthWeekdayOfMonth(date time.Time) int {
	return ((date.Day() - 1) / 7) + 1
}

// MonthBounds returns the first day of the month and the first day of the
// next month as civil dates.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := Date(year, month, 1)
	return start, start.AddDate(0, 1, 0)
}
