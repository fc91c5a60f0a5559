package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kolkata(t *testing.T) *Zone {
	t.Helper()
	zone, err := NewZone("Asia/Kolkata")
	require.NoError(t, err)
	return zone
}

func TestNewZone_UnknownName(t *testing.T) {
	t.Parallel()

	_, err := NewZone("Mars/Olympus")
	assert.Error(t, err)
}

func TestZone_LocalDate_AroundMidnight(t *testing.T) {
	t.Parallel()
	zone := kolkata(t)

	// 18:00 UTC is 23:30 in Kolkata, still the same civil date.
	before := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, Date(2025, time.March, 10), zone.LocalDate(before))

	// 19:30 UTC is 01:00 the next day in Kolkata.
	after := time.Date(2025, time.March, 10, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, Date(2025, time.March, 11), zone.LocalDate(after))
}

func TestZone_MidnightAfter(t *testing.T) {
	t.Parallel()
	zone := kolkata(t)

	// 17:30 UTC is 23:00 in Kolkata; the next local midnight is 18:30 UTC.
	checkIn := time.Date(2025, time.March, 10, 17, 30, 0, 0, time.UTC)
	midnight := zone.MidnightAfter(checkIn)
	assert.Equal(t, time.Date(2025, time.March, 10, 18, 30, 0, 0, time.UTC), midnight)

	// An instant exactly on midnight rolls to the following midnight.
	next := zone.MidnightAfter(midnight)
	assert.Equal(t, time.Date(2025, time.March, 11, 18, 30, 0, 0, time.UTC), next)
}

func TestNthWeekdayOfMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		day  int
		want int
	}{
		{1, 1},
		{7, 1},
		{8, 2},
		{14, 2},
		{15, 3},
		{22, 4},
		{29, 5},
	}
	for _, tc := range cases {
		got := NthWeekdayOfMonth(Date(2025, time.March, tc.day))
		assert.Equal(t, tc.want, got, "day %d", tc.day)
	}
}

func TestMonthBounds(t *testing.T) {
	t.Parallel()

	start, next := MonthBounds(2025, time.February)
	assert.Equal(t, Date(2025, time.February, 1), start)
	assert.Equal(t, Date(2025, time.March, 1), next)

	start, next = MonthBounds(2025, time.December)
	assert.Equal(t, Date(2025, time.December, 1), start)
	assert.Equal(t, Date(2026, time.January, 1), next)
}

func TestSameDate(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)
	b := Date(2025, time.March, 10)
	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(a, Date(2025, time.March, 11)))
}
