package cron

import (
	"context"
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/config"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/clock"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/timeutil"
)

// RegisterAttendanceRecompute re-rolls yesterday and today for every active
// employee, picking up late check-outs and policy edits.
func RegisterAttendanceRecompute(s *Scheduler, svc attendance.Service, zone *timeutil.Zone, clk clock.Clock, interval time.Duration) {
	s.AddJob("attendance-recompute", interval, func(ctx context.Context) error {
		today := zone.LocalDate(clk.NowUTC())
		yesterday := today.AddDate(0, 0, -1)

		_, err := svc.RecomputeRange(ctx, attendance.RecomputeRangeRequest{
			DateFrom: yesterday.Format("2006-01-02"),
			DateTo:   today.Format("2006-01-02"),
		})
		return err
	})
}

// RegisterMonthlyAccrual runs the configured accrual once per calendar month,
// on the first local day of the month.
func RegisterMonthlyAccrual(s *Scheduler, svc leave.Service, zone *timeutil.Zone, clk clock.Clock, cfg config.LeaveConfig, interval time.Duration) {
	var lastRun time.Month

	s.AddJob("leave-monthly-accrual", interval, func(ctx context.Context) error {
		today := zone.LocalDate(clk.NowUTC())
		if today.Day() != 1 || today.Month() == lastRun {
			return nil
		}

		month := int(today.Month())
		_, err := svc.RunMonthlyAccrual(ctx, leave.AccrualRunRequest{
			TypeCode: cfg.AccrualLeaveCode,
			Year:     today.Year(),
			Month:    &month,
			Hours:    cfg.AccrualMonthlyHours,
		})
		if err != nil {
			return err
		}
		lastRun = today.Month()
		return nil
	})
}
