package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/timeutil"
)

func (a *AttendanceServiceImpl) newDay(employeeID string, date time.Time) attendance.AttendanceDay {
	return attendance.AttendanceDay{
		EmployeeID:      employeeID,
		Date:            date,
		ExpectedSeconds: a.expectedSeconds,
		Status:          attendance.StatusPresent,
	}
}

// addWorkedSeconds folds a closed interval into the day row for date,
// creating the row with defaults if needed and widening the punch bounds.
func (a *AttendanceServiceImpl) addWorkedSeconds(ctx context.Context, employeeID string, date time.Time, seconds int64, in, out time.Time) error {
	day, err := a.DayRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to get day: %w", err)
	}
	if day == nil {
		created, err := a.DayRepository.Create(ctx, a.newDay(employeeID, date))
		if err != nil {
			return fmt.Errorf("failed to create day: %w", err)
		}
		day = &created
	}
	if day.Locked {
		return attendance.ErrPeriodLocked
	}

	day.SecondsWorked += seconds
	if day.FirstCheckIn == nil || in.Before(*day.FirstCheckIn) {
		t := in
		day.FirstCheckIn = &t
	}
	if day.LastCheckOut == nil || out.After(*day.LastCheckOut) {
		t := out
		day.LastCheckOut = &t
	}
	if day.Status == attendance.StatusAbsent {
		day.Status = attendance.StatusPresent
	}
	rederiveBlended(day)

	if err := a.DayRepository.Update(ctx, *day); err != nil {
		return fmt.Errorf("failed to update day: %w", err)
	}
	return nil
}

// rederiveBlended recomputes overtime and underwork from the current counters.
// At most one of the two is non-zero.
func rederiveBlended(day *attendance.AttendanceDay) {
	day.OvertimeSeconds = 0
	day.UnderworkSeconds = 0
	if day.ExpectedSeconds <= 0 {
		return
	}
	switch day.Status {
	case attendance.StatusPresent, attendance.StatusHoliday, attendance.StatusLeave:
	default:
		return
	}
	blended := day.SecondsWorked + day.PaidLeaveSeconds
	if blended > day.ExpectedSeconds {
		day.OvertimeSeconds = blended - day.ExpectedSeconds
	} else {
		day.UnderworkSeconds = day.ExpectedSeconds - blended
	}
}

// RecomputeDay rebuilds a day row from its sessions and the region policy.
// Leave seconds already written onto the row by the leave ledger are treated
// as inputs and survive the rebuild, so recomputing is idempotent.
func (a *AttendanceServiceImpl) RecomputeDay(ctx context.Context, employeeID string, date time.Time) (attendance.DayResponse, error) {
	date = timeutil.Date(date.Year(), date.Month(), date.Day())

	var result attendance.AttendanceDay
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.recomputeDayTx(txCtx, employeeID, date)
		if err != nil {
			return err
		}
		result = day
		return nil
	})
	if err != nil {
		return attendance.DayResponse{}, err
	}
	return attendance.MapDayToResponse(result), nil
}

func (a *AttendanceServiceImpl) recomputeDayTx(ctx context.Context, employeeID string, date time.Time) (attendance.AttendanceDay, error) {
	existing, err := a.DayRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get day: %w", err)
	}
	if existing != nil && existing.Locked {
		return *existing, nil
	}

	sessions, err := a.SessionRepository.ListByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	nowUTC := a.clock.NowUTC()
	var worked int64
	var firstIn, lastOut *time.Time
	for _, s := range sessions {
		end := nowUTC
		if s.CheckOut != nil {
			end = *s.CheckOut
		}
		worked += int64(end.Sub(s.CheckIn).Seconds())
		if firstIn == nil || s.CheckIn.Before(*firstIn) {
			t := s.CheckIn
			firstIn = &t
		}
		if s.CheckOut != nil && (lastOut == nil || s.CheckOut.After(*lastOut)) {
			t := *s.CheckOut
			lastOut = &t
		}
	}
	if worked < 0 {
		worked = 0
	}

	region, err := a.EmployeeRepository.RegionOf(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get employee region: %w", err)
	}
	working, err := a.resolver.IsWorkingDay(ctx, region, date)
	if err != nil {
		return attendance.AttendanceDay{}, err
	}
	holidayPaid, err := a.resolver.HolidayPayFlag(ctx, region, date)
	if err != nil {
		return attendance.AttendanceDay{}, err
	}

	day := attendance.AttendanceDay{
		EmployeeID: employeeID,
		Date:       date,
		Status:     attendance.StatusPresent,
	}
	var leavePaid, leaveUnpaid int64
	if existing != nil {
		day.ID = existing.ID
		day.CreatedAt = existing.CreatedAt
		leavePaid = existing.PaidLeaveSeconds
		if existing.Status == attendance.StatusLeave {
			leaveUnpaid = existing.UnpaidSeconds
		}
	}

	day.SecondsWorked = worked
	day.FirstCheckIn = firstIn
	day.LastCheckOut = lastOut
	day.PaidLeaveSeconds = leavePaid
	day.UnpaidSeconds = leaveUnpaid

	switch {
	case holidayPaid != nil && *holidayPaid:
		day.Status = attendance.StatusHoliday
		day.ExpectedSeconds = a.expectedSeconds
	case holidayPaid != nil:
		day.Status = attendance.StatusHoliday
		day.ExpectedSeconds = 0
	case !working:
		day.Status = attendance.StatusWeekend
		day.ExpectedSeconds = 0
	default:
		day.ExpectedSeconds = a.expectedSeconds
		if leavePaid > 0 || leaveUnpaid > 0 {
			day.Status = attendance.StatusLeave
		}
	}

	if worked == 0 && holidayPaid == nil && working && leavePaid == 0 && leaveUnpaid == 0 {
		day.Status = attendance.StatusAbsent
		day.UnpaidSeconds = day.ExpectedSeconds
	}
	rederiveBlended(&day)

	if existing == nil {
		created, err := a.DayRepository.Create(ctx, day)
		if err != nil {
			return attendance.AttendanceDay{}, fmt.Errorf("failed to create day: %w", err)
		}
		return created, nil
	}
	if err := a.DayRepository.Update(ctx, day); err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to update day: %w", err)
	}
	return day, nil
}

// RecomputeRange implements attendance.Service.
func (a *AttendanceServiceImpl) RecomputeRange(ctx context.Context, req attendance.RecomputeRangeRequest) (attendance.RecomputeRangeResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecomputeRangeResponse{}, err
	}
	from, _ := time.Parse("2006-01-02", req.DateFrom)
	to, _ := time.Parse("2006-01-02", req.DateTo)

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		ids, err := a.EmployeeRepository.ListActiveIDs(ctx)
		if err != nil {
			return attendance.RecomputeRangeResponse{}, fmt.Errorf("failed to list employees: %w", err)
		}
		employeeIDs = ids
	}

	var count int64
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
		for _, employeeID := range employeeIDs {
			if _, err := a.RecomputeDay(ctx, employeeID, cur); err != nil {
				return attendance.RecomputeRangeResponse{}, err
			}
			count++
		}
	}

	a.logger.Info("attendance range recomputed",
		"from", req.DateFrom, "to", req.DateTo, "days", count)

	return attendance.RecomputeRangeResponse{DaysRecomputed: count}, nil
}
