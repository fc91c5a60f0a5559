package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/clock"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/database"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/timeutil"
)

type AttendanceServiceImpl struct {
	tx database.TxManager
	attendance.SessionRepository
	attendance.DayRepository
	employee.EmployeeRepository
	resolver        policy.Resolver
	zone            *timeutil.Zone
	clock           clock.Clock
	expectedSeconds int64
	logger          *slog.Logger
}

func NewAttendanceService(
	tx database.TxManager,
	sessionRepo attendance.SessionRepository,
	dayRepo attendance.DayRepository,
	employeeRepo employee.EmployeeRepository,
	resolver policy.Resolver,
	zone *timeutil.Zone,
	clk clock.Clock,
	expectedSeconds int64,
	logger *slog.Logger,
) attendance.Service {
	return &AttendanceServiceImpl{
		tx:                 tx,
		SessionRepository:  sessionRepo,
		DayRepository:      dayRepo,
		EmployeeRepository: employeeRepo,
		resolver:           resolver,
		zone:               zone,
		clock:              clk,
		expectedSeconds:    expectedSeconds,
		logger:             logger,
	}
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string) (attendance.CheckInResponse, error) {
	exists, err := a.EmployeeRepository.Exists(ctx, employeeID)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to look up employee: %w", err)
	}
	if !exists {
		return attendance.CheckInResponse{}, employee.ErrEmployeeNotFound
	}

	open, err := a.SessionRepository.GetOpenSession(ctx, employeeID)
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if open != nil {
		return attendance.CheckInResponse{}, attendance.ErrAlreadyCheckedIn
	}

	nowUTC := a.clock.NowUTC()
	session, err := a.SessionRepository.Create(ctx, attendance.AttendanceSession{
		EmployeeID: employeeID,
		CheckIn:    nowUTC,
		WorkDate:   a.zone.LocalDate(nowUTC),
	})
	if err != nil {
		return attendance.CheckInResponse{}, fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("employee checked in",
		"employee_id", employeeID,
		"work_date", session.WorkDate.Format("2006-01-02"))

	return attendance.CheckInResponse{
		SessionID:  session.ID,
		EmployeeID: session.EmployeeID,
		CheckIn:    session.CheckIn.UTC().Format(time.RFC3339),
		WorkDate:   session.WorkDate.Format("2006-01-02"),
	}, nil
}

// CheckOut implements attendance.Service. An interval that crosses a local
// midnight is split at the first midnight after check-in: the first segment
// stays on the check-in's civil date, the remainder is credited to the
// following date.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string) (attendance.CheckOutResponse, error) {
	session, err := a.SessionRepository.GetOpenSession(ctx, employeeID)
	if err != nil {
		return attendance.CheckOutResponse{}, fmt.Errorf("failed to get open session: %w", err)
	}
	if session == nil {
		return attendance.CheckOutResponse{}, attendance.ErrNoOpenSession
	}

	nowUTC := a.clock.NowUTC()
	if nowUTC.Before(session.CheckIn) {
		return attendance.CheckOutResponse{}, attendance.ErrCheckOutBeforeCheckIn
	}

	midnight := a.zone.MidnightAfter(session.CheckIn)
	resp := attendance.CheckOutResponse{
		SessionID:  session.ID,
		EmployeeID: session.EmployeeID,
		CheckIn:    session.CheckIn.UTC().Format(time.RFC3339),
		CheckOut:   nowUTC.UTC().Format(time.RFC3339),
		WorkDate:   session.WorkDate.Format("2006-01-02"),
	}

	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if nowUTC.Before(midnight) {
			// Whole interval on one civil date.
			if err := a.SessionRepository.Close(txCtx, session.ID, nowUTC); err != nil {
				return fmt.Errorf("failed to close session: %w", err)
			}
			seconds := int64(nowUTC.Sub(session.CheckIn).Seconds())
			if err := a.addWorkedSeconds(txCtx, employeeID, session.WorkDate, seconds, session.CheckIn, nowUTC); err != nil {
				return err
			}
			resp.SecondsWorked = seconds
			return nil
		}

		// Crossed midnight: close the session at the boundary and credit the
		// remainder to the next civil date as its own session, so a later
		// recompute sees the same split.
		if err := a.SessionRepository.Close(txCtx, session.ID, midnight); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}
		secFirst := int64(midnight.Sub(session.CheckIn).Seconds())
		if err := a.addWorkedSeconds(txCtx, employeeID, session.WorkDate, secFirst, session.CheckIn, midnight); err != nil {
			return err
		}

		nextDate := session.WorkDate.AddDate(0, 0, 1)
		secRest := int64(nowUTC.Sub(midnight).Seconds())
		if secRest > 0 {
			rest, err := a.SessionRepository.Create(txCtx, attendance.AttendanceSession{
				EmployeeID: employeeID,
				CheckIn:    midnight,
				WorkDate:   nextDate,
			})
			if err != nil {
				return fmt.Errorf("failed to create remainder session: %w", err)
			}
			if err := a.SessionRepository.Close(txCtx, rest.ID, nowUTC); err != nil {
				return fmt.Errorf("failed to close remainder session: %w", err)
			}
			if err := a.addWorkedSeconds(txCtx, employeeID, nextDate, secRest, midnight, nowUTC); err != nil {
				return err
			}
		}

		resp.SecondsWorked = secFirst + secRest
		resp.SplitAtMidnight = true
		next := nextDate.Format("2006-01-02")
		resp.NextDate = &next
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	a.logger.Info("employee checked out",
		"employee_id", employeeID,
		"seconds_worked", resp.SecondsWorked,
		"split_at_midnight", resp.SplitAtMidnight)

	return resp, nil
}

// TodayStatus implements attendance.Service. Open-session seconds are derived
// from the clock and never persisted until check-out or a recompute.
func (a *AttendanceServiceImpl) TodayStatus(ctx context.Context, employeeID string) (attendance.TodayStatusResponse, error) {
	nowUTC := a.clock.NowUTC()
	today := a.zone.LocalDate(nowUTC)

	sessions, err := a.SessionRepository.ListByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	var closed, running int64
	var firstIn *time.Time
	openSession := false
	for _, s := range sessions {
		if firstIn == nil || s.CheckIn.Before(*firstIn) {
			in := s.CheckIn
			firstIn = &in
		}
		if s.CheckOut == nil {
			openSession = true
			running += int64(nowUTC.Sub(s.CheckIn).Seconds())
		} else {
			closed += int64(s.CheckOut.Sub(s.CheckIn).Seconds())
		}
	}

	total := closed + running
	return attendance.TodayStatusResponse{
		Date:           today.Format("2006-01-02"),
		ClosedSeconds:  closed,
		RunningSeconds: running,
		TotalSeconds:   total,
		Present:        total > 0 || openSession,
		OpenSession:    openSession,
		FirstCheckIn:   formatTimePtr(firstIn),
	}, nil
}

// MonthView implements attendance.Service.
func (a *AttendanceServiceImpl) MonthView(ctx context.Context, employeeID string, year, month int) (attendance.MonthViewResponse, error) {
	if month < 1 || month > 12 {
		return attendance.MonthViewResponse{}, fmt.Errorf("month %d out of range", month)
	}
	start, next := timeutil.MonthBounds(year, time.Month(month))

	days, err := a.DayRepository.ListRange(ctx, employeeID, start, next.AddDate(0, 0, -1))
	if err != nil {
		return attendance.MonthViewResponse{}, fmt.Errorf("failed to list days: %w", err)
	}

	responses := make([]attendance.DayResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, attendance.MapDayToResponse(d))
	}
	return attendance.MonthViewResponse{Year: year, Month: month, Days: responses}, nil
}

// RangeReport implements attendance.Service. With IncludeAbsent, missing
// working days inside the range are filled as synthetic ABSENT entries so
// reports show gaps explicitly. Holidays are never filled as absent.
func (a *AttendanceServiceImpl) RangeReport(ctx context.Context, req attendance.RangeReportRequest) ([]attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	from, _ := time.Parse("2006-01-02", req.DateFrom)
	to, _ := time.Parse("2006-01-02", req.DateTo)

	out := make([]attendance.DayResponse, 0)
	for _, employeeID := range req.EmployeeIDs {
		days, err := a.DayRepository.ListRange(ctx, employeeID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to list days: %w", err)
		}

		if !req.IncludeAbsent {
			for _, d := range days {
				out = append(out, attendance.MapDayToResponse(d))
			}
			continue
		}

		region, err := a.EmployeeRepository.RegionOf(ctx, employeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to get employee region: %w", err)
		}

		byDate := make(map[string]attendance.AttendanceDay, len(days))
		for _, d := range days {
			byDate[d.Date.Format("2006-01-02")] = d
		}

		for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
			if d, ok := byDate[cur.Format("2006-01-02")]; ok {
				out = append(out, attendance.MapDayToResponse(d))
				continue
			}
			working, err := a.resolver.IsWorkingDay(ctx, region, cur)
			if err != nil {
				return nil, err
			}
			if !working {
				continue
			}
			holidayPaid, err := a.resolver.HolidayPayFlag(ctx, region, cur)
			if err != nil {
				return nil, err
			}
			if holidayPaid != nil {
				continue
			}
			out = append(out, attendance.DayResponse{
				EmployeeID:      employeeID,
				Date:            cur.Format("2006-01-02"),
				ExpectedSeconds: a.expectedSeconds,
				UnpaidSeconds:   a.expectedSeconds,
				Status:          string(attendance.StatusAbsent),
			})
		}
	}
	return out, nil
}

// OverrideDay implements attendance.Service.
func (a *AttendanceServiceImpl) OverrideDay(ctx context.Context, req attendance.OverrideDayRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}
	date, _ := time.Parse("2006-01-02", req.Date)
	date = timeutil.Date(date.Year(), date.Month(), date.Day())

	var result attendance.AttendanceDay
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		day, err := a.DayRepository.GetByEmployeeAndDate(txCtx, req.EmployeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get day: %w", err)
		}
		if day == nil {
			created, err := a.DayRepository.Create(txCtx, a.newDay(req.EmployeeID, date))
			if err != nil {
				return fmt.Errorf("failed to create day: %w", err)
			}
			day = &created
		}
		if day.Locked {
			return attendance.ErrPeriodLocked
		}

		if req.Status != nil {
			day.Status = attendance.DayStatus(*req.Status)
		}
		if req.SecondsWorked != nil {
			day.SecondsWorked = *req.SecondsWorked
		}
		if req.ExpectedSeconds != nil {
			day.ExpectedSeconds = *req.ExpectedSeconds
		}
		if req.PaidLeaveSeconds != nil {
			day.PaidLeaveSeconds = *req.PaidLeaveSeconds
		}
		if req.UnpaidSeconds != nil {
			day.UnpaidSeconds = *req.UnpaidSeconds
		}
		rederiveBlended(day)

		if err := a.DayRepository.Update(txCtx, *day); err != nil {
			return fmt.Errorf("failed to update day: %w", err)
		}
		result = *day
		return nil
	})
	if err != nil {
		return attendance.DayResponse{}, err
	}

	a.logger.Info("attendance day overridden",
		"employee_id", req.EmployeeID, "date", req.Date)

	return attendance.MapDayToResponse(result), nil
}

// SetDayLock implements attendance.Service. Unlock is the one entry point
// allowed to touch a locked day.
func (a *AttendanceServiceImpl) SetDayLock(ctx context.Context, employeeID, dateStr string, locked bool) (attendance.DayResponse, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("invalid date: %w", err)
	}
	date = timeutil.Date(date.Year(), date.Month(), date.Day())

	day, err := a.DayRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get day: %w", err)
	}
	if day == nil {
		return attendance.DayResponse{}, attendance.ErrDayNotFound
	}

	day.Locked = locked
	if err := a.DayRepository.Update(ctx, *day); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to update day: %w", err)
	}
	return attendance.MapDayToResponse(*day), nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
