package attendance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/clock"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/timeutil"
	"github.com/tally-hr/peopleops-backend-go/internal/repository/memory"
	policyservice "github.com/tally-hr/peopleops-backend-go/internal/service/policy"
)

const testExpectedSeconds = 28800

type attendanceTestEnv struct {
	svc      *AttendanceServiceImpl
	clk      *clock.Fixed
	zone     *timeutil.Zone
	sessions  *memory.SessionRepository
	days      *memory.DayRepository
	employees *memory.EmployeeRepository
	holidays *memory.HolidayRepository
	workweek *memory.WorkweekPolicyRepository
	emp      employee.Employee
}

// newAttendanceTestEnv wires the service against the in-memory store with a
// fixed clock pinned to 09:00 Kolkata time on Monday 2025-03-10.
func newAttendanceTestEnv(t *testing.T) *attendanceTestEnv {
	t.Helper()

	zone, err := timeutil.NewZone("Asia/Kolkata")
	require.NoError(t, err)

	store := memory.NewStore()
	sessionRepo := memory.NewSessionRepository(store)
	dayRepo := memory.NewDayRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	workweekRepo := memory.NewWorkweekPolicyRepository(store)
	holidayRepo := memory.NewHolidayRepository(store)

	emp := employeeRepo.Seed(employee.Employee{
		Code:     "E001",
		FullName: "Asha Nair",
		Active:   true,
	})

	clk := &clock.Fixed{Now: time.Date(2025, time.March, 10, 3, 30, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewAttendanceService(
		memory.TxManager{},
		sessionRepo,
		dayRepo,
		employeeRepo,
		policyservice.NewPolicyService(workweekRepo, holidayRepo),
		zone,
		clk,
		testExpectedSeconds,
		logger,
	).(*AttendanceServiceImpl)

	return &attendanceTestEnv{
		svc:       svc,
		clk:       clk,
		zone:      zone,
		sessions:  sessionRepo,
		days:      dayRepo,
		employees: employeeRepo,
		holidays:  holidayRepo,
		workweek:  workweekRepo,
		emp:       emp,
	}
}

func TestCheckIn_CreatesSessionOnLocalDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	resp, err := env.svc.CheckIn(ctx, env.emp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "2025-03-10", resp.WorkDate)

	open, err := env.sessions.GetOpenSession(ctx, env.emp.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Nil(t, open.CheckOut)
}

func TestCheckIn_AlreadyCheckedIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	_, err := env.svc.CheckIn(ctx, env.emp.ID)
	require.NoError(t, err)

	_, err = env.svc.CheckIn(ctx, env.emp.ID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_UnknownEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	_, err := env.svc.CheckIn(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCheckOut_SameDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	_, err := env.svc.CheckIn(ctx, env.emp.ID)
	require.NoError(t, err)

	env.clk.Advance(8 * time.Hour)
	resp, err := env.svc.CheckOut(ctx, env.emp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(28800), resp.SecondsWorked)
	assert.False(t, resp.SplitAtMidnight)
	assert.Nil(t, resp.NextDate)

	day, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 10))
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.Equal(t, int64(28800), day.SecondsWorked)
	assert.Equal(t, int64(0), day.OvertimeSeconds)
	assert.Equal(t, int64(0), day.UnderworkSeconds)
	require.NotNil(t, day.FirstCheckIn)
	require.NotNil(t, day.LastCheckOut)
}

func TestCheckOut_NoOpenSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	_, err := env.svc.CheckOut(ctx, env.emp.ID)
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestCheckOut_BeforeCheckIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	_, err := env.svc.CheckIn(ctx, env.emp.ID)
	require.NoError(t, err)

	env.clk.Advance(-time.Hour)
	_, err = env.svc.CheckOut(ctx, env.emp.ID)
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeCheckIn)
}

func TestCheckOut_SplitAtMidnight(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	// 23:00 local on March 10.
	env.clk.Now = time.Date(2025, time.March, 10, 17, 30, 0, 0, time.UTC)
	_, err := env.svc.CheckIn(ctx, env.emp.ID)
	require.NoError(t, err)

	// 01:00 local on March 11.
	env.clk.Advance(2 * time.Hour)
	resp, err := env.svc.CheckOut(ctx, env.emp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7200), resp.SecondsWorked)
	assert.True(t, resp.SplitAtMidnight)
	require.NotNil(t, resp.NextDate)
	assert.Equal(t, "2025-03-11", *resp.NextDate)

	day1, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 10))
	require.NoError(t, err)
	require.NotNil(t, day1)
	assert.Equal(t, int64(3600), day1.SecondsWorked)

	day2, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 11))
	require.NoError(t, err)
	require.NotNil(t, day2)
	assert.Equal(t, int64(3600), day2.SecondsWorked)

	// The remainder lives as its own closed session on the next date, so a
	// later recompute reproduces the same split.
	rest, err := env.sessions.ListByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 11))
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.NotNil(t, rest[0].CheckOut)
	assert.Equal(t, int64(3600), int64(rest[0].CheckOut.Sub(rest[0].CheckIn).Seconds()))
}

func TestTodayStatus_WithOpenSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	_, err := env.svc.CheckIn(ctx, env.emp.ID)
	require.NoError(t, err)
	env.clk.Advance(90 * time.Minute)

	status, err := env.svc.TodayStatus(ctx, env.emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", status.Date)
	assert.Equal(t, int64(0), status.ClosedSeconds)
	assert.Equal(t, int64(5400), status.RunningSeconds)
	assert.Equal(t, int64(5400), status.TotalSeconds)
	assert.True(t, status.Present)
	assert.True(t, status.OpenSession)
	require.NotNil(t, status.FirstCheckIn)
}

func TestTodayStatus_NoPunches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	status, err := env.svc.TodayStatus(ctx, env.emp.ID)
	require.NoError(t, err)
	assert.False(t, status.Present)
	assert.False(t, status.OpenSession)
	assert.Nil(t, status.FirstCheckIn)
}

func TestMonthView(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	_, err := env.svc.CheckIn(ctx, env.emp.ID)
	require.NoError(t, err)
	env.clk.Advance(4 * time.Hour)
	_, err = env.svc.CheckOut(ctx, env.emp.ID)
	require.NoError(t, err)

	view, err := env.svc.MonthView(ctx, env.emp.ID, 2025, 3)
	require.NoError(t, err)
	assert.Equal(t, 2025, view.Year)
	assert.Equal(t, 3, view.Month)
	require.Len(t, view.Days, 1)
	assert.Equal(t, "2025-03-10", view.Days[0].Date)

	// A month with no rows is an empty view, not an error.
	view, err = env.svc.MonthView(ctx, env.emp.ID, 2025, 2)
	require.NoError(t, err)
	assert.Empty(t, view.Days)

	_, err = env.svc.MonthView(ctx, env.emp.ID, 2025, 13)
	assert.Error(t, err)
}

func TestOverrideDay_CreatesAndRederives(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	status := string(attendance.StatusPresent)
	worked := int64(32400)
	resp, err := env.svc.OverrideDay(ctx, attendance.OverrideDayRequest{
		EmployeeID:    env.emp.ID,
		Date:          "2025-03-12",
		Status:        &status,
		SecondsWorked: &worked,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(32400), resp.SecondsWorked)
	assert.Equal(t, int64(3600), resp.OvertimeSeconds)
	assert.Equal(t, int64(0), resp.UnderworkSeconds)
}

func TestOverrideDay_LockedDayRefused(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	day, err := env.days.Create(ctx, attendance.AttendanceDay{
		EmployeeID:      env.emp.ID,
		Date:            timeutil.Date(2025, time.March, 12),
		ExpectedSeconds: testExpectedSeconds,
		Status:          attendance.StatusPresent,
		Locked:          true,
	})
	require.NoError(t, err)

	worked := int64(3600)
	_, err = env.svc.OverrideDay(ctx, attendance.OverrideDayRequest{
		EmployeeID:    env.emp.ID,
		Date:          "2025-03-12",
		SecondsWorked: &worked,
	})
	assert.ErrorIs(t, err, attendance.ErrPeriodLocked)

	// Unlock is the one mutation a locked day accepts.
	resp, err := env.svc.SetDayLock(ctx, env.emp.ID, "2025-03-12", false)
	require.NoError(t, err)
	assert.False(t, resp.Locked)

	got, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, day.Date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Locked)
}

func TestSetDayLock_MissingDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newAttendanceTestEnv(t)

	_, err := env.svc.SetDayLock(ctx, env.emp.ID, "2025-03-12", true)
	assert.ErrorIs(t, err, attendance.ErrDayNotFound)
}
