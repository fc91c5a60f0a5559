package leave

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-hr/peopleops-backend-go/internal/config"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
	"github.com/tally-hr/peopleops-backend-go/internal/fixtures"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/clock"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/timeutil"
	"github.com/tally-hr/peopleops-backend-go/internal/repository/memory"
)

const requestTestExpectedSeconds = 28800

type requestTestEnv struct {
	svc      leave.RequestService
	ledger   leave.Ledger
	types    *memory.LeaveTypeRepository
	days     *memory.DayRepository
	holidays *memory.HolidayRepository
	clk      *clock.Fixed
	emp      employee.Employee
	approver employee.Employee
}

func newRequestTestEnv(t *testing.T, cfg config.LeaveConfig) *requestTestEnv {
	t.Helper()

	store := memory.NewStore()
	typeRepo := memory.NewLeaveTypeRepository(store)
	balanceRepo := memory.NewLeaveBalanceRepository(store)
	requestRepo := memory.NewLeaveRequestRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)
	dayRepo := memory.NewDayRepository(store)
	holidayRepo := memory.NewHolidayRepository(store)

	ctx := context.Background()
	for _, lt := range fixtures.GetDefaultLeaveTypes() {
		_, err := typeRepo.Create(ctx, lt)
		require.NoError(t, err)
	}

	emp := employeeRepo.Seed(employee.Employee{Code: "E001", FullName: "Asha Nair", Active: true})
	approver := employeeRepo.Seed(employee.Employee{Code: "M001", FullName: "Priya Iyer", Active: true})

	ledger := NewLedger(balanceRepo)
	clk := &clock.Fixed{Now: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewLeaveRequestService(
		memory.TxManager{},
		typeRepo,
		requestRepo,
		employeeRepo,
		dayRepo,
		ledger,
		clk,
		cfg,
		requestTestExpectedSeconds,
		logger,
	)

	return &requestTestEnv{
		svc:      svc,
		ledger:   ledger,
		types:    typeRepo,
		days:     dayRepo,
		holidays: holidayRepo,
		clk:      clk,
		emp:      emp,
		approver: approver,
	}
}

func (env *requestTestEnv) apply(t *testing.T, req leave.ApplyRequest) leave.RequestResponse {
	t.Helper()
	req.EmployeeID = env.emp.ID
	resp, err := env.svc.Apply(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func (env *requestTestEnv) approve(t *testing.T, requestID string) leave.RequestResponse {
	t.Helper()
	resp, err := env.svc.Decide(context.Background(), leave.DecideRequest{
		ID:         requestID,
		ApproverID: env.approver.ID,
		Decision:   string(leave.StatusApproved),
	})
	require.NoError(t, err)
	return resp
}

func (env *requestTestEnv) typeID(t *testing.T, code string) string {
	t.Helper()
	lt, err := env.types.GetByCode(context.Background(), code)
	require.NoError(t, err)
	return lt.ID
}

func TestApply_CreatesPendingRequest(t *testing.T) {
	t.Parallel()
	env := newRequestTestEnv(t, testLeaveConfig())

	resp := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
	})
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, string(leave.StatusPending), resp.Status)
	assert.Equal(t, "EL", resp.TypeCode)
}

func TestApply_UnknownEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	_, err := env.svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: "missing",
		TypeCode:   "EL",
		Unit:       string(leave.RequestUnitDay),
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-10",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestApply_HalfDayNotAllowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	_, err := env.svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: env.emp.ID,
		TypeCode:   "SL",
		Unit:       string(leave.RequestUnitHalfDay),
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-10",
	})
	assert.ErrorIs(t, err, leave.ErrHalfDayNotAllowed)
}

func TestApply_PermissionHoursNotAllowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	hours := dec("2")
	_, err := env.svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: env.emp.ID,
		TypeCode:   "EL",
		Unit:       string(leave.RequestUnitHour),
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-10",
		Hours:      &hours,
	})
	assert.ErrorIs(t, err, leave.ErrPermissionNotAllowed)
}

func TestApply_OverlappingRequest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
	})

	_, err := env.svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: env.emp.ID,
		TypeCode:   "SL",
		Unit:       string(leave.RequestUnitDay),
		StartDate:  "2025-03-12",
		EndDate:    "2025-03-13",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestApply_MonthlyLimit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	first := env.apply(t, leave.ApplyRequest{
		TypeCode:  "CL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-05",
		EndDate:   "2025-03-05",
	})
	env.approve(t, first.ID)

	_, err := env.svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: env.emp.ID,
		TypeCode:   "CL",
		Unit:       string(leave.RequestUnitDay),
		StartDate:  "2025-03-20",
		EndDate:    "2025-03-20",
	})
	assert.ErrorIs(t, err, leave.ErrMonthlyLimitExceeded)

	// The limit is per calendar month.
	_, err = env.svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: env.emp.ID,
		TypeCode:   "CL",
		Unit:       string(leave.RequestUnitDay),
		StartDate:  "2025-04-03",
		EndDate:    "2025-04-03",
	})
	assert.NoError(t, err)
}

func TestDecide_ApprovePaid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	elID := env.typeID(t, "EL")
	_, err := env.ledger.Seed(ctx, env.emp.ID, elID, 2025, dec("40"))
	require.NoError(t, err)

	// Monday through Friday, 5 working days of 8 hours.
	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-14",
	})

	resp := env.approve(t, req.ID)
	assert.Equal(t, string(leave.StatusApproved), resp.Status)
	require.NotNil(t, resp.Paid)
	assert.True(t, *resp.Paid)
	require.NotNil(t, resp.DecidedAt)
	assert.Equal(t, &env.approver.ID, resp.ApproverID)

	balance, err := env.ledger.GetOrCreate(ctx, env.emp.ID, elID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Used.Equal(dec("40")), "used %s", balance.Used)
	assert.True(t, balance.Closing.IsZero(), "closing %s", balance.Closing)

	for day := 10; day <= 14; day++ {
		row, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, day))
		require.NoError(t, err)
		require.NotNil(t, row, "March %d", day)
		assert.Equal(t, attendance.StatusLeave, row.Status)
		assert.Equal(t, int64(28800), row.PaidLeaveSeconds)
		assert.Equal(t, int64(0), row.UnderworkSeconds)
		assert.Equal(t, int64(0), row.UnpaidSeconds)
	}
}

func TestDecide_InsufficientBalanceFallsToLossOfPay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	elID := env.typeID(t, "EL")
	_, err := env.ledger.Seed(ctx, env.emp.ID, elID, 2025, dec("8"))
	require.NoError(t, err)

	// Two days need 16 hours but only 8 are available.
	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})

	resp := env.approve(t, req.ID)
	require.NotNil(t, resp.Paid)
	assert.False(t, *resp.Paid)

	// The ledger is untouched.
	balance, err := env.ledger.GetOrCreate(ctx, env.emp.ID, elID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Used.IsZero())
	assert.True(t, balance.Closing.Equal(dec("8")))

	for day := 10; day <= 11; day++ {
		row, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, day))
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, attendance.StatusLeave, row.Status)
		assert.Equal(t, int64(28800), row.UnpaidSeconds)
		assert.Equal(t, int64(0), row.PaidLeaveSeconds)
	}
}

func TestDecide_InsufficientBalanceRejectPolicy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := testLeaveConfig()
	cfg.InsufficientPolicy = config.PolicyReject
	env := newRequestTestEnv(t, cfg)

	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
	})

	_, err := env.svc.Decide(ctx, leave.DecideRequest{
		ID:         req.ID,
		ApproverID: env.approver.ID,
		Decision:   string(leave.StatusApproved),
	})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	// The request stays pending and no days were written.
	pending, err := env.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	row, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 10))
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestDecide_Reject(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})

	note := "headcount freeze"
	resp, err := env.svc.Decide(ctx, leave.DecideRequest{
		ID:         req.ID,
		ApproverID: env.approver.ID,
		Decision:   string(leave.StatusRejected),
		Note:       &note,
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusRejected), resp.Status)
	assert.Equal(t, &note, resp.DecisionNote)

	row, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 10))
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestDecide_AlreadyDecided(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})
	env.approve(t, req.ID)

	_, err := env.svc.Decide(ctx, leave.DecideRequest{
		ID:         req.ID,
		ApproverID: env.approver.ID,
		Decision:   string(leave.StatusRejected),
	})
	assert.ErrorIs(t, err, leave.ErrAlreadyDecided)
}

func TestDecide_ChargesWeekendsInRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	elID := env.typeID(t, "EL")
	_, err := env.ledger.Seed(ctx, env.emp.ID, elID, 2025, dec("40"))
	require.NoError(t, err)

	// Friday through Monday: all four calendar days are charged.
	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-14",
		EndDate:   "2025-03-17",
	})
	env.approve(t, req.ID)

	balance, err := env.ledger.GetOrCreate(ctx, env.emp.ID, elID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Used.Equal(dec("32")), "used %s", balance.Used)

	saturday, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 15))
	require.NoError(t, err)
	require.NotNil(t, saturday)
	assert.Equal(t, attendance.StatusLeave, saturday.Status)
	assert.Equal(t, int64(28800), saturday.PaidLeaveSeconds)
}

func TestDecide_ChargesHolidaysInRange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	_, err := env.holidays.Create(ctx, policy.Holiday{
		Date: timeutil.Date(2025, time.March, 17), Name: "Founders Day", IsPaid: true,
	})
	require.NoError(t, err)

	elID := env.typeID(t, "EL")
	_, err = env.ledger.Seed(ctx, env.emp.ID, elID, 2025, dec("40"))
	require.NoError(t, err)

	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-17",
		EndDate:   "2025-03-18",
	})
	env.approve(t, req.ID)

	balance, err := env.ledger.GetOrCreate(ctx, env.emp.ID, elID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Used.Equal(dec("16")), "used %s", balance.Used)

	holidayRow, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 17))
	require.NoError(t, err)
	require.NotNil(t, holidayRow)
	assert.Equal(t, int64(28800), holidayRow.PaidLeaveSeconds)
}

func TestDecide_WeekendSpanConsumesFullBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	clID := env.typeID(t, "CL")
	_, err := env.ledger.Seed(ctx, env.emp.ID, clID, 2025, dec("24"))
	require.NoError(t, err)

	// Friday through Sunday: three days at 8h each against a 24h balance.
	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "CL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-07",
		EndDate:   "2025-03-09",
	})
	resp := env.approve(t, req.ID)
	require.NotNil(t, resp.Paid)
	assert.True(t, *resp.Paid)

	balance, err := env.ledger.GetOrCreate(ctx, env.emp.ID, clID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Closing.IsZero(), "closing %s", balance.Closing)

	for day := 7; day <= 9; day++ {
		row, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, day))
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, attendance.StatusLeave, row.Status)
		assert.Equal(t, int64(28800), row.PaidLeaveSeconds)
	}
}

func TestDecide_ForcesLeaveStatusOverPunchedDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	_, err := env.days.Create(ctx, attendance.AttendanceDay{
		EmployeeID:      env.emp.ID,
		Date:            timeutil.Date(2025, time.March, 12),
		SecondsWorked:   14400,
		ExpectedSeconds: requestTestExpectedSeconds,
		Status:          attendance.StatusPresent,
	})
	require.NoError(t, err)

	elID := env.typeID(t, "EL")
	_, err = env.ledger.Seed(ctx, env.emp.ID, elID, 2025, dec("40"))
	require.NoError(t, err)

	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitHalfDay),
		StartDate: "2025-03-12",
		EndDate:   "2025-03-12",
	})
	env.approve(t, req.ID)

	row, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 12))
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, attendance.StatusLeave, row.Status)
	assert.Equal(t, int64(14400), row.SecondsWorked)
	assert.Equal(t, int64(14400), row.PaidLeaveSeconds)
	// 4h worked + 4h paid leave exactly meets the 8h expectation.
	assert.Equal(t, int64(0), row.OvertimeSeconds)
	assert.Equal(t, int64(0), row.UnderworkSeconds)
}

func TestDecide_HalfDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	elID := env.typeID(t, "EL")
	_, err := env.ledger.Seed(ctx, env.emp.ID, elID, 2025, dec("40"))
	require.NoError(t, err)

	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitHalfDay),
		StartDate: "2025-03-12",
		EndDate:   "2025-03-12",
	})
	env.approve(t, req.ID)

	balance, err := env.ledger.GetOrCreate(ctx, env.emp.ID, elID, 2025)
	require.NoError(t, err)
	assert.True(t, balance.Used.Equal(dec("4")), "used %s", balance.Used)

	row, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 12))
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(14400), row.PaidLeaveSeconds)
	assert.Equal(t, int64(14400), row.UnderworkSeconds)
}

func TestDecide_PermissionHoursAndMonthlyCap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	perID := env.typeID(t, "PER")
	_, err := env.ledger.Seed(ctx, env.emp.ID, perID, 2025, dec("10"))
	require.NoError(t, err)

	hours := dec("2")
	first := env.apply(t, leave.ApplyRequest{
		TypeCode:  "PER",
		Unit:      string(leave.RequestUnitHour),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
		Hours:     &hours,
	})
	resp := env.approve(t, first.ID)
	require.NotNil(t, resp.Paid)
	assert.True(t, *resp.Paid)

	row, err := env.days.GetByEmployeeAndDate(ctx, env.emp.ID, timeutil.Date(2025, time.March, 10))
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(7200), row.PaidLeaveSeconds)

	// Another 1.5 hours would exceed the 3 hour monthly cap.
	more := dec("1.5")
	second := env.apply(t, leave.ApplyRequest{
		TypeCode:  "PER",
		Unit:      string(leave.RequestUnitHour),
		StartDate: "2025-03-12",
		EndDate:   "2025-03-12",
		Hours:     &more,
	})
	_, err = env.svc.Decide(ctx, leave.DecideRequest{
		ID:         second.ID,
		ApproverID: env.approver.ID,
		Decision:   string(leave.StatusApproved),
	})
	assert.ErrorIs(t, err, leave.ErrPermissionCapExceeded)
}

func TestCancel_OwnerAndStateGuards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	req := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})

	_, err := env.svc.Cancel(ctx, env.approver.ID, req.ID)
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)

	resp, err := env.svc.Cancel(ctx, env.emp.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, string(leave.StatusCancelled), resp.Status)

	_, err = env.svc.Cancel(ctx, env.emp.ID, req.ID)
	assert.ErrorIs(t, err, leave.ErrAlreadyDecided)

	// A cancelled request no longer blocks the dates.
	_, err = env.svc.Apply(ctx, leave.ApplyRequest{
		EmployeeID: env.emp.ID,
		TypeCode:   "EL",
		Unit:       string(leave.RequestUnitDay),
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-10",
	})
	assert.NoError(t, err)
}

func TestListMineAndPending(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newRequestTestEnv(t, testLeaveConfig())

	first := env.apply(t, leave.ApplyRequest{
		TypeCode:  "EL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-10",
		EndDate:   "2025-03-10",
	})
	env.apply(t, leave.ApplyRequest{
		TypeCode:  "SL",
		Unit:      string(leave.RequestUnitDay),
		StartDate: "2025-03-20",
		EndDate:   "2025-03-20",
	})

	mine, err := env.svc.ListMine(ctx, env.emp.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	env.approve(t, first.ID)
	pending, err := env.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "SL", pending[0].TypeCode)
}
