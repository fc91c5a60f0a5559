package leave

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-hr/peopleops-backend-go/internal/config"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/fixtures"
	"github.com/tally-hr/peopleops-backend-go/internal/repository/memory"
)

type leaveTestEnv struct {
	svc       leave.Service
	store     *memory.Store
	types     *memory.LeaveTypeRepository
	balances  *memory.LeaveBalanceRepository
	employees *memory.EmployeeRepository
	emp       employee.Employee
}

func testLeaveConfig() config.LeaveConfig {
	return config.LeaveConfig{
		PermissionMonthlyCapHours: dec("3"),
		InsufficientPolicy:        config.PolicyLossOfPay,
		AccrualLeaveCode:          "EL",
		AccrualMonthlyHours:       dec("16"),
	}
}

// newLeaveTestEnv wires the service against the in-memory store with the
// default leave catalogue seeded.
func newLeaveTestEnv(t *testing.T) *leaveTestEnv {
	t.Helper()

	store := memory.NewStore()
	typeRepo := memory.NewLeaveTypeRepository(store)
	balanceRepo := memory.NewLeaveBalanceRepository(store)
	requestRepo := memory.NewLeaveRequestRepository(store)
	employeeRepo := memory.NewEmployeeRepository(store)

	ctx := context.Background()
	for _, lt := range fixtures.GetDefaultLeaveTypes() {
		_, err := typeRepo.Create(ctx, lt)
		require.NoError(t, err)
	}

	emp := employeeRepo.Seed(employee.Employee{
		Code:     "E001",
		FullName: "Asha Nair",
		Active:   true,
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewLeaveService(
		memory.TxManager{},
		typeRepo,
		balanceRepo,
		requestRepo,
		employeeRepo,
		NewLedger(balanceRepo),
		testLeaveConfig(),
		logger,
	)

	return &leaveTestEnv{
		svc:       svc,
		store:     store,
		types:     typeRepo,
		balances:  balanceRepo,
		employees: employeeRepo,
		emp:       emp,
	}
}

func TestCreateType_DuplicateCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	req := leave.CreateTypeRequest{
		Code: "ML", Name: "Maternity Leave", Unit: string(leave.UnitDay), IsPaid: true,
	}
	created, err := env.svc.CreateType(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = env.svc.CreateType(ctx, req)
	assert.ErrorIs(t, err, leave.ErrLeaveTypeExists)
}

func TestUpdateType_PartialFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	lt, err := env.types.GetByCode(ctx, "SL")
	require.NoError(t, err)

	name := "Sickness Leave"
	allowHalf := true
	resp, err := env.svc.UpdateType(ctx, leave.UpdateTypeRequest{
		ID:           lt.ID,
		Name:         &name,
		AllowHalfDay: &allowHalf,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sickness Leave", resp.Name)
	assert.True(t, resp.AllowHalfDay)
	// Unset fields keep their values.
	assert.Equal(t, "SL", resp.Code)
	assert.True(t, resp.IsPaid)
}

func TestDeleteType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	lt, err := env.types.GetByCode(ctx, "LOP")
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteType(ctx, lt.ID))
	assert.ErrorIs(t, env.svc.DeleteType(ctx, lt.ID), leave.ErrLeaveTypeNotFound)
}

func TestListTypes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	types, err := env.svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(fixtures.GetDefaultLeaveTypes()))
}

func TestBalanceLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	seeded, err := env.svc.SeedBalance(ctx, leave.SeedBalanceRequest{
		EmployeeID: env.emp.ID, TypeCode: "EL", Year: 2025, OpeningHours: dec("40"),
	})
	require.NoError(t, err)
	assert.True(t, seeded.Opening.Equal(dec("40")))
	assert.True(t, seeded.Closing.Equal(dec("40")))

	accrued, err := env.svc.AccrueBalance(ctx, leave.AccrueBalanceRequest{
		EmployeeID: env.emp.ID, TypeCode: "EL", Year: 2025, Hours: dec("16"),
	})
	require.NoError(t, err)
	assert.True(t, accrued.Closing.Equal(dec("56")))

	adjusted, err := env.svc.AdjustBalance(ctx, leave.AdjustBalanceRequest{
		EmployeeID: env.emp.ID, TypeCode: "EL", Year: 2025, DeltaHours: dec("-6"),
	})
	require.NoError(t, err)
	assert.True(t, adjusted.Closing.Equal(dec("50")))

	listed, err := env.svc.ListBalances(ctx, env.emp.ID, 2025, nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "EL", listed[0].TypeCode)
	assert.True(t, listed[0].Closing.Equal(dec("50")))
}

func TestBalanceMutation_UnknownTypeCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	_, err := env.svc.SeedBalance(ctx, leave.SeedBalanceRequest{
		EmployeeID: env.emp.ID, TypeCode: "XX", Year: 2025, OpeningHours: dec("40"),
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)
}

func TestRunMonthlyAccrual(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	env.employees.Seed(employee.Employee{Code: "E002", FullName: "Ravi Menon", Active: true})
	env.employees.Seed(employee.Employee{Code: "E003", FullName: "Former Employee", Active: false})

	resp, err := env.svc.RunMonthlyAccrual(ctx, leave.AccrualRunRequest{
		TypeCode: "EL", Year: 2025, Hours: dec("16"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.EmployeesAccrued)

	balances, err := env.svc.ListBalances(ctx, env.emp.ID, 2025, nil)
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.True(t, balances[0].Accrued.Equal(dec("16")))
	assert.True(t, balances[0].Closing.Equal(dec("16")))
}

func TestListBalances_MonthScoped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	march := 3
	for i := 0; i < 2; i++ {
		_, err := env.svc.RunMonthlyAccrual(ctx, leave.AccrualRunRequest{
			TypeCode: "EL", Year: 2025, Month: &march, Hours: dec("16"),
		})
		require.NoError(t, err)
	}
	april := 4
	_, err := env.svc.RunMonthlyAccrual(ctx, leave.AccrualRunRequest{
		TypeCode: "EL", Year: 2025, Month: &april, Hours: dec("16"),
	})
	require.NoError(t, err)

	monthly, err := env.svc.ListBalances(ctx, env.emp.ID, 2025, &march)
	require.NoError(t, err)
	require.Len(t, monthly, 1)
	require.NotNil(t, monthly[0].Month)
	assert.Equal(t, march, *monthly[0].Month)
	assert.True(t, monthly[0].Accrued.Equal(dec("32")), "accrued %s", monthly[0].Accrued)
	assert.True(t, monthly[0].Closing.Equal(dec("32")))

	// The annual view carries the whole year and never the month slices.
	annual, err := env.svc.ListBalances(ctx, env.emp.ID, 2025, nil)
	require.NoError(t, err)
	require.Len(t, annual, 1)
	assert.Nil(t, annual[0].Month)
	assert.True(t, annual[0].Accrued.Equal(dec("48")), "accrued %s", annual[0].Accrued)

	bad := 13
	_, err = env.svc.ListBalances(ctx, env.emp.ID, 2025, &bad)
	assert.Error(t, err)
}

func TestMonthPermissionHours_EmptyMonth(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newLeaveTestEnv(t)

	resp, err := env.svc.MonthPermissionHours(ctx, env.emp.ID, "PER", 2025, 3)
	require.NoError(t, err)
	assert.True(t, resp.UsedHours.IsZero())
	assert.True(t, resp.CapHours.Equal(dec("3")))

	_, err = env.svc.MonthPermissionHours(ctx, env.emp.ID, "PER", 2025, 13)
	assert.Error(t, err)
}
