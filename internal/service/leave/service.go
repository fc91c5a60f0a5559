package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-hr/peopleops-backend-go/internal/config"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	tx database.TxManager
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	ledger leave.Ledger
	cfg    config.LeaveConfig
	logger *slog.Logger
}

func NewLeaveService(
	tx database.TxManager,
	typeRepo leave.LeaveTypeRepository,
	balanceRepo leave.LeaveBalanceRepository,
	requestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	ledger leave.Ledger,
	cfg config.LeaveConfig,
	logger *slog.Logger,
) leave.Service {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveTypeRepository:    typeRepo,
		LeaveBalanceRepository: balanceRepo,
		LeaveRequestRepository: requestRepo,
		EmployeeRepository:     employeeRepo,
		ledger:                 ledger,
		cfg:                    cfg,
		logger:                 logger,
	}
}

// CreateType implements leave.Service.
func (l *LeaveServiceImpl) CreateType(ctx context.Context, req leave.CreateTypeRequest) (leave.TypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.TypeResponse{}, err
	}

	if _, err := l.LeaveTypeRepository.GetByCode(ctx, req.Code); err == nil {
		return leave.TypeResponse{}, leave.ErrLeaveTypeExists
	} else if !errors.Is(err, leave.ErrLeaveTypeNotFound) {
		return leave.TypeResponse{}, fmt.Errorf("failed to check leave type code: %w", err)
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		Code:                 req.Code,
		Name:                 req.Name,
		Unit:                 leave.Unit(req.Unit),
		IsPaid:               req.IsPaid,
		AllowHalfDay:         req.AllowHalfDay,
		AllowPermissionHours: req.AllowPermissionHours,
		MonthlyLimit:         req.MonthlyLimit,
	})
	if err != nil {
		return leave.TypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	l.logger.Info("leave type created", "code", created.Code)
	return mapTypeToResponse(created), nil
}

// UpdateType implements leave.Service.
func (l *LeaveServiceImpl) UpdateType(ctx context.Context, req leave.UpdateTypeRequest) (leave.TypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.TypeResponse{}, err
	}

	lt, err := l.LeaveTypeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.TypeResponse{}, err
	}

	if req.Name != nil {
		lt.Name = *req.Name
	}
	if req.IsPaid != nil {
		lt.IsPaid = *req.IsPaid
	}
	if req.AllowHalfDay != nil {
		lt.AllowHalfDay = *req.AllowHalfDay
	}
	if req.AllowPermissionHours != nil {
		lt.AllowPermissionHours = *req.AllowPermissionHours
	}
	if req.MonthlyLimit != nil {
		lt.MonthlyLimit = *req.MonthlyLimit
	}

	if err := l.LeaveTypeRepository.Update(ctx, lt); err != nil {
		return leave.TypeResponse{}, fmt.Errorf("failed to update leave type: %w", err)
	}
	return mapTypeToResponse(lt), nil
}

// DeleteType implements leave.Service.
func (l *LeaveServiceImpl) DeleteType(ctx context.Context, id string) error {
	if _, err := l.LeaveTypeRepository.GetByID(ctx, id); err != nil {
		return err
	}
	if err := l.LeaveTypeRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete leave type: %w", err)
	}
	return nil
}

// ListTypes implements leave.Service.
func (l *LeaveServiceImpl) ListTypes(ctx context.Context) ([]leave.TypeResponse, error) {
	types, err := l.LeaveTypeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	out := make([]leave.TypeResponse, 0, len(types))
	for _, lt := range types {
		out = append(out, mapTypeToResponse(lt))
	}
	return out, nil
}

// SeedBalance implements leave.Service.
func (l *LeaveServiceImpl) SeedBalance(ctx context.Context, req leave.SeedBalanceRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}
	lt, err := l.LeaveTypeRepository.GetByCode(ctx, req.TypeCode)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	b, err := l.ledger.Seed(ctx, req.EmployeeID, lt.ID, req.Year, req.OpeningHours)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return mapBalanceToResponse(b, lt.Code), nil
}

// AccrueBalance implements leave.Service.
func (l *LeaveServiceImpl) AccrueBalance(ctx context.Context, req leave.AccrueBalanceRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}
	lt, err := l.LeaveTypeRepository.GetByCode(ctx, req.TypeCode)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	b, err := l.ledger.Accrue(ctx, req.EmployeeID, lt.ID, req.Year, req.Hours)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return mapBalanceToResponse(b, lt.Code), nil
}

// AdjustBalance implements leave.Service.
func (l *LeaveServiceImpl) AdjustBalance(ctx context.Context, req leave.AdjustBalanceRequest) (leave.BalanceResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceResponse{}, err
	}
	lt, err := l.LeaveTypeRepository.GetByCode(ctx, req.TypeCode)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	b, err := l.ledger.Adjust(ctx, req.EmployeeID, lt.ID, req.Year, req.DeltaHours)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return mapBalanceToResponse(b, lt.Code), nil
}

// RunMonthlyAccrual implements leave.Service.
func (l *LeaveServiceImpl) RunMonthlyAccrual(ctx context.Context, req leave.AccrualRunRequest) (leave.AccrualRunResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.AccrualRunResponse{}, err
	}
	lt, err := l.LeaveTypeRepository.GetByCode(ctx, req.TypeCode)
	if err != nil {
		return leave.AccrualRunResponse{}, err
	}
	employeeIDs, err := l.EmployeeRepository.ListActiveIDs(ctx)
	if err != nil {
		return leave.AccrualRunResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	var accrued int
	err = l.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, employeeID := range employeeIDs {
			if _, err := l.ledger.Accrue(txCtx, employeeID, lt.ID, req.Year, req.Hours); err != nil {
				return err
			}
			if req.Month != nil {
				if err := l.accrueMonthRow(txCtx, employeeID, lt.ID, req.Year, *req.Month, req.Hours); err != nil {
					return err
				}
			}
			accrued++
		}
		return nil
	})
	if err != nil {
		return leave.AccrualRunResponse{}, err
	}

	l.logger.Info("monthly accrual run",
		"type_code", req.TypeCode,
		"year", req.Year,
		"hours", req.Hours.String(),
		"employees", accrued)

	return leave.AccrualRunResponse{EmployeesAccrued: accrued}, nil
}

// accrueMonthRow folds an accrual into the month-scoped balance row, the
// reporting slice behind month-wise balance listings. The annual ledger row
// stays the accounting source of truth.
func (l *LeaveServiceImpl) accrueMonthRow(ctx context.Context, employeeID, leaveTypeID string, year, month int, hours decimal.Decimal) error {
	rows, err := l.LeaveBalanceRepository.ListByEmployeeYearMonth(ctx, employeeID, year, month)
	if err != nil {
		return fmt.Errorf("failed to list month balances: %w", err)
	}
	for _, row := range rows {
		if row.LeaveTypeID != leaveTypeID {
			continue
		}
		row.Accrued = row.Accrued.Add(hours)
		row.Closing = row.Opening.Add(row.Accrued).Add(row.Adjusted).Sub(row.Used)
		return l.LeaveBalanceRepository.Update(ctx, row)
	}
	m := month
	_, err = l.LeaveBalanceRepository.Create(ctx, leave.LeaveBalance{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		Year:        year,
		Month:       &m,
		Accrued:     hours,
		Closing:     hours,
	})
	return err
}

// ListBalances implements leave.Service. Without a month it returns the
// annual ledger rows; with one it returns the month-scoped rows written by
// the monthly accrual run.
func (l *LeaveServiceImpl) ListBalances(ctx context.Context, employeeID string, year int, month *int) ([]leave.BalanceResponse, error) {
	var balances []leave.LeaveBalance
	var err error
	if month != nil {
		if *month < 1 || *month > 12 {
			return nil, fmt.Errorf("month %d out of range", *month)
		}
		balances, err = l.LeaveBalanceRepository.ListByEmployeeYearMonth(ctx, employeeID, year, *month)
	} else {
		balances, err = l.LeaveBalanceRepository.ListByEmployeeYear(ctx, employeeID, year)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	out := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		lt, err := l.LeaveTypeRepository.GetByID(ctx, b.LeaveTypeID)
		if err != nil {
			return nil, err
		}
		out = append(out, mapBalanceToResponse(b, lt.Code))
	}
	return out, nil
}

// MonthPermissionHours implements leave.Service.
func (l *LeaveServiceImpl) MonthPermissionHours(ctx context.Context, employeeID, typeCode string, year, month int) (leave.PermissionHoursResponse, error) {
	if month < 1 || month > 12 {
		return leave.PermissionHoursResponse{}, fmt.Errorf("month %d out of range", month)
	}
	lt, err := l.LeaveTypeRepository.GetByCode(ctx, typeCode)
	if err != nil {
		return leave.PermissionHoursResponse{}, err
	}
	used, err := l.LeaveRequestRepository.SumPermissionHoursInMonth(ctx, employeeID, lt.ID, year, time.Month(month))
	if err != nil {
		return leave.PermissionHoursResponse{}, fmt.Errorf("failed to sum permission hours: %w", err)
	}
	return leave.PermissionHoursResponse{
		EmployeeID: employeeID,
		TypeCode:   typeCode,
		Year:       year,
		Month:      month,
		UsedHours:  used,
		CapHours:   l.cfg.PermissionMonthlyCapHours,
	}, nil
}

func mapTypeToResponse(lt leave.LeaveType) leave.TypeResponse {
	return leave.TypeResponse{
		ID:                   lt.ID,
		Code:                 lt.Code,
		Name:                 lt.Name,
		Unit:                 string(lt.Unit),
		IsPaid:               lt.IsPaid,
		AllowHalfDay:         lt.AllowHalfDay,
		AllowPermissionHours: lt.AllowPermissionHours,
		MonthlyLimit:         lt.MonthlyLimit,
	}
}

func mapBalanceToResponse(b leave.LeaveBalance, typeCode string) leave.BalanceResponse {
	return leave.BalanceResponse{
		EmployeeID: b.EmployeeID,
		TypeCode:   typeCode,
		Year:       b.Year,
		Month:      b.Month,
		Opening:    b.Opening,
		Accrued:    b.Accrued,
		Used:       b.Used,
		Adjusted:   b.Adjusted,
		Closing:    b.Closing,
	}
}
