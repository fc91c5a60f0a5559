package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-hr/peopleops-backend-go/internal/config"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/clock"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/database"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/timeutil"
)

type LeaveRequestServiceImpl struct {
	tx database.TxManager
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	days            attendance.DayRepository
	ledger          leave.Ledger
	clock           clock.Clock
	cfg             config.LeaveConfig
	expectedSeconds int64
	logger          *slog.Logger
}

func NewLeaveRequestService(
	tx database.TxManager,
	typeRepo leave.LeaveTypeRepository,
	requestRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	dayRepo attendance.DayRepository,
	ledger leave.Ledger,
	clk clock.Clock,
	cfg config.LeaveConfig,
	expectedSeconds int64,
	logger *slog.Logger,
) leave.RequestService {
	return &LeaveRequestServiceImpl{
		tx:                     tx,
		LeaveTypeRepository:    typeRepo,
		LeaveRequestRepository: requestRepo,
		EmployeeRepository:     employeeRepo,
		days:                   dayRepo,
		ledger:                 ledger,
		clock:                  clk,
		cfg:                    cfg,
		expectedSeconds:        expectedSeconds,
		logger:                 logger,
	}
}

// Apply implements leave.RequestService.
func (s *LeaveRequestServiceImpl) Apply(ctx context.Context, req leave.ApplyRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	exists, err := s.EmployeeRepository.Exists(ctx, req.EmployeeID)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to look up employee: %w", err)
	}
	if !exists {
		return leave.RequestResponse{}, employee.ErrEmployeeNotFound
	}

	lt, err := s.LeaveTypeRepository.GetByCode(ctx, req.TypeCode)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	unit := leave.RequestUnit(req.Unit)
	if unit == leave.RequestUnitHalfDay && !lt.AllowHalfDay {
		return leave.RequestResponse{}, leave.ErrHalfDayNotAllowed
	}
	if unit == leave.RequestUnitHour && !lt.AllowPermissionHours {
		return leave.RequestResponse{}, leave.ErrPermissionNotAllowed
	}

	start := mustDate(req.StartDate)
	end := mustDate(req.EndDate)

	if lt.MonthlyLimit > 0 {
		taken, err := s.LeaveRequestRepository.HasApprovedInMonth(ctx, req.EmployeeID, lt.ID, start.Year(), start.Month())
		if err != nil {
			return leave.RequestResponse{}, fmt.Errorf("failed to check monthly limit: %w", err)
		}
		if taken {
			return leave.RequestResponse{}, leave.ErrMonthlyLimitExceeded
		}
	}

	overlapping, err := s.LeaveRequestRepository.ListOverlapping(ctx, req.EmployeeID, start, end,
		[]leave.RequestStatus{leave.StatusPending, leave.StatusApproved})
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to check overlap: %w", err)
	}
	if len(overlapping) > 0 {
		return leave.RequestResponse{}, leave.ErrOverlappingRequest
	}

	entity := leave.LeaveRequest{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: lt.ID,
		StartDate:   start,
		EndDate:     end,
		Unit:        unit,
		Status:      leave.StatusPending,
		Reason:      req.Reason,
	}
	if unit == leave.RequestUnitHour {
		entity.RequestedHours = *req.Hours
	}

	created, err := s.LeaveRequestRepository.Create(ctx, entity)
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	created.LeaveTypeCode = &lt.Code

	s.logger.Info("leave request submitted",
		"request_id", created.ID,
		"employee_id", created.EmployeeID,
		"type_code", lt.Code)

	return leave.MapRequestToResponse(created), nil
}

// Decide implements leave.RequestService. Approval is all-or-nothing against
// the ledger: either the full requested hours are deducted, or the request is
// recorded as loss of pay with the ledger untouched (or refused outright,
// depending on the configured policy).
func (s *LeaveRequestServiceImpl) Decide(ctx context.Context, req leave.DecideRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status.Terminal() {
		return leave.RequestResponse{}, leave.ErrAlreadyDecided
	}

	lt, err := s.LeaveTypeRepository.GetByID(ctx, request.LeaveTypeID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	now := s.clock.NowUTC()
	request.ApproverID = &req.ApproverID
	request.DecidedAt = &now
	request.DecisionNote = req.Note
	request.LeaveTypeCode = &lt.Code

	if req.Decision == string(leave.StatusRejected) {
		request.Status = leave.StatusRejected
		if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
			return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
		}
		return leave.MapRequestToResponse(request), nil
	}

	segments, total, err := s.planSegments(ctx, request, lt)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	paid := false
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if lt.IsPaid && total.IsPositive() {
			balance, err := s.ledger.GetOrCreate(txCtx, request.EmployeeID, lt.ID, request.StartDate.Year())
			if err != nil {
				return err
			}
			if balance.Closing.GreaterThanOrEqual(total) {
				if _, err := s.ledger.Use(txCtx, request.EmployeeID, lt.ID, request.StartDate.Year(), total); err != nil {
					return err
				}
				paid = true
			} else if s.cfg.InsufficientPolicy == config.PolicyReject {
				return leave.ErrInsufficientBalance
			}
			// Insufficient balance under the loss-of-pay policy: the ledger
			// stays untouched and each day is written as unpaid.
		}

		for _, seg := range segments {
			if err := s.writeLeaveDay(txCtx, request.EmployeeID, seg.date, seg.hours, paid); err != nil {
				return err
			}
		}

		request.Status = leave.StatusApproved
		if err := s.LeaveRequestRepository.Update(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.logger.Info("leave request approved",
		"request_id", request.ID,
		"employee_id", request.EmployeeID,
		"hours", total.String(),
		"paid", paid)

	resp := leave.MapRequestToResponse(request)
	resp.Paid = &paid
	return resp, nil
}

// Cancel implements leave.RequestService. Only the owner may cancel, and only
// while the request is still pending.
func (s *LeaveRequestServiceImpl) Cancel(ctx context.Context, employeeID, requestID string) (leave.RequestResponse, error) {
	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.EmployeeID != employeeID {
		return leave.RequestResponse{}, leave.ErrNotRequestOwner
	}
	if request.Status.Terminal() {
		return leave.RequestResponse{}, leave.ErrAlreadyDecided
	}

	request.Status = leave.StatusCancelled
	if err := s.LeaveRequestRepository.Update(ctx, request); err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to update leave request: %w", err)
	}
	return leave.MapRequestToResponse(request), nil
}

// ListMine implements leave.RequestService.
func (s *LeaveRequestServiceImpl) ListMine(ctx context.Context, employeeID string) ([]leave.RequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return s.mapRequests(ctx, requests)
}

// ListPending implements leave.RequestService.
func (s *LeaveRequestServiceImpl) ListPending(ctx context.Context) ([]leave.RequestResponse, error) {
	requests, err := s.LeaveRequestRepository.ListByStatus(ctx, leave.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return s.mapRequests(ctx, requests)
}

func (s *LeaveRequestServiceImpl) mapRequests(ctx context.Context, requests []leave.LeaveRequest) ([]leave.RequestResponse, error) {
	out := make([]leave.RequestResponse, 0, len(requests))
	for _, r := range requests {
		if r.LeaveTypeCode == nil {
			lt, err := s.LeaveTypeRepository.GetByID(ctx, r.LeaveTypeID)
			if err != nil {
				return nil, err
			}
			r.LeaveTypeCode = &lt.Code
		}
		out = append(out, leave.MapRequestToResponse(r))
	}
	return out, nil
}

type leaveSegment struct {
	date  time.Time
	hours decimal.Decimal
}

// planSegments expands a request into per-day hour grants. DAY and HALF_DAY
// requests charge every calendar day in [start, end], weekends and holidays
// included; HOUR requests cover only the start date.
func (s *LeaveRequestServiceImpl) planSegments(ctx context.Context, request leave.LeaveRequest, lt leave.LeaveType) ([]leaveSegment, decimal.Decimal, error) {
	dayHours := decimal.NewFromInt(s.expectedSeconds).Div(decimal.NewFromInt(3600))

	if request.Unit == leave.RequestUnitHour {
		hours := request.RequestedHours
		if lt.AllowPermissionHours {
			used, err := s.LeaveRequestRepository.SumPermissionHoursInMonth(ctx,
				request.EmployeeID, lt.ID, request.StartDate.Year(), request.StartDate.Month())
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("failed to sum permission hours: %w", err)
			}
			if used.Add(hours).GreaterThan(s.cfg.PermissionMonthlyCapHours) {
				return nil, decimal.Zero, leave.ErrPermissionCapExceeded
			}
		}
		return []leaveSegment{{date: request.StartDate, hours: hours}}, hours, nil
	}

	perDay := dayHours
	if request.Unit == leave.RequestUnitHalfDay {
		perDay = dayHours.Div(decimal.NewFromInt(2))
	}

	var segments []leaveSegment
	total := decimal.Zero
	for cur := request.StartDate; !cur.After(request.EndDate); cur = cur.AddDate(0, 0, 1) {
		segments = append(segments, leaveSegment{date: cur, hours: perDay})
		total = total.Add(perDay)
	}
	return segments, total, nil
}

// writeLeaveDay folds approved leave hours into the attendance day row.
func (s *LeaveRequestServiceImpl) writeLeaveDay(ctx context.Context, employeeID string, date time.Time, hours decimal.Decimal, paid bool) error {
	seconds := hours.Mul(decimal.NewFromInt(3600)).Round(0).IntPart()

	day, err := s.days.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to get day: %w", err)
	}
	if day == nil {
		created, err := s.days.Create(ctx, attendance.AttendanceDay{
			EmployeeID:      employeeID,
			Date:            date,
			ExpectedSeconds: s.expectedSeconds,
			Status:          attendance.StatusLeave,
		})
		if err != nil {
			return fmt.Errorf("failed to create day: %w", err)
		}
		day = &created
	}
	if day.Locked {
		return attendance.ErrPeriodLocked
	}

	if paid {
		day.PaidLeaveSeconds += seconds
	} else {
		day.UnpaidSeconds += seconds
	}
	day.Status = attendance.StatusLeave

	day.OvertimeSeconds = 0
	day.UnderworkSeconds = 0
	if day.ExpectedSeconds > 0 {
		blended := day.SecondsWorked + day.PaidLeaveSeconds
		if blended > day.ExpectedSeconds {
			day.OvertimeSeconds = blended - day.ExpectedSeconds
		} else {
			day.UnderworkSeconds = day.ExpectedSeconds - blended
		}
	}

	if err := s.days.Update(ctx, *day); err != nil {
		return fmt.Errorf("failed to update day: %w", err)
	}
	return nil
}

func mustDate(s string) time.Time {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return timeutil.Date(t.Year(), t.Month(), t.Day())
	}
	t, _ := time.Parse(time.RFC3339, s)
	return timeutil.Date(t.Year(), t.Month(), t.Day())
}
