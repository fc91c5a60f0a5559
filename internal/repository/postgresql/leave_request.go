package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const requestColumns = `
	lr.id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date,
	lr.unit, lr.requested_hours, lr.status, lr.approver_id, lr.decided_at,
	lr.decision_note, lr.reason, lr.created_at, lt.code
`

const requestFrom = `
	FROM leave_requests lr
	JOIN leave_types lt ON lt.id = lr.leave_type_id
`

func scanRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID,
		&req.EmployeeID,
		&req.LeaveTypeID,
		&req.StartDate,
		&req.EndDate,
		&req.Unit,
		&req.RequestedHours,
		&req.Status,
		&req.ApproverID,
		&req.DecidedAt,
		&req.DecisionNote,
		&req.Reason,
		&req.CreatedAt,
		&req.LeaveTypeCode,
	)
	return req, err
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id, start_date, end_date,
			unit, requested_hours, status, reason
		)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, employee_id, leave_type_id, start_date, end_date,
			unit, requested_hours, status, approver_id, decided_at,
			decision_note, reason, created_at
	`

	var result leave.LeaveRequest
	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate,
		req.Unit, req.RequestedHours, req.Status, req.Reason,
	).Scan(
		&result.ID,
		&result.EmployeeID,
		&result.LeaveTypeID,
		&result.StartDate,
		&result.EndDate,
		&result.Unit,
		&result.RequestedHours,
		&result.Status,
		&result.ApproverID,
		&result.DecidedAt,
		&result.DecisionNote,
		&result.Reason,
		&result.CreatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return result, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + requestFrom + ` WHERE lr.id = $1`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return req, nil
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, approver_id = $2, decided_at = $3, decision_note = $4
		WHERE id = $5
	`

	commandTag, err := q.Exec(ctx, query,
		req.Status, req.ApproverID, req.DecidedAt, req.DecisionNote, req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}

	return nil
}

// ListOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListOverlapping(ctx context.Context, employeeID string, start, end time.Time, statuses []leave.RequestStatus) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + requestFrom + `
		WHERE lr.employee_id = $1
		  AND lr.status = ANY($2)
		  AND NOT (lr.end_date < $3 OR lr.start_date > $4)
		ORDER BY lr.start_date ASC
	`

	statusStrings := make([]string, 0, len(statuses))
	for _, s := range statuses {
		statusStrings = append(statusStrings, string(s))
	}

	rows, err := q.Query(ctx, query, employeeID, statusStrings, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// HasApprovedInMonth implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) HasApprovedInMonth(ctx context.Context, employeeID, leaveTypeID string, year int, month time.Month) (bool, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1 AND leave_type_id = $2 AND status = 'APPROVED'
			  AND NOT (end_date < $3 OR start_date >= $4)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, leaveTypeID, monthStart, nextMonth).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check monthly approvals: %w", err)
	}

	return exists, nil
}

// SumPermissionHoursInMonth implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) SumPermissionHoursInMonth(ctx context.Context, employeeID, leaveTypeID string, year int, month time.Month) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	query := `
		SELECT COALESCE(SUM(requested_hours), 0)
		FROM leave_requests
		WHERE employee_id = $1 AND leave_type_id = $2
		  AND unit = 'HOUR' AND status = 'APPROVED'
		  AND start_date >= $3 AND start_date < $4
	`

	var sum decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, leaveTypeID, monthStart, nextMonth).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum permission hours: %w", err)
	}

	return sum, nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + requestFrom + `
		WHERE lr.employee_id = $1
		ORDER BY lr.created_at DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

// ListByStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByStatus(ctx context.Context, status leave.RequestStatus) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + requestColumns + requestFrom + `
		WHERE lr.status = $1
		ORDER BY lr.created_at ASC
	`

	rows, err := q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	var requests []leave.LeaveRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return requests, nil
}
