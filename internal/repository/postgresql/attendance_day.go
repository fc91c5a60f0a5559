package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/database"
)

type dayRepositoryImpl struct {
	db *database.DB
}

func NewDayRepository(db *database.DB) attendance.DayRepository {
	return &dayRepositoryImpl{db: db}
}

const dayColumns = `
	id, employee_id, date, seconds_worked, expected_seconds,
	paid_leave_seconds, overtime_seconds, underwork_seconds, unpaid_seconds,
	first_check_in, last_check_out, status, locked, created_at, updated_at
`

func scanDay(row pgx.Row) (attendance.AttendanceDay, error) {
	var d attendance.AttendanceDay
	err := row.Scan(
		&d.ID,
		&d.EmployeeID,
		&d.Date,
		&d.SecondsWorked,
		&d.ExpectedSeconds,
		&d.PaidLeaveSeconds,
		&d.OvertimeSeconds,
		&d.UnderworkSeconds,
		&d.UnpaidSeconds,
		&d.FirstCheckIn,
		&d.LastCheckOut,
		&d.Status,
		&d.Locked,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// GetByEmployeeAndDate implements attendance.DayRepository.
func (r *dayRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days
		WHERE employee_id = $1 AND date = $2
	`

	d, err := scanDay(q.QueryRow(ctx, query, employeeID, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day: %w", err)
	}

	return &d, nil
}

// Create implements attendance.DayRepository.
func (r *dayRepositoryImpl) Create(ctx context.Context, d attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_days (
			id, employee_id, date, seconds_worked, expected_seconds,
			paid_leave_seconds, overtime_seconds, underwork_seconds, unpaid_seconds,
			first_check_in, last_check_out, status, locked
		)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + dayColumns + `
	`

	result, err := scanDay(q.QueryRow(ctx, query,
		d.EmployeeID, d.Date, d.SecondsWorked, d.ExpectedSeconds,
		d.PaidLeaveSeconds, d.OvertimeSeconds, d.UnderworkSeconds, d.UnpaidSeconds,
		d.FirstCheckIn, d.LastCheckOut, d.Status, d.Locked,
	))
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to create day: %w", err)
	}

	return result, nil
}

// Update implements attendance.DayRepository.
func (r *dayRepositoryImpl) Update(ctx context.Context, d attendance.AttendanceDay) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_days
		SET seconds_worked = $1, expected_seconds = $2, paid_leave_seconds = $3,
			overtime_seconds = $4, underwork_seconds = $5, unpaid_seconds = $6,
			first_check_in = $7, last_check_out = $8, status = $9, locked = $10,
			updated_at = now()
		WHERE id = $11
	`

	commandTag, err := q.Exec(ctx, query,
		d.SecondsWorked, d.ExpectedSeconds, d.PaidLeaveSeconds,
		d.OvertimeSeconds, d.UnderworkSeconds, d.UnpaidSeconds,
		d.FirstCheckIn, d.LastCheckOut, d.Status, d.Locked,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update day: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrDayNotFound
	}

	return nil
}

// ListRange implements attendance.DayRepository.
func (r *dayRepositoryImpl) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	defer rows.Close()

	var days []attendance.AttendanceDay
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		days = append(days, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return days, nil
}
