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

type sessionRepositoryImpl struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepositoryImpl{db: db}
}

// Create implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) Create(ctx context.Context, s attendance.AttendanceSession) (attendance.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (id, employee_id, check_in, work_date)
		VALUES (uuidv7(), $1, $2, $3)
		RETURNING id, employee_id, check_in, check_out, work_date, created_at
	`

	var result attendance.AttendanceSession
	err := q.QueryRow(ctx, query, s.EmployeeID, s.CheckIn, s.WorkDate).Scan(
		&result.ID,
		&result.EmployeeID,
		&result.CheckIn,
		&result.CheckOut,
		&result.WorkDate,
		&result.CreatedAt,
	)

	if err != nil {
		return attendance.AttendanceSession{}, fmt.Errorf("failed to create session: %w", err)
	}

	return result, nil
}

// GetOpenSession implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) GetOpenSession(ctx context.Context, employeeID string) (*attendance.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, check_in, check_out, work_date, created_at
		FROM attendance_sessions
		WHERE employee_id = $1 AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1
	`

	var result attendance.AttendanceSession
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&result.ID,
		&result.EmployeeID,
		&result.CheckIn,
		&result.CheckOut,
		&result.WorkDate,
		&result.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get open session: %w", err)
	}

	return &result, nil
}

// Close implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) Close(ctx context.Context, id string, checkOut time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET check_out = $1
		WHERE id = $2 AND check_out IS NULL
	`

	commandTag, err := q.Exec(ctx, query, checkOut, id)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrNoOpenSession
	}

	return nil
}

// ListByEmployeeAndDate implements attendance.SessionRepository.
func (r *sessionRepositoryImpl) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]attendance.AttendanceSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, check_in, check_out, work_date, created_at
		FROM attendance_sessions
		WHERE employee_id = $1 AND work_date = $2
		ORDER BY check_in ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.AttendanceSession
	for rows.Next() {
		var s attendance.AttendanceSession
		err := rows.Scan(
			&s.ID,
			&s.EmployeeID,
			&s.CheckIn,
			&s.CheckOut,
			&s.WorkDate,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return sessions, nil
}
