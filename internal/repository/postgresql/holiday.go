package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) policy.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// FindForDate implements policy.HolidayRepository. Region-specific entries
// sort before global ones so the first row decides the pay flag.
func (r *holidayRepositoryImpl) FindForDate(ctx context.Context, region *string, date time.Time) ([]policy.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, holiday_date, name, is_paid, region, recurs_annually, created_at
		FROM holidays
		WHERE (region = $1 OR region IS NULL)
		  AND (
			holiday_date = $2
			OR (recurs_annually
				AND EXTRACT(MONTH FROM holiday_date) = $3
				AND EXTRACT(DAY FROM holiday_date) = $4)
		  )
		ORDER BY region DESC NULLS LAST
	`

	rows, err := q.Query(ctx, query, region, date, int(date.Month()), date.Day())
	if err != nil {
		return nil, fmt.Errorf("failed to find holidays: %w", err)
	}
	defer rows.Close()

	var holidays []policy.Holiday
	for rows.Next() {
		var h policy.Holiday
		err := rows.Scan(
			&h.ID,
			&h.Date,
			&h.Name,
			&h.IsPaid,
			&h.Region,
			&h.RecursAnnually,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return holidays, nil
}

// Create implements policy.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h policy.Holiday) (policy.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (id, holiday_date, name, is_paid, region, recurs_annually)
		VALUES (uuidv7(), $1, $2, $3, $4, $5)
		RETURNING id, holiday_date, name, is_paid, region, recurs_annually, created_at
	`

	var result policy.Holiday
	err := q.QueryRow(ctx, query, h.Date, h.Name, h.IsPaid, h.Region, h.RecursAnnually).Scan(
		&result.ID,
		&result.Date,
		&result.Name,
		&result.IsPaid,
		&result.Region,
		&result.RecursAnnually,
		&result.CreatedAt,
	)
	if err != nil {
		return policy.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return result, nil
}

// Delete implements policy.HolidayRepository.
func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM holidays WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return policy.ErrHolidayNotFound
	}

	return nil
}

// ListRange implements policy.HolidayRepository.
func (r *holidayRepositoryImpl) ListRange(ctx context.Context, from, to time.Time) ([]policy.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, holiday_date, name, is_paid, region, recurs_annually, created_at
		FROM holidays
		WHERE holiday_date BETWEEN $1 AND $2
		ORDER BY holiday_date ASC, region DESC NULLS LAST
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []policy.Holiday
	for rows.Next() {
		var h policy.Holiday
		err := rows.Scan(
			&h.ID,
			&h.Date,
			&h.Name,
			&h.IsPaid,
			&h.Region,
			&h.RecursAnnually,
			&h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return holidays, nil
}
