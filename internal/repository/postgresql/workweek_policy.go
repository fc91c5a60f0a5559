package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/database"
)

// Workweek policies are stored as one JSONB document per region, mirroring
// the wire shape of policy.WeekPolicy.
type workweekPolicyRepositoryImpl struct {
	db *database.DB
}

func NewWorkweekPolicyRepository(db *database.DB) policy.WorkweekPolicyRepository {
	return &workweekPolicyRepositoryImpl{db: db}
}

// GetByRegion implements policy.WorkweekPolicyRepository.
func (r *workweekPolicyRepositoryImpl) GetByRegion(ctx context.Context, region string) (*policy.WorkweekPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, region, policy_json, created_at, updated_at
		FROM workweek_policies
		WHERE region = $1
	`

	var result policy.WorkweekPolicy
	var doc []byte
	err := q.QueryRow(ctx, query, region).Scan(
		&result.ID,
		&result.Region,
		&doc,
		&result.CreatedAt,
		&result.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get workweek policy: %w", err)
	}

	if err := json.Unmarshal(doc, &result.Week); err != nil {
		return nil, fmt.Errorf("failed to decode workweek policy: %w", err)
	}

	return &result, nil
}

// Upsert implements policy.WorkweekPolicyRepository.
func (r *workweekPolicyRepositoryImpl) Upsert(ctx context.Context, p policy.WorkweekPolicy) (policy.WorkweekPolicy, error) {
	q := GetQuerier(ctx, r.db)

	doc, err := json.Marshal(p.Week)
	if err != nil {
		return policy.WorkweekPolicy{}, fmt.Errorf("failed to encode workweek policy: %w", err)
	}

	query := `
		INSERT INTO workweek_policies (id, region, policy_json)
		VALUES (uuidv7(), $1, $2)
		ON CONFLICT (region)
		DO UPDATE SET policy_json = EXCLUDED.policy_json, updated_at = now()
		RETURNING id, region, created_at, updated_at
	`

	result := policy.WorkweekPolicy{Week: p.Week}
	err = q.QueryRow(ctx, query, p.Region, doc).Scan(
		&result.ID,
		&result.Region,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		return policy.WorkweekPolicy{}, fmt.Errorf("failed to upsert workweek policy: %w", err)
	}

	return result, nil
}

// List implements policy.WorkweekPolicyRepository.
func (r *workweekPolicyRepositoryImpl) List(ctx context.Context) ([]policy.WorkweekPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, region, policy_json, created_at, updated_at
		FROM workweek_policies
		ORDER BY region ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list workweek policies: %w", err)
	}
	defer rows.Close()

	var policies []policy.WorkweekPolicy
	for rows.Next() {
		var p policy.WorkweekPolicy
		var doc []byte
		err := rows.Scan(
			&p.ID,
			&p.Region,
			&doc,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workweek policy: %w", err)
		}
		if err := json.Unmarshal(doc, &p.Week); err != nil {
			return nil, fmt.Errorf("failed to decode workweek policy: %w", err)
		}
		policies = append(policies, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return policies, nil
}
