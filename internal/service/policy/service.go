package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
	"github.com/tally-hr/peopleops-backend-go/internal/pkg/timeutil"
)

type PolicyServiceImpl struct {
	policy.WorkweekPolicyRepository
	policy.HolidayRepository
}

func NewPolicyService(
	workweekRepo policy.WorkweekPolicyRepository,
	holidayRepo policy.HolidayRepository,
) policy.Service {
	return &PolicyServiceImpl{
		WorkweekPolicyRepository: workweekRepo,
		HolidayRepository:        holidayRepo,
	}
}

// IsWorkingDay implements policy.Resolver. The default calendar is
// Monday-Friday; a region policy overrides per weekday, with Saturday
// optionally restricted to ordinal occurrences within the month.
func (p *PolicyServiceImpl) IsWorkingDay(ctx context.Context, region *string, date time.Time) (bool, error) {
	weekday := date.Weekday()
	defaultWorking := weekday != time.Saturday && weekday != time.Sunday

	if region == nil || *region == "" {
		return defaultWorking, nil
	}

	wp, err := p.WorkweekPolicyRepository.GetByRegion(ctx, *region)
	if err != nil {
		return false, fmt.Errorf("failed to get workweek policy: %w", err)
	}
	if wp == nil {
		return defaultWorking, nil
	}

	switch weekday {
	case time.Monday:
		return boolOr(wp.Week.Mon, defaultWorking), nil
	case time.Tuesday:
		return boolOr(wp.Week.Tue, defaultWorking), nil
	case time.Wednesday:
		return boolOr(wp.Week.Wed, defaultWorking), nil
	case time.Thursday:
		return boolOr(wp.Week.Thu, defaultWorking), nil
	case time.Friday:
		return boolOr(wp.Week.Fri, defaultWorking), nil
	case time.Sunday:
		return boolOr(wp.Week.Sun, defaultWorking), nil
	case time.Saturday:
		return saturdayWorking(wp.Week.Sat, date), nil
	}
	return defaultWorking, nil
}

// HolidayPayFlag implements policy.Resolver. A region-specific entry wins
// over a global one on the same date; nil means the date is not a holiday.
func (p *PolicyServiceImpl) HolidayPayFlag(ctx context.Context, region *string, date time.Time) (*bool, error) {
	holidays, err := p.HolidayRepository.FindForDate(ctx, region, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up holidays: %w", err)
	}
	if len(holidays) == 0 {
		return nil, nil
	}
	isPaid := holidays[0].IsPaid
	return &isPaid, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func saturdayWorking(rule *policy.SaturdayRule, date time.Time) bool {
	if rule == nil {
		return false
	}
	if rule.Working != nil {
		return *rule.Working
	}
	return rule.Contains(ordinalLabel(timeutil.NthWeekdayOfMonth(date)))
}

// ordinalLabel renders 1 as "1st", 2 as "2nd", and so on, matching the
// labels stored in region policies.
func ordinalLabel(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

// UpsertWorkweek implements policy.Service.
func (p *PolicyServiceImpl) UpsertWorkweek(ctx context.Context, req policy.UpsertWorkweekRequest) (policy.WorkweekResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.WorkweekResponse{}, err
	}

	var week policy.WeekPolicy
	if err := json.Unmarshal(req.Week, &week); err != nil {
		return policy.WorkweekResponse{}, fmt.Errorf("failed to decode week policy: %w", err)
	}

	wp, err := p.WorkweekPolicyRepository.Upsert(ctx, policy.WorkweekPolicy{
		Region: req.Region,
		Week:   week,
	})
	if err != nil {
		return policy.WorkweekResponse{}, fmt.Errorf("failed to upsert workweek policy: %w", err)
	}

	return policy.WorkweekResponse{Region: wp.Region, Week: wp.Week}, nil
}

// GetWorkweek implements policy.Service.
func (p *PolicyServiceImpl) GetWorkweek(ctx context.Context, region string) (policy.WorkweekResponse, error) {
	wp, err := p.WorkweekPolicyRepository.GetByRegion(ctx, region)
	if err != nil {
		return policy.WorkweekResponse{}, fmt.Errorf("failed to get workweek policy: %w", err)
	}
	if wp == nil {
		return policy.WorkweekResponse{}, policy.ErrWorkweekPolicyNotFound
	}
	return policy.WorkweekResponse{Region: wp.Region, Week: wp.Week}, nil
}

// ListWorkweeks implements policy.Service.
func (p *PolicyServiceImpl) ListWorkweeks(ctx context.Context) ([]policy.WorkweekResponse, error) {
	policies, err := p.WorkweekPolicyRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workweek policies: %w", err)
	}
	responses := make([]policy.WorkweekResponse, 0, len(policies))
	for _, wp := range policies {
		responses = append(responses, policy.WorkweekResponse{Region: wp.Region, Week: wp.Week})
	}
	return responses, nil
}

// CreateHoliday implements policy.Service.
func (p *PolicyServiceImpl) CreateHoliday(ctx context.Context, req policy.CreateHolidayRequest) (policy.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return policy.HolidayResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	h, err := p.HolidayRepository.Create(ctx, policy.Holiday{
		Date:           timeutil.Date(date.Year(), date.Month(), date.Day()),
		Name:           req.Name,
		IsPaid:         req.IsPaid,
		Region:         req.Region,
		RecursAnnually: req.RecursAnnually,
	})
	if err != nil {
		if errors.Is(err, policy.ErrHolidayExists) {
			return policy.HolidayResponse{}, policy.ErrHolidayExists
		}
		return policy.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	return policy.MapHolidayToResponse(h), nil
}

// DeleteHoliday implements policy.Service.
func (p *PolicyServiceImpl) DeleteHoliday(ctx context.Context, id string) error {
	if err := p.HolidayRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, policy.ErrHolidayNotFound) {
			return policy.ErrHolidayNotFound
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

// ListHolidays implements policy.Service.
func (p *PolicyServiceImpl) ListHolidays(ctx context.Context, from, to string) ([]policy.HolidayResponse, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date: %w", err)
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date: %w", err)
	}

	holidays, err := p.HolidayRepository.ListRange(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]policy.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, policy.MapHolidayToResponse(h))
	}
	return responses, nil
}
