package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/policy"
)

type WorkweekPolicyRepository struct {
	store *Store
}

func NewWorkweekPolicyRepository(store *Store) *WorkweekPolicyRepository {
	return &WorkweekPolicyRepository{store: store}
}

func (r *WorkweekPolicyRepository) GetByRegion(_ context.Context, region string) (*policy.WorkweekPolicy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.workweeks[region]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *WorkweekPolicyRepository) Upsert(_ context.Context, p policy.WorkweekPolicy) (policy.WorkweekPolicy, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.store.workweeks[p.Region]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.ID = newID()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.store.workweeks[p.Region] = p
	return p, nil
}

func (r *WorkweekPolicyRepository) List(_ context.Context) ([]policy.WorkweekPolicy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var policies []policy.WorkweekPolicy
	for _, p := range r.store.workweeks {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool {
		return policies[i].Region < policies[j].Region
	})
	return policies, nil
}

type HolidayRepository struct {
	store *Store
}

func NewHolidayRepository(store *Store) *HolidayRepository {
	return &HolidayRepository{store: store}
}

func (r *HolidayRepository) FindForDate(_ context.Context, region *string, date time.Time) ([]policy.Holiday, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var holidays []policy.Holiday
	for _, h := range r.store.holidays {
		if h.Region != nil && (region == nil || *h.Region != *region) {
			continue
		}
		sameDate := h.Date.Equal(date)
		recurring := h.RecursAnnually && h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
		if !sameDate && !recurring {
			continue
		}
		holidays = append(holidays, h)
	}
	// Region-specific entries first.
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Region != nil && holidays[j].Region == nil
	})
	return holidays, nil
}

func (r *HolidayRepository) Create(_ context.Context, h policy.Holiday) (policy.Holiday, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	h.ID = newID()
	h.CreatedAt = time.Now().UTC()
	r.store.holidays[h.ID] = h
	return h, nil
}

func (r *HolidayRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.holidays[id]; !ok {
		return policy.ErrHolidayNotFound
	}
	delete(r.store.holidays, id)
	return nil
}

func (r *HolidayRepository) ListRange(_ context.Context, from, to time.Time) ([]policy.Holiday, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var holidays []policy.Holiday
	for _, h := range r.store.holidays {
		if h.Date.Before(from) || h.Date.After(to) {
			continue
		}
		holidays = append(holidays, h)
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays, nil
}
