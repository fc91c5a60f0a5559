package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/attendance"
	"github.com/tally-hr/peopleops-backend-go/internal/domain/employee"
)

type EmployeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) *EmployeeRepository {
	return &EmployeeRepository{store: store}
}

// Seed inserts an employee for tests and local fixtures.
func (r *EmployeeRepository) Seed(e employee.Employee) employee.Employee {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	r.store.employees[e.ID] = e
	return e
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	e, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *EmployeeRepository) Exists(_ context.Context, id string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	e, ok := r.store.employees[id]
	return ok && e.Active, nil
}

func (r *EmployeeRepository) RegionOf(_ context.Context, id string) (*string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	e, ok := r.store.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return e.Region, nil
}

func (r *EmployeeRepository) ListActiveIDs(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var ids []string
	for id, e := range r.store.employees {
		if e.Active {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(_ context.Context, s attendance.AttendanceSession) (attendance.AttendanceSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s.ID = newID()
	s.CreatedAt = time.Now().UTC()
	r.store.sessions[s.ID] = s
	return s, nil
}

func (r *SessionRepository) GetOpenSession(_ context.Context, employeeID string) (*attendance.AttendanceSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var latest *attendance.AttendanceSession
	for _, s := range r.store.sessions {
		if s.EmployeeID != employeeID || s.CheckOut != nil {
			continue
		}
		s := s
		if latest == nil || s.CheckIn.After(latest.CheckIn) {
			latest = &s
		}
	}
	return latest, nil
}

func (r *SessionRepository) Close(_ context.Context, id string, checkOut time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sessions[id]
	if !ok || s.CheckOut != nil {
		return attendance.ErrNoOpenSession
	}
	s.CheckOut = &checkOut
	r.store.sessions[id] = s
	return nil
}

func (r *SessionRepository) ListByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) ([]attendance.AttendanceSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var sessions []attendance.AttendanceSession
	for _, s := range r.store.sessions {
		if s.EmployeeID == employeeID && s.WorkDate.Equal(date) {
			sessions = append(sessions, s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CheckIn.Before(sessions[j].CheckIn)
	})
	return sessions, nil
}

type DayRepository struct {
	store *Store
}

func NewDayRepository(store *Store) *DayRepository {
	return &DayRepository{store: store}
}

func (r *DayRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, d := range r.store.days {
		if d.EmployeeID == employeeID && d.Date.Equal(date) {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

func (r *DayRepository) Create(_ context.Context, d attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d.ID = newID()
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.store.days[d.ID] = d
	return d, nil
}

func (r *DayRepository) Update(_ context.Context, d attendance.AttendanceDay) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.days[d.ID]; !ok {
		return attendance.ErrDayNotFound
	}
	d.UpdatedAt = time.Now().UTC()
	r.store.days[d.ID] = d
	return nil
}

func (r *DayRepository) ListRange(_ context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var days []attendance.AttendanceDay
	for _, d := range r.store.days {
		if d.EmployeeID != employeeID {
			continue
		}
		if d.Date.Before(from) || d.Date.After(to) {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days, nil
}
