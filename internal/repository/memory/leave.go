package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-hr/peopleops-backend-go/internal/domain/leave"
)

type LeaveTypeRepository struct {
	store *Store
}

func NewLeaveTypeRepository(store *Store) *LeaveTypeRepository {
	return &LeaveTypeRepository{store: store}
}

func (r *LeaveTypeRepository) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	lt, ok := r.store.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *LeaveTypeRepository) GetByCode(_ context.Context, code string) (leave.LeaveType, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, lt := range r.store.types {
		if lt.Code == code {
			return lt, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r *LeaveTypeRepository) Create(_ context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	lt.ID = newID()
	now := time.Now().UTC()
	lt.CreatedAt = now
	lt.UpdatedAt = now
	r.store.types[lt.ID] = lt
	return lt, nil
}

func (r *LeaveTypeRepository) Update(_ context.Context, lt leave.LeaveType) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.types[lt.ID]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	lt.UpdatedAt = time.Now().UTC()
	r.store.types[lt.ID] = lt
	return nil
}

func (r *LeaveTypeRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.types[id]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	delete(r.store.types, id)
	return nil
}

func (r *LeaveTypeRepository) List(_ context.Context) ([]leave.LeaveType, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var types []leave.LeaveType
	for _, lt := range r.store.types {
		types = append(types, lt)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].Code < types[j].Code
	})
	return types, nil
}

type LeaveBalanceRepository struct {
	store *Store
}

func NewLeaveBalanceRepository(store *Store) *LeaveBalanceRepository {
	return &LeaveBalanceRepository{store: store}
}

func (r *LeaveBalanceRepository) Get(_ context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, b := range r.store.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year && b.Month == nil {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (r *LeaveBalanceRepository) Create(_ context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b.ID = newID()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	r.store.balances[b.ID] = b
	return b, nil
}

func (r *LeaveBalanceRepository) Update(_ context.Context, b leave.LeaveBalance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.balances[b.ID]; !ok {
		return leave.ErrBalanceNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	r.store.balances[b.ID] = b
	return nil
}

func (r *LeaveBalanceRepository) ListByEmployeeYear(_ context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var balances []leave.LeaveBalance
	for _, b := range r.store.balances {
		if b.EmployeeID == employeeID && b.Year == year && b.Month == nil {
			balances = append(balances, b)
		}
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].LeaveTypeID < balances[j].LeaveTypeID
	})
	return balances, nil
}

func (r *LeaveBalanceRepository) ListByEmployeeYearMonth(_ context.Context, employeeID string, year, month int) ([]leave.LeaveBalance, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var balances []leave.LeaveBalance
	for _, b := range r.store.balances {
		if b.EmployeeID == employeeID && b.Year == year && b.Month != nil && *b.Month == month {
			balances = append(balances, b)
		}
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].LeaveTypeID < balances[j].LeaveTypeID
	})
	return balances, nil
}

type LeaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) *LeaveRequestRepository {
	return &LeaveRequestRepository{store: store}
}

func (r *LeaveRequestRepository) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req.ID = newID()
	req.CreatedAt = time.Now().UTC()
	r.store.requests[req.ID] = req
	return req, nil
}

func (r *LeaveRequestRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	req, ok := r.store.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (r *LeaveRequestRepository) Update(_ context.Context, req leave.LeaveRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.requests[req.ID]; !ok {
		return leave.ErrRequestNotFound
	}
	r.store.requests[req.ID] = req
	return nil
}

func (r *LeaveRequestRepository) ListOverlapping(_ context.Context, employeeID string, start, end time.Time, statuses []leave.RequestStatus) ([]leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	wanted := make(map[leave.RequestStatus]bool, len(statuses))
	for _, s := range statuses {
		wanted[s] = true
	}
	var requests []leave.LeaveRequest
	for _, req := range r.store.requests {
		if req.EmployeeID != employeeID || !wanted[req.Status] {
			continue
		}
		if req.EndDate.Before(start) || req.StartDate.After(end) {
			continue
		}
		requests = append(requests, req)
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].StartDate.Before(requests[j].StartDate)
	})
	return requests, nil
}

func (r *LeaveRequestRepository) HasApprovedInMonth(_ context.Context, employeeID, leaveTypeID string, year int, month time.Month) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	for _, req := range r.store.requests {
		if req.EmployeeID != employeeID || req.LeaveTypeID != leaveTypeID || req.Status != leave.StatusApproved {
			continue
		}
		if req.EndDate.Before(monthStart) || !req.StartDate.Before(nextMonth) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *LeaveRequestRepository) SumPermissionHoursInMonth(_ context.Context, employeeID, leaveTypeID string, year int, month time.Month) (decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)
	sum := decimal.Zero
	for _, req := range r.store.requests {
		if req.EmployeeID != employeeID || req.LeaveTypeID != leaveTypeID {
			continue
		}
		if req.Unit != leave.RequestUnitHour || req.Status != leave.StatusApproved {
			continue
		}
		if req.StartDate.Before(monthStart) || !req.StartDate.Before(nextMonth) {
			continue
		}
		sum = sum.Add(req.RequestedHours)
	}
	return sum, nil
}

func (r *LeaveRequestRepository) ListByEmployee(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var requests []leave.LeaveRequest
	for _, req := range r.store.requests {
		if req.EmployeeID == employeeID {
			requests = append(requests, req)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (r *LeaveRequestRepository) ListByStatus(_ context.Context, status leave.RequestStatus) ([]leave.LeaveRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var requests []leave.LeaveRequest
	for _, req := range r.store.requests {
		if req.Status == status {
			requests = append(requests, req)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
	return requests, nil
}
