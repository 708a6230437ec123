package store

import (
	"context"
	"sort"
	"sync"

	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
	"hrgate/pkg/platform/sentinel"
)

// InMemory implements RequestStore with a mutex-guarded map. It backs unit
// tests and dev mode and mirrors the postgres contract exactly, including
// Execute's lock-across-validate-and-mutate semantics.
type InMemory struct {
	mu       sync.RWMutex
	requests map[id.RequestID]*models.AbsenceRequest
}

func NewInMemory() *InMemory {
	return &InMemory{requests: make(map[id.RequestID]*models.AbsenceRequest)}
}

func (s *InMemory) Create(_ context.Context, req *models.AbsenceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.requests[req.ID]; exists {
		return sentinel.ErrConflict
	}
	s.requests[req.ID] = req.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, requestID id.RequestID) (*models.AbsenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return req.Clone(), nil
}

func (s *InMemory) ListByEmployee(_ context.Context, tenantID id.TenantID, employeeID id.EmployeeID) ([]*models.AbsenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.AbsenceRequest
	for _, req := range s.requests {
		if req.TenantID == tenantID && req.EmployeeID == employeeID {
			out = append(out, req.Clone())
		}
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemory) ListPending(_ context.Context, filter PendingFilter) ([]*models.AbsenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stages := make(map[models.Stage]struct{}, len(filter.Stages))
	for _, st := range filter.Stages {
		stages[st] = struct{}{}
	}
	var out []*models.AbsenceRequest
	for _, req := range s.requests {
		if req.TenantID != filter.TenantID || req.Status != models.StatusPending {
			continue
		}
		if _, ok := stages[req.Stage]; !ok {
			continue
		}
		out = append(out, req.Clone())
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemory) CountPendingByStage(_ context.Context, tenantID id.TenantID) (map[models.Stage]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Stage]int)
	for _, req := range s.requests {
		if req.TenantID == tenantID && req.Status == models.StatusPending {
			counts[req.Stage]++
		}
	}
	return counts, nil
}

func (s *InMemory) ListOverlapping(_ context.Context, filter OverlapFilter) ([]*models.AbsenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.AbsenceRequest
	for _, req := range s.requests {
		if req.TenantID != filter.TenantID || req.EmployeeID != filter.EmployeeID {
			continue
		}
		if req.ID == filter.ExcludeRequestID {
			continue
		}
		if req.Status != models.StatusPending && req.Status != models.StatusApproved {
			continue
		}
		if req.Dates.Overlaps(filter.Dates) {
			out = append(out, req.Clone())
		}
	}
	sortByCreation(out)
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, requestID id.RequestID,
	validate func(*models.AbsenceRequest) error,
	mutate func(*models.AbsenceRequest)) (*models.AbsenceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	mutate(req)
	return req.Clone(), nil
}

func (s *InMemory) DeleteIfPending(_ context.Context, requestID id.RequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[requestID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if req.Status != models.StatusPending {
		return sentinel.ErrInvalidState
	}
	delete(s.requests, requestID)
	return nil
}

func sortByCreation(reqs []*models.AbsenceRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].CreatedAt.Equal(reqs[j].CreatedAt) {
			return reqs[i].ID.String() < reqs[j].ID.String()
		}
		return reqs[i].CreatedAt.Before(reqs[j].CreatedAt)
	})
}

// InMemoryHistory implements HistoryStore with an append-only slice.
type InMemoryHistory struct {
	mu   sync.RWMutex
	rows []models.ApprovalHistory
}

func NewInMemoryHistory() *InMemoryHistory {
	return &InMemoryHistory{}
}

func (s *InMemoryHistory) Append(_ context.Context, row models.ApprovalHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return nil
}

func (s *InMemoryHistory) ListByRequest(_ context.Context, requestID id.RequestID) ([]models.ApprovalHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ApprovalHistory
	for _, row := range s.rows {
		if row.RequestID == requestID {
			out = append(out, row)
		}
	}
	return out, nil
}
