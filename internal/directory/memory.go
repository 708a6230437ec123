package directory

import (
	"context"
	"sync"

	id "hrgate/pkg/domain"
	"hrgate/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded directory for tests and dev mode.
type InMemory struct {
	mu        sync.RWMutex
	employees map[id.EmployeeID]*Employee
}

func NewInMemory() *InMemory {
	return &InMemory{employees: make(map[id.EmployeeID]*Employee)}
}

// Put inserts or replaces an employee record.
func (s *InMemory) Put(_ context.Context, e *Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	cp.Roles = append([]id.Role(nil), e.Roles...)
	s.employees[e.ID] = &cp
}

func (s *InMemory) FindByID(_ context.Context, employeeID id.EmployeeID) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *e
	cp.Roles = append([]id.Role(nil), e.Roles...)
	return &cp, nil
}
