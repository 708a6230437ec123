package incidence

import (
	"context"
	"sync"

	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
)

// InMemoryRecords is a mutex-guarded incidence ledger for tests and dev mode.
type InMemoryRecords struct {
	mu      sync.RWMutex
	records []*Incidence
}

func NewInMemoryRecords() *InMemoryRecords {
	return &InMemoryRecords{}
}

// Put appends an incidence record.
func (s *InMemoryRecords) Put(_ context.Context, rec *Incidence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records = append(s.records, &cp)
}

func (s *InMemoryRecords) ListOverlapping(_ context.Context, tenantID id.TenantID, employeeID id.EmployeeID, dates models.DateRange) ([]*Incidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Incidence
	for _, rec := range s.records {
		if rec.TenantID != tenantID || rec.EmployeeID != employeeID || rec.Rejected {
			continue
		}
		if rec.Dates.Overlaps(dates) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}
