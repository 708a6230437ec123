package incidence

import (
	"context"
	"sync"

	id "hrgate/pkg/domain"
	"hrgate/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded catalog for tests and dev mode.
type InMemory struct {
	mu    sync.RWMutex
	types map[id.IncidenceTypeID]*IncidenceType
}

func NewInMemory() *InMemory {
	return &InMemory{types: make(map[id.IncidenceTypeID]*IncidenceType)}
}

// Put inserts or replaces a catalog entry.
func (s *InMemory) Put(_ context.Context, t *IncidenceType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	cp.Fields = append([]FieldDef(nil), t.Fields...)
	s.types[t.ID] = &cp
}

func (s *InMemory) FindByID(_ context.Context, typeID id.IncidenceTypeID) (*IncidenceType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	cp.Fields = append([]FieldDef(nil), t.Fields...)
	return &cp, nil
}

func (s *InMemory) ListByTenant(_ context.Context, tenantID id.TenantID) ([]*IncidenceType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*IncidenceType
	for _, t := range s.types {
		if t.TenantID == tenantID {
			cp := *t
			cp.Fields = append([]FieldDef(nil), t.Fields...)
			out = append(out, &cp)
		}
	}
	return out, nil
}
