package outbox

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrgate/pkg/platform/events"
)

// Memory is the outbox for tests and dev mode. Same contract as Postgres:
// Append accumulates, FetchUnpublished returns in insertion order,
// MarkPublished is idempotent.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	done    map[uuid.UUID]bool
}

func NewMemory() *Memory {
	return &Memory{done: make(map[uuid.UUID]bool)}
}

func (s *Memory) Append(_ context.Context, event events.Event) error {
	body, err := json.Marshal(payload{
		ID:         event.ID.String(),
		Type:       string(event.Type),
		Timestamp:  event.Timestamp.Format(time.RFC3339Nano),
		TenantID:   event.TenantID.String(),
		RequestID:  event.RequestID.String(),
		EmployeeID: event.EmployeeID.String(),
		ActorID:    actorOrEmpty(event),
		Stage:      event.Stage,
		Outcome:    event.Outcome,
		TraceID:    event.TraceID,
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{
		ID:        event.ID,
		EventType: string(event.Type),
		Key:       event.RequestID.String(),
		Payload:   body,
		CreatedAt: time.Now(),
	})
	return nil
}

func (s *Memory) FetchUnpublished(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for _, e := range s.entries {
		if s.done[e.ID] {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Memory) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.done[id] = true
	}
	return nil
}
