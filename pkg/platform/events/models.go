// Package events defines the domain events the approval workflow emits.
// Notification delivery and UI refresh are out of scope; they subscribe to
// the Kafka topic these events land on. Keep the event transport-agnostic
// so stores and sinks can fan out.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "hrgate/pkg/domain"
)

// Type names a workflow event.
type Type string

const (
	TypeRequestCreated  Type = "request_created"
	TypeStageAdvanced   Type = "stage_advanced"
	TypeRequestDecided  Type = "request_decided"
	TypeRequestArchived Type = "request_archived"
	TypeRequestDeleted  Type = "request_deleted"
)

// Event is emitted from the approval engine on every state change. The
// engine appends it to the transactional outbox inside the same database
// transaction as the state change itself, so consumers never observe an
// event without its state or vice versa.
type Event struct {
	ID         uuid.UUID
	Type       Type
	Timestamp  time.Time
	TenantID   id.TenantID
	RequestID  id.RequestID
	EmployeeID id.EmployeeID
	ActorID    id.EmployeeID // who caused the change; zero for system actions
	Stage      string        // stage reached (advance) or decided at (decide)
	Outcome    string        // APPROVED / DECLINED for decision events
	TraceID    string        // correlation id from the HTTP request context
}

// New builds an event with a fresh ID and the given timestamp.
func New(eventType Type, now time.Time) Event {
	return Event{ID: uuid.New(), Type: eventType, Timestamp: now}
}

// Store is the transactional outbox surface the engine writes through.
type Store interface {
	Append(ctx context.Context, event Event) error
}
