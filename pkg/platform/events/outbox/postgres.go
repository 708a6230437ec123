// Package outbox implements the transactional outbox for workflow events.
// Events are written to the outbox table in the same transaction as the
// state change and published to Kafka by the outbox worker. Kafka is the
// source of truth for downstream consumers.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hrgate/pkg/platform/events"
	txcontext "hrgate/pkg/platform/tx"
)

// Entry is one unpublished outbox row.
type Entry struct {
	ID        uuid.UUID
	EventType string
	Key       string // Kafka partition key: the request id
	Payload   []byte
	CreatedAt time.Time
}

// payload is the JSON structure published to Kafka.
type payload struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Timestamp  string `json:"timestamp"`
	TenantID   string `json:"tenant_id"`
	RequestID  string `json:"request_id"`
	EmployeeID string `json:"employee_id"`
	ActorID    string `json:"actor_id,omitempty"`
	Stage      string `json:"stage,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
	TraceID    string `json:"trace_id,omitempty"`
}

// Postgres implements events.Store plus the worker's fetch/mark surface.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append writes an event to the outbox. Called inside the engine's
// transaction so the event commits atomically with the state change.
func (s *Postgres) Append(ctx context.Context, event events.Event) error {
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
		return fmt.Errorf("marshal event payload: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, key, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		event.ID,
		"absence_request",
		event.RequestID.String(),
		string(event.Type),
		event.RequestID.String(),
		body,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// FetchUnpublished returns up to limit unpublished entries in insertion
// order. The worker calls this outside any request transaction.
func (s *Postgres) FetchUnpublished(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, event_type, key, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EventType, &e.Key, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkPublished stamps entries as delivered. Idempotent.
func (s *Postgres) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE outbox SET published_at = $2 WHERE id = ANY($1) AND published_at IS NULL`
	_, err := s.db.ExecContext(ctx, query, uuidArray(ids), time.Now())
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

func uuidArray(ids []uuid.UUID) any {
	ss := make([]string, len(ids))
	for i, u := range ids {
		ss[i] = u.String()
	}
	// lib/pq accepts a text[] for uuid[] comparisons with ANY.
	return pq.Array(ss)
}

func actorOrEmpty(event events.Event) string {
	if event.ActorID.IsNil() {
		return ""
	}
	return event.ActorID.String()
}
