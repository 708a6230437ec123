package incidence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
	"hrgate/pkg/platform/sentinel"
	txcontext "hrgate/pkg/platform/tx"

	"github.com/google/uuid"
)

// Postgres reads the incidence-type catalog and the incidence ledger. Reads
// issued inside a service transaction run through the *sql.Tx carried in
// context, so the incidence half of an overlap check shares the create
// transaction's snapshot.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) querier(ctx context.Context) dbQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) FindByID(ctx context.Context, typeID id.IncidenceTypeID) (*IncidenceType, error) {
	query := `
		SELECT id, tenant_id, name, effect, fields, rejected
		FROM incidence_types
		WHERE id = $1
	`
	row := s.querier(ctx).QueryRowContext(ctx, query, uuid.UUID(typeID))
	return scanIncidenceType(row)
}

func (s *Postgres) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*IncidenceType, error) {
	query := `
		SELECT id, tenant_id, name, effect, fields, rejected
		FROM incidence_types
		WHERE tenant_id = $1
		ORDER BY name
	`
	rows, err := s.querier(ctx).QueryContext(ctx, query, uuid.UUID(tenantID))
	if err != nil {
		return nil, fmt.Errorf("query incidence types: %w", err)
	}
	defer rows.Close()

	var out []*IncidenceType
	for rows.Next() {
		t, err := scanIncidenceType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListOverlapping returns non-rejected incidences intersecting the closed
// interval. The predicate mirrors the request overlap query: inclusive on
// both bounds.
func (s *Postgres) ListOverlapping(ctx context.Context, tenantID id.TenantID, employeeID id.EmployeeID, dates models.DateRange) ([]*Incidence, error) {
	query := `
		SELECT id, tenant_id, employee_id, type_id, start_date, end_date, rejected
		FROM incidences
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND NOT rejected
		  AND start_date <= $4
		  AND end_date >= $3
	`
	rows, err := s.querier(ctx).QueryContext(ctx, query, uuid.UUID(tenantID), uuid.UUID(employeeID), dates.Start, dates.End)
	if err != nil {
		return nil, fmt.Errorf("query incidences: %w", err)
	}
	defer rows.Close()

	var out []*Incidence
	for rows.Next() {
		var (
			rec                    Incidence
			recID, tnt, emp, typID uuid.UUID
			start, end             sql.NullTime
		)
		if err := rows.Scan(&recID, &tnt, &emp, &typID, &start, &end, &rec.Rejected); err != nil {
			return nil, fmt.Errorf("scan incidence: %w", err)
		}
		rec.ID = id.IncidenceID(recID)
		rec.TenantID = id.TenantID(tnt)
		rec.EmployeeID = id.EmployeeID(emp)
		rec.TypeID = id.IncidenceTypeID(typID)
		rng, err := models.NewDateRange(start.Time, end.Time)
		if err != nil {
			return nil, fmt.Errorf("invalid incidence range: %w", err)
		}
		rec.Dates = rng
		out = append(out, &rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIncidenceType(row rowScanner) (*IncidenceType, error) {
	var (
		t            IncidenceType
		typeID, tnt  uuid.UUID
		effect       string
		fieldsJSON   []byte
	)
	err := row.Scan(&typeID, &tnt, &t.Name, &effect, &fieldsJSON, &t.Rejected)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan incidence type: %w", err)
	}
	t.ID = id.IncidenceTypeID(typeID)
	t.TenantID = id.TenantID(tnt)
	t.Effect = Effect(effect)
	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &t.Fields); err != nil {
			return nil, fmt.Errorf("decode incidence type fields: %w", err)
		}
	}
	return &t, nil
}
