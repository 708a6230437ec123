package store

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
	"github.com/lib/pq"
)

// Postgres implements RequestStore over database/sql. State-changing calls
// participate in the service transaction via pkg/platform/tx: when a *sql.Tx
// is present in the context, all statements run through it, which is what
// makes the create-with-overlap-check and decide paths atomic.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const requestColumns = `
	id, tenant_id, employee_id, request_type, incidence_type_id,
	start_date, end_date, total_days, reason, status, stage,
	requires_payroll, fields, archived_at, created_at, updated_at
`

func (s *Postgres) Create(ctx context.Context, req *models.AbsenceRequest) error {
	fields, err := json.Marshal(req.Fields)
	if err != nil {
		return fmt.Errorf("encode request fields: %w", err)
	}

	var incidenceTypeID *uuid.UUID
	if !req.IncidenceTypeID.IsNil() {
		u := uuid.UUID(req.IncidenceTypeID)
		incidenceTypeID = &u
	}

	query := `
		INSERT INTO absence_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(req.ID),
		uuid.UUID(req.TenantID),
		uuid.UUID(req.EmployeeID),
		string(req.Type),
		incidenceTypeID,
		req.Dates.Start,
		req.Dates.End,
		req.TotalDays,
		req.Reason,
		string(req.Status),
		string(req.Stage),
		req.RequiresPayroll,
		fields,
		req.ArchivedAt,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert absence request: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, requestID id.RequestID) (*models.AbsenceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM absence_requests WHERE id = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(requestID))
	return scanRequest(row)
}

func (s *Postgres) ListByEmployee(ctx context.Context, tenantID id.TenantID, employeeID id.EmployeeID) ([]*models.AbsenceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM absence_requests
		WHERE tenant_id = $1 AND employee_id = $2
		ORDER BY created_at, id
	`
	return s.queryRequests(ctx, query, uuid.UUID(tenantID), uuid.UUID(employeeID))
}

func (s *Postgres) ListPending(ctx context.Context, filter PendingFilter) ([]*models.AbsenceRequest, error) {
	stages := make([]string, 0, len(filter.Stages))
	for _, st := range filter.Stages {
		stages = append(stages, string(st))
	}
	query := `
		SELECT ` + requestColumns + `
		FROM absence_requests
		WHERE tenant_id = $1 AND status = $2 AND stage = ANY($3)
		ORDER BY created_at, id
	`
	return s.queryRequests(ctx, query, uuid.UUID(filter.TenantID), string(models.StatusPending), pq.Array(stages))
}

func (s *Postgres) CountPendingByStage(ctx context.Context, tenantID id.TenantID) (map[models.Stage]int, error) {
	query := `
		SELECT stage, COUNT(*)
		FROM absence_requests
		WHERE tenant_id = $1 AND status = $2
		GROUP BY stage
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(tenantID), string(models.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("count pending requests: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Stage]int)
	for rows.Next() {
		var stage string
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, fmt.Errorf("scan pending count: %w", err)
		}
		counts[models.Stage(stage)] = n
	}
	return counts, rows.Err()
}

// ListOverlapping applies the closed-interval predicate in SQL:
// a_start <= b_end AND a_end >= b_start, inclusive on both bounds.
func (s *Postgres) ListOverlapping(ctx context.Context, filter OverlapFilter) ([]*models.AbsenceRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM absence_requests
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND status IN ($3, $4)
		  AND id <> $5
		  AND start_date <= $7
		  AND end_date >= $6
		ORDER BY created_at, id
	`
	return s.queryRequests(ctx, query,
		uuid.UUID(filter.TenantID),
		uuid.UUID(filter.EmployeeID),
		string(models.StatusPending),
		string(models.StatusApproved),
		uuid.UUID(filter.ExcludeRequestID),
		filter.Dates.Start,
		filter.Dates.End,
	)
}

// Execute locks the row with SELECT ... FOR UPDATE, runs validate, applies
// mutate, and writes the result back. Run inside a service transaction the
// lock spans the whole decide/archive flow, so two approvers racing on the
// same stage serialize here and the loser fails validation on a stale view.
func (s *Postgres) Execute(ctx context.Context, requestID id.RequestID,
	validate func(*models.AbsenceRequest) error,
	mutate func(*models.AbsenceRequest)) (*models.AbsenceRequest, error) {

	exec := s.execer(ctx)
	query := `SELECT ` + requestColumns + ` FROM absence_requests WHERE id = $1 FOR UPDATE`
	if _, inTx := txcontext.From(ctx); !inTx {
		// FOR UPDATE outside a transaction releases immediately; fall back
		// to a plain read so dev-mode single statements still work.
		query = `SELECT ` + requestColumns + ` FROM absence_requests WHERE id = $1`
	}

	req, err := scanRequest(exec.QueryRowContext(ctx, query, uuid.UUID(requestID)))
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}
	mutate(req)

	fields, err := json.Marshal(req.Fields)
	if err != nil {
		return nil, fmt.Errorf("encode request fields: %w", err)
	}
	update := `
		UPDATE absence_requests
		SET status = $2, stage = $3, fields = $4, archived_at = $5, updated_at = $6
		WHERE id = $1
	`
	if _, err := exec.ExecContext(ctx, update,
		uuid.UUID(req.ID),
		string(req.Status),
		string(req.Stage),
		fields,
		req.ArchivedAt,
		req.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update absence request: %w", err)
	}
	return req, nil
}

func (s *Postgres) DeleteIfPending(ctx context.Context, requestID id.RequestID) error {
	exec := s.execer(ctx)
	res, err := exec.ExecContext(ctx,
		`DELETE FROM absence_requests WHERE id = $1 AND status = $2`,
		uuid.UUID(requestID), string(models.StatusPending))
	if err != nil {
		return fmt.Errorf("delete absence request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete absence request: %w", err)
	}
	if n == 0 {
		// Distinguish missing from non-pending for correct error mapping.
		var status string
		err := exec.QueryRowContext(ctx,
			`SELECT status FROM absence_requests WHERE id = $1`,
			uuid.UUID(requestID)).Scan(&status)
		if err == sql.ErrNoRows {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check absence request status: %w", err)
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *Postgres) queryRequests(ctx context.Context, query string, args ...any) ([]*models.AbsenceRequest, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query absence requests: %w", err)
	}
	defer rows.Close()

	var out []*models.AbsenceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.AbsenceRequest, error) {
	var (
		req              models.AbsenceRequest
		reqID, tnt, emp  uuid.UUID
		incidenceTypeID  *uuid.UUID
		reqType          string
		start, end       sql.NullTime
		status, stage    string
		fieldsJSON       []byte
		archivedAt       sql.NullTime
	)
	err := row.Scan(
		&reqID, &tnt, &emp, &reqType, &incidenceTypeID,
		&start, &end, &req.TotalDays, &req.Reason, &status, &stage,
		&req.RequiresPayroll, &fieldsJSON, &archivedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan absence request: %w", err)
	}

	req.ID = id.RequestID(reqID)
	req.TenantID = id.TenantID(tnt)
	req.EmployeeID = id.EmployeeID(emp)
	req.Type = models.RequestType(reqType)
	if incidenceTypeID != nil {
		req.IncidenceTypeID = id.IncidenceTypeID(*incidenceTypeID)
	}
	rng, err := models.NewDateRange(start.Time, end.Time)
	if err != nil {
		return nil, fmt.Errorf("invalid stored range: %w", err)
	}
	req.Dates = rng
	req.Status = models.Status(status)
	req.Stage = models.Stage(stage)
	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &req.Fields); err != nil {
			return nil, fmt.Errorf("decode request fields: %w", err)
		}
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		req.ArchivedAt = &t
	}
	return &req, nil
}

// PostgresHistory implements HistoryStore.
type PostgresHistory struct {
	db *sql.DB
}

func NewPostgresHistory(db *sql.DB) *PostgresHistory {
	return &PostgresHistory{db: db}
}

func (s *PostgresHistory) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresHistory) Append(ctx context.Context, row models.ApprovalHistory) error {
	query := `
		INSERT INTO approval_history (id, request_id, actor_id, stage, action, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(row.ID),
		uuid.UUID(row.RequestID),
		uuid.UUID(row.ActorID),
		string(row.Stage),
		string(row.Action),
		row.Comments,
		row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval history: %w", err)
	}
	return nil
}

func (s *PostgresHistory) ListByRequest(ctx context.Context, requestID id.RequestID) ([]models.ApprovalHistory, error) {
	query := `
		SELECT id, request_id, actor_id, stage, action, comments, created_at
		FROM approval_history
		WHERE request_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(requestID))
	if err != nil {
		return nil, fmt.Errorf("query approval history: %w", err)
	}
	defer rows.Close()

	var out []models.ApprovalHistory
	for rows.Next() {
		var (
			row                 models.ApprovalHistory
			rowID, reqID, actor uuid.UUID
			stage, action       string
		)
		if err := rows.Scan(&rowID, &reqID, &actor, &stage, &action, &row.Comments, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval history: %w", err)
		}
		row.ID = id.HistoryID(rowID)
		row.RequestID = id.RequestID(reqID)
		row.ActorID = id.EmployeeID(actor)
		row.Stage = models.Stage(stage)
		row.Action = models.Action(action)
		out = append(out, row)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
