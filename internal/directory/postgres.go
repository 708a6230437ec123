package directory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "hrgate/pkg/domain"
	"hrgate/pkg/platform/sentinel"
)

// Postgres reads the employees table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindByID(ctx context.Context, employeeID id.EmployeeID) (*Employee, error) {
	query := `
		SELECT id, tenant_id, name, email, supervisor_id, roles
		FROM employees
		WHERE id = $1
	`
	var (
		e          Employee
		empID, tnt uuid.UUID
		supervisor uuid.NullUUID
		roles      pq.StringArray
	)
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(employeeID)).
		Scan(&empID, &tnt, &e.Name, &e.Email, &supervisor, &roles)
	if err == sql.ErrNoRows {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}

	e.ID = id.EmployeeID(empID)
	e.TenantID = id.TenantID(tnt)
	if supervisor.Valid {
		e.SupervisorID = id.EmployeeID(supervisor.UUID)
	}
	e.Roles = make([]id.Role, len(roles))
	for i, r := range roles {
		e.Roles[i] = id.ParseRole(r)
	}
	return &e, nil
}
