// Package directory is the employee directory the approval engine consumes.
// Employee records are authored elsewhere (HR master data import is out of
// scope); the engine only reads them to resolve ownership and roles.
package directory

import (
	"context"

	id "hrgate/pkg/domain"
)

// Employee is a directory entry.
type Employee struct {
	ID           id.EmployeeID
	TenantID     id.TenantID
	Name         string
	Email        string
	SupervisorID id.EmployeeID
	Roles        []id.Role
}

// Store is the read surface the engine depends on.
type Store interface {
	FindByID(ctx context.Context, employeeID id.EmployeeID) (*Employee, error)
}
