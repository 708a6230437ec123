package incidence

import (
	"context"

	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
)

// Incidence is a recorded occurrence (an absence, overtime block, or other
// catalog event) already on an employee's calendar. The overlap detector
// checks new requests against these alongside other requests. Rejected
// incidences never participate.
type Incidence struct {
	ID         id.IncidenceID
	TenantID   id.TenantID
	EmployeeID id.EmployeeID
	TypeID     id.IncidenceTypeID
	Dates      models.DateRange
	Rejected   bool
}

// RecordStore is the read surface the overlap detector depends on.
type RecordStore interface {
	// ListOverlapping returns non-rejected incidences for the employee
	// whose closed date interval intersects [dates.Start, dates.End].
	ListOverlapping(ctx context.Context, tenantID id.TenantID, employeeID id.EmployeeID, dates models.DateRange) ([]*Incidence, error)
}
