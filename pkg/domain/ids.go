// Package domain holds typed identifiers shared across modules. Each ID is
// a distinct type over uuid.UUID so the compiler rejects cross-entity mixups,
// and each parser enforces the "valid, non-empty, non-nil UUID" invariant at
// trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "hrgate/pkg/domain-errors"
)

// TenantID identifies a tenant organization.
type TenantID uuid.UUID

// EmployeeID identifies an employee in the directory. Actors approving
// requests are employees too, so decisions reference this type.
type EmployeeID uuid.UUID

// RequestID identifies an absence/incidence request.
type RequestID uuid.UUID

// HistoryID identifies a single approval history row.
type HistoryID uuid.UUID

// IncidenceTypeID identifies an entry in the incidence-type catalog.
type IncidenceTypeID uuid.UUID

// IncidenceID identifies a recorded incidence occurrence.
type IncidenceID uuid.UUID

func (id TenantID) String() string        { return uuid.UUID(id).String() }
func (id EmployeeID) String() string      { return uuid.UUID(id).String() }
func (id RequestID) String() string       { return uuid.UUID(id).String() }
func (id HistoryID) String() string       { return uuid.UUID(id).String() }
func (id IncidenceTypeID) String() string { return uuid.UUID(id).String() }
func (id IncidenceID) String() string     { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id EmployeeID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id HistoryID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id IncidenceTypeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id IncidenceID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// NewRequestID returns a fresh random request ID.
func NewRequestID() RequestID { return RequestID(uuid.New()) }

// NewHistoryID returns a fresh random history ID.
func NewHistoryID() HistoryID { return HistoryID(uuid.New()) }

func parse(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

// ParseTenantID validates and returns a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parse(s)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID(u), nil
}

// ParseEmployeeID validates and returns an EmployeeID.
func ParseEmployeeID(s string) (EmployeeID, error) {
	u, err := parse(s)
	if err != nil {
		return EmployeeID{}, err
	}
	return EmployeeID(u), nil
}

// ParseRequestID validates and returns a RequestID.
func ParseRequestID(s string) (RequestID, error) {
	u, err := parse(s)
	if err != nil {
		return RequestID{}, err
	}
	return RequestID(u), nil
}

// ParseIncidenceTypeID validates and returns an IncidenceTypeID.
func ParseIncidenceTypeID(s string) (IncidenceTypeID, error) {
	u, err := parse(s)
	if err != nil {
		return IncidenceTypeID{}, err
	}
	return IncidenceTypeID(u), nil
}
