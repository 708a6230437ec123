// Package incidence is the catalog of requestable incidence types. Each
// type carries an effect classification that decides whether the PAYROLL
// approval stage applies, plus an optional custom-field schema the request
// form renders. Catalog management (admin CRUD screens) is out of scope;
// the engine reads the catalog only.
package incidence

import (
	"context"

	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
)

// Effect classifies how an incidence type touches pay.
type Effect string

const (
	EffectPositive Effect = "POSITIVE" // adds pay (overtime, bonus)
	EffectNegative Effect = "NEGATIVE" // deducts pay (unpaid absence)
	EffectNeutral  Effect = "NEUTRAL"  // no pay impact (shift swap)
)

// ParseEffect validates an effect string.
func ParseEffect(s string) (Effect, error) {
	switch Effect(s) {
	case EffectPositive, EffectNegative, EffectNeutral:
		return Effect(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown effect: %s", s)
	}
}

// AffectsPay reports whether requests of this effect need the PAYROLL stage.
func (e Effect) AffectsPay() bool { return e != EffectNeutral }

// FieldDef describes one custom field an incidence type asks of requesters.
type FieldDef struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Kind     string `json:"kind"` // "text", "number", "date"
	Required bool   `json:"required"`
}

// IncidenceType is one catalog entry.
type IncidenceType struct {
	ID       id.IncidenceTypeID
	TenantID id.TenantID
	Name     string
	Effect   Effect
	Fields   []FieldDef
	Rejected bool // rejected catalog entries never participate in overlap checks
}

// Store is the read surface the engine depends on.
type Store interface {
	FindByID(ctx context.Context, typeID id.IncidenceTypeID) (*IncidenceType, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*IncidenceType, error)
}
