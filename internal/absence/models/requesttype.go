package models

import (
	dErrors "hrgate/pkg/domain-errors"
)

// RequestType enumerates the built-in categories of absence and
// pay-affecting requests. Requests may instead (or additionally) reference
// a dynamic incidence-type definition from the catalog; in that case the
// incidence type's effect decides whether the PAYROLL stage applies.
type RequestType string

const (
	TypePaidLeave   RequestType = "PAID_LEAVE"
	TypeUnpaidLeave RequestType = "UNPAID_LEAVE"
	TypeVacation    RequestType = "VACATION"
	TypeLateEntry   RequestType = "LATE_ENTRY"
	TypeEarlyExit   RequestType = "EARLY_EXIT"
	TypeShiftChange RequestType = "SHIFT_CHANGE"
	TypeTimeForTime RequestType = "TIME_FOR_TIME"
	TypeSickLeave   RequestType = "SICK_LEAVE"
	TypePersonal    RequestType = "PERSONAL"
	TypeOther       RequestType = "OTHER"
)

var requestTypes = map[RequestType]struct{}{
	TypePaidLeave:   {},
	TypeUnpaidLeave: {},
	TypeVacation:    {},
	TypeLateEntry:   {},
	TypeEarlyExit:   {},
	TypeShiftChange: {},
	TypeTimeForTime: {},
	TypeSickLeave:   {},
	TypePersonal:    {},
	TypeOther:       {},
}

// ParseRequestType validates a request type string.
func ParseRequestType(s string) (RequestType, error) {
	rt := RequestType(s)
	if _, ok := requestTypes[rt]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown request type: %s", s)
	}
	return rt, nil
}

// AffectsPay reports whether the built-in type changes the employee's pay
// and therefore requires the PAYROLL stage. Types that only move worked
// time around are neutral.
func (t RequestType) AffectsPay() bool {
	switch t {
	case TypePaidLeave, TypeUnpaidLeave, TypeSickLeave:
		return true
	default:
		return false
	}
}

func (t RequestType) String() string { return string(t) }
