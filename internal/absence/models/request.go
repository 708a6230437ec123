package models

import (
	"strings"
	"time"

	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
)

// DateFormat is the wire format for request dates. Requests span whole
// calendar days; times of day live in the structured fields.
const DateFormat = "2006-01-02"

// DateRange is a closed interval of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange normalizes both bounds to UTC midnight and enforces
// end >= start.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := truncateToDay(start)
	e := truncateToDay(end)
	if e.Before(s) {
		return DateRange{}, dErrors.New(dErrors.CodeValidation, "end date must not be before start date")
	}
	return DateRange{Start: s, End: e}, nil
}

// ParseDateRange parses wire-format dates into a range.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateFormat, start)
	if err != nil {
		return DateRange{}, dErrors.New(dErrors.CodeValidation, "start_date must be formatted YYYY-MM-DD")
	}
	e, err := time.Parse(DateFormat, end)
	if err != nil {
		return DateRange{}, dErrors.New(dErrors.CodeValidation, "end_date must be formatted YYYY-MM-DD")
	}
	return NewDateRange(s, e)
}

// Days returns the number of calendar days covered, inclusive of both
// bounds. A single-day range counts as 1.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start)/(24*time.Hour)) + 1
}

// Overlaps reports whether two closed intervals intersect. Touching bounds
// count as overlapping: [1,5] and [5,9] conflict.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CustomFields carries the optional structured payload some request types
// use. Zero values mean "not supplied".
type CustomFields struct {
	HoursPerDay   float64           `json:"hours_per_day,omitempty"`
	PaidDays      int               `json:"paid_days,omitempty"`
	UnpaidDays    int               `json:"unpaid_days,omitempty"`
	ShiftChangeTo string            `json:"shift_change_to,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// AbsenceRequest is one employee's request for time away or a pay-affecting
// adjustment, routed through the approval stages.
//
// Invariants:
//   - Dates.End >= Dates.Start
//   - Status == APPROVED iff Stage == COMPLETED
//   - terminal records mutate only through archival
//   - ArchivedAt set only on terminal records
type AbsenceRequest struct {
	ID              id.RequestID
	TenantID        id.TenantID
	EmployeeID      id.EmployeeID
	Type            RequestType
	IncidenceTypeID id.IncidenceTypeID // optional dynamic catalog link
	Dates           DateRange
	TotalDays       int
	Reason          string
	Status          Status
	Stage           Stage
	RequiresPayroll bool
	Fields          CustomFields
	ArchivedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewAbsenceRequest validates invariants and returns a PENDING request at
// the first approval stage. TotalDays is derived, never trusted from input.
func NewAbsenceRequest(
	requestID id.RequestID,
	tenantID id.TenantID,
	employeeID id.EmployeeID,
	reqType RequestType,
	incidenceTypeID id.IncidenceTypeID,
	dates DateRange,
	reason string,
	requiresPayroll bool,
	fields CustomFields,
	now time.Time,
) (*AbsenceRequest, error) {
	if requestID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "request id is required")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant id is required")
	}
	if employeeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "employee id is required")
	}
	if _, ok := requestTypes[reqType]; !ok {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "request type is required")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reason is required")
	}

	return &AbsenceRequest{
		ID:              requestID,
		TenantID:        tenantID,
		EmployeeID:      employeeID,
		Type:            reqType,
		IncidenceTypeID: incidenceTypeID,
		Dates:           dates,
		TotalDays:       dates.Days(),
		Reason:          strings.TrimSpace(reason),
		Status:          StatusPending,
		Stage:           StageSupervisor,
		RequiresPayroll: requiresPayroll,
		Fields:          fields,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsArchived reports whether the archival flag is set.
func (r *AbsenceRequest) IsArchived() bool { return r.ArchivedAt != nil }

// CanDecide checks that the request still accepts decisions.
func (r *AbsenceRequest) CanDecide() error {
	if r.Status != StatusPending {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "request is %s", r.Status)
	}
	return nil
}

// CanArchive checks that archival is legal. Archiving an already archived
// record is allowed (idempotent no-op at the service layer).
func (r *AbsenceRequest) CanArchive() error {
	if !r.Status.IsTerminal() {
		return dErrors.New(dErrors.CodeInvariantViolation, "only decided requests can be archived")
	}
	return nil
}

// CanDelete checks that deletion is legal: PENDING only. Ownership is a
// service-level authorization concern, not a record invariant.
func (r *AbsenceRequest) CanDelete() error {
	if r.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation, "only pending requests can be deleted")
	}
	return nil
}

// ApplyAdvance moves the request to the given stage. Reaching COMPLETED
// flips the status to APPROVED, preserving the status<->stage invariant.
func (r *AbsenceRequest) ApplyAdvance(to Stage, now time.Time) {
	r.Stage = to
	if to == StageCompleted {
		r.Status = StatusApproved
	}
	r.UpdatedAt = now
}

// ApplyDecline freezes the request at its current stage. Decline is
// absorbing: no later decision may move it.
func (r *AbsenceRequest) ApplyDecline(now time.Time) {
	r.Status = StatusDeclined
	r.UpdatedAt = now
}

// ApplyArchive sets the archival flag. Callers must have passed CanArchive.
func (r *AbsenceRequest) ApplyArchive(now time.Time) {
	if r.ArchivedAt == nil {
		t := now
		r.ArchivedAt = &t
		r.UpdatedAt = now
	}
}

// Clone returns a deep copy so in-memory stores never hand out aliased
// records.
func (r *AbsenceRequest) Clone() *AbsenceRequest {
	cp := *r
	if r.ArchivedAt != nil {
		t := *r.ArchivedAt
		cp.ArchivedAt = &t
	}
	if r.Fields.Extra != nil {
		cp.Fields.Extra = make(map[string]string, len(r.Fields.Extra))
		for k, v := range r.Fields.Extra {
			cp.Fields.Extra[k] = v
		}
	}
	return &cp
}
