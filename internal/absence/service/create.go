package service

import (
	"context"
	"errors"

	"hrgate/internal/absence/models"
	"hrgate/internal/absence/store"
	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
	"hrgate/pkg/platform/events"
	"hrgate/pkg/platform/sentinel"
	"hrgate/pkg/requestcontext"
)

// CreateParams carries validated input for a new request. EmployeeID is
// optional; when empty the request is created for the actor.
type CreateParams struct {
	EmployeeID      id.EmployeeID
	Type            models.RequestType
	IncidenceTypeID id.IncidenceTypeID
	Dates           models.DateRange
	Reason          string
	Fields          models.CustomFields
}

// Overlap is one calendar conflict found for a date range. Exactly one of
// RequestID and IncidenceID is set.
type Overlap struct {
	RequestID   id.RequestID
	IncidenceID id.IncidenceID
	Dates       models.DateRange
	Status      models.Status
}

// Create validates, overlap-checks and persists a new PENDING request at the
// first approval stage. Overlapping dates are a hard block: the request is
// rejected with a conflict listing the colliding records, never queued.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.AbsenceRequest, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	employeeID := params.EmployeeID
	if employeeID.IsNil() {
		employeeID = actor.ID
	}
	if employeeID != actor.ID && !actor.IsAdmin() {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot create requests for another employee")
	}

	employee, err := s.directory.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve employee")
	}
	// Cross-tenant lookups read as absent, never as forbidden.
	if employee.TenantID != actor.TenantID {
		return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
	}

	requiresPayroll := params.Type.AffectsPay()
	if !params.IncidenceTypeID.IsNil() {
		incidenceType, err := s.catalog.FindByID(ctx, params.IncidenceTypeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "incidence type not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve incidence type")
		}
		if incidenceType.TenantID != actor.TenantID {
			return nil, dErrors.New(dErrors.CodeNotFound, "incidence type not found")
		}
		if incidenceType.Rejected {
			return nil, dErrors.New(dErrors.CodeValidation, "incidence type is no longer requestable")
		}
		requiresPayroll = incidenceType.Effect.AffectsPay()
	}

	now := requestcontext.Now(ctx)
	req, err := models.NewAbsenceRequest(
		id.NewRequestID(),
		actor.TenantID,
		employeeID,
		params.Type,
		params.IncidenceTypeID,
		params.Dates,
		params.Reason,
		requiresPayroll,
		params.Fields,
		now,
	)
	if err != nil {
		// Convert invariant violations to validation errors for API response
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	// The overlap check and the insert run under one transaction so two
	// concurrent requests for the same dates cannot both pass.
	err = s.tx.RunInTx(withTxKey(ctx, employeeID.String()), func(ctx context.Context) error {
		overlaps, err := s.findOverlaps(ctx, actor.TenantID, employeeID, params.Dates, id.RequestID{})
		if err != nil {
			return err
		}
		if len(overlaps) > 0 {
			if s.metrics != nil {
				s.metrics.IncrementOverlapRejections()
			}
			return overlapConflict(overlaps)
		}
		if err := s.requests.Create(ctx, req); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "request already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
		}

		event := events.New(events.TypeRequestCreated, now)
		event.TenantID = req.TenantID
		event.RequestID = req.ID
		event.EmployeeID = req.EmployeeID
		event.ActorID = actor.ID
		event.Stage = req.Stage.String()
		return s.emitEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "absence_request_created",
		"tenant_id", req.TenantID.String(),
		"absence_request_id", req.ID.String(),
		"employee_id", req.EmployeeID.String(),
		"type", string(req.Type),
		"total_days", req.TotalDays,
		"requires_payroll", req.RequiresPayroll,
	)
	if s.metrics != nil {
		s.metrics.IncrementRequestsCreated()
	}
	s.invalidateCounts(ctx, req.TenantID)

	return req, nil
}

// FindOverlaps returns the calendar conflicts a date range would have for an
// employee, without creating anything. The UI calls this for pre-submit
// feedback; Create repeats the check transactionally.
func (s *Service) FindOverlaps(ctx context.Context, employeeID id.EmployeeID, dates models.DateRange, excludeRequestID id.RequestID) ([]Overlap, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if employeeID.IsNil() {
		employeeID = actor.ID
	}
	if employeeID != actor.ID && !actor.IsAdmin() && len(s.authority.AuthorizedStages(actor.Roles)) == 0 {
		return nil, dErrors.New(dErrors.CodeForbidden, "cannot inspect another employee's calendar")
	}
	return s.findOverlaps(ctx, actor.TenantID, employeeID, dates, excludeRequestID)
}

func (s *Service) findOverlaps(ctx context.Context, tenantID id.TenantID, employeeID id.EmployeeID, dates models.DateRange, excludeRequestID id.RequestID) ([]Overlap, error) {
	requests, err := s.requests.ListOverlapping(ctx, store.OverlapFilter{
		TenantID:         tenantID,
		EmployeeID:       employeeID,
		Dates:            dates,
		ExcludeRequestID: excludeRequestID,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check overlapping requests")
	}

	var overlaps []Overlap
	for _, r := range requests {
		overlaps = append(overlaps, Overlap{RequestID: r.ID, Dates: r.Dates, Status: r.Status})
	}

	if s.incidents != nil {
		records, err := s.incidents.ListOverlapping(ctx, tenantID, employeeID, dates)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check overlapping incidences")
		}
		for _, rec := range records {
			overlaps = append(overlaps, Overlap{IncidenceID: rec.ID, Dates: rec.Dates})
		}
	}
	return overlaps, nil
}

func overlapConflict(overlaps []Overlap) error {
	return dErrors.Newf(dErrors.CodeConflict, "dates overlap %d existing record(s) for this employee", len(overlaps))
}
