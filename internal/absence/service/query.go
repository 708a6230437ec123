package service

import (
	"context"
	"errors"

	"hrgate/internal/absence/models"
	"hrgate/internal/absence/sequence"
	"hrgate/internal/absence/store"
	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
	"hrgate/pkg/platform/sentinel"
)

// RequestDetails is a request with its full decision trail.
type RequestDetails struct {
	Request *models.AbsenceRequest
	History []models.ApprovalHistory
}

// GetRequest loads one request with its history. Visible to the owner,
// admins and approvers within the tenant.
func (s *Service) GetRequest(ctx context.Context, requestID id.RequestID) (*RequestDetails, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if requestID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request ID required")
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
	}
	if req.TenantID != actor.TenantID {
		return nil, dErrors.New(dErrors.CodeNotFound, "request not found")
	}
	if !s.canView(actor, req) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to view this request")
	}

	history, err := s.history.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load approval history")
	}
	return &RequestDetails{Request: req, History: history}, nil
}

// ListByEmployee returns an employee's requests, newest first per store
// ordering. Employees see their own; admins and approvers see anyone's in
// the tenant.
func (s *Service) ListByEmployee(ctx context.Context, employeeID id.EmployeeID) ([]*models.AbsenceRequest, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if employeeID.IsNil() {
		employeeID = actor.ID
	}
	if employeeID != actor.ID && !actor.IsAdmin() && len(s.authority.AuthorizedStages(actor.Roles)) == 0 {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to list another employee's requests")
	}

	requests, err := s.requests.ListByEmployee(ctx, actor.TenantID, employeeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list requests")
	}
	return requests, nil
}

// ListPendingForActor returns the approval queue: pending requests sitting
// at any stage the actor may decide, or at the one given stage when set.
func (s *Service) ListPendingForActor(ctx context.Context, stage models.Stage) ([]*models.AbsenceRequest, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	authorized := s.authority.AuthorizedStages(actor.Roles)
	if len(authorized) == 0 {
		return nil, dErrors.New(dErrors.CodeForbidden, "actor holds no approval authority")
	}

	stages := stagesInOrder(authorized)
	if stage != "" {
		if !authorized.Contains(stage) {
			return nil, dErrors.Newf(dErrors.CodeForbidden, "actor is not authorized for stage %s", stage)
		}
		stages = []models.Stage{stage}
	}

	requests, err := s.requests.ListPending(ctx, store.PendingFilter{
		TenantID: actor.TenantID,
		Stages:   stages,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending requests")
	}
	return requests, nil
}

// PendingCounts returns the per-stage pending backlog for the tenant,
// served from the Redis cache when warm.
func (s *Service) PendingCounts(ctx context.Context) (map[models.Stage]int, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && len(s.authority.AuthorizedStages(actor.Roles)) == 0 {
		return nil, dErrors.New(dErrors.CodeForbidden, "actor holds no approval authority")
	}

	if counts, ok := s.counts.Get(ctx, actor.TenantID); ok {
		return counts, nil
	}

	counts, err := s.requests.CountPendingByStage(ctx, actor.TenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count pending requests")
	}
	s.counts.Set(ctx, actor.TenantID, counts)
	return counts, nil
}

// stagesInOrder converts a stage set into the canonical stage order so
// queue listings group stages predictably.
func stagesInOrder(set map[models.Stage]struct{}) []models.Stage {
	var out []models.Stage
	for _, stage := range sequence.Order(true) {
		if _, ok := set[stage]; ok {
			out = append(out, stage)
		}
	}
	return out
}
