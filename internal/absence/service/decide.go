package service

import (
	"context"
	"errors"
	"time"

	"hrgate/internal/absence/models"
	"hrgate/internal/absence/sequence"
	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
	"hrgate/pkg/platform/events"
	"hrgate/pkg/platform/sentinel"
	"hrgate/pkg/requestcontext"
)

// Decision is one approval or decline action. Stage, when set, is the stage
// the approver believed they were deciding; a mismatch with the request's
// actual stage means the approver's view is stale and the action is refused.
type Decision struct {
	Action   models.Action
	Stage    models.Stage
	Comments string
}

// Decide applies one approval or decline action to a pending request.
//
// Approval advances the request through every contiguous stage the actor is
// authorized for and writes one history row per stage traversed, all on the
// same timestamp. Reaching the end of the stage order flips the request to
// APPROVED. Decline freezes the request at its current stage and no later
// action may move it.
//
// The whole action runs under one transaction with the request row locked,
// so a concurrent decision on the same request observes the updated stage
// and fails its own validation instead of double-applying.
func (s *Service) Decide(ctx context.Context, requestID id.RequestID, decision Decision) (*models.AbsenceRequest, error) {
	start := time.Now()

	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if requestID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request ID required")
	}

	authorized := s.authority.AuthorizedStages(actor.Roles)
	if len(authorized) == 0 {
		return nil, dErrors.New(dErrors.CodeForbidden, "actor holds no approval authority")
	}

	now := requestcontext.Now(ctx)
	var (
		updated   *models.AbsenceRequest
		traversed []models.Stage
	)

	err = s.tx.RunInTx(withTxKey(ctx, requestID.String()), func(ctx context.Context) error {
		var decidedAt models.Stage

		updated, err = s.requests.Execute(ctx, requestID,
			// Validate under lock: tenancy, liveness, authority at the
			// current stage, and the advancement plan.
			func(req *models.AbsenceRequest) error {
				if req.TenantID != actor.TenantID {
					return dErrors.New(dErrors.CodeNotFound, "request not found")
				}
				if err := req.CanDecide(); err != nil {
					return dErrors.Newf(dErrors.CodeConflict, "request is already %s", req.Status)
				}
				if decision.Stage != "" && decision.Stage != req.Stage {
					return dErrors.Newf(dErrors.CodeForbidden, "decision targets stage %s but the request is at %s", decision.Stage, req.Stage)
				}
				decidedAt = req.Stage
				if decision.Action == models.ActionDeclined {
					if !authorized.Contains(req.Stage) {
						return dErrors.Newf(dErrors.CodeForbidden, "actor is not authorized for stage %s", req.Stage)
					}
					traversed = []models.Stage{req.Stage}
					return nil
				}
				run, next, err := sequence.Advance(req.Stage, req.RequiresPayroll, authorized)
				if err != nil {
					return err
				}
				traversed = run
				decidedAt = next
				return nil
			},
			func(req *models.AbsenceRequest) {
				if decision.Action == models.ActionDeclined {
					req.ApplyDecline(now)
					return
				}
				req.ApplyAdvance(decidedAt, now)
			},
		)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "request not found")
			}
			if dErrors.HasCode(err, dErrors.CodeNotFound) ||
				dErrors.HasCode(err, dErrors.CodeForbidden) ||
				dErrors.HasCode(err, dErrors.CodeConflict) ||
				dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to decide request")
		}

		// One immutable row per stage covered, all on the request time so
		// a combined-role action reads as a single moment in the trail.
		for _, stage := range traversed {
			row := models.NewApprovalHistory(requestID, actor.ID, stage, decision.Action, decision.Comments, now)
			if err := s.history.Append(ctx, row); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append approval history")
			}
		}

		return s.emitEvent(ctx, s.decisionEvent(updated, actor.ID, now))
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, "absence_request_decided",
		"tenant_id", updated.TenantID.String(),
		"absence_request_id", updated.ID.String(),
		"actor_id", actor.ID.String(),
		"action", string(decision.Action),
		"stages_covered", len(traversed),
		"status", string(updated.Status),
		"stage", updated.Stage.String(),
	)
	if s.metrics != nil {
		s.metrics.ObserveDecision(string(decision.Action), len(traversed), start)
	}
	s.invalidateCounts(ctx, updated.TenantID)

	return updated, nil
}

func (s *Service) decisionEvent(req *models.AbsenceRequest, actorID id.EmployeeID, now time.Time) events.Event {
	eventType := events.TypeStageAdvanced
	outcome := ""
	if req.Status.IsTerminal() {
		eventType = events.TypeRequestDecided
		outcome = string(req.Status)
	}
	event := events.New(eventType, now)
	event.TenantID = req.TenantID
	event.RequestID = req.ID
	event.EmployeeID = req.EmployeeID
	event.ActorID = actorID
	event.Stage = req.Stage.String()
	event.Outcome = outcome
	return event
}
