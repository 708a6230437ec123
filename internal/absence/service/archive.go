package service

import (
	"context"
	"errors"

	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
	dErrors "hrgate/pkg/domain-errors"
	"hrgate/pkg/platform/events"
	"hrgate/pkg/platform/sentinel"
	"hrgate/pkg/requestcontext"
)

// Archive hides a decided request from active listings. The record and its
// history survive unchanged. Archiving an already archived request is a
// no-op; archiving a pending one is a conflict.
func (s *Service) Archive(ctx context.Context, requestID id.RequestID) (*models.AbsenceRequest, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if requestID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request ID required")
	}

	now := requestcontext.Now(ctx)
	var (
		updated         *models.AbsenceRequest
		alreadyArchived bool
	)

	// Same transactional boundary as Decide: the read-modify-write and the
	// outbox append commit or roll back together, and a concurrent archive
	// of the same request observes the first one's ArchivedAt.
	err = s.tx.RunInTx(withTxKey(ctx, requestID.String()), func(ctx context.Context) error {
		updated, err = s.requests.Execute(ctx, requestID,
			func(req *models.AbsenceRequest) error {
				if req.TenantID != actor.TenantID {
					return dErrors.New(dErrors.CodeNotFound, "request not found")
				}
				if req.EmployeeID != actor.ID && !actor.IsAdmin() {
					return dErrors.New(dErrors.CodeForbidden, "only the owner or an admin may archive")
				}
				if req.IsArchived() {
					alreadyArchived = true
					return nil
				}
				if err := req.CanArchive(); err != nil {
					return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
				}
				return nil
			},
			func(req *models.AbsenceRequest) {
				if !alreadyArchived {
					req.ApplyArchive(now)
				}
			},
		)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "request not found")
			}
			if dErrors.HasCode(err, dErrors.CodeNotFound) ||
				dErrors.HasCode(err, dErrors.CodeForbidden) ||
				dErrors.HasCode(err, dErrors.CodeConflict) {
				return err
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to archive request")
		}
		if alreadyArchived {
			return nil
		}

		event := events.New(events.TypeRequestArchived, now)
		event.TenantID = updated.TenantID
		event.RequestID = updated.ID
		event.EmployeeID = updated.EmployeeID
		event.ActorID = actor.ID
		return s.emitEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	if alreadyArchived {
		return updated, nil
	}

	s.logAudit(ctx, "absence_request_archived",
		"tenant_id", updated.TenantID.String(),
		"absence_request_id", updated.ID.String(),
		"actor_id", actor.ID.String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementRequestsArchived()
	}

	return updated, nil
}

// Delete removes a request that has not entered the decision record: only
// the owner (or an admin) may delete, and only while it is still PENDING.
// Decided requests are immutable history and can only be archived.
func (s *Service) Delete(ctx context.Context, requestID id.RequestID) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	if requestID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "request ID required")
	}

	var deleted *models.AbsenceRequest

	err = s.tx.RunInTx(withTxKey(ctx, requestID.String()), func(ctx context.Context) error {
		req, err := s.requests.FindByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "request not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
		}
		if req.TenantID != actor.TenantID {
			return dErrors.New(dErrors.CodeNotFound, "request not found")
		}
		if req.EmployeeID != actor.ID && !actor.IsAdmin() {
			return dErrors.New(dErrors.CodeForbidden, "only the owner or an admin may delete")
		}

		if err := s.requests.DeleteIfPending(ctx, requestID); err != nil {
			if errors.Is(err, sentinel.ErrInvalidState) {
				return dErrors.New(dErrors.CodeConflict, "only pending requests can be deleted")
			}
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "request not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete request")
		}
		deleted = req

		event := events.New(events.TypeRequestDeleted, requestcontext.Now(ctx))
		event.TenantID = req.TenantID
		event.RequestID = req.ID
		event.EmployeeID = req.EmployeeID
		event.ActorID = actor.ID
		return s.emitEvent(ctx, event)
	})
	if err != nil {
		return err
	}

	s.logAudit(ctx, "absence_request_deleted",
		"tenant_id", deleted.TenantID.String(),
		"absence_request_id", deleted.ID.String(),
		"actor_id", actor.ID.String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementRequestsDeleted()
	}
	s.invalidateCounts(ctx, deleted.TenantID)

	return nil
}
