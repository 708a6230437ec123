// Package store persists absence requests and their approval history.
// Implementations return pkg/platform/sentinel errors; the service layer
// translates them into domain errors.
package store

import (
	"context"

	"hrgate/internal/absence/models"
	id "hrgate/pkg/domain"
)

// PendingFilter selects pending requests for approval queues. Queries are
// always tenant-scoped; Stages narrows to the stages the caller may decide.
type PendingFilter struct {
	TenantID id.TenantID
	Stages   []models.Stage
}

// OverlapFilter selects requests that intersect a closed date interval.
// Only PENDING and APPROVED requests participate; DECLINED and archived
// records never block new dates. ExcludeRequestID removes one request from
// consideration (re-checking a request against itself).
type OverlapFilter struct {
	TenantID         id.TenantID
	EmployeeID       id.EmployeeID
	Dates            models.DateRange
	ExcludeRequestID id.RequestID
}

// RequestStore is the durable store for absence requests.
//
// Execute is the atomic validate-then-mutate primitive: the implementation
// holds its lock (mutex in memory, SELECT ... FOR UPDATE in postgres)
// across both callbacks, so a stale caller fails in validate rather than
// silently overwriting a concurrent decision.
type RequestStore interface {
	Create(ctx context.Context, req *models.AbsenceRequest) error
	FindByID(ctx context.Context, requestID id.RequestID) (*models.AbsenceRequest, error)
	ListByEmployee(ctx context.Context, tenantID id.TenantID, employeeID id.EmployeeID) ([]*models.AbsenceRequest, error)
	ListPending(ctx context.Context, filter PendingFilter) ([]*models.AbsenceRequest, error)
	CountPendingByStage(ctx context.Context, tenantID id.TenantID) (map[models.Stage]int, error)
	ListOverlapping(ctx context.Context, filter OverlapFilter) ([]*models.AbsenceRequest, error)
	Execute(ctx context.Context, requestID id.RequestID,
		validate func(*models.AbsenceRequest) error,
		mutate func(*models.AbsenceRequest)) (*models.AbsenceRequest, error)
	// DeleteIfPending physically removes a request, but only while it is
	// still PENDING; decided requests are never deleted. Returns
	// sentinel.ErrInvalidState otherwise.
	DeleteIfPending(ctx context.Context, requestID id.RequestID) error
}

// HistoryStore is the append-only decision trail. Rows are never updated
// or deleted.
type HistoryStore interface {
	Append(ctx context.Context, row models.ApprovalHistory) error
	ListByRequest(ctx context.Context, requestID id.RequestID) ([]models.ApprovalHistory, error)
}
