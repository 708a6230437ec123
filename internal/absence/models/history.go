package models

import (
	"time"

	id "hrgate/pkg/domain"
)

// ApprovalHistory is one immutable record per stage decision. Rows are
// append-only and insertion-ordered; together they form the audit trail of
// a request. A combined-role approval writes one row per stage traversed,
// so the trail keeps the same shape as the non-merged case.
type ApprovalHistory struct {
	ID        id.HistoryID
	RequestID id.RequestID
	ActorID   id.EmployeeID
	Stage     Stage
	Action    Action
	Comments  string
	CreatedAt time.Time
}

// NewApprovalHistory builds a history row for one stage decision.
func NewApprovalHistory(requestID id.RequestID, actorID id.EmployeeID, stage Stage, action Action, comments string, now time.Time) ApprovalHistory {
	return ApprovalHistory{
		ID:        id.NewHistoryID(),
		RequestID: requestID,
		ActorID:   actorID,
		Stage:     stage,
		Action:    action,
		Comments:  comments,
		CreatedAt: now,
	}
}
