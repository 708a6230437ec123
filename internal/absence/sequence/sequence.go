// Package sequence defines the canonical approval stage order and computes
// how far a single approval action advances a request.
package sequence

import (
	"hrgate/internal/absence/authority"
	"hrgate/internal/absence/models"
	dErrors "hrgate/pkg/domain-errors"
)

// Order returns the pending stages a request must pass, in canonical order.
// PAYROLL participates only for pay-affecting requests.
func Order(requiresPayroll bool) []models.Stage {
	if requiresPayroll {
		return []models.Stage{
			models.StageSupervisor,
			models.StageManager,
			models.StageHR,
			models.StagePayroll,
		}
	}
	return []models.Stage{
		models.StageSupervisor,
		models.StageManager,
		models.StageHR,
	}
}

// Advance computes the stages one approval action at current covers and the
// stage the request lands on afterwards.
//
// The traversed run starts at current and extends through every immediately
// following stage the actor is also authorized for: an actor holding a
// combined role covering a contiguous run decides the whole run in one
// action, and each stage in the run gets its own history row. The run stops
// at the first stage outside the actor's authority, or at COMPLETED when it
// reaches the end of the order.
func Advance(current models.Stage, requiresPayroll bool, authorized authority.StageSet) (traversed []models.Stage, next models.Stage, err error) {
	order := Order(requiresPayroll)

	idx := -1
	for i, stage := range order {
		if stage == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, "", dErrors.Newf(dErrors.CodeInvariantViolation, "stage %s is not pending in this request's order", current)
	}
	if !authorized.Contains(current) {
		return nil, "", dErrors.Newf(dErrors.CodeForbidden, "actor is not authorized for stage %s", current)
	}

	traversed = []models.Stage{current}
	for i := idx + 1; i < len(order); i++ {
		if !authorized.Contains(order[i]) {
			return traversed, order[i], nil
		}
		traversed = append(traversed, order[i])
	}
	return traversed, models.StageCompleted, nil
}
