package models

import (
	dErrors "hrgate/pkg/domain-errors"
)

// Stage is one step in the approval sequence. The canonical order is
// SUPERVISOR -> MANAGER -> HR -> PAYROLL -> COMPLETED; PAYROLL participates
// only for pay-affecting requests.
type Stage string

const (
	StageSupervisor Stage = "SUPERVISOR"
	StageManager    Stage = "MANAGER"
	StageHR         Stage = "HR"
	StagePayroll    Stage = "PAYROLL"
	StageCompleted  Stage = "COMPLETED"
)

// stageOrder positions each stage on the canonical axis. COMPLETED is the
// sink and never appears as a pending stage.
var stageOrder = map[Stage]int{
	StageSupervisor: 0,
	StageManager:    1,
	StageHR:         2,
	StagePayroll:    3,
	StageCompleted:  4,
}

// ParseStage validates a stage string (case-exact wire form).
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if _, ok := stageOrder[st]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown stage: %s", s)
	}
	return st, nil
}

// Position returns the stage's index on the canonical axis. Unknown stages
// report -1 so comparisons against them always fail.
func (s Stage) Position() int {
	if pos, ok := stageOrder[s]; ok {
		return pos
	}
	return -1
}

// Before reports whether s precedes other in canonical order.
func (s Stage) Before(other Stage) bool {
	return s.Position() >= 0 && other.Position() >= 0 && s.Position() < other.Position()
}

func (s Stage) String() string { return string(s) }

// Status is the lifecycle state of a request. ARCHIVED is not a status:
// it is a flag layered on top of a terminal status.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDeclined Status = "DECLINED"
)

// IsTerminal reports whether the status admits no further decisions.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusDeclined
}

func (s Status) String() string { return string(s) }

// Action is a single approver's verdict at one stage.
type Action string

const (
	ActionApproved Action = "APPROVED"
	ActionDeclined Action = "DECLINED"
)

// ParseAction validates an action string.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApproved, ActionDeclined:
		return Action(s), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown action: %s", s)
	}
}
