package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	st, err := ParseStage("SUPERVISOR")
	require.NoError(t, err)
	assert.Equal(t, StageSupervisor, st)

	_, err = ParseStage("supervisor")
	assert.Error(t, err, "wire form is case-exact")

	_, err = ParseStage("JANITOR")
	assert.Error(t, err)
}

func TestStageOrdering(t *testing.T) {
	assert.True(t, StageSupervisor.Before(StageManager))
	assert.True(t, StageHR.Before(StagePayroll))
	assert.True(t, StagePayroll.Before(StageCompleted))
	assert.False(t, StageManager.Before(StageSupervisor))
	assert.False(t, Stage("JANITOR").Before(StageCompleted))
	assert.Equal(t, -1, Stage("JANITOR").Position())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.True(t, StatusApproved.IsTerminal())
	assert.True(t, StatusDeclined.IsTerminal())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("DECLINED")
	require.NoError(t, err)
	assert.Equal(t, ActionDeclined, a)

	_, err = ParseAction("MAYBE")
	assert.Error(t, err)
}

func TestParseRequestType(t *testing.T) {
	rt, err := ParseRequestType("SICK_LEAVE")
	require.NoError(t, err)
	assert.Equal(t, TypeSickLeave, rt)

	_, err = ParseRequestType("SABBATICAL")
	assert.Error(t, err)
}

func TestRequestTypeAffectsPay(t *testing.T) {
	assert.True(t, TypePaidLeave.AffectsPay())
	assert.True(t, TypeUnpaidLeave.AffectsPay())
	assert.True(t, TypeSickLeave.AffectsPay())
	assert.False(t, TypeVacation.AffectsPay())
	assert.False(t, TypeShiftChange.AffectsPay())
}
