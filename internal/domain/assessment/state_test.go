package assessment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardPath(t *testing.T) {
	steps := []struct {
		from State
		to   State
	}{
		{StateNotStarted, StateInProgress},
		{StateInProgress, StateEmployeeSubmitted},
		{StateEmployeeSubmitted, StateManagerInProgress},
		{StateManagerInProgress, StateManagerCompleted},
		{StateManagerCompleted, StateAdminApproved},
		{StateAdminApproved, StateEmployeeAcknowledged},
	}
	for _, s := range steps {
		assert.True(t, CanTransition(s.from, s.to), "%s -> %s should be allowed", s.from, s.to)
	}
}

func TestCanTransition_Shortcuts(t *testing.T) {
	// Submitting without an explicit draft phase
	assert.True(t, CanTransition(StateNotStarted, StateEmployeeSubmitted))
	// Manager submits straight from employee_submitted
	assert.True(t, CanTransition(StateEmployeeSubmitted, StateManagerCompleted))
	// Acknowledgment without the admin approval step
	assert.True(t, CanTransition(StateManagerCompleted, StateEmployeeAcknowledged))
}

func TestCanTransition_RevisionIsOnlyBackwardEdge(t *testing.T) {
	assert.True(t, CanTransition(StateManagerCompleted, StateManagerInProgress))

	backward := []struct {
		from State
		to   State
	}{
		{StateInProgress, StateNotStarted},
		{StateEmployeeSubmitted, StateInProgress},
		{StateManagerInProgress, StateEmployeeSubmitted},
		{StateAdminApproved, StateManagerCompleted},
		{StateEmployeeAcknowledged, StateAdminApproved},
	}
	for _, s := range backward {
		assert.False(t, CanTransition(s.from, s.to), "%s -> %s should be rejected", s.from, s.to)
	}
}

func TestCanTransition_SkipsRejected(t *testing.T) {
	assert.False(t, CanTransition(StateNotStarted, StateManagerCompleted))
	assert.False(t, CanTransition(StateInProgress, StateManagerInProgress))
	assert.False(t, CanTransition(StateEmployeeSubmitted, StateAdminApproved))
	assert.False(t, CanTransition(StateManagerInProgress, StateEmployeeAcknowledged))
}

func TestCanTransition_TerminalAcceptsNothing(t *testing.T) {
	for _, to := range []State{
		StateNotStarted, StateInProgress, StateEmployeeSubmitted,
		StateManagerInProgress, StateManagerCompleted, StateAdminApproved,
	} {
		assert.False(t, CanTransition(StateEmployeeAcknowledged, to))
	}
	assert.True(t, IsTerminal(StateEmployeeAcknowledged))
	assert.False(t, IsTerminal(StateManagerCompleted))
}

func TestCanTransition_UnknownState(t *testing.T) {
	assert.False(t, CanTransition(State("bogus"), StateInProgress))
	assert.False(t, CanTransition(StateNotStarted, State("bogus")))
}

func TestIsValidState(t *testing.T) {
	for _, s := range []State{
		StateNotStarted, StateInProgress, StateEmployeeSubmitted,
		StateManagerInProgress, StateManagerCompleted, StateAdminApproved,
		StateEmployeeAcknowledged,
	} {
		assert.True(t, IsValidState(s))
	}
	assert.False(t, IsValidState(State("approved")))
	assert.False(t, IsValidState(State("")))
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]State{StateAdminApproved, StateManagerInProgress, StateEmployeeAcknowledged},
		AllowedTransitions(StateManagerCompleted))
	assert.Empty(t, AllowedTransitions(StateEmployeeAcknowledged))
	assert.Empty(t, AllowedTransitions(State("bogus")))
}

func TestSelfStatusProjection(t *testing.T) {
	cases := []struct {
		state State
		want  SelfAssessmentStatus
	}{
		{StateNotStarted, SelfStatusNotStarted},
		{StateInProgress, SelfStatusInProgress},
		{StateEmployeeSubmitted, SelfStatusComplete},
		{StateManagerInProgress, SelfStatusComplete},
		{StateManagerCompleted, SelfStatusComplete},
		{StateAdminApproved, SelfStatusComplete},
		{StateEmployeeAcknowledged, SelfStatusComplete},
	}
	for _, c := range cases {
		a := &Assessment{State: c.state}
		assert.Equal(t, c.want, a.SelfStatus(), "state %s", c.state)
	}
}

func TestManagerStatusProjection(t *testing.T) {
	cases := []struct {
		state State
		want  ManagerReviewStatus
	}{
		{StateNotStarted, ManagerStatusPending},
		{StateInProgress, ManagerStatusPending},
		{StateEmployeeSubmitted, ManagerStatusPending},
		{StateManagerInProgress, ManagerStatusInProgress},
		{StateManagerCompleted, ManagerStatusCompleted},
		{StateAdminApproved, ManagerStatusCompleted},
		{StateEmployeeAcknowledged, ManagerStatusCompleted},
	}
	for _, c := range cases {
		a := &Assessment{State: c.state}
		assert.Equal(t, c.want, a.ManagerStatus(), "state %s", c.state)
	}
}

func TestAdminStatusProjection(t *testing.T) {
	assert.Equal(t, AdminStatusPendingApproval, (&Assessment{State: StateManagerCompleted}).AdminStatus())
	assert.Equal(t, AdminStatusApproved, (&Assessment{State: StateAdminApproved}).AdminStatus())

	// Early states have no admin-side status at all.
	for _, s := range []State{StateNotStarted, StateInProgress, StateEmployeeSubmitted} {
		assert.Empty(t, (&Assessment{State: s}).AdminStatus(), "state %s", s)
	}
}

func TestAdminStatusProjection_RevisionFlag(t *testing.T) {
	// First pass in the manager's hands
	firstPass := &Assessment{State: StateManagerInProgress}
	assert.Empty(t, firstPass.AdminStatus())

	// Same state after an admin sent the review back
	revising := &Assessment{State: StateManagerInProgress, RevisionRequested: true}
	assert.Equal(t, AdminStatusNeedsRevision, revising.AdminStatus())
}

func TestAdminStatusProjection_AcknowledgedDependsOnApproval(t *testing.T) {
	now := time.Now()
	approved := &Assessment{State: StateEmployeeAcknowledged, ApprovedAt: &now}
	assert.Equal(t, AdminStatusApproved, approved.AdminStatus())

	// Acknowledged in a deployment without the approval step
	skipped := &Assessment{State: StateEmployeeAcknowledged}
	assert.Empty(t, skipped.AdminStatus())
}
