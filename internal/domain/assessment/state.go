package assessment

// State is the composite lifecycle position of an assessment. The legacy
// per-dimension status columns (self, manager, admin) are projections of this
// single value, never stored independently.
type State string

const (
	StateNotStarted           State = "not_started"
	StateInProgress           State = "in_progress"
	StateEmployeeSubmitted    State = "employee_submitted"
	StateManagerInProgress    State = "manager_in_progress"
	StateManagerCompleted     State = "manager_completed"
	StateAdminApproved        State = "admin_approved"
	StateEmployeeAcknowledged State = "employee_acknowledged"
)

// allowedTransitions enforces the assessment lifecycle. The only backward
// edge is manager_completed -> manager_in_progress (admin requested revision).
var allowedTransitions = map[State][]State{
	StateNotStarted:        {StateInProgress, StateEmployeeSubmitted},
	StateInProgress:        {StateEmployeeSubmitted},
	StateEmployeeSubmitted: {StateManagerInProgress, StateManagerCompleted},
	StateManagerInProgress: {StateManagerCompleted},
	// employee_acknowledged is reachable directly when the admin approval
	// step is disabled for the deployment.
	StateManagerCompleted:     {StateAdminApproved, StateManagerInProgress, StateEmployeeAcknowledged},
	StateAdminApproved:        {StateEmployeeAcknowledged},
	StateEmployeeAcknowledged: {},
}

// CanTransition checks if a lifecycle transition is allowed
func CanTransition(from, to State) bool {
	allowed, exists := allowedTransitions[from]
	if !exists {
		return false
	}
	for _, allowedTo := range allowed {
		if allowedTo == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the allowed next states for a given state
func AllowedTransitions(from State) []State {
	allowed, exists := allowedTransitions[from]
	if !exists {
		return []State{}
	}
	return allowed
}

// IsValidState reports whether s is a known lifecycle state.
func IsValidState(s State) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsTerminal reports whether the state accepts no further transitions.
func IsTerminal(s State) bool {
	return s == StateEmployeeAcknowledged
}

// SelfAssessmentStatus is the employee-side projection of State.
type SelfAssessmentStatus string

const (
	SelfStatusNotStarted SelfAssessmentStatus = "not_started"
	SelfStatusInProgress SelfAssessmentStatus = "in_progress"
	SelfStatusComplete   SelfAssessmentStatus = "employee_complete"
)

// ManagerReviewStatus is the manager-side projection of State.
type ManagerReviewStatus string

const (
	ManagerStatusPending    ManagerReviewStatus = "pending"
	ManagerStatusInProgress ManagerReviewStatus = "in_progress"
	ManagerStatusCompleted  ManagerReviewStatus = "completed"
)

// AdminApprovalStatus is the admin-side projection of State. It is empty
// until the manager review has completed at least once.
type AdminApprovalStatus string

const (
	AdminStatusPendingApproval AdminApprovalStatus = "pending_approval"
	AdminStatusApproved        AdminApprovalStatus = "approved"
	AdminStatusNeedsRevision   AdminApprovalStatus = "needs_revision"
)

// SelfStatus derives the employee-side status from the composite state.
func (a *Assessment) SelfStatus() SelfAssessmentStatus {
	switch a.State {
	case StateNotStarted:
		return SelfStatusNotStarted
	case StateInProgress:
		return SelfStatusInProgress
	default:
		return SelfStatusComplete
	}
}

// ManagerStatus derives the manager-side status from the composite state.
func (a *Assessment) ManagerStatus() ManagerReviewStatus {
	switch a.State {
	case StateNotStarted, StateInProgress, StateEmployeeSubmitted:
		return ManagerStatusPending
	case StateManagerInProgress:
		return ManagerStatusInProgress
	default:
		return ManagerStatusCompleted
	}
}

// AdminStatus derives the admin-side status from the composite state.
// RevisionRequested distinguishes a review sent back for revision from a
// first pass still in the manager's hands.
func (a *Assessment) AdminStatus() AdminApprovalStatus {
	switch a.State {
	case StateManagerCompleted:
		return AdminStatusPendingApproval
	case StateAdminApproved:
		return AdminStatusApproved
	case StateEmployeeAcknowledged:
		if a.ApprovedAt != nil {
			return AdminStatusApproved
		}
		return ""
	case StateManagerInProgress:
		if a.RevisionRequested {
			return AdminStatusNeedsRevision
		}
		return ""
	default:
		return ""
	}
}
