package assessment

import (
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
)

// Operation identifies a workflow action for permission checks.
type Operation string

const (
	OpStartSelfAssessment  Operation = "assessment.start_self"
	OpSaveDraft            Operation = "assessment.save_draft"
	OpSubmitSelfAssessment Operation = "assessment.submit_self"
	OpStartManagerReview   Operation = "assessment.start_review"
	OpSubmitManagerReview  Operation = "assessment.submit_review"
	OpRequestRevision      Operation = "assessment.request_revision"
	OpApproveReview        Operation = "assessment.approve"
	OpAcknowledgeReview    Operation = "assessment.acknowledge"
	OpOverrideState        Operation = "assessment.override_state"
	OpView                 Operation = "assessment.view"
)

type actorKind int

const (
	actorOwner actorKind = iota
	actorAssignedManager
	actorAdmin
)

// operationActors maps each operation to the kinds of actor allowed to
// perform it. Ownership and manager assignment are checked against the
// assessment itself, never against the role alone.
var operationActors = map[Operation][]actorKind{
	OpStartSelfAssessment:  {actorOwner},
	OpSaveDraft:            {actorOwner},
	OpSubmitSelfAssessment: {actorOwner},
	OpStartManagerReview:   {actorAssignedManager},
	OpSubmitManagerReview:  {actorAssignedManager},
	OpRequestRevision:      {actorAdmin},
	OpApproveReview:        {actorAdmin},
	OpAcknowledgeReview:    {actorOwner},
	OpOverrideState:        {actorAdmin},
	OpView:                 {actorOwner, actorAssignedManager, actorAdmin},
}

// CanPerform is the single permission gate consumed by every workflow
// transition. It is pure: everything it needs is in its arguments.
//
// Rules:
//   - the assessment's employee may act on employee-side operations,
//     whatever their own role is;
//   - the employee's assigned manager may act on manager-side operations,
//     and only while holding the manager or admin role;
//   - admins may act on admin-side operations for any assessment. Admins do
//     not silently inherit employee or manager operations: state overrides go
//     through the explicit, audited OpOverrideState path.
func CanPerform(op Operation, role employee.Role, actorID string, a *Assessment) bool {
	if a == nil || actorID == "" {
		return false
	}

	kinds, ok := operationActors[op]
	if !ok {
		return false
	}

	for _, kind := range kinds {
		switch kind {
		case actorOwner:
			if a.EmployeeID == actorID {
				return true
			}
		case actorAssignedManager:
			if a.ManagerID != nil && *a.ManagerID == actorID &&
				(role == employee.RoleManager || role == employee.RoleAdmin) {
				return true
			}
		case actorAdmin:
			if role == employee.RoleAdmin {
				return true
			}
		}
	}

	return false
}
