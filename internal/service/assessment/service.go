package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/audit"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/domain/notification"
)

// Clock supplies the current time. Injected so transitions are testable
// against fixed timestamps.
type Clock func() time.Time

// Transactor runs fn atomically. Repository calls made through fn's context
// commit or roll back together.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// passthroughTx runs fn without a transaction. Default when no Transactor is
// wired, as in tests against in-memory repositories.
type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Config tunes the workflow engine.
type Config struct {
	// RequireAdminApproval inserts the admin approval gate between a
	// completed manager review and employee acknowledgment.
	RequireAdminApproval bool
}

// WorkflowService is the assessment workflow engine. All writes go through
// version-guarded repository calls; a concurrent modification triggers
// exactly one re-read-and-reapply before the conflict surfaces.
type WorkflowService struct {
	assessmentRepo assessment.Repository
	employeeRepo   employee.Repository
	auditRepo      audit.Repository
	tx             Transactor
	cfg            Config
	now            Clock
}

func NewWorkflowService(
	assessmentRepo assessment.Repository,
	employeeRepo employee.Repository,
	auditRepo audit.Repository,
	tx Transactor,
	cfg Config,
	now Clock,
) *WorkflowService {
	if tx == nil {
		tx = passthroughTx{}
	}
	if now == nil {
		now = time.Now
	}
	return &WorkflowService{
		assessmentRepo: assessmentRepo,
		employeeRepo:   employeeRepo,
		auditRepo:      auditRepo,
		tx:             tx,
		cfg:            cfg,
		now:            now,
	}
}

// mutator inspects a freshly loaded assessment, validates the transition and
// returns the modified record plus the notification intents it produced. It
// runs again on the re-read copy after a version conflict, so it must not
// carry state between calls.
type mutator func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error)

func (s *WorkflowService) commit(ctx context.Context, id string, apply mutator) (assessment.TransitionResult, error) {
	a, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return assessment.TransitionResult{}, err
	}

	next, intents, err := apply(a)
	if err != nil {
		return assessment.TransitionResult{}, err
	}

	saved, err := s.assessmentRepo.Save(ctx, next, a.Version)
	if errors.Is(err, assessment.ErrVersionConflict) {
		// Lost-update races between employee and manager are expected;
		// re-read once, re-validate and reapply before giving up.
		a, err = s.assessmentRepo.GetByID(ctx, id)
		if err != nil {
			return assessment.TransitionResult{}, err
		}
		next, intents, err = apply(a)
		if err != nil {
			return assessment.TransitionResult{}, err
		}
		saved, err = s.assessmentRepo.Save(ctx, next, a.Version)
	}
	if err != nil {
		return assessment.TransitionResult{}, fmt.Errorf("failed to save assessment: %w", err)
	}

	return assessment.TransitionResult{Assessment: saved, Intents: intents}, nil
}

// guard runs the checks shared by every transition: terminal rule first,
// then the permission gate, then the transition table.
func guard(a *assessment.Assessment, op assessment.Operation, actor assessment.Actor, to assessment.State) error {
	if assessment.IsTerminal(a.State) {
		return assessment.ErrTerminal
	}
	if !assessment.CanPerform(op, actor.Role, actor.EmployeeID, a) {
		return assessment.ErrForbidden
	}
	if !assessment.CanTransition(a.State, to) {
		return assessment.ErrInvalidTransition
	}
	return nil
}

func (s *WorkflowService) StartSelfAssessment(ctx context.Context, actor assessment.Actor, assessmentID string) (assessment.TransitionResult, error) {
	return s.commit(ctx, assessmentID, func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error) {
		if err := guard(&a, assessment.OpStartSelfAssessment, actor, assessment.StateInProgress); err != nil {
			return a, nil, err
		}
		if a.State != assessment.StateNotStarted {
			return a, nil, assessment.ErrInvalidTransition
		}
		a.State = assessment.StateInProgress
		return a, nil, nil
	})
}

func (s *WorkflowService) SaveSelfAssessmentDraft(ctx context.Context, actor assessment.Actor, req assessment.SaveDraftRequest) (assessment.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return assessment.TransitionResult{}, err
	}

	return s.commit(ctx, req.AssessmentID, func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error) {
		if assessment.IsTerminal(a.State) {
			return a, nil, assessment.ErrTerminal
		}
		if !assessment.CanPerform(assessment.OpSaveDraft, actor.Role, actor.EmployeeID, &a) {
			return a, nil, assessment.ErrForbidden
		}
		// Drafts never advance past in_progress; the first save promotes
		// not_started implicitly.
		switch a.State {
		case assessment.StateNotStarted:
			a.State = assessment.StateInProgress
		case assessment.StateInProgress:
			// stay
		default:
			return a, nil, assessment.ErrInvalidTransition
		}
		a.SelfAssessment = req.Payload
		return a, nil, nil
	})
}

func (s *WorkflowService) SubmitSelfAssessment(ctx context.Context, actor assessment.Actor, req assessment.SubmitSelfAssessmentRequest) (assessment.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return assessment.TransitionResult{}, err
	}

	return s.commit(ctx, req.AssessmentID, func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error) {
		if err := guard(&a, assessment.OpSubmitSelfAssessment, actor, assessment.StateEmployeeSubmitted); err != nil {
			return a, nil, err
		}

		now := s.now()
		a.State = assessment.StateEmployeeSubmitted
		a.SelfAssessment = req.Payload
		a.SubmittedAt = &now

		var intents []notification.Intent
		if a.ManagerID != nil {
			intents = append(intents, notification.Intent{
				RecipientID:   *a.ManagerID,
				RecipientRole: employee.RoleManager,
				Type:          notification.TypeSelfAssessmentSubmitted,
				Title:         "Self-assessment submitted",
				Message:       "A team member has submitted their self-assessment and is ready for review.",
				Data:          map[string]interface{}{"assessment_id": a.ID, "employee_id": a.EmployeeID},
			})
		}
		return a, intents, nil
	})
}

func (s *WorkflowService) StartManagerReview(ctx context.Context, actor assessment.Actor, assessmentID string) (assessment.TransitionResult, error) {
	return s.commit(ctx, assessmentID, func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error) {
		if err := guard(&a, assessment.OpStartManagerReview, actor, assessment.StateManagerInProgress); err != nil {
			return a, nil, err
		}
		if a.State != assessment.StateEmployeeSubmitted {
			return a, nil, assessment.ErrInvalidTransition
		}
		a.State = assessment.StateManagerInProgress
		return a, nil, nil
	})
}

func (s *WorkflowService) SubmitManagerReview(ctx context.Context, actor assessment.Actor, req assessment.SubmitManagerReviewRequest) (assessment.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return assessment.TransitionResult{}, err
	}

	submit := func() (assessment.Assessment, []notification.Intent, int64, error) {
		a, err := s.assessmentRepo.GetByID(ctx, req.AssessmentID)
		if err != nil {
			return assessment.Assessment{}, nil, 0, err
		}
		// Submitting straight from employee_submitted auto-promotes through
		// manager_in_progress.
		if err := guard(&a, assessment.OpSubmitManagerReview, actor, assessment.StateManagerCompleted); err != nil {
			return assessment.Assessment{}, nil, 0, err
		}

		intents := []notification.Intent{{
			RecipientID:   a.EmployeeID,
			RecipientRole: employee.RoleEmployee,
			Type:          notification.TypeReviewSubmitted,
			Title:         "Manager review completed",
			Message:       "Your manager has completed your review.",
			Data:          map[string]interface{}{"assessment_id": a.ID},
		}}
		if s.cfg.RequireAdminApproval {
			admins, err := s.listAdmins(ctx)
			if err != nil {
				return assessment.Assessment{}, nil, 0, err
			}
			for _, adm := range admins {
				intents = append(intents, notification.Intent{
					RecipientID:   adm.ID,
					RecipientRole: employee.RoleAdmin,
					Type:          notification.TypeReviewSubmitted,
					Title:         "Review awaiting approval",
					Message:       "A completed manager review is waiting for approval.",
					Data:          map[string]interface{}{"assessment_id": a.ID},
				})
			}
		}
		return a, intents, a.Version, nil
	}

	a, intents, version, err := submit()
	if err != nil {
		return assessment.TransitionResult{}, err
	}

	// Rating, feedback and state change commit in one statement.
	saved, err := s.assessmentRepo.SubmitManagerReview(ctx, a.ID, req.Payload, s.now(), version)
	if errors.Is(err, assessment.ErrVersionConflict) {
		a, intents, version, err = submit()
		if err != nil {
			return assessment.TransitionResult{}, err
		}
		saved, err = s.assessmentRepo.SubmitManagerReview(ctx, a.ID, req.Payload, s.now(), version)
	}
	if err != nil {
		return assessment.TransitionResult{}, fmt.Errorf("failed to submit manager review: %w", err)
	}

	return assessment.TransitionResult{Assessment: saved, Intents: intents}, nil
}

func (s *WorkflowService) RequestRevision(ctx context.Context, actor assessment.Actor, req assessment.RequestRevisionRequest) (assessment.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return assessment.TransitionResult{}, err
	}

	return s.commit(ctx, req.AssessmentID, func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error) {
		if err := guard(&a, assessment.OpRequestRevision, actor, assessment.StateManagerInProgress); err != nil {
			return a, nil, err
		}
		if a.State != assessment.StateManagerCompleted {
			return a, nil, assessment.ErrInvalidTransition
		}

		a.State = assessment.StateManagerInProgress
		a.RevisionRequested = true
		a.AdminNotes = &req.Notes
		a.ReviewCompletedAt = nil

		var intents []notification.Intent
		if a.ManagerID != nil {
			intents = append(intents, notification.Intent{
				RecipientID:   *a.ManagerID,
				RecipientRole: employee.RoleManager,
				Type:          notification.TypeRevisionRequested,
				Title:         "Revision requested",
				Message:       "An administrator has sent your review back for revision.",
				Data: map[string]interface{}{
					"assessment_id": a.ID,
					"notes":         req.Notes,
				},
			})
		}
		return a, intents, nil
	})
}

func (s *WorkflowService) ApproveReview(ctx context.Context, actor assessment.Actor, req assessment.ApproveReviewRequest) (assessment.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return assessment.TransitionResult{}, err
	}

	return s.commit(ctx, req.AssessmentID, func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error) {
		if err := guard(&a, assessment.OpApproveReview, actor, assessment.StateAdminApproved); err != nil {
			return a, nil, err
		}
		if a.State != assessment.StateManagerCompleted {
			return a, nil, assessment.ErrInvalidTransition
		}

		now := s.now()
		a.State = assessment.StateAdminApproved
		a.ApprovedAt = &now
		if req.Notes != nil {
			a.AdminNotes = req.Notes
		}

		intents := []notification.Intent{{
			RecipientID:   a.EmployeeID,
			RecipientRole: employee.RoleEmployee,
			Type:          notification.TypeReviewFinalized,
			Title:         "Review finalized",
			Message:       "Your review has been finalized and is ready to acknowledge.",
			Data:          map[string]interface{}{"assessment_id": a.ID},
		}}
		return a, intents, nil
	})
}

func (s *WorkflowService) AcknowledgeReview(ctx context.Context, actor assessment.Actor, assessmentID string) (assessment.TransitionResult, error) {
	return s.commit(ctx, assessmentID, func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error) {
		if err := guard(&a, assessment.OpAcknowledgeReview, actor, assessment.StateEmployeeAcknowledged); err != nil {
			return a, nil, err
		}
		// With the approval step enabled, acknowledgment waits for it.
		if s.cfg.RequireAdminApproval && a.State != assessment.StateAdminApproved {
			return a, nil, assessment.ErrInvalidTransition
		}

		now := s.now()
		a.State = assessment.StateEmployeeAcknowledged
		a.EmployeeAcknowledgedAt = &now

		var intents []notification.Intent
		if a.ManagerID != nil {
			intents = append(intents, notification.Intent{
				RecipientID:   *a.ManagerID,
				RecipientRole: employee.RoleManager,
				Type:          notification.TypeReviewAcknowledged,
				Title:         "Review acknowledged",
				Message:       "Your team member has read and acknowledged their review.",
				Data:          map[string]interface{}{"assessment_id": a.ID},
			})
		}
		return a, intents, nil
	})
}

func (s *WorkflowService) OverrideState(ctx context.Context, actor assessment.Actor, req assessment.OverrideStateRequest) (assessment.TransitionResult, error) {
	if err := req.Validate(); err != nil {
		return assessment.TransitionResult{}, err
	}
	target := assessment.State(req.TargetState)

	// The state change and its audit entry commit together. An override that
	// persists without an audit trail is worse than one that fails.
	var result assessment.TransitionResult
	err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		result, err = s.commit(txCtx, req.AssessmentID, func(a assessment.Assessment) (assessment.Assessment, []notification.Intent, error) {
			// The override bypasses the transition table, never the terminal
			// rule or the permission gate.
			if assessment.IsTerminal(a.State) {
				return a, nil, assessment.ErrTerminal
			}
			if !assessment.CanPerform(assessment.OpOverrideState, actor.Role, actor.EmployeeID, &a) {
				return a, nil, assessment.ErrForbidden
			}

			a.State = target
			a.RevisionRequested = false
			if target == assessment.StateEmployeeAcknowledged {
				now := s.now()
				a.EmployeeAcknowledgedAt = &now
			}
			return a, nil, nil
		})
		if err != nil {
			return err
		}

		entry := audit.Entry{
			ActorID:      actor.EmployeeID,
			AssessmentID: req.AssessmentID,
			Action:       string(assessment.OpOverrideState),
			ToState:      req.TargetState,
			Reason:       req.Reason,
			CreatedAt:    s.now(),
		}
		if err := s.auditRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("failed to record override audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return assessment.TransitionResult{}, err
	}

	return result, nil
}

func (s *WorkflowService) Get(ctx context.Context, actor assessment.Actor, assessmentID string) (assessment.AssessmentResponse, error) {
	a, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return assessment.AssessmentResponse{}, err
	}
	if !assessment.CanPerform(assessment.OpView, actor.Role, actor.EmployeeID, &a) {
		return assessment.AssessmentResponse{}, assessment.ErrForbidden
	}
	return assessment.ToResponse(a, actor, s.cfg.RequireAdminApproval), nil
}

func (s *WorkflowService) ListMine(ctx context.Context, actor assessment.Actor) ([]assessment.AssessmentResponse, error) {
	list, err := s.assessmentRepo.ListByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return s.toResponses(list, actor), nil
}

func (s *WorkflowService) ListTeam(ctx context.Context, actor assessment.Actor) ([]assessment.AssessmentResponse, error) {
	if actor.Role != employee.RoleManager && actor.Role != employee.RoleAdmin {
		return nil, assessment.ErrForbidden
	}
	list, err := s.assessmentRepo.ListByManager(ctx, actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team assessments: %w", err)
	}
	return s.toResponses(list, actor), nil
}

func (s *WorkflowService) ListByCycle(ctx context.Context, actor assessment.Actor, cycleID string) ([]assessment.AssessmentResponse, error) {
	if actor.Role != employee.RoleAdmin {
		return nil, assessment.ErrForbidden
	}
	list, err := s.assessmentRepo.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycle assessments: %w", err)
	}
	return s.toResponses(list, actor), nil
}

func (s *WorkflowService) toResponses(list []assessment.Assessment, actor assessment.Actor) []assessment.AssessmentResponse {
	responses := make([]assessment.AssessmentResponse, 0, len(list))
	for _, a := range list {
		responses = append(responses, assessment.ToResponse(a, actor, s.cfg.RequireAdminApproval))
	}
	return responses
}

func (s *WorkflowService) listAdmins(ctx context.Context) ([]employee.Employee, error) {
	all, err := s.employeeRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	admins := make([]employee.Employee, 0, 2)
	for _, e := range all {
		if e.Role == employee.RoleAdmin {
			admins = append(admins, e)
		}
	}
	return admins, nil
}
