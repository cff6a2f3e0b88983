package assessment

import (
	"context"
)

// Service is the assessment workflow engine. Every mutating operation
// validates the transition against the current persisted state, applies the
// permission gate, commits through a version-guarded write and returns the
// notification intents the transition produced.
type Service interface {
	StartSelfAssessment(ctx context.Context, actor Actor, assessmentID string) (TransitionResult, error)
	SaveSelfAssessmentDraft(ctx context.Context, actor Actor, req SaveDraftRequest) (TransitionResult, error)
	SubmitSelfAssessment(ctx context.Context, actor Actor, req SubmitSelfAssessmentRequest) (TransitionResult, error)
	StartManagerReview(ctx context.Context, actor Actor, assessmentID string) (TransitionResult, error)
	SubmitManagerReview(ctx context.Context, actor Actor, req SubmitManagerReviewRequest) (TransitionResult, error)
	RequestRevision(ctx context.Context, actor Actor, req RequestRevisionRequest) (TransitionResult, error)
	ApproveReview(ctx context.Context, actor Actor, req ApproveReviewRequest) (TransitionResult, error)
	AcknowledgeReview(ctx context.Context, actor Actor, assessmentID string) (TransitionResult, error)

	// OverrideState is the audited admin escape hatch. It bypasses the
	// transition table but never the terminal rule, and always records an
	// audit entry.
	OverrideState(ctx context.Context, actor Actor, req OverrideStateRequest) (TransitionResult, error)

	Get(ctx context.Context, actor Actor, assessmentID string) (AssessmentResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]AssessmentResponse, error)
	ListTeam(ctx context.Context, actor Actor) ([]AssessmentResponse, error)
	ListByCycle(ctx context.Context, actor Actor, cycleID string) ([]AssessmentResponse, error)
}
