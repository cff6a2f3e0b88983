package assessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/audit"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/domain/notification"
)

// fakeAssessmentRepo keeps assessments in a map and enforces the same
// version guard as the real store.
type fakeAssessmentRepo struct {
	assessments map[string]assessment.Assessment

	// conflictsBeforeSave makes the next n Save calls fail with a version
	// conflict and bump the stored version, simulating a concurrent writer.
	conflictsBeforeSave int
	saveCalls           int
}

func newFakeAssessmentRepo(seed ...assessment.Assessment) *fakeAssessmentRepo {
	r := &fakeAssessmentRepo{assessments: make(map[string]assessment.Assessment)}
	for _, a := range seed {
		r.assessments[a.ID] = a
	}
	return r
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id string) (assessment.Assessment, error) {
	a, ok := r.assessments[id]
	if !ok {
		return assessment.Assessment{}, assessment.ErrAssessmentNotFound
	}
	return a, nil
}

func (r *fakeAssessmentRepo) Save(_ context.Context, a assessment.Assessment, expectedVersion int64) (assessment.Assessment, error) {
	r.saveCalls++
	current, ok := r.assessments[a.ID]
	if !ok {
		return assessment.Assessment{}, assessment.ErrAssessmentNotFound
	}
	if r.conflictsBeforeSave > 0 {
		r.conflictsBeforeSave--
		current.Version++
		r.assessments[a.ID] = current
		return assessment.Assessment{}, assessment.ErrVersionConflict
	}
	if current.Version != expectedVersion {
		return assessment.Assessment{}, assessment.ErrVersionConflict
	}
	a.Version = current.Version + 1
	a.UpdatedAt = time.Now()
	r.assessments[a.ID] = a
	return a, nil
}

func (r *fakeAssessmentRepo) SubmitManagerReview(ctx context.Context, id string, review assessment.ManagerReviewPayload, completedAt time.Time, expectedVersion int64) (assessment.Assessment, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return assessment.Assessment{}, err
	}
	a.State = assessment.StateManagerCompleted
	a.ManagerReview = review
	a.ReviewCompletedAt = &completedAt
	a.RevisionRequested = false
	return r.Save(ctx, a, expectedVersion)
}

func (r *fakeAssessmentRepo) CreateForCycle(context.Context, string, *time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeAssessmentRepo) ListByEmployee(_ context.Context, employeeID string) ([]assessment.Assessment, error) {
	var out []assessment.Assessment
	for _, a := range r.assessments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssessmentRepo) ListByManager(_ context.Context, managerID string) ([]assessment.Assessment, error) {
	var out []assessment.Assessment
	for _, a := range r.assessments {
		if a.ManagerID != nil && *a.ManagerID == managerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssessmentRepo) ListByCycle(_ context.Context, cycleID string) ([]assessment.Assessment, error) {
	var out []assessment.Assessment
	for _, a := range r.assessments {
		if a.CycleID == cycleID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssessmentRepo) ListOverdue(context.Context, time.Time) ([]assessment.Assessment, error) {
	return nil, nil
}

func (r *fakeAssessmentRepo) MarkReminded(context.Context, []string, time.Time) error {
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	return emp, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) List(context.Context, bool) ([]employee.Employee, error) {
	return r.employees, nil
}

func (r *fakeEmployeeRepo) ListByManager(_ context.Context, managerID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.ManagerID != nil && *e.ManagerID == managerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) Update(context.Context, employee.Employee) error { return nil }
func (r *fakeEmployeeRepo) Deactivate(context.Context, string) error        { return nil }

type fakeAuditRepo struct {
	entries   []audit.Entry
	createErr error
}

func (r *fakeAuditRepo) Create(_ context.Context, e audit.Entry) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) ListByAssessment(_ context.Context, assessmentID string) ([]audit.Entry, error) {
	var out []audit.Entry
	for _, e := range r.entries {
		if e.AssessmentID == assessmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeTx mimics transactional behavior over the in-memory fakes by
// snapshotting their state and restoring it when fn fails.
type fakeTx struct {
	repo      *fakeAssessmentRepo
	auditRepo *fakeAuditRepo
}

func (t *fakeTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[string]assessment.Assessment, len(t.repo.assessments))
	for id, a := range t.repo.assessments {
		snapshot[id] = a
	}
	entries := append([]audit.Entry(nil), t.auditRepo.entries...)

	if err := fn(ctx); err != nil {
		t.repo.assessments = snapshot
		t.auditRepo.entries = entries
		return err
	}
	return nil
}

const (
	testEmployeeID = "emp-1"
	testManagerID  = "mgr-1"
	testAdminID    = "admin-1"
)

var (
	employeeActor = assessment.Actor{EmployeeID: testEmployeeID, Role: employee.RoleEmployee}
	managerActor  = assessment.Actor{EmployeeID: testManagerID, Role: employee.RoleManager}
	adminActor    = assessment.Actor{EmployeeID: testAdminID, Role: employee.RoleAdmin}
)

func seedAssessment(state assessment.State) assessment.Assessment {
	managerID := testManagerID
	return assessment.Assessment{
		ID:         "as-1",
		CycleID:    "cy-1",
		EmployeeID: testEmployeeID,
		ManagerID:  &managerID,
		State:      state,
		Version:    1,
	}
}

func newTestService(repo *fakeAssessmentRepo, cfg Config) (*WorkflowService, *fakeAuditRepo) {
	empRepo := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: testEmployeeID, Role: employee.RoleEmployee, IsActive: true},
		{ID: testManagerID, Role: employee.RoleManager, IsActive: true},
		{ID: testAdminID, Role: employee.RoleAdmin, IsActive: true},
	}}
	auditRepo := &fakeAuditRepo{}
	tx := &fakeTx{repo: repo, auditRepo: auditRepo}
	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	svc := NewWorkflowService(repo, empRepo, auditRepo, tx, cfg, func() time.Time { return fixed })
	return svc, auditRepo
}

func selfPayload() assessment.SelfAssessmentPayload {
	return assessment.SelfAssessmentPayload{
		Summary:    "Shipped the billing migration",
		Highlights: "Zero-downtime cutover",
	}
}

func reviewPayload(rating int) assessment.ManagerReviewPayload {
	return assessment.ManagerReviewPayload{
		OverallRating: rating,
		Strengths:     "Ownership",
		Feedback:      "Strong half",
	}
}

func TestWorkflowService_StartSelfAssessment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateNotStarted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	result, err := svc.StartSelfAssessment(ctx, employeeActor, "as-1")
	require.NoError(t, err)
	assert.Equal(t, assessment.StateInProgress, result.Assessment.State)
	assert.Equal(t, int64(2), result.Assessment.Version)
	assert.Empty(t, result.Intents)
}

func TestWorkflowService_StartSelfAssessment_AlreadyStarted(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	_, err := svc.StartSelfAssessment(ctx, employeeActor, "as-1")
	assert.ErrorIs(t, err, assessment.ErrInvalidTransition)
}

func TestWorkflowService_StartSelfAssessment_WrongActor(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateNotStarted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	_, err := svc.StartSelfAssessment(ctx, managerActor, "as-1")
	assert.ErrorIs(t, err, assessment.ErrForbidden)

	_, err = svc.StartSelfAssessment(ctx, adminActor, "as-1")
	assert.ErrorIs(t, err, assessment.ErrForbidden)
}

func TestWorkflowService_SaveDraft_PromotesNotStarted(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateNotStarted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.SaveDraftRequest{AssessmentID: "as-1", Payload: selfPayload()}
	result, err := svc.SaveSelfAssessmentDraft(ctx, employeeActor, req)
	require.NoError(t, err)
	assert.Equal(t, assessment.StateInProgress, result.Assessment.State)
	assert.Equal(t, "Shipped the billing migration", result.Assessment.SelfAssessment.Summary)

	// A second draft stays in_progress and replaces the payload.
	req.Payload.Summary = "Revised summary"
	result, err = svc.SaveSelfAssessmentDraft(ctx, employeeActor, req)
	require.NoError(t, err)
	assert.Equal(t, assessment.StateInProgress, result.Assessment.State)
	assert.Equal(t, "Revised summary", result.Assessment.SelfAssessment.Summary)
}

func TestWorkflowService_SaveDraft_RejectedAfterSubmission(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateEmployeeSubmitted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.SaveDraftRequest{AssessmentID: "as-1", Payload: selfPayload()}
	_, err := svc.SaveSelfAssessmentDraft(ctx, employeeActor, req)
	assert.ErrorIs(t, err, assessment.ErrInvalidTransition)
}

func TestWorkflowService_SubmitSelfAssessment_NotifiesManager(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.SubmitSelfAssessmentRequest{AssessmentID: "as-1", Payload: selfPayload()}
	result, err := svc.SubmitSelfAssessment(ctx, employeeActor, req)
	require.NoError(t, err)

	assert.Equal(t, assessment.StateEmployeeSubmitted, result.Assessment.State)
	require.NotNil(t, result.Assessment.SubmittedAt)

	require.Len(t, result.Intents, 1)
	assert.Equal(t, testManagerID, result.Intents[0].RecipientID)
	assert.Equal(t, notification.TypeSelfAssessmentSubmitted, result.Intents[0].Type)
}

func TestWorkflowService_SubmitSelfAssessment_MissingFields(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.SubmitSelfAssessmentRequest{
		AssessmentID: "as-1",
		Payload:      assessment.SelfAssessmentPayload{Summary: "only a summary"},
	}
	_, err := svc.SubmitSelfAssessment(ctx, employeeActor, req)
	assert.Error(t, err)
	assert.Equal(t, int64(1), repo.assessments["as-1"].Version, "nothing should have been written")
}

func TestWorkflowService_SubmitSelfAssessment_WithoutManager(t *testing.T) {
	ctx := context.Background()
	seed := seedAssessment(assessment.StateInProgress)
	seed.ManagerID = nil
	repo := newFakeAssessmentRepo(seed)
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.SubmitSelfAssessmentRequest{AssessmentID: "as-1", Payload: selfPayload()}
	result, err := svc.SubmitSelfAssessment(ctx, employeeActor, req)
	require.NoError(t, err)
	assert.Empty(t, result.Intents)
}

func TestWorkflowService_SubmitManagerReview_AutoPromotes(t *testing.T) {
	ctx := context.Background()
	// Submit straight from employee_submitted, skipping the explicit start.
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateEmployeeSubmitted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.SubmitManagerReviewRequest{AssessmentID: "as-1", Payload: reviewPayload(4)}
	result, err := svc.SubmitManagerReview(ctx, managerActor, req)
	require.NoError(t, err)

	assert.Equal(t, assessment.StateManagerCompleted, result.Assessment.State)
	assert.Equal(t, 4, result.Assessment.ManagerReview.OverallRating)
	require.NotNil(t, result.Assessment.ReviewCompletedAt)

	// Employee plus the one admin get notified when approval is required.
	require.Len(t, result.Intents, 2)
	assert.Equal(t, testEmployeeID, result.Intents[0].RecipientID)
	assert.Equal(t, testAdminID, result.Intents[1].RecipientID)
}

func TestWorkflowService_SubmitManagerReview_NoApprovalNoAdminIntent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: false})

	req := assessment.SubmitManagerReviewRequest{AssessmentID: "as-1", Payload: reviewPayload(3)}
	result, err := svc.SubmitManagerReview(ctx, managerActor, req)
	require.NoError(t, err)

	require.Len(t, result.Intents, 1)
	assert.Equal(t, testEmployeeID, result.Intents[0].RecipientID)
}

func TestWorkflowService_SubmitManagerReview_BeforeEmployeeSubmits(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.SubmitManagerReviewRequest{AssessmentID: "as-1", Payload: reviewPayload(4)}
	_, err := svc.SubmitManagerReview(ctx, managerActor, req)
	assert.ErrorIs(t, err, assessment.ErrInvalidTransition)
}

func TestWorkflowService_SubmitManagerReview_RatingValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateEmployeeSubmitted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	for _, rating := range []int{0, 6, -1} {
		req := assessment.SubmitManagerReviewRequest{AssessmentID: "as-1", Payload: reviewPayload(rating)}
		_, err := svc.SubmitManagerReview(ctx, managerActor, req)
		assert.Error(t, err, "rating %d", rating)
	}
}

func TestWorkflowService_RevisionLoop(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerCompleted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	// Admin sends the review back.
	revReq := assessment.RequestRevisionRequest{AssessmentID: "as-1", Notes: "Rating needs justification"}
	result, err := svc.RequestRevision(ctx, adminActor, revReq)
	require.NoError(t, err)
	assert.Equal(t, assessment.StateManagerInProgress, result.Assessment.State)
	assert.True(t, result.Assessment.RevisionRequested)
	assert.Nil(t, result.Assessment.ReviewCompletedAt)
	assert.Equal(t, assessment.AdminStatusNeedsRevision, result.Assessment.AdminStatus())

	require.Len(t, result.Intents, 1)
	assert.Equal(t, testManagerID, result.Intents[0].RecipientID)
	assert.Equal(t, notification.TypeRevisionRequested, result.Intents[0].Type)

	// Manager resubmits; the flag clears.
	subReq := assessment.SubmitManagerReviewRequest{AssessmentID: "as-1", Payload: reviewPayload(5)}
	result, err = svc.SubmitManagerReview(ctx, managerActor, subReq)
	require.NoError(t, err)
	assert.Equal(t, assessment.StateManagerCompleted, result.Assessment.State)
	assert.False(t, result.Assessment.RevisionRequested)
}

func TestWorkflowService_RequestRevision_RequiresNotes(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerCompleted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.RequestRevisionRequest{AssessmentID: "as-1"}
	_, err := svc.RequestRevision(ctx, adminActor, req)
	assert.Error(t, err)
}

func TestWorkflowService_RequestRevision_ManagerForbidden(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerCompleted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.RequestRevisionRequest{AssessmentID: "as-1", Notes: "please revise"}
	_, err := svc.RequestRevision(ctx, managerActor, req)
	assert.ErrorIs(t, err, assessment.ErrForbidden)
}

func TestWorkflowService_ApproveReview(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerCompleted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	notes := "Calibrated against the team"
	req := assessment.ApproveReviewRequest{AssessmentID: "as-1", Notes: &notes}
	result, err := svc.ApproveReview(ctx, adminActor, req)
	require.NoError(t, err)

	assert.Equal(t, assessment.StateAdminApproved, result.Assessment.State)
	require.NotNil(t, result.Assessment.ApprovedAt)
	require.NotNil(t, result.Assessment.AdminNotes)
	assert.Equal(t, notes, *result.Assessment.AdminNotes)

	require.Len(t, result.Intents, 1)
	assert.Equal(t, testEmployeeID, result.Intents[0].RecipientID)
	assert.Equal(t, notification.TypeReviewFinalized, result.Intents[0].Type)
}

func TestWorkflowService_ApproveReview_WrongState(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.ApproveReviewRequest{AssessmentID: "as-1"}
	_, err := svc.ApproveReview(ctx, adminActor, req)
	assert.ErrorIs(t, err, assessment.ErrInvalidTransition)
}

func TestWorkflowService_AcknowledgeReview(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateAdminApproved))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	result, err := svc.AcknowledgeReview(ctx, employeeActor, "as-1")
	require.NoError(t, err)

	assert.Equal(t, assessment.StateEmployeeAcknowledged, result.Assessment.State)
	require.NotNil(t, result.Assessment.EmployeeAcknowledgedAt)

	require.Len(t, result.Intents, 1)
	assert.Equal(t, testManagerID, result.Intents[0].RecipientID)
	assert.Equal(t, notification.TypeReviewAcknowledged, result.Intents[0].Type)
}

func TestWorkflowService_AcknowledgeReview_WaitsForApproval(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerCompleted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	_, err := svc.AcknowledgeReview(ctx, employeeActor, "as-1")
	assert.ErrorIs(t, err, assessment.ErrInvalidTransition)
}

func TestWorkflowService_AcknowledgeReview_ApprovalDisabled(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerCompleted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: false})

	result, err := svc.AcknowledgeReview(ctx, employeeActor, "as-1")
	require.NoError(t, err)
	assert.Equal(t, assessment.StateEmployeeAcknowledged, result.Assessment.State)
}

func TestWorkflowService_TerminalStateIsImmutable(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateEmployeeAcknowledged))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	_, err := svc.SaveSelfAssessmentDraft(ctx, employeeActor, assessment.SaveDraftRequest{AssessmentID: "as-1", Payload: selfPayload()})
	assert.ErrorIs(t, err, assessment.ErrTerminal)

	_, err = svc.SubmitManagerReview(ctx, managerActor, assessment.SubmitManagerReviewRequest{AssessmentID: "as-1", Payload: reviewPayload(4)})
	assert.ErrorIs(t, err, assessment.ErrTerminal)

	_, err = svc.OverrideState(ctx, adminActor, assessment.OverrideStateRequest{
		AssessmentID: "as-1",
		TargetState:  string(assessment.StateManagerCompleted),
		Reason:       "undo acknowledgment",
	})
	assert.ErrorIs(t, err, assessment.ErrTerminal)
}

func TestWorkflowService_OverrideState_WritesAudit(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerInProgress))
	svc, auditRepo := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.OverrideStateRequest{
		AssessmentID: "as-1",
		TargetState:  string(assessment.StateEmployeeSubmitted),
		Reason:       "manager left the company, reassigning review",
	}
	result, err := svc.OverrideState(ctx, adminActor, req)
	require.NoError(t, err)
	assert.Equal(t, assessment.StateEmployeeSubmitted, result.Assessment.State)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, testAdminID, entry.ActorID)
	assert.Equal(t, "as-1", entry.AssessmentID)
	assert.Equal(t, string(assessment.StateEmployeeSubmitted), entry.ToState)
	assert.Equal(t, req.Reason, entry.Reason)
}

func TestWorkflowService_OverrideState_AuditFailureRollsBackStateChange(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerInProgress))
	svc, auditRepo := newTestService(repo, Config{RequireAdminApproval: true})
	auditRepo.createErr = errors.New("audit table unavailable")

	req := assessment.OverrideStateRequest{
		AssessmentID: "as-1",
		TargetState:  string(assessment.StateEmployeeSubmitted),
		Reason:       "manager left the company, reassigning review",
	}
	_, err := svc.OverrideState(ctx, adminActor, req)
	require.Error(t, err)

	// The override must not persist without its audit entry.
	stored := repo.assessments["as-1"]
	assert.Equal(t, assessment.StateManagerInProgress, stored.State)
	assert.Equal(t, int64(1), stored.Version)
	assert.Empty(t, auditRepo.entries)
}

func TestWorkflowService_OverrideState_RequiresReason(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerCompleted))
	svc, auditRepo := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.OverrideStateRequest{
		AssessmentID: "as-1",
		TargetState:  string(assessment.StateAdminApproved),
	}
	_, err := svc.OverrideState(ctx, adminActor, req)
	assert.Error(t, err)
	assert.Empty(t, auditRepo.entries)
}

func TestWorkflowService_OverrideState_AdminOnly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateManagerCompleted))
	svc, auditRepo := newTestService(repo, Config{RequireAdminApproval: true})

	req := assessment.OverrideStateRequest{
		AssessmentID: "as-1",
		TargetState:  string(assessment.StateAdminApproved),
		Reason:       "speed things up",
	}
	_, err := svc.OverrideState(ctx, managerActor, req)
	assert.ErrorIs(t, err, assessment.ErrForbidden)
	assert.Empty(t, auditRepo.entries)
}

func TestWorkflowService_VersionConflict_RetriesOnce(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateNotStarted))
	repo.conflictsBeforeSave = 1
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	result, err := svc.StartSelfAssessment(ctx, employeeActor, "as-1")
	require.NoError(t, err)
	assert.Equal(t, assessment.StateInProgress, result.Assessment.State)
	assert.Equal(t, 2, repo.saveCalls)
}

func TestWorkflowService_VersionConflict_SurfacesAfterRetry(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateNotStarted))
	repo.conflictsBeforeSave = 2
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	_, err := svc.StartSelfAssessment(ctx, employeeActor, "as-1")
	assert.ErrorIs(t, err, assessment.ErrVersionConflict)
	assert.Equal(t, 2, repo.saveCalls, "exactly one retry")
}

func TestWorkflowService_FullHappyPath(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateNotStarted))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	_, err := svc.StartSelfAssessment(ctx, employeeActor, "as-1")
	require.NoError(t, err)

	_, err = svc.SaveSelfAssessmentDraft(ctx, employeeActor, assessment.SaveDraftRequest{AssessmentID: "as-1", Payload: selfPayload()})
	require.NoError(t, err)

	_, err = svc.SubmitSelfAssessment(ctx, employeeActor, assessment.SubmitSelfAssessmentRequest{AssessmentID: "as-1", Payload: selfPayload()})
	require.NoError(t, err)

	_, err = svc.StartManagerReview(ctx, managerActor, "as-1")
	require.NoError(t, err)

	_, err = svc.SubmitManagerReview(ctx, managerActor, assessment.SubmitManagerReviewRequest{AssessmentID: "as-1", Payload: reviewPayload(4)})
	require.NoError(t, err)

	_, err = svc.ApproveReview(ctx, adminActor, assessment.ApproveReviewRequest{AssessmentID: "as-1"})
	require.NoError(t, err)

	result, err := svc.AcknowledgeReview(ctx, employeeActor, "as-1")
	require.NoError(t, err)

	final := result.Assessment
	assert.Equal(t, assessment.StateEmployeeAcknowledged, final.State)
	assert.Equal(t, assessment.SelfStatusComplete, final.SelfStatus())
	assert.Equal(t, assessment.ManagerStatusCompleted, final.ManagerStatus())
	assert.NotNil(t, final.SubmittedAt)
	assert.NotNil(t, final.ReviewCompletedAt)
	assert.NotNil(t, final.ApprovedAt)
	assert.NotNil(t, final.EmployeeAcknowledgedAt)
}

func TestWorkflowService_Get_ViewPermission(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	_, err := svc.Get(ctx, employeeActor, "as-1")
	assert.NoError(t, err)

	_, err = svc.Get(ctx, assessment.Actor{EmployeeID: "emp-2", Role: employee.RoleEmployee}, "as-1")
	assert.ErrorIs(t, err, assessment.ErrForbidden)

	_, err = svc.Get(ctx, employeeActor, "missing")
	assert.ErrorIs(t, err, assessment.ErrAssessmentNotFound)
}

func TestWorkflowService_Get_HidesReviewUntilFinalized(t *testing.T) {
	ctx := context.Background()
	seed := seedAssessment(assessment.StateManagerCompleted)
	seed.ManagerReview = reviewPayload(4)
	repo := newFakeAssessmentRepo(seed)
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	// Pending approval: the employee must not see the review yet.
	resp, err := svc.Get(ctx, employeeActor, "as-1")
	require.NoError(t, err)
	assert.Nil(t, resp.ManagerReview)

	// The manager sees their own work in progress.
	resp, err = svc.Get(ctx, managerActor, "as-1")
	require.NoError(t, err)
	require.NotNil(t, resp.ManagerReview)
	assert.Equal(t, 4, resp.ManagerReview.OverallRating)
}

func TestWorkflowService_ListTeam_RoleGate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	list, err := svc.ListTeam(ctx, managerActor)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListTeam(ctx, employeeActor)
	assert.ErrorIs(t, err, assessment.ErrForbidden)
}

func TestWorkflowService_ListByCycle_AdminOnly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAssessmentRepo(seedAssessment(assessment.StateInProgress))
	svc, _ := newTestService(repo, Config{RequireAdminApproval: true})

	list, err := svc.ListByCycle(ctx, adminActor, "cy-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListByCycle(ctx, managerActor, "cy-1")
	assert.ErrorIs(t, err, assessment.ErrForbidden)
}
