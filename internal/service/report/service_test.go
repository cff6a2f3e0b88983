package report

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
)

type stubAssessmentRepo struct {
	assessment assessment.Assessment
}

func (r *stubAssessmentRepo) GetByID(_ context.Context, id string) (assessment.Assessment, error) {
	if r.assessment.ID != id {
		return assessment.Assessment{}, assessment.ErrAssessmentNotFound
	}
	return r.assessment, nil
}

func (r *stubAssessmentRepo) Save(context.Context, assessment.Assessment, int64) (assessment.Assessment, error) {
	return assessment.Assessment{}, nil
}

func (r *stubAssessmentRepo) SubmitManagerReview(context.Context, string, assessment.ManagerReviewPayload, time.Time, int64) (assessment.Assessment, error) {
	return assessment.Assessment{}, nil
}

func (r *stubAssessmentRepo) CreateForCycle(context.Context, string, *time.Time) (int64, error) {
	return 0, nil
}

func (r *stubAssessmentRepo) ListByEmployee(context.Context, string) ([]assessment.Assessment, error) {
	return nil, nil
}

func (r *stubAssessmentRepo) ListByManager(context.Context, string) ([]assessment.Assessment, error) {
	return nil, nil
}

func (r *stubAssessmentRepo) ListByCycle(context.Context, string) ([]assessment.Assessment, error) {
	return nil, nil
}

func (r *stubAssessmentRepo) ListOverdue(context.Context, time.Time) ([]assessment.Assessment, error) {
	return nil, nil
}

func (r *stubAssessmentRepo) MarkReminded(context.Context, []string, time.Time) error {
	return nil
}

type memStorage struct {
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (s *memStorage) Upload(_ context.Context, file io.Reader, path string, _ string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.files[path] = data
	return path, nil
}

func (s *memStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.files[path])), nil
}

func (s *memStorage) Delete(_ context.Context, path string) error {
	delete(s.files, path)
	return nil
}

func (s *memStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://files.edge.test/" + path, nil
}

func (s *memStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := s.files[path]
	return ok, nil
}

func finalizedAssessment(state assessment.State) assessment.Assessment {
	managerID := "mgr-1"
	employeeName := "Jamie Park"
	managerName := "Morgan Lee"
	cycleName := "H1 2026"
	completed := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	return assessment.Assessment{
		ID:         "as-1",
		CycleID:    "cy-1",
		EmployeeID: "emp-1",
		ManagerID:  &managerID,
		State:      state,
		SelfAssessment: assessment.SelfAssessmentPayload{
			Summary:    "Shipped the billing migration",
			Highlights: "Zero-downtime cutover",
		},
		ManagerReview: assessment.ManagerReviewPayload{
			OverallRating: 4,
			Strengths:     "Ownership",
			Feedback:      "Strong half",
		},
		ReviewCompletedAt: &completed,
		EmployeeName:      &employeeName,
		ManagerName:       &managerName,
		CycleName:         &cycleName,
	}
}

func TestReportService_GenerateReviewPDF(t *testing.T) {
	ctx := context.Background()
	files := newMemStorage()
	repo := &stubAssessmentRepo{assessment: finalizedAssessment(assessment.StateAdminApproved)}
	svc := NewReportService(repo, files, true, nil)

	actor := assessment.Actor{EmployeeID: "emp-1", Role: employee.RoleEmployee}
	report, err := svc.GenerateReviewPDF(ctx, actor, "as-1")
	require.NoError(t, err)

	assert.Equal(t, "reports/cy-1/as-1.pdf", report.Path)
	assert.Equal(t, "http://files.edge.test/reports/cy-1/as-1.pdf", report.URL)
	assert.Equal(t, "application/pdf", report.ContentType)

	data := files.files[report.Path]
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "stored file should be a PDF document")
}

func TestReportService_GenerateReviewPDF_NotFinalized(t *testing.T) {
	ctx := context.Background()
	repo := &stubAssessmentRepo{assessment: finalizedAssessment(assessment.StateManagerCompleted)}
	svc := NewReportService(repo, newMemStorage(), true, nil)

	actor := assessment.Actor{EmployeeID: "emp-1", Role: employee.RoleEmployee}
	_, err := svc.GenerateReviewPDF(ctx, actor, "as-1")
	assert.ErrorIs(t, err, assessment.ErrInvalidTransition)
}

func TestReportService_GenerateReviewPDF_CompletedCountsWithoutApprovalStep(t *testing.T) {
	ctx := context.Background()
	repo := &stubAssessmentRepo{assessment: finalizedAssessment(assessment.StateManagerCompleted)}
	svc := NewReportService(repo, newMemStorage(), false, nil)

	actor := assessment.Actor{EmployeeID: "emp-1", Role: employee.RoleEmployee}
	_, err := svc.GenerateReviewPDF(ctx, actor, "as-1")
	assert.NoError(t, err)
}

func TestReportService_GenerateReviewPDF_ViewGate(t *testing.T) {
	ctx := context.Background()
	repo := &stubAssessmentRepo{assessment: finalizedAssessment(assessment.StateAdminApproved)}
	svc := NewReportService(repo, newMemStorage(), true, nil)

	stranger := assessment.Actor{EmployeeID: "emp-9", Role: employee.RoleEmployee}
	_, err := svc.GenerateReviewPDF(ctx, stranger, "as-1")
	assert.ErrorIs(t, err, assessment.ErrForbidden)

	admin := assessment.Actor{EmployeeID: "admin-1", Role: employee.RoleAdmin}
	_, err = svc.GenerateReviewPDF(ctx, admin, "as-1")
	assert.NoError(t, err)
}

func TestReportService_GenerateReviewPDF_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &stubAssessmentRepo{assessment: finalizedAssessment(assessment.StateAdminApproved)}
	svc := NewReportService(repo, newMemStorage(), true, nil)

	actor := assessment.Actor{EmployeeID: "emp-1", Role: employee.RoleEmployee}
	_, err := svc.GenerateReviewPDF(ctx, actor, "missing")
	assert.ErrorIs(t, err, assessment.ErrAssessmentNotFound)
}
