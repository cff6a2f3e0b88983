package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/pkg/storage"
)

// ReportService renders finalized reviews as PDF documents. Reports are only
// generated for assessments whose review the viewer is entitled to see; the
// employee cannot export a review that has not been finalized yet.
type ReportService struct {
	assessmentRepo       assessment.Repository
	fileStorage          storage.FileStorage
	requireAdminApproval bool
	now                  func() time.Time
}

func NewReportService(
	assessmentRepo assessment.Repository,
	fileStorage storage.FileStorage,
	requireAdminApproval bool,
	now func() time.Time,
) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		assessmentRepo:       assessmentRepo,
		fileStorage:          fileStorage,
		requireAdminApproval: requireAdminApproval,
		now:                  now,
	}
}

// ReviewReport is the stored artifact reference returned to the caller.
type ReviewReport struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

func (s *ReportService) finalized(a assessment.Assessment) bool {
	switch a.State {
	case assessment.StateAdminApproved, assessment.StateEmployeeAcknowledged:
		return true
	case assessment.StateManagerCompleted:
		return !s.requireAdminApproval
	default:
		return false
	}
}

// GenerateReviewPDF renders the finalized review for one assessment, stores
// it and returns its location.
func (s *ReportService) GenerateReviewPDF(ctx context.Context, actor assessment.Actor, assessmentID string) (ReviewReport, error) {
	a, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return ReviewReport{}, err
	}

	if !assessment.CanPerform(assessment.OpView, actor.Role, actor.EmployeeID, &a) {
		return ReviewReport{}, assessment.ErrForbidden
	}

	if !s.finalized(a) {
		return ReviewReport{}, assessment.ErrInvalidTransition
	}

	var buf bytes.Buffer
	if err := s.render(a, &buf); err != nil {
		return ReviewReport{}, err
	}

	path := fmt.Sprintf("reports/%s/%s.pdf", a.CycleID, a.ID)
	storedPath, err := s.fileStorage.Upload(ctx, &buf, path, "application/pdf")
	if err != nil {
		return ReviewReport{}, err
	}

	url, err := s.fileStorage.GetURL(ctx, storedPath, 24*time.Hour)
	if err != nil {
		return ReviewReport{}, err
	}

	return ReviewReport{
		Path:        storedPath,
		URL:         url,
		ContentType: "application/pdf",
	}, nil
}

func (s *ReportService) render(a assessment.Assessment, out *bytes.Buffer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Performance Review")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	if a.EmployeeName != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", *a.EmployeeName))
		pdf.Ln(7)
	}
	if a.ManagerName != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Manager: %s", *a.ManagerName))
		pdf.Ln(7)
	}
	if a.CycleName != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s", *a.CycleName))
		pdf.Ln(7)
	}
	if a.ReviewCompletedAt != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Review completed: %s", a.ReviewCompletedAt.Format("2006-01-02")))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	s.section(pdf, "Self-Assessment")
	s.field(pdf, "Summary", a.SelfAssessment.Summary)
	s.field(pdf, "Highlights", a.SelfAssessment.Highlights)
	s.field(pdf, "Challenges", a.SelfAssessment.Challenges)
	s.field(pdf, "Goals", a.SelfAssessment.Goals)

	s.section(pdf, "Manager Review")
	s.field(pdf, "Overall Rating", fmt.Sprintf("%d / 5", a.ManagerReview.OverallRating))
	s.field(pdf, "Strengths", a.ManagerReview.Strengths)
	s.field(pdf, "Growth Areas", a.ManagerReview.GrowthAreas)
	s.field(pdf, "Feedback", a.ManagerReview.Feedback)

	if a.EmployeeAcknowledgedAt != nil {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 8, fmt.Sprintf("Acknowledged by employee on %s", a.EmployeeAcknowledgedAt.Format("2006-01-02")))
		pdf.Ln(7)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", s.now().Format(time.RFC1123)))

	return pdf.Output(out)
}

func (s *ReportService) section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 9, title)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
}

func (s *ReportService) field(pdf *gofpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, label)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, value, "", "L", false)
	pdf.Ln(2)
}
