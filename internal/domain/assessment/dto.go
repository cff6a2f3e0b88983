package assessment

import (
	"time"

	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/pkg/validator"
)

// Actor is the resolved identity performing an operation. The engine never
// resolves identity itself; handlers build this from verified claims.
type Actor struct {
	EmployeeID string
	Role       employee.Role
}

type SaveDraftRequest struct {
	AssessmentID string                `json:"assessment_id"`
	Payload      SelfAssessmentPayload `json:"payload"`
}

func (r *SaveDraftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssessmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assessment_id",
			Message: "assessment_id is required",
		})
	}

	for key, rating := range r.Payload.Ratings {
		if !validator.IsValidRating(rating) {
			errs = append(errs, validator.ValidationError{
				Field:   "ratings." + key,
				Message: "rating must be between 1 and 5",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitSelfAssessmentRequest struct {
	AssessmentID string                `json:"assessment_id"`
	Payload      SelfAssessmentPayload `json:"payload"`
}

// Validate checks the mandatory self-assessment fields. Submission requires
// the title/content pair; everything else stays optional.
func (r *SubmitSelfAssessmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssessmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assessment_id",
			Message: "assessment_id is required",
		})
	}

	if validator.IsEmpty(r.Payload.Summary) {
		errs = append(errs, validator.ValidationError{
			Field:   "summary",
			Message: "summary is required",
		})
	}

	if validator.IsEmpty(r.Payload.Highlights) {
		errs = append(errs, validator.ValidationError{
			Field:   "highlights",
			Message: "highlights is required",
		})
	}

	for key, rating := range r.Payload.Ratings {
		if !validator.IsValidRating(rating) {
			errs = append(errs, validator.ValidationError{
				Field:   "ratings." + key,
				Message: "rating must be between 1 and 5",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitManagerReviewRequest struct {
	AssessmentID string               `json:"assessment_id"`
	Payload      ManagerReviewPayload `json:"payload"`
}

func (r *SubmitManagerReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssessmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assessment_id",
			Message: "assessment_id is required",
		})
	}

	if r.Payload.OverallRating == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "overall_rating",
			Message: "overall_rating is required",
		})
	} else if !validator.IsValidRating(r.Payload.OverallRating) {
		errs = append(errs, validator.ValidationError{
			Field:   "overall_rating",
			Message: "overall_rating must be between 1 and 5",
		})
	}

	for key, rating := range r.Payload.Ratings {
		if !validator.IsValidRating(rating) {
			errs = append(errs, validator.ValidationError{
				Field:   "ratings." + key,
				Message: "rating must be between 1 and 5",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RequestRevisionRequest struct {
	AssessmentID string `json:"assessment_id"`
	Notes        string `json:"notes"`
}

func (r *RequestRevisionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssessmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assessment_id",
			Message: "assessment_id is required",
		})
	}

	if validator.IsEmpty(r.Notes) {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes is required when requesting a revision",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveReviewRequest struct {
	AssessmentID string  `json:"assessment_id"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *ApproveReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssessmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assessment_id",
			Message: "assessment_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OverrideStateRequest struct {
	AssessmentID string `json:"assessment_id"`
	TargetState  string `json:"target_state"`
	Reason       string `json:"reason"`
}

func (r *OverrideStateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AssessmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assessment_id",
			Message: "assessment_id is required",
		})
	}

	if !IsValidState(State(r.TargetState)) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_state",
			Message: "target_state is not a known assessment state",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required for a state override",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AssessmentResponse struct {
	ID         string `json:"id"`
	CycleID    string `json:"cycle_id"`
	EmployeeID string `json:"employee_id"`

	State                string `json:"state"`
	SelfAssessmentStatus string `json:"self_assessment_status"`
	ManagerReviewStatus  string `json:"manager_review_status"`
	AdminApprovalStatus  string `json:"admin_approval_status,omitempty"`

	SelfAssessment *SelfAssessmentPayload `json:"self_assessment,omitempty"`
	ManagerReview  *ManagerReviewPayload  `json:"manager_review,omitempty"`
	AdminNotes     *string                `json:"admin_notes,omitempty"`

	DueDate                *time.Time `json:"due_date,omitempty"`
	SubmittedAt            *time.Time `json:"submitted_at,omitempty"`
	ReviewCompletedAt      *time.Time `json:"review_completed_at,omitempty"`
	EmployeeAcknowledgedAt *time.Time `json:"employee_acknowledged_at,omitempty"`

	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`

	EmployeeName *string `json:"employee_name,omitempty"`
	ManagerName  *string `json:"manager_name,omitempty"`
	CycleName    *string `json:"cycle_name,omitempty"`
}

// ToResponse projects an assessment for a viewer. The manager review payload
// is withheld from the employee until the review has been finalized; admin
// notes are only shown to admins. requireAdminApproval mirrors the engine
// configuration: without the approval step, a completed review counts as
// finalized.
func ToResponse(a Assessment, viewer Actor, requireAdminApproval bool) AssessmentResponse {
	resp := AssessmentResponse{
		ID:                     a.ID,
		CycleID:                a.CycleID,
		EmployeeID:             a.EmployeeID,
		State:                  string(a.State),
		SelfAssessmentStatus:   string(a.SelfStatus()),
		ManagerReviewStatus:    string(a.ManagerStatus()),
		AdminApprovalStatus:    string(a.AdminStatus()),
		DueDate:                a.DueDate,
		SubmittedAt:            a.SubmittedAt,
		ReviewCompletedAt:      a.ReviewCompletedAt,
		EmployeeAcknowledgedAt: a.EmployeeAcknowledgedAt,
		Version:                a.Version,
		UpdatedAt:              a.UpdatedAt,
		EmployeeName:           a.EmployeeName,
		ManagerName:            a.ManagerName,
		CycleName:              a.CycleName,
	}

	if !a.SelfAssessment.IsZero() {
		p := a.SelfAssessment
		resp.SelfAssessment = &p
	}

	isOwner := viewer.EmployeeID == a.EmployeeID
	finalized := a.State == StateAdminApproved || a.State == StateEmployeeAcknowledged ||
		(!requireAdminApproval && a.State == StateManagerCompleted)
	if !isOwner || finalized {
		if a.ManagerReview.OverallRating != 0 || a.ManagerReview.Feedback != "" {
			p := a.ManagerReview
			resp.ManagerReview = &p
		}
	}

	if viewer.Role == employee.RoleAdmin {
		resp.AdminNotes = a.AdminNotes
	}

	return resp
}
