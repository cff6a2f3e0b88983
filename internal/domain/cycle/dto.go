package cycle

import (
	"time"

	"github.com/edgehq/edge-backend-go/internal/pkg/validator"
)

type CreateCycleRequest struct {
	Name              string  `json:"name"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	AssessmentDueDate *string `json:"assessment_due_date,omitempty"`
}

func (r *CreateCycleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if r.AssessmentDueDate != nil {
		if _, ok := validator.IsValidDate(*r.AssessmentDueDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "assessment_due_date",
				Message: "assessment_due_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ActivateResult struct {
	Cycle              ReviewCycle `json:"cycle"`
	AssessmentsCreated int64       `json:"assessments_created"`
}

type CycleResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	StartDate         string     `json:"start_date"`
	EndDate           string     `json:"end_date"`
	Status            string     `json:"status"`
	DisplayStatus     string     `json:"display_status"`
	AssessmentDueDate *string    `json:"assessment_due_date,omitempty"`
	ActivatedAt       *time.Time `json:"activated_at,omitempty"`
	ClosedAt          *time.Time `json:"closed_at,omitempty"`
}

func ToResponse(c ReviewCycle, now time.Time) CycleResponse {
	resp := CycleResponse{
		ID:            c.ID,
		Name:          c.Name,
		StartDate:     c.StartDate.Format("2006-01-02"),
		EndDate:       c.EndDate.Format("2006-01-02"),
		Status:        string(c.Status),
		DisplayStatus: c.DisplayStatus(now),
		ActivatedAt:   c.ActivatedAt,
		ClosedAt:      c.ClosedAt,
	}
	if c.AssessmentDueDate != nil {
		d := c.AssessmentDueDate.Format("2006-01-02")
		resp.AssessmentDueDate = &d
	}
	return resp
}
