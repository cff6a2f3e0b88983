package cycle

import (
	"context"
	"fmt"
	"time"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/cycle"
	"github.com/edgehq/edge-backend-go/internal/pkg/validator"
)

type CycleService struct {
	cycleRepo      cycle.Repository
	assessmentRepo assessment.Repository
	now            func() time.Time
}

func NewCycleService(cycleRepo cycle.Repository, assessmentRepo assessment.Repository, now func() time.Time) *CycleService {
	if now == nil {
		now = time.Now
	}
	return &CycleService{
		cycleRepo:      cycleRepo,
		assessmentRepo: assessmentRepo,
		now:            now,
	}
}

func (s *CycleService) Create(ctx context.Context, adminID string, req cycle.CreateCycleRequest) (cycle.ReviewCycle, error) {
	if err := req.Validate(); err != nil {
		return cycle.ReviewCycle{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)

	c := cycle.ReviewCycle{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    cycle.StatusUpcoming,
	}
	if req.AssessmentDueDate != nil {
		due, _ := validator.IsValidDate(*req.AssessmentDueDate)
		c.AssessmentDueDate = &due
	}

	created, err := s.cycleRepo.Create(ctx, c)
	if err != nil {
		return cycle.ReviewCycle{}, fmt.Errorf("failed to create review cycle: %w", err)
	}
	return created, nil
}

func (s *CycleService) Get(ctx context.Context, id string) (cycle.ReviewCycle, error) {
	return s.cycleRepo.GetByID(ctx, id)
}

func (s *CycleService) List(ctx context.Context) ([]cycle.CycleResponse, error) {
	cycles, err := s.cycleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list review cycles: %w", err)
	}

	now := s.now()
	responses := make([]cycle.CycleResponse, 0, len(cycles))
	for _, c := range cycles {
		responses = append(responses, cycle.ToResponse(c, now))
	}
	return responses, nil
}

// Activate marks the cycle active and bulk-creates assessments. The bulk
// insert skips employees who already have one for this cycle, so a re-run
// after a partial activation only fills the gaps.
func (s *CycleService) Activate(ctx context.Context, adminID string, cycleID string) (cycle.ActivateResult, error) {
	c, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return cycle.ActivateResult{}, err
	}

	if c.Status != cycle.StatusUpcoming {
		return cycle.ActivateResult{}, cycle.ErrCycleNotUpcoming
	}

	created, err := s.assessmentRepo.CreateForCycle(ctx, cycleID, c.AssessmentDueDate)
	if err != nil {
		return cycle.ActivateResult{}, fmt.Errorf("failed to create assessments for cycle: %w", err)
	}

	applied, err := s.cycleRepo.UpdateStatus(ctx, cycleID, cycle.StatusUpcoming, cycle.StatusActive)
	if err != nil {
		return cycle.ActivateResult{}, fmt.Errorf("failed to activate cycle: %w", err)
	}
	if !applied {
		// Someone else activated in between; assessments are already in
		// place either way.
		return cycle.ActivateResult{}, cycle.ErrCycleNotUpcoming
	}

	updated, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return cycle.ActivateResult{}, err
	}

	return cycle.ActivateResult{Cycle: updated, AssessmentsCreated: created}, nil
}

// Close freezes the cycle. Assessment state is left untouched: completion is
// reported, never enforced.
func (s *CycleService) Close(ctx context.Context, adminID string, cycleID string) (cycle.ReviewCycle, error) {
	c, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return cycle.ReviewCycle{}, err
	}

	if c.Status != cycle.StatusActive {
		return cycle.ReviewCycle{}, cycle.ErrCycleNotActive
	}

	applied, err := s.cycleRepo.UpdateStatus(ctx, cycleID, cycle.StatusActive, cycle.StatusClosed)
	if err != nil {
		return cycle.ReviewCycle{}, fmt.Errorf("failed to close cycle: %w", err)
	}
	if !applied {
		return cycle.ReviewCycle{}, cycle.ErrCycleNotActive
	}

	return s.cycleRepo.GetByID(ctx, cycleID)
}
