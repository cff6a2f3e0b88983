package employee

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/pkg/validator"
)

type EmployeeService struct {
	employeeRepo employee.Repository
}

func NewEmployeeService(employeeRepo employee.Repository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

func (s *EmployeeService) Create(ctx context.Context, actorID string, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	if _, err := s.employeeRepo.GetByEmail(ctx, req.Email); err == nil {
		return employee.Employee{}, employee.ErrEmailExists
	}

	if req.ManagerID != nil {
		if err := s.validateManager(ctx, *req.ManagerID, ""); err != nil {
			return employee.Employee{}, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	emp := employee.Employee{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: &hashStr,
		JobTitle:     req.JobTitle,
		Role:         employee.Role(req.Role),
		ManagerID:    req.ManagerID,
		IsActive:     true,
	}
	if req.HireDate != nil {
		hd, _ := validator.IsValidDate(*req.HireDate)
		emp.HireDate = &hd
	}

	created, err := s.employeeRepo.Create(ctx, emp)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

func (s *EmployeeService) Update(ctx context.Context, actorID string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.Employee{}, err
	}

	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.JobTitle != nil {
		emp.JobTitle = *req.JobTitle
	}
	if req.Role != nil {
		emp.Role = employee.Role(*req.Role)
	}
	if req.ClearManager {
		emp.ManagerID = nil
	} else if req.ManagerID != nil {
		if err := s.validateManager(ctx, *req.ManagerID, emp.ID); err != nil {
			return employee.Employee{}, err
		}
		emp.ManagerID = req.ManagerID
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return s.employeeRepo.GetByID(ctx, emp.ID)
}

// validateManager checks that the manager exists, holds a managing role and
// that the assignment does not close a loop in the reporting tree.
func (s *EmployeeService) validateManager(ctx context.Context, managerID, employeeID string) error {
	mgr, err := s.employeeRepo.GetByID(ctx, managerID)
	if err != nil {
		return employee.ErrManagerNotFound
	}
	if mgr.Role != employee.RoleManager && mgr.Role != employee.RoleAdmin {
		return employee.ErrManagerNotManager
	}
	if !mgr.IsActive {
		return employee.ErrEmployeeInactive
	}

	if employeeID == "" {
		return nil
	}
	if managerID == employeeID {
		return employee.ErrManagerCycle
	}

	// Walk up the chain from the candidate manager; hitting the employee
	// means the assignment would create a cycle. The visited set guards
	// against pre-existing corrupt chains.
	visited := map[string]bool{employeeID: true}
	current := mgr
	for current.ManagerID != nil {
		next := *current.ManagerID
		if visited[next] {
			return employee.ErrManagerCycle
		}
		visited[next] = true

		current, err = s.employeeRepo.GetByID(ctx, next)
		if err != nil {
			return fmt.Errorf("failed to walk manager chain: %w", err)
		}
	}

	return nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (employee.Employee, error) {
	return s.employeeRepo.GetByID(ctx, id)
}

func (s *EmployeeService) List(ctx context.Context, includeInactive bool) ([]employee.EmployeeResponse, error) {
	list, err := s.employeeRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return toResponses(list), nil
}

func (s *EmployeeService) ListTeam(ctx context.Context, managerID string) ([]employee.EmployeeResponse, error) {
	list, err := s.employeeRepo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}
	return toResponses(list), nil
}

// Deactivate soft-deletes: the record stays for reporting, the account stops
// working.
func (s *EmployeeService) Deactivate(ctx context.Context, actorID string, id string) error {
	if actorID == id {
		return employee.ErrCannotDeactivateSelf
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !emp.IsActive {
		return employee.ErrAlreadyInactive
	}

	if err := s.employeeRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	return nil
}

func toResponses(list []employee.Employee) []employee.EmployeeResponse {
	responses := make([]employee.EmployeeResponse, 0, len(list))
	for _, e := range list {
		responses = append(responses, employee.ToResponse(e))
	}
	return responses
}
