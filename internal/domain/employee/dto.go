package employee

import "github.com/edgehq/edge-backend-go/internal/pkg/validator"

type CreateEmployeeRequest struct {
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	JobTitle  string  `json:"job_title"`
	Role      string  `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
	HireDate  *string `json:"hire_date,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}
	if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is not a valid email address",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if !IsValidRole(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of employee, manager, admin",
		})
	}

	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "hire_date",
				Message: "hire_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID        string  `json:"employee_id"`
	FullName  *string `json:"full_name,omitempty"`
	JobTitle  *string `json:"job_title,omitempty"`
	Role      *string `json:"role,omitempty"`
	ManagerID *string `json:"manager_id,omitempty"`

	// ClearManager removes the manager reference when true.
	ClearManager bool `json:"clear_manager,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.Role != nil && !IsValidRole(*r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of employee, manager, admin",
		})
	}

	if r.ManagerID != nil && r.ClearManager {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id and clear_manager are mutually exclusive",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID          string  `json:"id"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	JobTitle    string  `json:"job_title"`
	Role        string  `json:"role"`
	ManagerID   *string `json:"manager_id,omitempty"`
	ManagerName *string `json:"manager_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	IsActive    bool    `json:"is_active"`
	HireDate    *string `json:"hire_date,omitempty"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:          e.ID,
		FullName:    e.FullName,
		Email:       e.Email,
		JobTitle:    e.JobTitle,
		Role:        string(e.Role),
		ManagerID:   e.ManagerID,
		ManagerName: e.ManagerName,
		AvatarURL:   e.AvatarURL,
		IsActive:    e.IsActive,
	}
	if e.HireDate != nil {
		hd := e.HireDate.Format("2006-01-02")
		resp.HireDate = &hd
	}
	return resp
}
