package auth

import (
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

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

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginResponse struct {
	AccessToken      string                    `json:"access_token"`
	ExpiresAt        int64                     `json:"expires_at"`
	RefreshToken     string                    `json:"-"`
	RefreshExpiresAt int64                     `json:"-"`
	Employee         employee.EmployeeResponse `json:"employee"`
}
