package employee

import (
	"time"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type Employee struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash *string
	JobTitle     string
	Role         Role
	ManagerID    *string
	AvatarURL    *string
	IsActive     bool
	HireDate     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time

	// Relationships (for responses)
	ManagerName *string
}
