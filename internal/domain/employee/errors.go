package employee

import "errors"

var (
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmailExists            = errors.New("email already registered")
	ErrManagerNotFound        = errors.New("manager not found")
	ErrManagerCycle           = errors.New("manager assignment would create a reporting cycle")
	ErrManagerNotManager      = errors.New("assigned manager must have the manager or admin role")
	ErrEmployeeInactive       = errors.New("employee is deactivated")
	ErrAlreadyInactive        = errors.New("employee is already deactivated")
	ErrCannotDeactivateSelf   = errors.New("cannot deactivate your own account")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
