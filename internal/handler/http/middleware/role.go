package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
)

// AdminOnly requires the admin role
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, employee.ErrAdminPrivilegeRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || employee.Role(role) != employee.RoleAdmin {
			response.HandleError(w, employee.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ManagerOnly requires the manager or admin role
func ManagerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, assessment.ErrForbidden)
			return
		}

		roleStr, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, assessment.ErrForbidden)
			return
		}

		role := employee.Role(roleStr)
		if role != employee.RoleManager && role != employee.RoleAdmin {
			response.HandleError(w, assessment.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
