package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/auth"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/handler/http/response"
)

// AuthRequired verifies the token parsed by jwtauth.Verifier is a valid
// access token.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// ActorFromContext builds the workflow actor from verified claims. The
// boolean is false when the claims are missing or malformed.
func ActorFromContext(r *http.Request) (assessment.Actor, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return assessment.Actor{}, false
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return assessment.Actor{}, false
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !employee.IsValidRole(roleStr) {
		return assessment.Actor{}, false
	}

	return assessment.Actor{
		EmployeeID: employeeID,
		Role:       employee.Role(roleStr),
	}, true
}
