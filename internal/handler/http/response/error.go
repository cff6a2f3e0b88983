package response

import (
	"errors"
	"net/http"

	"github.com/edgehq/edge-backend-go/internal/domain/assessment"
	"github.com/edgehq/edge-backend-go/internal/domain/auth"
	"github.com/edgehq/edge-backend-go/internal/domain/cycle"
	"github.com/edgehq/edge-backend-go/internal/domain/employee"
	"github.com/edgehq/edge-backend-go/internal/domain/engagement"
	"github.com/edgehq/edge-backend-go/internal/domain/note"
	"github.com/edgehq/edge-backend-go/internal/domain/notification"
	"github.com/edgehq/edge-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is deactivated")
	case errors.Is(err, auth.ErrOAuthEmailUnknown):
		Forbidden(w, "No account registered for this Google email")

	// Assessment workflow errors
	case errors.Is(err, assessment.ErrAssessmentNotFound):
		NotFound(w, "Assessment not found")
	case errors.Is(err, assessment.ErrForbidden):
		Forbidden(w, "Not allowed to perform this action")
	case errors.Is(err, assessment.ErrTerminal):
		Conflict(w, "Assessment has been acknowledged and can no longer change")
	case errors.Is(err, assessment.ErrInvalidTransition):
		Conflict(w, "Assessment is not in a valid state for this action")
	case errors.Is(err, assessment.ErrVersionConflict):
		Conflict(w, "Assessment was modified concurrently, reload and retry")
	case errors.Is(err, assessment.ErrStoreUnavailable):
		ServiceUnavailable(w, "Assessment store temporarily unavailable, retry shortly")

	// Review cycle errors
	case errors.Is(err, cycle.ErrCycleNotFound):
		NotFound(w, "Review cycle not found")
	case errors.Is(err, cycle.ErrCycleNotUpcoming):
		Conflict(w, "Review cycle can only be activated from the upcoming status")
	case errors.Is(err, cycle.ErrCycleNotActive):
		Conflict(w, "Review cycle can only be closed from the active status")
	case errors.Is(err, cycle.ErrNameExists):
		Conflict(w, "A review cycle with this name already exists")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrManagerNotFound):
		NotFound(w, "Manager not found")
	case errors.Is(err, employee.ErrManagerCycle):
		Conflict(w, "Manager assignment would create a reporting cycle")
	case errors.Is(err, employee.ErrManagerNotManager):
		BadRequest(w, "Assigned manager must have the manager or admin role", nil)
	case errors.Is(err, employee.ErrEmployeeInactive):
		Conflict(w, "Employee is deactivated")
	case errors.Is(err, employee.ErrAlreadyInactive):
		Conflict(w, "Employee is already deactivated")
	case errors.Is(err, employee.ErrCannotDeactivateSelf):
		Conflict(w, "Cannot deactivate your own account")
	case errors.Is(err, employee.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Manager note errors
	case errors.Is(err, note.ErrNoteNotFound):
		NotFound(w, "Manager note not found")
	case errors.Is(err, note.ErrNotAuthor):
		Forbidden(w, "Only the author can access this note")
	case errors.Is(err, note.ErrEmptyBody):
		BadRequest(w, "Note body must not be empty", nil)

	// Engagement errors
	case errors.Is(err, engagement.ErrInvalidScore):
		BadRequest(w, "Pulse score must be between 1 and 5", nil)
	case errors.Is(err, engagement.ErrAlreadyResponded):
		Conflict(w, "Pulse already submitted for this period")
	case errors.Is(err, engagement.ErrSelfRecognition):
		BadRequest(w, "Cannot send feedback or kudos to yourself", nil)

	// Notification errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
