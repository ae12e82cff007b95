package response

import (
	"errors"
	"net/http"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/auth"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/validator"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/remote"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
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
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Google account email not verified")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrLocationUnavailable):
		LocationUnavailable(w)
	case errors.Is(err, attendance.ErrInvalidType):
		BadRequest(w, "Attendance type must be checkin or checkout", nil)

	// Remote backend errors
	case errors.Is(err, remote.ErrRemoteUnavailable):
		BadGateway(w, "Remote backend unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
