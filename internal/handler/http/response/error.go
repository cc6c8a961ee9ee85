package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/institute-attendance-go/internal/pkg/validator"
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
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid token")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidDate),
		errors.Is(err, attendance.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrPunchSourceDisabled):
		ServiceUnavailable(w, "Punch source is not configured")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
