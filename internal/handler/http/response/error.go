package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
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
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrGoogleAccessDeniedByUser),
		errors.Is(err, auth.ErrNotAuthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrGoogleEmailNotVerified):
		Forbidden(w, "Google email not verified")
	case errors.Is(err, auth.ErrStateMismatch):
		BadRequest(w, "OAuth state mismatch", nil)
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		NotFound(w, "Google login is not configured")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrGoogleIDExists):
		Conflict(w, "Google account already linked to another profile")
	case errors.Is(err, user.ErrOwnerAccessRequired),
		errors.Is(err, user.ErrManagerAccessRequired),
		errors.Is(err, user.ErrInsufficientPermissions),
		errors.Is(err, user.ErrRoleNotAssignable),
		errors.Is(err, user.ErrOutsideTeam):
		Forbidden(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrSelfApproval):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrAssigneeNotFound):
		NotFound(w, "Assignee not found")
	case errors.Is(err, task.ErrTaskAlreadyCompleted),
		errors.Is(err, task.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, task.ErrNotTaskAssignee):
		Forbidden(w, err.Error())

	// Work report errors
	case errors.Is(err, report.ErrWorkReportNotFound):
		NotFound(w, "Work report not found")
	case errors.Is(err, report.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Attendance errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "Not checked in")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
