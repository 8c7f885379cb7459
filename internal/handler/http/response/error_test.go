package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{validator.ValidationErrors{{Field: "name", Message: "name is required"}}, http.StatusUnprocessableEntity},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrTokenRevoked, http.StatusUnauthorized},
		{auth.ErrStateMismatch, http.StatusBadRequest},
		{user.ErrUserNotFound, http.StatusNotFound},
		{user.ErrUserEmailExists, http.StatusConflict},
		{user.ErrOutsideTeam, http.StatusForbidden},
		{user.ErrRoleNotAssignable, http.StatusForbidden},
		{leave.ErrLeaveRequestAlreadyProcessed, http.StatusConflict},
		{leave.ErrSelfApproval, http.StatusForbidden},
		{task.ErrTaskAlreadyCompleted, http.StatusConflict},
		{task.ErrNotTaskAssignee, http.StatusForbidden},
		{report.ErrInvalidPeriod, http.StatusBadRequest},
		{attendance.ErrNotCheckedIn, http.StatusConflict},
		{fmt.Errorf("failed to decide: %w", leave.ErrLeaveRequestNotFound), http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "end_date", Message: "bad"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"end_date":"bad"`)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
