package leave

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	Type             string  `json:"type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Reason           string  `json:"reason"`
	EmergencyContact *string `json:"emergency_contact,omitempty"`

	// Populated by Validate
	start time.Time
	end   time.Time
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if len(r.Type) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must not exceed 100 characters",
		})
	}

	startOK, endOK := false, false
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if r.start, startOK = validator.IsValidDate(r.StartDate); !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if r.end, endOK = validator.IsValidDate(r.EndDate); !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && DayCount(r.start, r.end) <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates returns the parsed start and end dates. Only meaningful after Validate.
func (r *CreateLeaveRequestRequest) Dates() (time.Time, time.Time) {
	return r.start, r.end
}

type DecideLeaveRequest struct {
	Approved *bool `json:"approved"`
}

func (r *DecideLeaveRequest) Validate() error {
	if r.Approved == nil {
		return validator.ValidationErrors{{
			Field:   "approved",
			Message: "approved is required",
		}}
	}
	return nil
}

type LeaveRequestResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	EmployeeName     *string            `json:"employee_name,omitempty"`
	Department       *string            `json:"department,omitempty"`
	Type             string             `json:"type"`
	StartDate        string             `json:"start_date"`
	EndDate          string             `json:"end_date"`
	Days             int                `json:"days"`
	Reason           string             `json:"reason"`
	EmergencyContact *string            `json:"emergency_contact,omitempty"`
	Status           LeaveRequestStatus `json:"status"`
	StatusColor      string             `json:"status_color"`
	ApprovedBy       *string            `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time         `json:"approved_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

func NewLeaveRequestResponse(l LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:               l.ID,
		UserID:           l.UserID,
		EmployeeName:     l.EmployeeName,
		Department:       l.EmployeeDepartment,
		Type:             l.Type,
		StartDate:        l.StartDate.Format(validator.DateLayout),
		EndDate:          l.EndDate.Format(validator.DateLayout),
		Days:             l.Days(),
		Reason:           l.Reason,
		EmergencyContact: l.EmergencyContact,
		Status:           l.Status,
		StatusColor:      l.Status.Color(),
		ApprovedBy:       l.ApprovedBy,
		ApprovedAt:       l.ApprovedAt,
		CreatedAt:        l.CreatedAt,
	}
}

func NewLeaveRequestResponses(items []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(items))
	for _, l := range items {
		out = append(out, NewLeaveRequestResponse(l))
	}
	return out
}

type ListLeaveRequestResponse struct {
	LeaveRequests []LeaveRequestResponse `json:"leave_requests"`
	Total         int64                  `json:"total"`
}
