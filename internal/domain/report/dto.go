package report

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

const (
	MinHours  = 0
	MaxHours  = 24
	HoursStep = 0.5
)

type SubmitWorkReportRequest struct {
	Date           string  `json:"date"`
	HoursWorked    float64 `json:"hours_worked"`
	TasksCompleted string  `json:"tasks_completed"`
	Achievements   *string `json:"achievements,omitempty"`
	Challenges     *string `json:"challenges,omitempty"`
	NextDayPlan    *string `json:"next_day_plan,omitempty"`

	date time.Time
}

// Validate checks the form. An empty date is filled with today (UTC).
func (r *SubmitWorkReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		r.Date = time.Now().UTC().Format(validator.DateLayout)
	}
	d, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	r.date = d

	if !validator.IsInRange(r.HoursWorked, MinHours, MaxHours) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours_worked",
			Message: "hours_worked must be between 0 and 24",
		})
	} else if !validator.IsMultipleOf(r.HoursWorked, HoursStep) {
		errs = append(errs, validator.ValidationError{
			Field:   "hours_worked",
			Message: "hours_worked must be in steps of 0.5",
		})
	}

	if validator.IsEmpty(r.TasksCompleted) {
		errs = append(errs, validator.ValidationError{
			Field:   "tasks_completed",
			Message: "tasks_completed is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedDate returns the report date parsed by Validate.
func (r *SubmitWorkReportRequest) ParsedDate() time.Time {
	return r.date
}

// ParsePeriod reads optional from/to query values (YYYY-MM-DD).
func ParsePeriod(from, to string) (*time.Time, *time.Time, error) {
	var errs validator.ValidationErrors
	var fromT, toT *time.Time

	if from != "" {
		if t, ok := validator.IsValidDate(from); ok {
			fromT = &t
		} else {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
		}
	}
	if to != "" {
		if t, ok := validator.IsValidDate(to); ok {
			toT = &t
		} else {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
		}
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}
	if fromT != nil && toT != nil && toT.Before(*fromT) {
		return nil, nil, validator.ValidationErrors{{Field: "to", Message: ErrInvalidPeriod.Error()}}
	}
	return fromT, toT, nil
}

type WorkReportResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	EmployeeName   *string   `json:"employee_name,omitempty"`
	Date           string    `json:"date"`
	HoursWorked    float64   `json:"hours_worked"`
	TasksCompleted string    `json:"tasks_completed"`
	Achievements   *string   `json:"achievements,omitempty"`
	Challenges     *string   `json:"challenges,omitempty"`
	NextDayPlan    *string   `json:"next_day_plan,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewWorkReportResponse(r WorkReport) WorkReportResponse {
	return WorkReportResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		EmployeeName:   r.EmployeeName,
		Date:           r.Date.Format(validator.DateLayout),
		HoursWorked:    r.HoursWorked,
		TasksCompleted: r.TasksCompleted,
		Achievements:   r.Achievements,
		Challenges:     r.Challenges,
		NextDayPlan:    r.NextDayPlan,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func NewWorkReportResponses(items []WorkReport) []WorkReportResponse {
	out := make([]WorkReportResponse, 0, len(items))
	for _, r := range items {
		out = append(out, NewWorkReportResponse(r))
	}
	return out
}

type ListWorkReportResponse struct {
	WorkReports []WorkReportResponse `json:"work_reports"`
	Total       int64                `json:"total"`
}
