package task

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type AssignTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	AssigneeID  string   `json:"assignee_id"`
	Priority    Priority `json:"priority"`
	DueDate     *string  `json:"due_date,omitempty"`
	Category    *string  `json:"category,omitempty"`

	dueDate *time.Time
}

func (r *AssignTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	} else if len(r.Title) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title must not exceed 255 characters",
		})
	}

	if validator.IsEmpty(r.AssigneeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignee_id",
			Message: "assignee_id is required",
		})
	} else if !validator.IsValidUUID(r.AssigneeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "assignee_id",
			Message: "assignee_id must be a valid UUID",
		})
	}

	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !validator.IsInSlice(string(r.Priority), []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of: low, medium, high",
		})
	}

	if r.DueDate != nil && *r.DueDate != "" {
		d, ok := validator.IsValidDate(*r.DueDate)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "due_date",
				Message: "due_date must be in YYYY-MM-DD format",
			})
		} else {
			r.dueDate = &d
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedDueDate returns the due date parsed by Validate.
func (r *AssignTaskRequest) ParsedDueDate() *time.Time {
	return r.dueDate
}

type TaskResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	AssigneeID    string    `json:"assignee_id"`
	AssigneeName  *string   `json:"assignee_name,omitempty"`
	AssignedBy    string    `json:"assigned_by"`
	Priority      Priority  `json:"priority"`
	PriorityColor string    `json:"priority_color"`
	Status        Status    `json:"status"`
	StatusColor   string    `json:"status_color"`
	CanComplete   bool      `json:"can_complete"`
	DueDate       *string   `json:"due_date,omitempty"`
	Category      *string   `json:"category,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewTaskResponse(t Task) TaskResponse {
	var due *string
	if t.DueDate != nil {
		s := t.DueDate.Format(validator.DateLayout)
		due = &s
	}
	return TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		AssigneeID:    t.AssigneeID,
		AssigneeName:  t.AssigneeName,
		AssignedBy:    t.AssignedBy,
		Priority:      t.Priority,
		PriorityColor: t.Priority.Color(),
		Status:        t.Status,
		StatusColor:   t.Status.Color(),
		CanComplete:   t.CanComplete(),
		DueDate:       due,
		Category:      t.Category,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func NewTaskResponses(items []Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(items))
	for _, t := range items {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

type ListTaskResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int64          `json:"total"`
}
