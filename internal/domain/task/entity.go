package task

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Color is the badge color used when the priority is displayed.
func (p Priority) Color() string {
	switch p {
	case PriorityHigh:
		return "red"
	case PriorityMedium:
		return "yellow"
	case PriorityLow:
		return "green"
	}
	return "gray"
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Color() string {
	switch s {
	case StatusCompleted:
		return "green"
	case StatusInProgress:
		return "blue"
	case StatusPending:
		return "gray"
	}
	return "gray"
}

func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether moving from s to next goes forward.
func (s Status) CanAdvanceTo(next Status) bool {
	from, to := s.rank(), next.rank()
	return from >= 0 && to >= 0 && to > from
}

// Task entity
type Task struct {
	ID          string
	Title       string
	Description *string
	AssigneeID  string
	AssignedBy  string
	Priority    Priority
	Status      Status
	DueDate     *time.Time
	Category    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relationships (for responses)
	AssigneeName       *string
	AssigneeDepartment *string
}

// CanComplete reports whether the complete action is offered.
func (t *Task) CanComplete() bool {
	return t.Status != StatusCompleted
}
