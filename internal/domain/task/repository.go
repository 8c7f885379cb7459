package task

import (
	"context"
	"time"
)

// TaskFilter narrows list and count queries.
type TaskFilter struct {
	AssigneeID    *string
	Status        *Status
	ExcludeStatus *Status
	Department    *string
	UpdatedFrom   *time.Time
	// OrderBy accepts "due_date" or "created_at" (default, newest first).
	OrderBy string
	Limit   int
	Offset  int
}

// TaskRepository - interface for tasks table
type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter TaskFilter) ([]Task, error)
	Count(ctx context.Context, filter TaskFilter) (int64, error)
	// AdvanceStatus sets status on the row only if it currently holds one of
	// from. It returns false when no row matched.
	AdvanceStatus(ctx context.Context, id string, from []Status, to Status) (bool, error)
}
