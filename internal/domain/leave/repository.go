package leave

import (
	"context"
	"time"
)

// LeaveRequestFilter narrows list and count queries.
type LeaveRequestFilter struct {
	UserID     *string
	Status     *LeaveRequestStatus
	Department *string
	// IncludeUnassigned widens Department to requesters without a department.
	IncludeUnassigned bool
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	Count(ctx context.Context, filter LeaveRequestFilter) (int64, error)
	// Decide moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the row is no longer pending.
	Decide(ctx context.Context, id string, status LeaveRequestStatus, approverID string, at time.Time) (LeaveRequest, error)
}
