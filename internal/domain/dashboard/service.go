package dashboard

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type DashboardService interface {
	// GetDashboard loads the caller's profile and builds the dashboard its
	// role dispatches to.
	GetDashboard(ctx context.Context, actor user.Actor) (DashboardResponse, error)
	DecideLeave(ctx context.Context, actor user.Actor, leaveID string, approved bool) (DecideLeaveResponse, error)
	CompleteTask(ctx context.Context, actor user.Actor, taskID string) (CompleteTaskResponse, error)
	ToggleAttendance(ctx context.Context, actor user.Actor) (ToggleAttendanceResponse, error)
}
