package leave

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, actor user.Actor, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	DecideLeaveRequest(ctx context.Context, actor user.Actor, requestID string, approved bool) (LeaveRequestResponse, error)
	GetLeaveRequest(ctx context.Context, actor user.Actor, requestID string) (LeaveRequestResponse, error)
	ListMyLeaveRequests(ctx context.Context, actor user.Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, actor user.Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
}
