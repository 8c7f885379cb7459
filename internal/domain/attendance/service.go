package attendance

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type AttendanceService interface {
	CheckIn(ctx context.Context, actor user.Actor, req CheckRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, actor user.Actor, req CheckRequest) (AttendanceResponse, error)
	Toggle(ctx context.Context, actor user.Actor) (ToggleResponse, error)
	GetToday(ctx context.Context, actor user.Actor) (TodayResponse, error)
	ListMyAttendance(ctx context.Context, actor user.Actor, month string) (ListAttendanceResponse, error)
}
