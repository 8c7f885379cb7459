package task

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
)

type TaskService interface {
	AssignTask(ctx context.Context, actor user.Actor, req AssignTaskRequest) (TaskResponse, error)
	StartTask(ctx context.Context, actor user.Actor, taskID string) (TaskResponse, error)
	CompleteTask(ctx context.Context, actor user.Actor, taskID string) (TaskResponse, error)
	ListMyTasks(ctx context.Context, actor user.Actor, filter TaskFilter) (ListTaskResponse, error)
	ListTasks(ctx context.Context, actor user.Actor, filter TaskFilter) (ListTaskResponse, error)
}
