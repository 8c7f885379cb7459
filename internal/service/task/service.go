package task

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type TaskServiceImpl struct {
	taskRepo task.TaskRepository
	userRepo user.UserRepository
}

func NewTaskService(taskRepo task.TaskRepository, userRepo user.UserRepository) task.TaskService {
	return &TaskServiceImpl{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// AssignTask implements task.TaskService.
func (s *TaskServiceImpl) AssignTask(ctx context.Context, actor user.Actor, req task.AssignTaskRequest) (task.TaskResponse, error) {
	if !actor.IsManager() {
		return task.TaskResponse{}, user.ErrManagerAccessRequired
	}
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	assignee, err := s.userRepo.GetByID(ctx, req.AssigneeID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return task.TaskResponse{}, task.ErrAssigneeNotFound
		}
		return task.TaskResponse{}, err
	}
	if !actor.CanSee(assignee.Department) {
		return task.TaskResponse{}, user.ErrOutsideTeam
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  assignee.ID,
		AssignedBy:  actor.ID,
		Priority:    req.Priority,
		Status:      task.StatusPending,
		DueDate:     req.ParsedDueDate(),
		Category:    req.Category,
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	name := assignee.Name
	created.AssigneeName = &name
	created.AssigneeDepartment = assignee.Department
	return task.NewTaskResponse(created), nil
}

// StartTask implements task.TaskService.
func (s *TaskServiceImpl) StartTask(ctx context.Context, actor user.Actor, taskID string) (task.TaskResponse, error) {
	return s.advance(ctx, actor, taskID, task.StatusInProgress)
}

// CompleteTask implements task.TaskService.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, actor user.Actor, taskID string) (task.TaskResponse, error) {
	return s.advance(ctx, actor, taskID, task.StatusCompleted)
}

func (s *TaskServiceImpl) advance(ctx context.Context, actor user.Actor, taskID string, to task.Status) (task.TaskResponse, error) {
	// ids only come from the URL path; anything malformed cannot exist
	if !validator.IsValidUUID(taskID) {
		return task.TaskResponse{}, task.ErrTaskNotFound
	}
	current, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if err := s.checkCanUpdate(actor, current); err != nil {
		return task.TaskResponse{}, err
	}
	if err := transitionError(current.Status, to); err != nil {
		return task.TaskResponse{}, err
	}

	from := fromStatuses(to)
	ok, err := s.taskRepo.AdvanceStatus(ctx, taskID, from, to)
	if err != nil {
		return task.TaskResponse{}, err
	}
	if !ok {
		// lost a race with another update; report what the row holds now
		latest, err := s.taskRepo.GetByID(ctx, taskID)
		if err != nil {
			return task.TaskResponse{}, err
		}
		if terr := transitionError(latest.Status, to); terr != nil {
			return task.TaskResponse{}, terr
		}
		return task.TaskResponse{}, task.ErrInvalidTransition
	}

	updated, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return task.NewTaskResponse(updated), nil
}

func (s *TaskServiceImpl) checkCanUpdate(actor user.Actor, t task.Task) error {
	if t.AssigneeID == actor.ID {
		return nil
	}
	if !actor.IsManager() {
		return task.ErrNotTaskAssignee
	}
	if !actor.CanSee(t.AssigneeDepartment) {
		return user.ErrOutsideTeam
	}
	return nil
}

func transitionError(current, to task.Status) error {
	if current == task.StatusCompleted {
		return task.ErrTaskAlreadyCompleted
	}
	if !current.CanAdvanceTo(to) {
		return task.ErrInvalidTransition
	}
	return nil
}

// fromStatuses lists the states a task may be in to move to "to".
func fromStatuses(to task.Status) []task.Status {
	var from []task.Status
	for _, st := range []task.Status{task.StatusPending, task.StatusInProgress, task.StatusCompleted} {
		if st.CanAdvanceTo(to) {
			from = append(from, st)
		}
	}
	return from
}

// ListMyTasks implements task.TaskService.
func (s *TaskServiceImpl) ListMyTasks(ctx context.Context, actor user.Actor, filter task.TaskFilter) (task.ListTaskResponse, error) {
	filter.AssigneeID = &actor.ID
	filter.Department = nil
	if filter.OrderBy == "" {
		filter.OrderBy = "due_date"
	}
	return s.list(ctx, filter)
}

// ListTasks implements task.TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, actor user.Actor, filter task.TaskFilter) (task.ListTaskResponse, error) {
	if !actor.IsManager() {
		return task.ListTaskResponse{}, user.ErrManagerAccessRequired
	}
	filter.Department = actor.TeamScope()
	return s.list(ctx, filter)
}

func (s *TaskServiceImpl) list(ctx context.Context, filter task.TaskFilter) (task.ListTaskResponse, error) {
	items, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return task.ListTaskResponse{}, err
	}
	total, err := s.taskRepo.Count(ctx, filter)
	if err != nil {
		return task.ListTaskResponse{}, err
	}
	return task.ListTaskResponse{
		Tasks: task.NewTaskResponses(items),
		Total: total,
	}, nil
}
