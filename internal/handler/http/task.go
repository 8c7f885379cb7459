package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type TaskHandler interface {
	Assign(w http.ResponseWriter, r *http.Request)
	Start(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	taskService task.TaskService
	notifier    notification.Notifier
}

func NewTaskHandler(taskService task.TaskService, notifier notification.Notifier) TaskHandler {
	return &taskHandlerImpl{
		taskService: taskService,
		notifier:    notifier,
	}
}

// Assign implements TaskHandler.
func (h *taskHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req task.AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AssignTask decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.taskService.AssignTask(r.Context(), actor, req)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "AssignTask", err)
		return
	}

	h.notifier.Notify(actor.ID, notification.Success("Task Assigned", result.Title))
	if result.AssigneeID != actor.ID {
		h.notifier.Notify(result.AssigneeID, notification.Success("Task Assigned", result.Title))
	}
	response.Created(w, "Task assigned successfully", result)
}

// Start implements TaskHandler.
func (h *taskHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.taskService.StartTask(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "StartTask", err)
		return
	}

	response.SuccessWithMessage(w, "Task started", result)
}

// Complete implements TaskHandler.
func (h *taskHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.taskService.CompleteTask(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "CompleteTask", err)
		return
	}

	h.notifier.Notify(actor.ID, notification.Success("Task Completed", result.Title))
	response.SuccessWithMessage(w, "Task completed", result)
}

// ListMy implements TaskHandler.
func (h *taskHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	filter, page, limit, err := taskFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.taskService.ListMyTasks(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result, page, limit, result.Total)
}

// List implements TaskHandler.
func (h *taskHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	filter, page, limit, err := taskFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	filter.AssigneeID = optionalQuery(r, "assignee_id")

	result, err := h.taskService.ListTasks(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result, page, limit, result.Total)
}

func taskFilterFromQuery(r *http.Request) (task.TaskFilter, int, int, error) {
	page, limit, offset := pagination(r)
	filter := task.TaskFilter{
		Limit:   limit,
		Offset:  offset,
		OrderBy: r.URL.Query().Get("order_by"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := task.Status(status)
		switch s {
		case task.StatusPending, task.StatusInProgress, task.StatusCompleted:
			filter.Status = &s
		default:
			return filter, page, limit, validator.ValidationErrors{{
				Field:   "status",
				Message: "status must be one of: pending, in_progress, completed",
			}}
		}
	}
	return filter, page, limit, nil
}
