package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// DashboardHandler serves the role dashboards and the actions that can be
// taken from them.
type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
	DecideLeave(w http.ResponseWriter, r *http.Request)
	CompleteTask(w http.ResponseWriter, r *http.Request)
	ToggleAttendance(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	notifier         notification.Notifier
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, notifier notification.Notifier) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		notifier:         notifier,
	}
}

// GetDashboard implements DashboardHandler.
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetDashboard(r.Context(), actor)
	if err != nil {
		slog.Error("GetDashboard service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DecideLeave implements DashboardHandler.
func (h *dashboardHandlerImpl) DecideLeave(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req leave.DecideLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DecideLeave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.DecideLeave(r.Context(), actor, chi.URLParam(r, "id"), *req.Approved)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "DecideLeave", err)
		return
	}

	notifyLeaveDecision(h.notifier, actor.ID, result.LeaveRequest)
	response.SuccessWithMessage(w, "Leave request "+string(result.LeaveRequest.Status), result)
}

// CompleteTask implements DashboardHandler.
func (h *dashboardHandlerImpl) CompleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.CompleteTask(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "CompleteTask", err)
		return
	}

	h.notifier.Notify(actor.ID, notification.Success("Task Completed", result.Task.Title))
	response.SuccessWithMessage(w, "Task completed", result)
}

// ToggleAttendance implements DashboardHandler.
func (h *dashboardHandlerImpl) ToggleAttendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.ToggleAttendance(r.Context(), actor)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "ToggleAttendance", err)
		return
	}

	title := attendanceTitle(result.Action)
	h.notifier.Notify(actor.ID, notification.Success(title, ""))
	response.SuccessWithMessage(w, title, result)
}

// notifyLeaveDecision tells both the approver and the requester about a
// decided leave request.
func notifyLeaveDecision(notifier notification.Notifier, approverID string, lr leave.LeaveRequestResponse) {
	title := "Leave Rejected"
	if lr.Status == leave.LeaveRequestStatusApproved {
		title = "Leave Approved"
	}
	description := lr.Type + " " + lr.StartDate + " to " + lr.EndDate
	notifier.Notify(approverID, notification.Success(title, description))
	if lr.UserID != approverID {
		notifier.Notify(lr.UserID, notification.Success(title, description))
	}
}

func attendanceTitle(action string) string {
	if action == attendance.ActionCheckOut {
		return "Checked Out"
	}
	return "Checked In"
}
