package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	DecideRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	notifier     notification.Notifier
}

func NewLeaveHandler(leaveService leave.LeaveService, notifier notification.Notifier) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		notifier:     notifier,
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	leaveRequest, err := l.leaveService.CreateLeaveRequest(r.Context(), actor, req)
	if err != nil {
		failMutation(w, l.notifier, actor.ID, "CreateRequest", err)
		return
	}

	l.notifier.Notify(actor.ID, notification.Success("Leave Request Submitted", leaveRequest.Type))
	response.Created(w, "Leave request created successfully", leaveRequest)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	filter, page, limit, err := leaveFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.ListMyLeaveRequests(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result, page, limit, result.Total)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	filter, page, limit, err := leaveFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	filter.UserID = optionalQuery(r, "user_id")

	result, err := l.leaveService.ListLeaveRequests(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result, page, limit, result.Total)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	result, err := l.leaveService.GetLeaveRequest(r.Context(), actor, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DecideRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DecideRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req leave.DecideLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DecideRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.DecideLeaveRequest(r.Context(), actor, chi.URLParam(r, "id"), *req.Approved)
	if err != nil {
		failMutation(w, l.notifier, actor.ID, "DecideRequest", err)
		return
	}

	notifyLeaveDecision(l.notifier, actor.ID, result)
	response.SuccessWithMessage(w, "Leave request "+string(result.Status), result)
}

func leaveFilterFromQuery(r *http.Request) (leave.LeaveRequestFilter, int, int, error) {
	page, limit, offset := pagination(r)
	filter := leave.LeaveRequestFilter{Limit: limit, Offset: offset}

	if status := r.URL.Query().Get("status"); status != "" {
		s := leave.LeaveRequestStatus(status)
		switch s {
		case leave.LeaveRequestStatusPending, leave.LeaveRequestStatusApproved, leave.LeaveRequestStatusRejected:
			filter.Status = &s
		default:
			return filter, page, limit, validator.ValidationErrors{{
				Field:   "status",
				Message: "status must be one of: pending, approved, rejected",
			}}
		}
	}
	return filter, page, limit, nil
}
