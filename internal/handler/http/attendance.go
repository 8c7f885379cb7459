package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Toggle(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	notifier          notification.Notifier
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, notifier notification.Notifier) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		notifier:          notifier,
	}
}

// decodeCheckRequest accepts an empty body.
func decodeCheckRequest(r *http.Request) (attendance.CheckRequest, error) {
	var req attendance.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	req, err := decodeCheckRequest(r)
	if err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), actor, req)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "CheckIn", err)
		return
	}

	h.notifier.Notify(actor.ID, notification.Success("Checked In", ""))
	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	req, err := decodeCheckRequest(r)
	if err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), actor, req)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "CheckOut", err)
		return
	}

	h.notifier.Notify(actor.ID, notification.Success("Checked Out", ""))
	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// Toggle implements AttendanceHandler.
func (h *attendanceHandlerImpl) Toggle(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.Toggle(r.Context(), actor)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "ToggleAttendance", err)
		return
	}

	title := attendanceTitle(result.Action)
	h.notifier.Notify(actor.ID, notification.Success(title, ""))
	response.SuccessWithMessage(w, title, result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMy implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ListMyAttendance(r.Context(), actor, r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
