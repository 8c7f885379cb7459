package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	AddEmployee(w http.ResponseWriter, r *http.Request)
	GetMe(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService user.EmployeeService
	notifier        notification.Notifier
}

func NewEmployeeHandler(employeeService user.EmployeeService, notifier notification.Notifier) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
		notifier:        notifier,
	}
}

// ListEmployees implements EmployeeHandler.
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	page, limit, offset := pagination(r)
	filter := user.UserFilter{
		Department: optionalQuery(r, "department"),
		OrderBy:    r.URL.Query().Get("order_by"),
		Limit:      limit,
		Offset:     offset,
	}
	if role := r.URL.Query().Get("role"); role != "" {
		ro := user.Role(role)
		if !ro.Valid() {
			response.HandleError(w, validator.ValidationErrors{{
				Field:   "role",
				Message: "role must be one of: owner, admin, employee",
			}})
			return
		}
		filter.Role = &ro
	}

	result, err := h.employeeService.ListEmployees(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result, page, limit, result.Total)
}

// AddEmployee implements EmployeeHandler.
func (h *employeeHandlerImpl) AddEmployee(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req user.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.AddEmployee(r.Context(), actor, req)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "AddEmployee", err)
		return
	}

	h.notifier.Notify(actor.ID, notification.Success("Employee Added", result.Profile.Name))
	response.Created(w, "Employee added successfully", result)
}

// GetMe implements EmployeeHandler.
func (h *employeeHandlerImpl) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := h.employeeService.GetProfile(r.Context(), actor.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateMe implements EmployeeHandler.
func (h *employeeHandlerImpl) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateMe decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.UpdateProfile(r.Context(), actor, req)
	if err != nil {
		failMutation(w, h.notifier, actor.ID, "UpdateMe", err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated successfully", result)
}
