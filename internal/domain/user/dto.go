package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// UserFilter narrows profile list and count queries.
type UserFilter struct {
	Department *string
	Role       *Role
	JoinedFrom *time.Time
	// OrderBy accepts "join_date" (newest first) or "name"; default is name.
	OrderBy string
	Limit   int
	Offset  int
}

type CreateEmployeeRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       Role    `json:"role"`
	Department *string `json:"department,omitempty"`
	JoinDate   *string `json:"join_date,omitempty"`
	Password   *string `json:"password,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if r.Role == "" {
		r.Role = RoleEmployee
	}
	if r.Role != RoleEmployee && r.Role != RoleAdmin {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: admin, employee",
		})
	}

	if r.JoinDate != nil {
		if _, ok := validator.IsValidDate(*r.JoinDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "join_date",
				Message: "join_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Password != nil {
		if len(*r.Password) < 8 {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password must be at least 8 characters",
			})
		} else if len(*r.Password) > validator.MaxPasswordBytes {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password must not exceed 72 bytes",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}
	if r.Name == nil && r.Department == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one field must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProfileResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       Role    `json:"role"`
	RoleColor  string  `json:"role_color"`
	Department *string `json:"department,omitempty"`
	JoinDate   string  `json:"join_date"`
}

func NewProfileResponse(u User) ProfileResponse {
	return ProfileResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		RoleColor:  u.Role.Color(),
		Department: u.Department,
		JoinDate:   u.JoinDate.Format(validator.DateLayout),
	}
}

type CreateEmployeeResponse struct {
	Profile ProfileResponse `json:"profile"`
	// Only set when the password was generated server side.
	TemporaryPassword *string `json:"temporary_password,omitempty"`
}

type ListEmployeesResponse struct {
	Employees []ProfileResponse `json:"employees"`
	Total     int64             `json:"total"`
}
