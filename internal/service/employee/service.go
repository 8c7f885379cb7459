package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const temporaryPasswordLength = 12

type EmployeeServiceImpl struct {
	tx       database.TxManager
	userRepo user.UserRepository
	now      func() time.Time
}

func NewEmployeeService(tx database.TxManager, userRepo user.UserRepository) user.EmployeeService {
	return &EmployeeServiceImpl{
		tx:       tx,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// AddEmployee implements user.EmployeeService. Owners may add admins and
// employees; admins may only add employees, who land in the admin's
// department.
func (s *EmployeeServiceImpl) AddEmployee(ctx context.Context, actor user.Actor, req user.CreateEmployeeRequest) (user.CreateEmployeeResponse, error) {
	if !actor.IsManager() {
		return user.CreateEmployeeResponse{}, user.ErrManagerAccessRequired
	}
	if err := req.Validate(); err != nil {
		return user.CreateEmployeeResponse{}, err
	}
	if actor.Role == user.RoleAdmin {
		if req.Role != user.RoleEmployee {
			return user.CreateEmployeeResponse{}, user.ErrRoleNotAssignable
		}
		if scope := actor.TeamScope(); scope != nil {
			dept := *scope
			req.Department = &dept
		}
	}
	if req.Department != nil && strings.TrimSpace(*req.Department) == "" {
		req.Department = nil
	}

	joinDate := dateOnly(s.now())
	if req.JoinDate != nil {
		joinDate, _ = validator.IsValidDate(*req.JoinDate)
	}

	var temporary *string
	password := ""
	if req.Password != nil {
		password = *req.Password
	} else {
		password = generatePassword()
		temporary = &password
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.CreateEmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	var created user.User
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.userRepo.GetByEmail(txCtx, req.Email); err == nil {
			return user.ErrUserEmailExists
		} else if !errors.Is(err, user.ErrUserNotFound) {
			return err
		}

		var createErr error
		created, createErr = s.userRepo.Create(txCtx, user.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        req.Email,
			Role:         req.Role,
			Department:   req.Department,
			JoinDate:     joinDate,
			PasswordHash: &hashStr,
		})
		return createErr
	})
	if err != nil {
		return user.CreateEmployeeResponse{}, err
	}

	slog.Info("employee added", "user_id", created.ID, "role", created.Role, "added_by", actor.ID)

	return user.CreateEmployeeResponse{
		Profile:           user.NewProfileResponse(created),
		TemporaryPassword: temporary,
	}, nil
}

// ListEmployees implements user.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, actor user.Actor, filter user.UserFilter) (user.ListEmployeesResponse, error) {
	if !actor.IsManager() {
		return user.ListEmployeesResponse{}, user.ErrManagerAccessRequired
	}
	if scope := actor.TeamScope(); scope != nil {
		filter.Department = scope
	}

	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return user.ListEmployeesResponse{}, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return user.ListEmployeesResponse{}, err
	}

	profiles := make([]user.ProfileResponse, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, user.NewProfileResponse(u))
	}
	return user.ListEmployeesResponse{Employees: profiles, Total: total}, nil
}

// GetProfile implements user.EmployeeService.
func (s *EmployeeServiceImpl) GetProfile(ctx context.Context, id string) (user.ProfileResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return user.ProfileResponse{}, err
	}
	return user.NewProfileResponse(u), nil
}

// UpdateProfile implements user.EmployeeService. Only the owner may change
// a department, since departments define admin teams.
func (s *EmployeeServiceImpl) UpdateProfile(ctx context.Context, actor user.Actor, req user.UpdateProfileRequest) (user.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return user.ProfileResponse{}, err
	}
	if req.Department != nil && actor.Role != user.RoleOwner {
		return user.ProfileResponse{}, user.ErrInsufficientPermissions
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}

	if err := s.userRepo.Update(ctx, actor.ID, req); err != nil {
		return user.ProfileResponse{}, err
	}
	return s.GetProfile(ctx, actor.ID)
}

func generatePassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:temporaryPasswordLength]
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
