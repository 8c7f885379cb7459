package user

import "context"

type EmployeeService interface {
	AddEmployee(ctx context.Context, actor Actor, req CreateEmployeeRequest) (CreateEmployeeResponse, error)
	ListEmployees(ctx context.Context, actor Actor, filter UserFilter) (ListEmployeesResponse, error)
	GetProfile(ctx context.Context, id string) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req UpdateProfileRequest) (ProfileResponse, error)
}
