package user

import "context"

// UserRepository - interface for the profiles table
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByGoogleID(ctx context.Context, googleID string) (User, error)
	List(ctx context.Context, filter UserFilter) ([]User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	Update(ctx context.Context, id string, req UpdateProfileRequest) error
	LinkGoogle(ctx context.Context, id string, googleID string) error
}
