package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// OwnerSeed describes the owner account created on first start.
type OwnerSeed struct {
	Name     string
	Email    string
	Password string
}

// EnsureOwner creates the owner profile when no profile with that email
// exists yet. An existing profile is left untouched.
func EnsureOwner(ctx context.Context, users user.UserRepository, seed OwnerSeed) (user.User, error) {
	seed.Email = strings.ToLower(strings.TrimSpace(seed.Email))
	existing, err := users.GetByEmail(ctx, seed.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to look up owner: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash owner password: %w", err)
	}
	hashStr := string(hash)

	name := seed.Name
	if name == "" {
		name = "Owner"
	}

	created, err := users.Create(ctx, user.User{
		Name:         name,
		Email:        seed.Email,
		Role:         user.RoleOwner,
		PasswordHash: &hashStr,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create owner: %w", err)
	}

	slog.Info("seeded owner account", "email", created.Email, "user_id", created.ID)
	return created, nil
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }
