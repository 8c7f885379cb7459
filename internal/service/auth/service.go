package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	revocations auth.TokenRevocationRepository
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service, revocations auth.TokenRevocationRepository) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
		revocations:    revocations,
	}
}

func (a *AuthServiceImpl) issueTokens(u user.User) (auth.TokenResponse, error) {
	var resp auth.TokenResponse
	var err error

	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(u)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	resp.RefreshToken, resp.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return resp, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(userData)
}

// LoginWithGoogle implements auth.AuthService. Only existing profiles can
// sign in; the Google account is linked on first use.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, email string, googleID string) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByGoogleID(ctx, googleID)
	if err == nil {
		return a.issueTokens(userData)
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by google id: %w", err)
	}

	userData, err = a.UserRepository.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if userData.GoogleID != nil && *userData.GoogleID != googleID {
		return auth.TokenResponse{}, user.ErrGoogleIDExists
	}

	if err := a.UserRepository.LinkGoogle(ctx, userData.ID, googleID); err != nil {
		return auth.TokenResponse{}, err
	}
	slog.Info("linked google account", "user_id", userData.ID)

	return a.issueTokens(userData)
}

// RefreshToken implements auth.AuthService. The presented refresh token is
// revoked so it can only be used once.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userID, expiresAt, err := a.Service.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	// Revoking is the claim: of two concurrent refreshes only one sets the key.
	claimed, err := a.revocations.Revoke(ctx, req.RefreshToken, expiresAt)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if !claimed {
		return auth.TokenResponse{}, auth.ErrTokenRevoked
	}

	return a.issueTokens(userData)
}

// Logout implements auth.AuthService. Tokens that no longer verify are
// skipped; they cannot be used anyway.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	for _, token := range []string{req.AccessToken, req.RefreshToken} {
		if token == "" {
			continue
		}
		expiresAt, err := a.Service.ExpiresAt(token)
		if err != nil {
			continue
		}
		if _, err := a.revocations.Revoke(ctx, token, expiresAt); err != nil {
			return fmt.Errorf("failed to revoke token: %w", err)
		}
	}
	return nil
}
