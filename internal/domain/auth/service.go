package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	LoginWithGoogle(ctx context.Context, email string, googleID string) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (TokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
}

// TokenRevocationRepository stores revoked tokens until they would have
// expired anyway.
type TokenRevocationRepository interface {
	// Revoke reports false when the token was already revoked, so callers
	// can treat it as an atomic claim.
	Revoke(ctx context.Context, token string, expiresAt int64) (bool, error)
	IsRevoked(ctx context.Context, token string) (bool, error)
}
