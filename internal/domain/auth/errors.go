package auth

import "errors"

var (
	ErrInvalidCredentials         = errors.New("invalid email or password")
	ErrInvalidToken               = errors.New("invalid or expired token")
	ErrTokenRevoked               = errors.New("token has been revoked")
	ErrRefreshTokenCookieNotFound = errors.New("refresh token cookie not found")
	ErrGoogleLoginDisabled        = errors.New("google login is not configured")
	ErrGoogleAccessDeniedByUser   = errors.New("google access denied by user")
	ErrGoogleEmailNotVerified     = errors.New("google email not verified")
	ErrStateMismatch              = errors.New("oauth state mismatch")
	ErrNotAuthenticated           = errors.New("not authenticated")
)
