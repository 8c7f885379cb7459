package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified, unrevoked access token.
// revocations may be nil, in which case the denylist is not consulted.
func AuthRequired(ja *jwtauth.JWTAuth, revocations auth.TokenRevocationRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), jwtauth.TokenFromHeader(r))
				if err != nil {
					slog.Error("token revocation check failed", "error", err)
					response.InternalServerError(w, "An unexpected error occurred")
					return
				}
				if revoked {
					response.HandleError(w, auth.ErrTokenRevoked)
					return
				}
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// ActorFromContext builds the caller from the verified token claims.
func ActorFromContext(ctx context.Context) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Actor{}, auth.ErrNotAuthenticated
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return user.Actor{}, auth.ErrNotAuthenticated
	}

	actor := user.Actor{ID: userID, Role: user.Role(role)}
	if dept, ok := claims["department"].(string); ok && dept != "" {
		actor.Department = &dept
	}
	return actor, nil
}
