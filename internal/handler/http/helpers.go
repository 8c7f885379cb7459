package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// actorOrUnauthorized writes a 401 and returns false when the request has no
// authenticated caller.
func actorOrUnauthorized(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return user.Actor{}, false
	}
	return actor, true
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// optionalQuery returns nil for an absent or empty query value.
func optionalQuery(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// pagination reads page and limit, clamped to sane bounds, and returns the
// matching offset.
func pagination(r *http.Request) (page, limit, offset int) {
	page = getIntQueryParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = getIntQueryParam(r, "limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// failMutation answers a failed mutation and, unless the request itself was
// malformed, sends the caller an error notification.
func failMutation(w http.ResponseWriter, notifier notification.Notifier, userID string, op string, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		slog.Error(op+" service error", "error", err, "user_id", userID)
		notifier.Notify(userID, notification.Failure(err))
	}
	response.HandleError(w, err)
}
