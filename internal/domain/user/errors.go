package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrGoogleIDExists          = errors.New("google account already linked")
	ErrOwnerAccessRequired     = errors.New("owner access required")
	ErrManagerAccessRequired   = errors.New("admin or owner access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrRoleNotAssignable       = errors.New("role cannot be assigned by caller")
	ErrOutsideTeam             = errors.New("user is outside of your team")
)
