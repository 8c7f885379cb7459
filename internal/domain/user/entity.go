package user

import "time"

type Role string

const (
	RoleOwner    Role = "owner"    // Organisation owner - full access
	RoleAdmin    Role = "admin"    // Manages a department
	RoleEmployee Role = "employee" // Regular employee
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

// Color is the badge color shown next to the role.
func (r Role) Color() string {
	switch r {
	case RoleOwner:
		return "purple"
	case RoleAdmin:
		return "blue"
	case RoleEmployee:
		return "green"
	}
	return "gray"
}

// User is a row of the profiles table.
type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	Department   *string
	JoinDate     time.Time
	PasswordHash *string
	GoogleID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOwner checks if user is the organisation owner
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}

// IsManager checks if user is admin or owner
func (u *User) IsManager() bool {
	return u.Role == RoleAdmin || u.Role == RoleOwner
}

// Actor is the authenticated caller as carried in the access token.
type Actor struct {
	ID         string
	Role       Role
	Department *string
}

// IsManager checks if the actor can approve and assign
func (a Actor) IsManager() bool {
	return a.Role == RoleAdmin || a.Role == RoleOwner
}

// TeamScope returns the department an actor's team views are restricted to.
// Owners and admins without a department see everyone (nil).
func (a Actor) TeamScope() *string {
	if a.Role != RoleAdmin {
		return nil
	}
	if a.Department == nil || *a.Department == "" {
		return nil
	}
	return a.Department
}

// CanSee reports whether the actor's team scope includes a member of department.
func (a Actor) CanSee(department *string) bool {
	scope := a.TeamScope()
	if scope == nil {
		return true
	}
	return department != nil && *department == *scope
}

// CanApproveFor is CanSee widened to profiles outside every department, such
// as the owner, who have no team admin of their own.
func (a Actor) CanApproveFor(department *string) bool {
	return department == nil || a.CanSee(department)
}
