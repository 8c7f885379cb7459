package dashboard

import "github.com/cmlabs-hris/ems-backend-go/internal/domain/user"

// Variant names the dashboard rendered for a role.
type Variant string

const (
	VariantOwner    Variant = "owner"
	VariantAdmin    Variant = "admin"
	VariantEmployee Variant = "employee"
	VariantInvalid  Variant = "invalid_role"
)

const InvalidRoleMessage = "Invalid user role"

// Dispatch maps a role to its dashboard. Unknown roles get VariantInvalid.
func Dispatch(role user.Role) Variant {
	switch role {
	case user.RoleOwner:
		return VariantOwner
	case user.RoleAdmin:
		return VariantAdmin
	case user.RoleEmployee:
		return VariantEmployee
	default:
		return VariantInvalid
	}
}
