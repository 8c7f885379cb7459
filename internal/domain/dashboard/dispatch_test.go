package dashboard_test

import (
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
)

func TestDispatch(t *testing.T) {
	tests := []struct {
		role user.Role
		want dashboard.Variant
	}{
		{user.RoleOwner, dashboard.VariantOwner},
		{user.RoleAdmin, dashboard.VariantAdmin},
		{user.RoleEmployee, dashboard.VariantEmployee},
		{user.Role(""), dashboard.VariantInvalid},
		{user.Role("superuser"), dashboard.VariantInvalid},
		{user.Role("Owner"), dashboard.VariantInvalid},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, dashboard.Dispatch(tt.role))
		})
	}
}
