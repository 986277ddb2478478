package access_test

import (
	"testing"

	"github.com/jrsteele09/monitor-dashboard/access"
	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/stretchr/testify/require"
)

func TestIsAllowed(t *testing.T) {
	t.Run("no requirement allows every role", func(t *testing.T) {
		for _, r := range users.Roles {
			require.True(t, access.IsAllowed(r))
			require.True(t, access.IsAllowed(r, []users.Role{}...))
		}
	})

	t.Run("admins requirement", func(t *testing.T) {
		require.False(t, access.IsAllowed(users.RoleEmployee, access.Admins...))
		require.True(t, access.IsAllowed(users.RoleAdmin, access.Admins...))
		require.True(t, access.IsAllowed(users.RoleSuperAdmin, access.Admins...))
	})

	t.Run("single role", func(t *testing.T) {
		require.True(t, access.IsAllowed(users.RoleSuperAdmin, users.RoleSuperAdmin))
		require.False(t, access.IsAllowed(users.RoleAdmin, users.RoleSuperAdmin))
	})

	t.Run("empty role never matches a requirement", func(t *testing.T) {
		require.False(t, access.IsAllowed("", access.Admins...))
	})
}
