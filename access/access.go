// Package access is the single place where roles are compared.
package access

import "github.com/jrsteele09/monitor-dashboard/users"

// Admins is the requirement for user management and organization settings.
var Admins = []users.Role{users.RoleAdmin, users.RoleSuperAdmin}

// IsAllowed reports whether current satisfies required. An empty requirement allows every role.
func IsAllowed(current users.Role, required ...users.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if r == current {
			return true
		}
	}
	return false
}
