package server

import "github.com/jrsteele09/monitor-dashboard/guard"

// Route path constants
// All console routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login & Logout
	RouteLogin      = guard.LoginPath
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Auth Routes - Signup
	RouteSignup     = "/signup"
	RouteAuthSignup = "/auth/signup"

	// Pages
	RouteDashboard = guard.HomePath
	RouteUsers     = "/users"
	RouteLogs      = "/logs"
	RouteSettings  = "/settings"

	// Local views: render the loaded page again without fetching
	RouteUsersView = "/users/view"
	RouteLogsView  = "/logs/view"

	// User management
	RouteUserRole   = "/users/{id}/role"
	RouteUserDelete = "/users/{id}/delete"

	RouteMetrics = "/metrics"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
