package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/monitor-dashboard/access"
	"github.com/jrsteele09/monitor-dashboard/guard"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/jrsteele09/monitor-dashboard/internal/obs"
)

// Page requirements. No roles means any signed-in user.
var (
	dashboardRoute = guard.Route{Path: RouteDashboard, Title: "Dashboard"}
	usersRoute     = guard.Route{Path: RouteUsers, Title: "Users", Roles: access.Admins}
	logsRoute      = guard.Route{Path: RouteLogs, Title: "Activity Logs"}
	settingsRoute  = guard.Route{Path: RouteSettings, Title: "Settings", Roles: access.Admins}
)

// navigation is the sidebar, in display order.
var navigation = []guard.Route{dashboardRoute, usersRoute, logsRoute, settingsRoute}

func (s *Server) initRoutes() {
	// LOGIN
	s.router.RegisterRouteHandler("GET "+RouteLogin, httpx.ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))
	s.router.RegisterRouteHandler("POST "+RouteAuthLogin, httpx.ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.router.RegisterRouteHandler("GET "+RouteAuthLogout, httpx.ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.router.RegisterRouteHandler("POST "+RouteAuthLogout, httpx.ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// SIGNUP
	s.router.RegisterRouteHandler("GET "+RouteSignup, httpx.ChainMiddleware(s.SignupGetHandler(), s.HTMLMiddleWare()...))
	s.router.RegisterRouteHandler("POST "+RouteAuthSignup, httpx.ChainMiddleware(s.SignupPostHandler(), s.HTMLMiddleWare()...))

	// Pages (guarded)
	s.router.RegisterRouteHandler("GET "+RouteDashboard, httpx.ChainMiddleware(s.DashboardHandler(), s.PageMiddleware(dashboardRoute)...))

	s.router.RegisterRouteHandler("GET "+RouteUsers, httpx.ChainMiddleware(s.UsersPageHandler(), s.PageMiddleware(usersRoute)...))
	s.router.RegisterRouteHandler("GET "+RouteUsersView, httpx.ChainMiddleware(s.UsersViewHandler(), s.PageMiddleware(usersRoute)...))
	s.router.RegisterRouteHandler("POST "+RouteUserRole, httpx.ChainMiddleware(s.UpdateUserRoleHandler(), s.PageMiddleware(usersRoute)...))
	s.router.RegisterRouteHandler("POST "+RouteUserDelete, httpx.ChainMiddleware(s.DeleteUserHandler(), s.PageMiddleware(usersRoute)...))

	s.router.RegisterRouteHandler("GET "+RouteLogs, httpx.ChainMiddleware(s.LogsPageHandler(), s.PageMiddleware(logsRoute)...))
	s.router.RegisterRouteHandler("GET "+RouteLogsView, httpx.ChainMiddleware(s.LogsViewHandler(), s.PageMiddleware(logsRoute)...))

	s.router.RegisterRouteHandler("GET "+RouteSettings, httpx.ChainMiddleware(s.SettingsPageHandler(), s.PageMiddleware(settingsRoute)...))
	s.router.RegisterRouteHandler("POST "+RouteSettings, httpx.ChainMiddleware(s.SettingsUpdateHandler(), s.PageMiddleware(settingsRoute)...))

	s.router.RegisterRouteHandler("GET "+RouteMetrics, obs.Handler(s.gatherer))
	s.router.RegisterRouteHandler("GET "+RouteStaticCSS, httpx.ChainMiddleware(s.serveFileHandler("css"), s.StaticMiddleware()...))

	// Anything else lands on the dashboard, whose guard takes it from there
	s.router.RegisterRouteFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		redirectSuccess(w, r, RouteDashboard)
	})
}

func (s *Server) serveFileHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file := r.PathValue("file")
		if file == "" || strings.Contains(file, "..") {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, dir+"/"+file); err != nil {
			httpx.LogError(r.Method, r.URL.Path, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		}
	}
}
