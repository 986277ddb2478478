package mockapi

import (
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/access"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
)

const (
	RouteAuthLogin  = "/api/auth/login"
	RouteAuthLogout = "/api/auth/logout"
	RouteAuthSignup = "/api/auth/signup"
	RouteAuthMe     = "/api/auth/me"

	RouteUsers    = "/api/users"
	RouteUser     = "/api/users/{id}"
	RouteUserRole = "/api/users/{id}/role"

	RouteLogs       = "/api/logs"
	RouteLogSummary = "/api/logs/summary"

	RouteOrganization = "/api/organizations/me"
)

func (s *Server) initRoutes() {
	public := s.APIMiddleware()
	signedIn := s.APIMiddleware(s.RequireAuth())
	admins := s.APIMiddleware(s.RequireAuth(), s.RequireRole(access.Admins...))

	s.router.RegisterRouteHandler("OPTIONS /api/", httpx.ChainMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, public...))

	s.router.RegisterRouteHandler("POST "+RouteAuthLogin, httpx.ChainMiddleware(s.LoginHandler(), public...))
	s.router.RegisterRouteHandler("POST "+RouteAuthSignup, httpx.ChainMiddleware(s.SignupHandler(), public...))
	s.router.RegisterRouteHandler("GET "+RouteAuthMe, httpx.ChainMiddleware(s.MeHandler(), signedIn...))
	s.router.RegisterRouteHandler("POST "+RouteAuthLogout, httpx.ChainMiddleware(s.LogoutHandler(), signedIn...))

	s.router.RegisterRouteHandler("GET "+RouteUsers, httpx.ChainMiddleware(s.ListUsersHandler(), admins...))
	s.router.RegisterRouteHandler("PATCH "+RouteUserRole, httpx.ChainMiddleware(s.UpdateUserRoleHandler(), admins...))
	s.router.RegisterRouteHandler("DELETE "+RouteUser, httpx.ChainMiddleware(s.DeleteUserHandler(), admins...))

	s.router.RegisterRouteHandler("GET "+RouteLogs, httpx.ChainMiddleware(s.ListLogsHandler(), signedIn...))
	s.router.RegisterRouteHandler("GET "+RouteLogSummary, httpx.ChainMiddleware(s.LogSummaryHandler(), signedIn...))

	s.router.RegisterRouteHandler("GET "+RouteOrganization, httpx.ChainMiddleware(s.GetOrganizationHandler(), signedIn...))
	s.router.RegisterRouteHandler("PUT "+RouteOrganization, httpx.ChainMiddleware(s.UpdateOrganizationHandler(), admins...))

	s.router.RegisterRouteFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "Not found")
	})
}

func (s *Server) APIMiddleware(mw ...httpx.Middleware) []httpx.Middleware {
	chained := []httpx.Middleware{
		httpx.LoggingMiddleware(s.env),
		httpx.RecoverMiddleware,
		httpx.CorsMiddleware(s.config),
	}
	return append(chained, mw...)
}
