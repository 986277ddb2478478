package server

import (
	"github.com/jrsteele09/monitor-dashboard/guard"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
)

// HTMLMiddleWare is the chain of every page and form route. Each request is bound to
// its tab's workspace.
func (s *Server) HTMLMiddleWare(mw ...httpx.Middleware) []httpx.Middleware {
	chainedMiddleWare := []httpx.Middleware{
		httpx.WWWRedirectMiddleware,
		httpx.LoggingMiddleware(s.env),
		httpx.RecoverMiddleware,
		httpx.FrameSecurityMiddleware,
		httpx.NoStoreMiddleware,
		s.WorkspaceMiddleware,
	}
	chainedMiddleWare = append(chainedMiddleWare, mw...)
	return chainedMiddleWare
}

// PageMiddleware is HTMLMiddleWare behind the route's guard.
func (s *Server) PageMiddleware(route guard.Route, mw ...httpx.Middleware) []httpx.Middleware {
	return s.HTMLMiddleWare(append([]httpx.Middleware{s.RouteGuard(route)}, mw...)...)
}

func (s *Server) StaticMiddleware() []httpx.Middleware {
	return []httpx.Middleware{
		httpx.LoggingMiddleware(s.env),
		httpx.RecoverMiddleware,
		httpx.CacheMiddleware,
		httpx.CompressionMiddleware,
	}
}
