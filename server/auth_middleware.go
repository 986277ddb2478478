package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/guard"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyWorkspace stores the workspace of the requesting tab
const ContextKeyWorkspace ContextKey = "workspace"

func workspaceFrom(ctx context.Context) *workspace {
	ws, _ := ctx.Value(ContextKeyWorkspace).(*workspace)
	return ws
}

// WorkspaceMiddleware attaches the tab's workspace to the request, opening one and
// issuing the tab cookie on first sight.
func (s *Server) WorkspaceMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		if cookie, err := r.Cookie(tabCookieName); err == nil {
			id = cookie.Value
		}
		ws := s.workspaces.attach(id, r.UserAgent())
		ws.touch(s.nowTime())
		if ws.id != id {
			s.SetTabCookie(w, ws.id, r)
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ContextKeyWorkspace, ws)))
	}
}

// RouteGuard gives the session up to SESSION_INIT_WAIT to finish initialising, then
// renders, redirects, or serves the loading placeholder as route decides.
func (s *Server) RouteGuard(route guard.Route) httpx.Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ws := workspaceFrom(r.Context())
			ctx, cancel := context.WithTimeout(r.Context(), s.config.GetSessionInitWait())
			_, _ = ws.session.Wait(ctx)
			cancel()

			switch outcome := route.Decide(ws.session); outcome {
			case guard.Render:
				next(w, r)
			case guard.Loading:
				s.renderLoading(w, r)
			default:
				redirectSuccess(w, r, outcome.Location())
			}
		}
	}
}
