package mockapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/monitor-dashboard/access"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/jrsteele09/monitor-dashboard/users"
)

type contextKey string

const contextKeyUser contextKey = "user"

// UserFromContext returns the user RequireAuth attached to the request.
func UserFromContext(ctx context.Context) (*users.User, bool) {
	u, ok := ctx.Value(contextKeyUser).(*users.User)
	return u, ok
}

// RequireAuth validates the Bearer access token and attaches its user to the request.
func (s *Server) RequireAuth() httpx.Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				httpx.WriteError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			user, err := s.auth.Authenticate(strings.TrimSpace(parts[1]))
			switch {
			case errors.Is(err, errors.ErrForbidden):
				httpx.WriteError(w, http.StatusForbidden, "Account suspended")
				return
			case err != nil:
				httpx.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next(w, r.WithContext(context.WithValue(r.Context(), contextKeyUser, user)))
		}
	}
}

// RequireRole must run after RequireAuth.
func (s *Server) RequireRole(roles ...users.Role) httpx.Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if !access.IsAllowed(user.Role, roles...) {
				httpx.WriteError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next(w, r)
		}
	}
}
