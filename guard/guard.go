// Package guard decides what a protected page request gets to see.
package guard

import (
	"github.com/jrsteele09/monitor-dashboard/access"
	"github.com/jrsteele09/monitor-dashboard/session"
	"github.com/jrsteele09/monitor-dashboard/users"
)

const (
	LoginPath = "/login"
	HomePath  = "/dashboard"
)

type Outcome int

const (
	Render Outcome = iota
	Loading
	RedirectLogin
	RedirectHome
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "render"
	}
}

// Location is the redirect target, or "" when the outcome is not a redirect.
func (o Outcome) Location() string {
	switch o {
	case RedirectLogin:
		return LoginPath
	case RedirectHome:
		return HomePath
	default:
		return ""
	}
}

// Sessions is the read side of session.Store.
type Sessions interface {
	Status() session.Status
	Current() (session.Session, bool)
}

// Route is a protected page and the roles allowed to see it. No roles means any signed-in user.
type Route struct {
	Path  string
	Title string
	Roles []users.Role
}

// Decide never redirects while the session is still initialising.
func (r Route) Decide(s Sessions) Outcome {
	switch s.Status() {
	case session.StatusUnknown:
		return Loading
	case session.StatusAnonymous:
		return RedirectLogin
	}
	cur, ok := s.Current()
	if !ok {
		return RedirectLogin
	}
	if !access.IsAllowed(cur.Role, r.Roles...) {
		return RedirectHome
	}
	return Render
}

// VisibleTo reports whether a navigation link to r should be shown to role.
func (r Route) VisibleTo(role users.Role) bool {
	return access.IsAllowed(role, r.Roles...)
}

// Visible filters routes down to the ones role may open.
func Visible(routes []Route, role users.Role) []Route {
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		if r.VisibleTo(role) {
			out = append(out, r)
		}
	}
	return out
}
