package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/session"
	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/rs/zerolog/log"
)

const msgTooManyAttempts = "Too many login attempts. Please wait a moment and try again."

type loginForm struct {
	Email string
}

// LoginPageHandler renders the login form. A tab that is already signed in goes to the dashboard.
func (s *Server) LoginPageHandler() http.HandlerFunc {
	loginTmpl := mustParsePage("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetSessionInitWait())
		status, _ := ws.session.Wait(ctx)
		cancel()
		if status == session.StatusAuthenticated {
			redirectSuccess(w, r, RouteDashboard)
			return
		}

		form := loginForm{Email: r.URL.Query().Get("email")}
		s.render(w, loginTmpl, http.StatusOK, s.newPageData(r, "Sign in", RouteLogin, form))
	}
}

// LoginSubmissionHandler signs the tab in. Failures re-render the form with the
// reason inline and the backend's status; nothing is redirected.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	loginTmpl := mustParsePage("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		creds := users.Credentials{
			Email:    strings.TrimSpace(r.FormValue("email")),
			Password: r.FormValue("password"),
		}
		renderError := func(status int, msg string) {
			data := s.newPageData(r, "Sign in", RouteLogin, loginForm{Email: creds.Email})
			data.Error = msg
			s.render(w, loginTmpl, status, data)
		}

		if !ws.limiter.Allow() {
			log.Warn().Str("tab", ws.id).Msg("login attempt throttled")
			renderError(http.StatusTooManyRequests, msgTooManyAttempts)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
		defer cancel()
		res := ws.session.Login(ctx, creds)
		if !res.Success {
			// the form shows the error; it must not come back as a notice on the next page
			ws.notes.Drain()
			renderError(loginFailureStatus(res), res.Message)
			return
		}

		ws.forget()
		redirectSuccess(w, r, RouteDashboard)
	}
}

func loginFailureStatus(res api.Result[session.Session]) int {
	switch {
	case res.Status >= 400 && res.Status < 500:
		return res.Status
	case res.Message == session.MsgMissingFields:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// LogoutHandler ends the session of this tab only. Other tabs keep theirs.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		ws.session.Logout(context.WithoutCancel(r.Context()))
		ws.forget()
		redirectSuccess(w, r, RouteLogin)
	}
}
