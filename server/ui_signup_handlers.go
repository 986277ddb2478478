package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/monitor-dashboard/internal/validation"
	"github.com/jrsteele09/monitor-dashboard/notify"
	"github.com/jrsteele09/monitor-dashboard/users"
)

const msgAccountCreated = "Account created. Please sign in."

type signupForm struct {
	users.Registration
}

// SignupGetHandler renders the signup page
func (s *Server) SignupGetHandler() http.HandlerFunc {
	signupTmpl := mustParsePage("signup.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, signupTmpl, http.StatusOK, s.newPageData(r, "Create account", RouteSignup, signupForm{}))
	}
}

// SignupPostHandler registers a new organization and its first admin, then sends
// the tab to the login form. The password never goes back into the form.
func (s *Server) SignupPostHandler() http.HandlerFunc {
	signupTmpl := mustParsePage("signup.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		reg := users.Registration{
			FirstName:        strings.TrimSpace(r.FormValue("firstName")),
			LastName:         strings.TrimSpace(r.FormValue("lastName")),
			Email:            strings.TrimSpace(r.FormValue("email")),
			Password:         r.FormValue("password"),
			OrganizationName: strings.TrimSpace(r.FormValue("organizationName")),
		}
		renderError := func(status int, msg string) {
			form := signupForm{Registration: reg}
			form.Password = ""
			data := s.newPageData(r, "Create account", RouteSignup, form)
			data.Error = msg
			s.render(w, signupTmpl, status, data)
		}

		if err := validation.Validate(reg); err != nil {
			renderError(http.StatusBadRequest, capitalize(validation.Message(err)))
			return
		}
		if err := users.ValidatePasswordStrength(reg.Password); err != nil {
			renderError(http.StatusBadRequest, capitalize(err.Error()))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
		defer cancel()
		res := ws.client.Signup(ctx, reg)
		if !res.Success {
			status := res.Status
			if status < 400 || status > 499 {
				status = http.StatusBadGateway
			}
			renderError(status, res.Message)
			return
		}

		ws.notes.Notify(notify.LevelSuccess, msgAccountCreated)
		redirectSuccess(w, r, RouteLogin+"?"+url.Values{"email": {reg.Email}}.Encode())
	}
}
