package mockapi

import (
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/jrsteele09/monitor-dashboard/internal/validation"
	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/rs/zerolog/log"
)

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds users.Credentials
		if err := httpx.ReadJSON(w, r, &creds); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validation.Validate(creds); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		raw, user, err := s.auth.Login(creds.Email, creds.Password)
		switch {
		case errors.Is(err, errors.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		case errors.Is(err, errors.ErrForbidden):
			httpx.WriteError(w, http.StatusForbidden, "Account suspended")
			return
		case err != nil:
			log.Err(err).Msg("login failed")
			httpx.WriteError(w, http.StatusInternalServerError, "Login failed")
			return
		}

		s.record(user, activity.TypeLogin, "Signed in to the dashboard")
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"token":   raw,
			"user":    user,
		})
	}
}

func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg users.Registration
		if err := httpx.ReadJSON(w, r, &reg); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validation.Validate(reg); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, reason(err))
			return
		}

		user, err := s.auth.Register(reg)
		switch {
		case errors.Is(err, errors.ErrConflict):
			httpx.WriteError(w, http.StatusConflict, "An account with this email already exists")
			return
		case errors.Is(err, errors.ErrValidation):
			httpx.WriteError(w, http.StatusBadRequest, reason(err))
			return
		case err != nil:
			log.Err(err).Msg("signup failed")
			httpx.WriteError(w, http.StatusInternalServerError, "Signup failed")
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "Account created successfully",
			"user":    user,
		})
	}
}

func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
	}
}

// LogoutHandler only records the event. Tokens stay valid until they expire.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFromContext(r.Context())
		s.record(user, activity.TypeLogout, "Signed out of the dashboard")
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
	}
}

func (s *Server) record(user *users.User, kind activity.Type, description string) {
	entry := &activity.Log{
		UserID:         user.ID,
		UserName:       user.DisplayName(),
		Type:           kind,
		Description:    description,
		Application:    "Dashboard",
		Timestamp:      s.nowTime().UTC(),
		OrganizationID: user.OrganizationID,
	}
	if err := s.repos.Logs.Append(entry); err != nil {
		log.Warn().Err(err).Str("type", string(kind)).Msg("failed to record activity")
	}
}
