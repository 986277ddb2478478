package mockapi

import (
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/jrsteele09/monitor-dashboard/internal/validation"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/rs/zerolog/log"
)

func (s *Server) GetOrganizationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, _ := UserFromContext(r.Context())
		org, err := s.repos.Organizations.Get(current.OrganizationID)
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "Organization not found")
			return
		}
		org.CurrentUsers = s.repos.Users.Count(org.ID)
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": org})
	}
}

func (s *Server) UpdateOrganizationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, _ := UserFromContext(r.Context())

		var update organizations.Update
		if err := httpx.ReadJSON(w, r, &update); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validation.Validate(update); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, reason(err))
			return
		}

		org, err := s.repos.Organizations.Get(current.OrganizationID)
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "Organization not found")
			return
		}
		update.Apply(org)
		if err := s.repos.Organizations.Upsert(org); err != nil {
			log.Err(err).Str("organization", org.ID).Msg("update organization")
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to update organization")
			return
		}
		org.CurrentUsers = s.repos.Users.Count(org.ID)
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Organization updated successfully",
			"data":    org,
		})
	}
}
