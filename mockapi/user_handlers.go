package mockapi

import (
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/jrsteele09/monitor-dashboard/internal/validation"
	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/rs/zerolog/log"
)

func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, _ := UserFromContext(r.Context())
		p := readPage(r)

		resp, err := s.repos.Users.List(current.OrganizationID, p.offset(), p.limit)
		if err != nil {
			log.Err(err).Msg("list users")
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, p.envelope("users", resp.Users, resp.Total))
	}
}

func (s *Server) UpdateUserRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, _ := UserFromContext(r.Context())
		target, ok := s.colleague(w, current, r.PathValue("id"))
		if !ok {
			return
		}
		if target.ID == current.ID {
			httpx.WriteError(w, http.StatusBadRequest, "You cannot change your own role")
			return
		}

		var update users.RoleUpdate
		if err := httpx.ReadJSON(w, r, &update); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validation.Validate(update); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, reason(err))
			return
		}
		if update.Role == users.RoleSuperAdmin && current.Role != users.RoleSuperAdmin {
			httpx.WriteError(w, http.StatusForbidden, "Only a superadmin can grant the superadmin role")
			return
		}

		target.Role = update.Role
		if err := s.repos.Users.Upsert(target); err != nil {
			log.Err(err).Str("user", target.ID).Msg("update role")
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to update user role")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "User role updated successfully",
			"user":    target,
		})
	}
}

func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, _ := UserFromContext(r.Context())
		target, ok := s.colleague(w, current, r.PathValue("id"))
		if !ok {
			return
		}
		if target.ID == current.ID {
			httpx.WriteError(w, http.StatusBadRequest, "You cannot delete your own account")
			return
		}

		if err := s.repos.Users.Delete(target.ID); err != nil {
			log.Err(err).Str("user", target.ID).Msg("delete user")
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to delete user")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "message": "User deleted successfully"})
	}
}

// colleague loads a user of current's organization, answering 404 for anyone else.
func (s *Server) colleague(w http.ResponseWriter, current *users.User, id string) (*users.User, bool) {
	target, err := s.repos.Users.GetByID(id)
	if err != nil || target.OrganizationID != current.OrganizationID {
		httpx.WriteError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	return target, true
}
