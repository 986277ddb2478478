package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/access"
	"github.com/jrsteele09/monitor-dashboard/internal/validation"
	"github.com/jrsteele09/monitor-dashboard/notify"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/jrsteele09/monitor-dashboard/session"
	"github.com/jrsteele09/monitor-dashboard/users"
)

const (
	msgOwnRole    = "You cannot change your own role"
	msgDeleteSelf = "You cannot delete your own account"
)

type usersView struct {
	listPage[users.User]
	Organization       *organizations.Organization
	CurrentUserID      string
	CanManage          bool
	CanGrantSuperAdmin bool
}

// SeatLimitReached is true when the free plan has no seat left for another user.
func (v usersView) SeatLimitReached() bool {
	return v.Organization != nil && !v.Organization.CanAddUser()
}

// AssignableRoles are the roles the signed-in user may hand out.
func (v usersView) AssignableRoles() []users.Role {
	if v.CanGrantSuperAdmin {
		return users.Roles
	}
	return []users.Role{users.RoleEmployee, users.RoleAdmin}
}

// UsersPageHandler loads the requested page of users, fetching it again when the
// page did not change. The organization is refreshed alongside for the seat banner.
func (s *Server) UsersPageHandler() http.HandlerFunc {
	usersTmpl := mustParsePage("users.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		page := queryPage(r)
		visit(func() bool { return ws.users.Navigate(page, nil) }, ws.users.Refresh)

		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
		orgDone := make(chan struct{})
		go func() {
			defer close(orgDone)
			if res := session.Check(ctx, ws.session, ws.client.GetOrganization(ctx)); res.Success {
				ws.rememberOrganization(res.Data)
			}
		}()
		s.awaitList(r, "users", ws.users.Await)
		<-orgDone
		cancel()

		if signedOut(ws) {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		s.renderUsers(w, r, ws, usersTmpl)
	}
}

// UsersViewHandler renders the loaded page again without fetching. A q parameter
// sets the search over the loaded rows.
func (s *Server) UsersViewHandler() http.HandlerFunc {
	usersTmpl := mustParsePage("users.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		if q := r.URL.Query(); q.Has("q") {
			ws.users.SetSearch(q.Get("q"))
		}
		s.renderUsers(w, r, ws, usersTmpl)
	}
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, ws *workspace, tmpl *template.Template) {
	cur, _ := ws.session.Current()
	view := usersView{
		listPage:           newListPage(ws.users.View(), RouteUsers, nil),
		Organization:       ws.organization(),
		CurrentUserID:      cur.UserID,
		CanManage:          access.IsAllowed(cur.Role, usersRoute.Roles...),
		CanGrantSuperAdmin: cur.Role == users.RoleSuperAdmin,
	}
	s.render(w, tmpl, http.StatusOK, s.newPageData(r, usersRoute.Title, RouteUsers, view))
}

// UpdateUserRoleHandler changes a colleague's role and updates the loaded row in place.
func (s *Server) UpdateUserRoleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		id := r.PathValue("id")
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		update := users.RoleUpdate{Role: users.Role(r.FormValue("role"))}
		if err := validation.Validate(update); err != nil {
			ws.notes.Notify(notify.LevelError, capitalize(validation.Message(err)))
			redirectSuccess(w, r, RouteUsersView)
			return
		}
		if cur, _ := ws.session.Current(); cur.UserID == id {
			ws.notes.Notify(notify.LevelError, msgOwnRole)
			redirectSuccess(w, r, RouteUsersView)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
		defer cancel()
		res := session.Check(ctx, ws.session, ws.client.UpdateUserRole(ctx, id, update.Role))
		switch {
		case res.Unauthorized():
			redirectSuccess(w, r, RouteLogin)
			return
		case !res.Success:
			ws.notes.Notify(notify.LevelError, res.Message)
		default:
			updated := res.Data
			ws.users.Mutate(func(items []users.User) []users.User {
				for i := range items {
					if items[i].ID == updated.ID {
						items[i] = updated
					}
				}
				return items
			})
			ws.notes.Notify(notify.LevelSuccess, fmt.Sprintf("%s is now %s", updated.DisplayName(), humanize(updated.Role)))
		}
		redirectSuccess(w, r, RouteUsersView)
	}
}

// DeleteUserHandler removes a colleague and drops the row from the loaded page.
func (s *Server) DeleteUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		id := r.PathValue("id")
		if cur, _ := ws.session.Current(); cur.UserID == id {
			ws.notes.Notify(notify.LevelError, msgDeleteSelf)
			redirectSuccess(w, r, RouteUsersView)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
		defer cancel()
		res := session.Check(ctx, ws.session, ws.client.DeleteUser(ctx, id))
		switch {
		case res.Unauthorized():
			redirectSuccess(w, r, RouteLogin)
			return
		case !res.Success:
			ws.notes.Notify(notify.LevelError, res.Message)
		default:
			ws.users.Mutate(func(items []users.User) []users.User {
				kept := items[:0]
				for _, u := range items {
					if u.ID != id {
						kept = append(kept, u)
					}
				}
				return kept
			})
			if org := ws.organization(); org != nil {
				next := *org
				next.CurrentUsers = max(next.CurrentUsers-1, 0)
				ws.rememberOrganization(next)
			}
			ws.notes.Notify(notify.LevelSuccess, res.Message)
		}
		redirectSuccess(w, r, RouteUsersView)
	}
}
