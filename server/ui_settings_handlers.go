package server

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/monitor-dashboard/internal/validation"
	"github.com/jrsteele09/monitor-dashboard/notify"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/jrsteele09/monitor-dashboard/session"
)

const msgOrganizationUpdated = "Organization settings saved"

type settingsView struct {
	Organization *organizations.Organization
	Name         string
	BillingEmail string
}

type featureRow struct {
	Name     string
	Included bool
}

// Features lists every plan feature with whether the organization has it. Features
// the backend reports outside that set are listed after it.
func (v settingsView) Features() []featureRow {
	if v.Organization == nil {
		return nil
	}
	all := organizations.Organization{Features: organizations.DefaultFeatures(organizations.PlanEnterprise)}
	rows := make([]featureRow, 0, len(all.Features))
	for _, f := range all.Features {
		rows = append(rows, featureRow{Name: f, Included: v.Organization.HasFeature(f)})
	}
	for _, f := range v.Organization.Features {
		if !all.HasFeature(f) {
			rows = append(rows, featureRow{Name: f, Included: true})
		}
	}
	return rows
}

func newSettingsView(org *organizations.Organization) settingsView {
	v := settingsView{Organization: org}
	if org != nil {
		v.Name, v.BillingEmail = org.Name, org.BillingEmail
	}
	return v
}

// SettingsPageHandler shows the organization. When the backend cannot be reached the
// last organization seen by this tab is shown instead.
func (s *Server) SettingsPageHandler() http.HandlerFunc {
	settingsTmpl := mustParsePage("settings.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
		defer cancel()

		res := session.Check(ctx, ws.session, ws.client.GetOrganization(ctx))
		switch {
		case res.Unauthorized():
			redirectSuccess(w, r, RouteLogin)
			return
		case res.Success:
			ws.rememberOrganization(res.Data)
		default:
			ws.notes.Notify(notify.LevelError, res.Message)
		}
		s.renderSettings(w, r, settingsTmpl, http.StatusOK, newSettingsView(ws.organization()), "")
	}
}

// SettingsUpdateHandler saves the name and billing email. Invalid input is shown
// inline with what was typed; everything else redirects back to the settings page.
func (s *Server) SettingsUpdateHandler() http.HandlerFunc {
	settingsTmpl := mustParsePage("settings.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		name := strings.TrimSpace(r.FormValue("name"))
		billingEmail := strings.TrimSpace(r.FormValue("billingEmail"))
		update := organizations.Update{Name: &name, BillingEmail: &billingEmail}

		if err := validation.Validate(update); err != nil {
			view := newSettingsView(ws.organization())
			view.Name, view.BillingEmail = name, billingEmail
			s.renderSettings(w, r, settingsTmpl, http.StatusBadRequest, view, capitalize(validation.Message(err)))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
		defer cancel()
		res := session.Check(ctx, ws.session, ws.client.UpdateOrganization(ctx, update))
		switch {
		case res.Unauthorized():
			redirectSuccess(w, r, RouteLogin)
			return
		case !res.Success:
			ws.notes.Notify(notify.LevelError, res.Message)
		default:
			ws.rememberOrganization(res.Data)
			ws.notes.Notify(notify.LevelSuccess, msgOrganizationUpdated)
		}
		redirectSuccess(w, r, RouteSettings)
	}
}

func (s *Server) renderSettings(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, view settingsView, errMsg string) {
	data := s.newPageData(r, settingsRoute.Title, RouteSettings, view)
	data.Error = errMsg
	s.render(w, tmpl, status, data)
}
