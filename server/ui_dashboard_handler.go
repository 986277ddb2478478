package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/notify"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/jrsteele09/monitor-dashboard/session"
	"golang.org/x/sync/errgroup"
)

type dashboardView struct {
	Summary      *activity.Summary
	Organization *organizations.Organization
}

// SeatsUsedPercent is the share of the plan's seats in use, capped at 100.
func (v dashboardView) SeatsUsedPercent() int {
	if v.Organization == nil || v.Organization.MaxUsers <= 0 {
		return 0
	}
	return min(100, v.Organization.CurrentUsers*100/v.Organization.MaxUsers)
}

// DashboardHandler loads the activity summary and the organization in parallel.
// A section that fails is shown as unavailable; a 401 from either ends the session.
func (s *Server) DashboardHandler() http.HandlerFunc {
	dashboardTmpl := mustParsePage("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
		defer cancel()

		var (
			summary api.Result[activity.Summary]
			org     api.Result[organizations.Organization]
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			summary = session.Check(gctx, ws.session, ws.client.LogSummary(gctx))
			return unauthorised(summary)
		})
		g.Go(func() error {
			org = session.Check(gctx, ws.session, ws.client.GetOrganization(gctx))
			return unauthorised(org)
		})
		if err := g.Wait(); errors.Is(err, errors.ErrUnauthorized) {
			redirectSuccess(w, r, RouteLogin)
			return
		}

		var view dashboardView
		if summary.Success {
			view.Summary = &summary.Data
		} else {
			ws.notes.Notify(notify.LevelError, summary.Message)
		}
		if org.Success {
			ws.rememberOrganization(org.Data)
			view.Organization = &org.Data
		} else {
			ws.notes.Notify(notify.LevelError, org.Message)
		}
		s.render(w, dashboardTmpl, http.StatusOK, s.newPageData(r, dashboardRoute.Title, RouteDashboard, view))
	}
}

// unauthorised stops the sibling fetches of an errgroup once the session is gone.
func unauthorised[T any](res api.Result[T]) error {
	if res.Unauthorized() {
		return errors.ErrUnauthorized
	}
	return nil
}
