package server

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/listing"
)

type logsView struct {
	listPage[activity.Log]
	Filters activity.Filters
}

// UserLink narrows the current filters to one user.
func (v logsView) UserLink(userID string) string {
	f := v.Filters
	f.UserID = userID
	q := url.Values{}
	f.Encode(q)
	return RouteLogs + "?" + q.Encode()
}

// LogsPageHandler applies the page and filters from the query string. New filters
// start again from page 1; unchanged parameters fetch the page again.
func (s *Server) LogsPageHandler() http.HandlerFunc {
	logsTmpl := mustParsePage("logs.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		filters := listing.Filters(activity.FiltersFromQuery(r.URL.Query()).Map())
		page := queryPage(r)
		visit(func() bool { return ws.logs.Navigate(page, filters) }, ws.logs.Refresh)

		s.awaitList(r, "logs", ws.logs.Await)
		if signedOut(ws) {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		s.renderLogs(w, r, ws, logsTmpl)
	}
}

// LogsViewHandler renders the loaded page again without fetching. A q parameter
// sets the search over the loaded rows.
func (s *Server) LogsViewHandler() http.HandlerFunc {
	logsTmpl := mustParsePage("logs.html")

	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r.Context())
		if q := r.URL.Query(); q.Has("q") {
			ws.logs.SetSearch(q.Get("q"))
		}
		s.renderLogs(w, r, ws, logsTmpl)
	}
}

func (s *Server) renderLogs(w http.ResponseWriter, r *http.Request, ws *workspace, tmpl *template.Template) {
	v := ws.logs.View()
	filters := activity.FiltersFromMap(v.Filters)
	query := url.Values{}
	filters.Encode(query)
	view := logsView{
		listPage: newListPage(v, RouteLogs, query),
		Filters:  filters,
	}
	s.render(w, tmpl, http.StatusOK, s.newPageData(r, logsRoute.Title, RouteLogs, view))
}
