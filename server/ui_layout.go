package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/guard"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/jrsteele09/monitor-dashboard/notify"
	"github.com/jrsteele09/monitor-dashboard/session"
	"github.com/rs/zerolog/log"
)

// PageData is the model every page template is executed with.
type PageData struct {
	AppName string
	Title   string
	Active  string
	User    *session.Session
	Nav     []guard.Route
	Notices []notify.Notification
	Device  string
	Error   string
	Content any
}

// newPageData fills the layout fields from the tab. Pending notifications are
// drained, so each is shown once.
func (s *Server) newPageData(r *http.Request, title, active string, content any) PageData {
	data := PageData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Active:  active,
		Content: content,
	}
	ws := workspaceFrom(r.Context())
	if ws == nil {
		return data
	}
	data.Device = ws.device
	data.Notices = ws.notes.Drain()
	if cur, ok := ws.session.Current(); ok {
		data.User = &cur
		data.Nav = guard.Visible(navigation, cur.Role)
	}
	return data
}

// render executes tmpl into a buffer first, so a template error still produces a clean 500.
func (s *Server) render(w http.ResponseWriter, tmpl *template.Template, status int, data PageData) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Err(err).Str("page", data.Title).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", httpx.ContentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderLoading(w http.ResponseWriter, r *http.Request) {
	data := PageData{AppName: s.config.GetAppName(), Title: "Loading"}
	if ws := workspaceFrom(r.Context()); ws != nil {
		data.Device = ws.device
	}
	s.render(w, s.loadingTmpl, http.StatusOK, data)
}
