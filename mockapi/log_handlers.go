package mockapi

import (
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/rs/zerolog/log"
)

func (s *Server) ListLogsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, _ := UserFromContext(r.Context())
		p := readPage(r)

		filters := activity.FiltersFromQuery(r.URL.Query())
		if filters.Type != "" && !filters.Type.Valid() {
			httpx.WriteError(w, http.StatusBadRequest, "Unknown activity type")
			return
		}

		resp, err := s.repos.Logs.List(current.OrganizationID, filters, p.offset(), p.limit)
		if err != nil {
			log.Err(err).Msg("list logs")
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to fetch logs")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, p.envelope("logs", resp.Logs, resp.Total))
	}
}

func (s *Server) LogSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, _ := UserFromContext(r.Context())

		summary, err := s.repos.Logs.Summarise(current.OrganizationID, s.nowTime().UTC())
		if err != nil {
			log.Err(err).Msg("summarise logs")
			httpx.WriteError(w, http.StatusInternalServerError, "Failed to fetch summary")
			return
		}
		// Users without any activity still count towards the total.
		summary.TotalUsers = max(summary.TotalUsers, s.repos.Users.Count(current.OrganizationID))
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"success": true, "data": summary})
	}
}
