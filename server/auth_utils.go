package server

import (
	"net/http"
)

// tabCookieName is the name of the cookie that identifies a tab's workspace
const tabCookieName = "dashboard_tab"

func (s *Server) SetTabCookie(w http.ResponseWriter, tabID string, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tabCookieName,
		Value:    tabID,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetTokenTTL().Seconds()),
	})
}

// redirectSuccess redirects plain requests with 303 and htmx requests with HX-Redirect.
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

