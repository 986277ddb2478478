package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/monitor-dashboard/listing"
	"github.com/jrsteele09/monitor-dashboard/session"
	"github.com/rs/zerolog/log"
)

// listPage is what a list template needs besides the rows: the path its links point
// to and the query that must survive paging.
type listPage[T any] struct {
	listing.View[T]
	Path  string
	Query url.Values
}

func newListPage[T any](v listing.View[T], path string, query url.Values) listPage[T] {
	return listPage[T]{View: v, Path: path, Query: query}
}

// PageLink points at page n of the same list with the same query.
func (p listPage[T]) PageLink(n int) string {
	q := url.Values{}
	for k, v := range p.Query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(n))
	return p.Path + "?" + q.Encode()
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// visit is a full page load of a list: the requested parameters are applied and, when
// they did not change, the current page is fetched again.
func visit(navigate func() bool, refresh func()) {
	if !navigate() {
		refresh()
	}
}

// awaitList waits for the list to settle. A fetch still running when the request gives
// up is rendered as loading and keeps going in the background.
func (s *Server) awaitList(r *http.Request, name string, await func(context.Context) error) {
	ctx, cancel := context.WithTimeout(r.Context(), s.config.GetRequestTimeout())
	defer cancel()
	if err := await(ctx); err != nil {
		log.Debug().Err(err).Str("list", name).Msg("rendering list before its fetch settled")
	}
}

// signedOut reports whether a fetch made during this request ended the session.
func signedOut(ws *workspace) bool {
	return ws.session.Status() != session.StatusAuthenticated
}
