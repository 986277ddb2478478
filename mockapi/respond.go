package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/monitor-dashboard/internal/utils"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type pageParams struct {
	page  int
	limit int
}

func (p pageParams) offset() int {
	return (p.page - 1) * p.limit
}

// envelope adds the pagination fields the console expects next to a list.
func (p pageParams) envelope(key string, items any, total int) map[string]any {
	return map[string]any{
		"success":    true,
		key:          items,
		"total":      total,
		"page":       p.page,
		"limit":      p.limit,
		"totalPages": utils.CeilDiv(total, p.limit),
	}
}

// readPage parses page and limit, falling back to page 1 and the default size on bad input.
func readPage(r *http.Request) pageParams {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	return pageParams{page: page, limit: utils.Clamp(limit, 1, maxPageSize)}
}

// reason is the leading clause of a wrapped error, for display.
func reason(err error) string {
	msg, _, _ := strings.Cut(err.Error(), ": ")
	if msg == "" {
		return "Request failed"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
