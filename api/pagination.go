package api

import "github.com/jrsteele09/monitor-dashboard/internal/utils"

// reported holds the pagination fields a backend may or may not send.
type reported struct {
	Total      *int `json:"total"`
	Page       *int `json:"page"`
	Limit      *int `json:"limit"`
	TotalPages *int `json:"totalPages"`
}

// normalisePage builds a consistent Page from whatever the backend reported.
//
// A bare array is the whole collection and is sliced here. Otherwise reported
// totalPages wins, then ceil(total/limit). With no counts at all a full page
// leaves room for one more.
func normalisePage[T any](items []T, page, limit int, r reported, bare bool) Page[T] {
	if p := utils.Value(r.Page); p > 0 {
		page = p
	}
	if l := utils.Value(r.Limit); l > 0 {
		limit = l
	}
	page = max(page, 1)
	limit = max(limit, 1)
	if items == nil {
		items = []T{}
	}

	if bare {
		total := len(items)
		start := min((page-1)*limit, total)
		end := min(start+limit, total)
		return Page[T]{
			Items:      items[start:end],
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: utils.CeilDiv(total, limit),
		}
	}

	if len(items) > limit {
		items = items[:limit]
	}
	seen := (page-1)*limit + len(items)

	out := Page[T]{Items: items, Page: page, Limit: limit}
	switch {
	case utils.Value(r.TotalPages) > 0:
		out.TotalPages = *r.TotalPages
		if r.Total != nil {
			out.Total = max(*r.Total, 0)
		} else if page >= out.TotalPages {
			out.Total = seen
		} else {
			out.Total = out.TotalPages * limit
		}
	case r.Total != nil:
		out.Total = max(*r.Total, 0)
		out.TotalPages = utils.CeilDiv(out.Total, limit)
	default:
		out.Total = seen
		out.TotalPages = max(page, utils.CeilDiv(seen, limit))
		if len(items) == limit {
			out.TotalPages = page + 1
		}
	}
	out.TotalPages = max(out.TotalPages, 1)
	return out
}
