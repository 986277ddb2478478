package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/activity"
)

func (c *Client) ListLogs(ctx context.Context, page, limit int, filters activity.Filters) Result[Page[activity.Log]] {
	q := pageQuery(page, limit)
	filters.Encode(q)
	req := request{
		endpoint: "GET /logs",
		method:   http.MethodGet,
		path:     "/logs",
		query:    q,
		fallback: "Failed to fetch logs",
	}
	resp, res := c.do(ctx, req)
	if !res.Success {
		return Result[Page[activity.Log]]{Message: res.Message, Status: res.Status}
	}

	var envelope struct {
		reported
		Logs []activity.Log `json:"logs"`
	}
	if err := json.Unmarshal(unwrap(resp.body, "data"), &envelope); err != nil {
		return fail[Page[activity.Log]](resp.status, "", req.fallback)
	}
	return ok(normalisePage(envelope.Logs, page, limit, envelope.reported, false), "Logs fetched successfully", resp.status)
}

func (c *Client) LogSummary(ctx context.Context) Result[activity.Summary] {
	return decode[activity.Summary](c, ctx, request{
		endpoint: "GET /logs/summary",
		method:   http.MethodGet,
		path:     "/logs/summary",
		fallback: "Failed to fetch summary",
	}, "Summary fetched successfully", "data", "summary")
}
