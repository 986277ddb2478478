package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/monitor-dashboard/users"
)

// ListUsers accepts either an enveloped page or a bare array and fills in
// whatever pagination fields the backend left out.
func (c *Client) ListUsers(ctx context.Context, page, limit int) Result[Page[users.User]] {
	req := request{
		endpoint: "GET /users",
		method:   http.MethodGet,
		path:     "/users",
		query:    pageQuery(page, limit),
		fallback: "Failed to fetch users",
	}
	resp, res := c.do(ctx, req)
	if !res.Success {
		return Result[Page[users.User]]{Message: res.Message, Status: res.Status}
	}

	body := unwrap(resp.body)
	if len(body) > 0 && body[0] == '[' {
		var items []users.User
		if err := json.Unmarshal(body, &items); err != nil {
			return fail[Page[users.User]](resp.status, "", req.fallback)
		}
		return ok(normalisePage(items, page, limit, reported{}, true), "Users fetched successfully", resp.status)
	}

	var envelope struct {
		reported
		Users []users.User `json:"users"`
		Data  []users.User `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fail[Page[users.User]](resp.status, "", req.fallback)
	}
	items := envelope.Users
	if items == nil {
		items = envelope.Data
	}
	return ok(normalisePage(items, page, limit, envelope.reported, false), "Users fetched successfully", resp.status)
}

func (c *Client) UpdateUserRole(ctx context.Context, id string, role users.Role) Result[users.User] {
	return decode[users.User](c, ctx, request{
		endpoint: "PATCH /users/{id}/role",
		method:   http.MethodPatch,
		path:     "/users/" + url.PathEscape(id) + "/role",
		body:     users.RoleUpdate{Role: role},
		fallback: "Failed to update user role",
	}, "User role updated successfully", "user", "data")
}

func (c *Client) DeleteUser(ctx context.Context, id string) Result[struct{}] {
	return discard(c, ctx, request{
		endpoint: "DELETE /users/{id}",
		method:   http.MethodDelete,
		path:     "/users/" + url.PathEscape(id),
		fallback: "Failed to delete user",
	}, "User deleted successfully")
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(page, 1)))
	q.Set("limit", strconv.Itoa(max(limit, 1)))
	return q
}
