package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/organizations"
)

func (c *Client) GetOrganization(ctx context.Context) Result[organizations.Organization] {
	return decode[organizations.Organization](c, ctx, request{
		endpoint: "GET /organizations/me",
		method:   http.MethodGet,
		path:     "/organizations/me",
		fallback: "Failed to fetch organization",
	}, "Organization fetched successfully", "data", "organization")
}

func (c *Client) UpdateOrganization(ctx context.Context, update organizations.Update) Result[organizations.Organization] {
	return decode[organizations.Organization](c, ctx, request{
		endpoint: "PUT /organizations/me",
		method:   http.MethodPut,
		path:     "/organizations/me",
		body:     update,
		fallback: "Failed to update organization",
	}, "Organization updated successfully", "data", "organization")
}
