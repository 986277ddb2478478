package api

import (
	"context"
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/users"
	"golang.org/x/oauth2"
)

type LoginResponse struct {
	Token   string     `json:"token"`
	User    users.User `json:"user"`
	Message string     `json:"message,omitempty"`
}

// Login never sends a bearer token.
func (c *Client) Login(ctx context.Context, creds users.Credentials) Result[LoginResponse] {
	res := decode[LoginResponse](c, ctx, request{
		endpoint: "POST /auth/login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     creds,
		client:   c.base,
		fallback: "Login failed",
	}, "Login successful")
	if res.Success && res.Data.Token == "" {
		return fail[LoginResponse](res.Status, "Login response did not include a token", "")
	}
	return res
}

// CurrentUser validates token against the backend, independent of any bound token source.
func (c *Client) CurrentUser(ctx context.Context, token string) Result[users.User] {
	return decode[users.User](c, ctx, request{
		endpoint: "GET /auth/me",
		method:   http.MethodGet,
		path:     "/auth/me",
		client:   authorised(c.base, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})),
		fallback: "Failed to fetch user",
	}, "User fetched successfully", "user", "data")
}

func (c *Client) Signup(ctx context.Context, reg users.Registration) Result[struct{}] {
	return discard(c, ctx, request{
		endpoint: "POST /auth/signup",
		method:   http.MethodPost,
		path:     "/auth/signup",
		body:     reg,
		client:   c.base,
		fallback: "Signup failed",
	}, "Account created successfully")
}
