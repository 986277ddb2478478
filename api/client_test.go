package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/internal/obs"
	"github.com/jrsteele09/monitor-dashboard/internal/utils"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// backend is a programmable stand-in for the REST API.
type backend struct {
	t        *testing.T
	srv      *httptest.Server
	mux      *http.ServeMux
	lastAuth atomic.Value
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{t: t, mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.lastAuth.Store(r.Header.Get("Authorization"))
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) handle(pattern string, status int, body any) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (b *backend) auth() string {
	v, _ := b.lastAuth.Load().(string)
	return v
}

func (b *backend) client(t *testing.T, opts ...api.Option) *api.Client {
	t.Helper()
	c, err := api.New(b.srv.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type errTokenSource struct{ err error }

func (s errTokenSource) Token() (*oauth2.Token, error) { return nil, s.err }

func TestNew(t *testing.T) {
	_, err := api.New("localhost:5000")
	require.Error(t, err)

	_, err = api.New("http://localhost:5000/api/")
	require.NoError(t, err)
}

func TestClient_Login(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds users.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "password" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token":   "tok-1",
			"user":    users.User{ID: "u-1", Email: creds.Email, Role: users.RoleAdmin},
			"message": "Welcome",
		})
	})
	c := b.client(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		res := c.Login(ctx, users.Credentials{Email: "admin@company.com", Password: "password"})
		require.True(t, res.Success)
		require.Equal(t, "tok-1", res.Data.Token)
		require.Equal(t, users.RoleAdmin, res.Data.User.Role)
		require.Equal(t, "Welcome", res.Message)
		require.Empty(t, b.auth())
	})

	t.Run("bad credentials", func(t *testing.T) {
		res := c.Login(ctx, users.Credentials{Email: "admin@company.com", Password: "nope"})
		require.False(t, res.Success)
		require.Equal(t, "Invalid email or password", res.Message)
		require.True(t, res.Unauthorized())
		require.Empty(t, res.Data.Token)
		require.True(t, errors.Is(res.Err(), errors.ErrUnauthorized))
	})
}

func TestClient_NetworkFailure(t *testing.T) {
	b := newBackend(t)
	c := b.client(t)
	b.srv.Close()

	res := c.Login(context.Background(), users.Credentials{Email: "a@b.com", Password: "x"})
	require.False(t, res.Success)
	require.Equal(t, "Login failed", res.Message)
	require.Zero(t, res.Status)
}

func TestClient_BearerToken(t *testing.T) {
	b := newBackend(t)
	b.handle("GET /api/organizations/me", http.StatusOK, map[string]any{
		"data": organizations.Organization{ID: "org-1", Plan: organizations.PlanFree, CurrentUsers: 5},
	})
	b.handle("GET /api/auth/me", http.StatusOK, map[string]any{"user": users.User{ID: "u-1"}})

	var current atomic.Value
	current.Store("tok-a")
	src := tokenSourceFunc(func() (*oauth2.Token, error) {
		return &oauth2.Token{AccessToken: current.Load().(string)}, nil
	})
	c := b.client(t).WithTokenSource(src)
	ctx := context.Background()

	res := c.GetOrganization(ctx)
	require.True(t, res.Success)
	require.Equal(t, "Bearer tok-a", b.auth())
	require.False(t, res.Data.CanAddUser())

	current.Store("tok-b")
	c.GetOrganization(ctx)
	require.Equal(t, "Bearer tok-b", b.auth())

	t.Run("current user uses the explicit token", func(t *testing.T) {
		res := c.CurrentUser(ctx, "explicit")
		require.True(t, res.Success)
		require.Equal(t, "u-1", res.Data.ID)
		require.Equal(t, "Bearer explicit", b.auth())
	})

	t.Run("no session is a 401 result without a request", func(t *testing.T) {
		b.lastAuth.Store("untouched")
		anon := b.client(t).WithTokenSource(errTokenSource{err: errors.ErrNoSession})
		res := anon.GetOrganization(ctx)
		require.False(t, res.Success)
		require.True(t, res.Unauthorized())
		require.Equal(t, "untouched", b.auth())
	})
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func TestClient_ListUsers(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		b := newBackend(t)
		b.handle("GET /api/users", http.StatusOK, []users.User{{ID: "1"}, {ID: "2"}, {ID: "3"}})
		res := b.client(t).ListUsers(context.Background(), 1, 10)
		require.True(t, res.Success)
		require.Len(t, res.Data.Items, 3)
		require.Equal(t, 3, res.Data.Total)
		require.Equal(t, 1, res.Data.TotalPages)
	})

	t.Run("bare array filling the page", func(t *testing.T) {
		b := newBackend(t)
		all := make([]users.User, 10)
		for i := range all {
			all[i] = users.User{ID: strconv.Itoa(i)}
		}
		b.handle("GET /api/users", http.StatusOK, all)
		res := b.client(t).ListUsers(context.Background(), 1, 10)
		require.True(t, res.Success)
		require.Len(t, res.Data.Items, 10)
		require.Equal(t, 10, res.Data.Total)
		require.Equal(t, 1, res.Data.TotalPages)
	})

	t.Run("envelope with total", func(t *testing.T) {
		b := newBackend(t)
		b.mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "2", r.URL.Query().Get("page"))
			require.Equal(t, "10", r.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, map[string]any{"users": []users.User{{ID: "11"}}, "total": 42})
		})
		res := b.client(t).ListUsers(context.Background(), 2, 10)
		require.True(t, res.Success)
		require.Equal(t, 5, res.Data.TotalPages)
		require.Equal(t, 2, res.Data.Page)
	})

	t.Run("malformed body", func(t *testing.T) {
		b := newBackend(t)
		b.mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		})
		res := b.client(t).ListUsers(context.Background(), 1, 10)
		require.False(t, res.Success)
		require.Equal(t, "Failed to fetch users", res.Message)
		require.Empty(t, res.Data.Items)
	})

	t.Run("server error message", func(t *testing.T) {
		b := newBackend(t)
		b.handle("GET /api/users", http.StatusInternalServerError, map[string]string{"message": "database unavailable"})
		res := b.client(t).ListUsers(context.Background(), 1, 10)
		require.False(t, res.Success)
		require.Equal(t, "database unavailable", res.Message)
		require.Equal(t, http.StatusInternalServerError, res.Status)
	})
}

func TestClient_UserMutations(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("PATCH /api/users/{id}/role", func(w http.ResponseWriter, r *http.Request) {
		var body users.RoleUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{"user": users.User{ID: r.PathValue("id"), Role: body.Role}})
	})
	b.mux.HandleFunc("DELETE /api/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := b.client(t).WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}))
	ctx := context.Background()

	res := c.UpdateUserRole(ctx, "u-7", users.RoleAdmin)
	require.True(t, res.Success)
	require.Equal(t, "u-7", res.Data.ID)
	require.Equal(t, users.RoleAdmin, res.Data.Role)

	del := c.DeleteUser(ctx, "u-7")
	require.True(t, del.Success)
	require.Equal(t, http.StatusNoContent, del.Status)
	require.Equal(t, "User deleted successfully", del.Message)
}

func TestClient_ListLogs(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("GET /api/logs", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "login", q.Get("type"))
		require.Equal(t, "u-1", q.Get("userId"))
		require.False(t, q.Has("application"))
		logs := make([]activity.Log, 20)
		writeJSON(w, http.StatusOK, map[string]any{"logs": logs, "total": 100, "page": 1, "limit": 20, "totalPages": 5})
	})
	res := b.client(t).ListLogs(context.Background(), 1, 20, activity.Filters{Type: activity.TypeLogin, UserID: "u-1"})
	require.True(t, res.Success)
	require.Len(t, res.Data.Items, 20)
	require.Equal(t, 5, res.Data.TotalPages)
}

func TestClient_Timeout(t *testing.T) {
	b := newBackend(t)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	b.mux.HandleFunc("GET /api/logs/summary", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	t.Run("default client", func(t *testing.T) {
		res := b.client(t, api.WithTimeout(50*time.Millisecond)).LogSummary(context.Background())
		require.False(t, res.Success)
		require.Equal(t, "Request timed out", res.Message)
	})

	orders := map[string]func(hc *http.Client) []api.Option{
		"timeout after client": func(hc *http.Client) []api.Option {
			return []api.Option{api.WithHTTPClient(hc), api.WithTimeout(50 * time.Millisecond)}
		},
		"timeout before client": func(hc *http.Client) []api.Option {
			return []api.Option{api.WithTimeout(50 * time.Millisecond), api.WithHTTPClient(hc)}
		},
	}
	for name, opts := range orders {
		t.Run(name, func(t *testing.T) {
			hc := &http.Client{}
			res := b.client(t, opts(hc)...).LogSummary(context.Background())
			require.False(t, res.Success)
			require.Equal(t, "Request timed out", res.Message)
			require.Zero(t, hc.Timeout, "the caller's client is left alone")
		})
	}
}

func TestClient_UpdateOrganizationAndMetrics(t *testing.T) {
	b := newBackend(t)
	b.mux.HandleFunc("PUT /api/organizations/me", func(w http.ResponseWriter, r *http.Request) {
		var u organizations.Update
		require.NoError(t, json.NewDecoder(r.Body).Decode(&u))
		org := organizations.Organization{ID: "org-1", Name: "Old"}
		u.Apply(&org)
		writeJSON(w, http.StatusOK, map[string]any{"data": org, "message": "Organization saved"})
	})
	reg := prometheus.NewRegistry()
	c := b.client(t, api.WithMetrics(obs.NewMetrics(reg)))

	res := c.UpdateOrganization(context.Background(), organizations.Update{Name: utils.Ptr("New")})
	require.True(t, res.Success)
	require.Equal(t, "New", res.Data.Name)
	require.Equal(t, "Organization saved", res.Message)

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "dashboard_api_requests_total" {
			found = true
		}
	}
	require.True(t, found)
}

func TestMap(t *testing.T) {
	failed := api.Map(api.Result[int]{Message: "nope", Status: 500}, func(int) string { return "x" })
	require.False(t, failed.Success)
	require.Equal(t, "nope", failed.Message)
	require.Empty(t, failed.Data)

	mapped := api.Map(api.Result[int]{Success: true, Data: 2}, func(i int) string { return "v" })
	require.True(t, mapped.Success)
	require.Equal(t, "v", mapped.Data)
}
