package mockapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/monitor-dashboard/activity"
	fakelogrepo "github.com/jrsteele09/monitor-dashboard/activity/repofake"
	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/config"
	"github.com/jrsteele09/monitor-dashboard/mockapi"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	orgrepofakes "github.com/jrsteele09/monitor-dashboard/organizations/repofakes"
	"github.com/jrsteele09/monitor-dashboard/users"
	fakeuserrepo "github.com/jrsteele09/monitor-dashboard/users/repofake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type testConfig struct {
	config.Cors
}

func (testConfig) GetPort() string { return ":0" }
func (testConfig) GetAppName() string { return "mockapi-test" }
func (testConfig) GetEnv() string { return "TEST" }
func (testConfig) GetLogLevel() string { return "error" }
func (testConfig) GetMockAPIPort() string { return ":0" }
func (testConfig) GetJWTSigningKey() string { return "mockapi-test-signing-key" }
func (testConfig) GetTokenTTL() time.Duration { return time.Hour }

type testFixture struct {
	repos mockapi.Repos
	org   *organizations.Organization
	srv   *httptest.Server
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{repos: mockapi.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		Organizations: orgrepofakes.NewFakeOrganizationRepo(),
		Logs:          fakelogrepo.NewFakeLogRepo(),
	}}
	var err error
	f.org, err = mockapi.Seed(f.repos, time.Now())
	require.NoError(t, err)

	s, err := mockapi.New(testConfig{}, f.repos)
	require.NoError(t, err)
	f.srv = httptest.NewServer(s)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *testFixture) call(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (f *testFixture) login(t *testing.T, email string) string {
	t.Helper()
	status, body := f.call(t, http.MethodPost, mockapi.RouteAuthLogin, "", users.Credentials{Email: email, Password: mockapi.DefaultPassword})
	require.Equal(t, http.StatusOK, status, body)
	return body["token"].(string)
}

func (f *testFixture) userID(t *testing.T, email string) string {
	t.Helper()
	u, err := f.repos.Users.GetByEmail(email)
	require.NoError(t, err)
	return u.ID
}

func TestSeed_Idempotent(t *testing.T) {
	f := setupTestFixture(t)
	again, err := mockapi.Seed(f.repos, time.Now())
	require.NoError(t, err)
	assert.Equal(t, f.org.ID, again.ID)
	assert.Equal(t, 4, f.repos.Users.Count(f.org.ID))
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("valid", func(t *testing.T) {
		status, body := f.call(t, http.MethodPost, mockapi.RouteAuthLogin, "", users.Credentials{Email: mockapi.DefaultAdminEmail, Password: mockapi.DefaultPassword})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])
		assert.NotEmpty(t, body["token"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "admin", user["role"])
		assert.NotContains(t, user, "passwordHash")
	})

	t.Run("wrong password", func(t *testing.T) {
		status, body := f.call(t, http.MethodPost, mockapi.RouteAuthLogin, "", users.Credentials{Email: mockapi.DefaultAdminEmail, Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid email or password", body["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		status, body := f.call(t, http.MethodPost, mockapi.RouteAuthLogin, "", users.Credentials{Email: mockapi.DefaultAdminEmail})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Email and password are required", body["message"])
	})

	t.Run("records a login entry", func(t *testing.T) {
		resp, err := f.repos.Logs.List(f.org.ID, activity.Filters{Type: activity.TypeLogin, Application: "Dashboard"}, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
	})
}

func TestRequireAuth(t *testing.T) {
	f := setupTestFixture(t)

	status, _ := f.call(t, http.MethodGet, mockapi.RouteAuthMe, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = f.call(t, http.MethodGet, mockapi.RouteAuthMe, "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	token := f.login(t, mockapi.DefaultEmployeeEmail)
	status, body := f.call(t, http.MethodGet, mockapi.RouteAuthMe, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, mockapi.DefaultEmployeeEmail, body["user"].(map[string]any)["email"])

	t.Run("employees cannot manage users", func(t *testing.T) {
		status, body := f.call(t, http.MethodGet, mockapi.RouteUsers, token, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Insufficient permissions", body["message"])
	})
}

func TestListUsers(t *testing.T) {
	f := setupTestFixture(t)
	token := f.login(t, mockapi.DefaultAdminEmail)

	status, body := f.call(t, http.MethodGet, mockapi.RouteUsers+"?page=2&limit=3", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["users"], 1)
	assert.EqualValues(t, 4, body["total"])
	assert.EqualValues(t, 2, body["page"])
	assert.EqualValues(t, 3, body["limit"])
	assert.EqualValues(t, 2, body["totalPages"])

	status, body = f.call(t, http.MethodGet, mockapi.RouteUsers+"?page=abc&limit=-1", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 10, body["limit"])
}

func TestUpdateUserRole(t *testing.T) {
	f := setupTestFixture(t)
	token := f.login(t, mockapi.DefaultAdminEmail)
	employee := f.userID(t, mockapi.DefaultEmployeeEmail)
	path := "/api/users/" + employee + "/role"

	status, body := f.call(t, http.MethodPatch, path, token, users.RoleUpdate{Role: users.RoleAdmin})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "admin", body["user"].(map[string]any)["role"])

	status, _ = f.call(t, http.MethodPatch, path, token, users.RoleUpdate{Role: users.RoleSuperAdmin})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = f.call(t, http.MethodPatch, path, token, map[string]string{"role": "owner"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["message"], "Role must be one of")

	status, _ = f.call(t, http.MethodPatch, "/api/users/"+f.userID(t, mockapi.DefaultAdminEmail)+"/role", token, users.RoleUpdate{Role: users.RoleEmployee})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.call(t, http.MethodPatch, "/api/users/missing/role", token, users.RoleUpdate{Role: users.RoleEmployee})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteUser(t *testing.T) {
	f := setupTestFixture(t)
	token := f.login(t, mockapi.DefaultAdminEmail)

	status, _ := f.call(t, http.MethodDelete, "/api/users/"+f.userID(t, "jordan.lee@company.com"), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3, f.repos.Users.Count(f.org.ID))

	status, _ = f.call(t, http.MethodDelete, "/api/users/"+f.userID(t, mockapi.DefaultAdminEmail), token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestListLogs(t *testing.T) {
	f := setupTestFixture(t)
	token := f.login(t, mockapi.DefaultEmployeeEmail)

	status, body := f.call(t, http.MethodGet, mockapi.RouteLogs+"?page=1&limit=20", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["logs"], 20)
	assert.EqualValues(t, 61, body["total"], "seeded entries plus the login")
	assert.EqualValues(t, 4, body["totalPages"])

	status, body = f.call(t, http.MethodGet, mockapi.RouteLogs+"?type=screen_time&limit=50", token, nil)
	require.Equal(t, http.StatusOK, status)
	for _, entry := range body["logs"].([]any) {
		assert.Equal(t, "screen_time", entry.(map[string]any)["type"])
	}
	assert.EqualValues(t, 12, body["total"])

	status, _ = f.call(t, http.MethodGet, mockapi.RouteLogs+"?type=teleport", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestOrganization(t *testing.T) {
	f := setupTestFixture(t)
	admin := f.login(t, mockapi.DefaultAdminEmail)
	employee := f.login(t, mockapi.DefaultEmployeeEmail)

	status, body := f.call(t, http.MethodGet, mockapi.RouteOrganization, employee, nil)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, mockapi.DefaultOrganization, data["name"])
	assert.EqualValues(t, 4, data["currentUsers"])

	name := "Acme Holdings"
	status, _ = f.call(t, http.MethodPut, mockapi.RouteOrganization, employee, organizations.Update{Name: &name})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = f.call(t, http.MethodPut, mockapi.RouteOrganization, admin, organizations.Update{Name: &name})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, name, body["data"].(map[string]any)["name"])

	bad := "not-an-email"
	status, _ = f.call(t, http.MethodPut, mockapi.RouteOrganization, admin, organizations.Update{BillingEmail: &bad})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSignup(t *testing.T) {
	f := setupTestFixture(t)
	reg := users.Registration{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "ada@example.com",
		Password:         "Analytical1",
		OrganizationName: "Engines Ltd",
	}

	status, _ := f.call(t, http.MethodPost, mockapi.RouteAuthSignup, "", reg)
	require.Equal(t, http.StatusCreated, status)

	status, body := f.call(t, http.MethodPost, mockapi.RouteAuthSignup, "", reg)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "An account with this email already exists", body["message"])

	weak := reg
	weak.Email = "weak@example.com"
	weak.Password = "short"
	status, body = f.call(t, http.MethodPost, mockapi.RouteAuthSignup, "", weak)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Password must be at least 8 characters long", body["message"])

	missing := reg
	missing.OrganizationName = " "
	status, body = f.call(t, http.MethodPost, mockapi.RouteAuthSignup, "", missing)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "OrganizationName is required", body["message"])
}

func TestCorsPreflight(t *testing.T) {
	f := setupTestFixture(t)
	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+mockapi.RouteUsers, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8080")
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:8080", resp.Header.Get("Access-Control-Allow-Origin"))
}

// The console's API client against the real handlers.
func TestContract_APIClient(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()
	client, err := api.New(f.srv.URL + "/api")
	require.NoError(t, err)

	login := client.Login(ctx, users.Credentials{Email: mockapi.DefaultAdminEmail, Password: mockapi.DefaultPassword})
	require.True(t, login.Success, login.Message)

	me := client.CurrentUser(ctx, login.Data.Token)
	require.True(t, me.Success, me.Message)
	assert.Equal(t, users.RoleAdmin, me.Data.Role)

	authed := client.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: login.Data.Token}))

	page := authed.ListUsers(ctx, 1, 3)
	require.True(t, page.Success, page.Message)
	assert.Len(t, page.Data.Items, 3)
	assert.Equal(t, 2, page.Data.TotalPages)

	logs := authed.ListLogs(ctx, 2, 20, activity.Filters{})
	require.True(t, logs.Success, logs.Message)
	assert.Len(t, logs.Data.Items, 20)
	assert.Equal(t, 4, logs.Data.TotalPages)

	summary := authed.LogSummary(ctx)
	require.True(t, summary.Success, summary.Message)
	assert.Equal(t, 4, summary.Data.TotalUsers)
	assert.Positive(t, summary.Data.LogsToday)

	org := authed.GetOrganization(ctx)
	require.True(t, org.Success, org.Message)
	assert.True(t, org.Data.CanAddUser())

	role := authed.UpdateUserRole(ctx, f.userID(t, mockapi.DefaultEmployeeEmail), users.RoleAdmin)
	require.True(t, role.Success, role.Message)
	assert.Equal(t, users.RoleAdmin, role.Data.Role)

	anonymous := client.ListUsers(ctx, 1, 10)
	assert.False(t, anonymous.Success)
	assert.Equal(t, http.StatusUnauthorized, anonymous.Status)

	bad := client.Login(ctx, users.Credentials{Email: mockapi.DefaultAdminEmail, Password: "wrong"})
	assert.False(t, bad.Success)
	assert.Equal(t, "Invalid email or password", bad.Message)
}
