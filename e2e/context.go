package e2e

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"time"

	fakelogrepo "github.com/jrsteele09/monitor-dashboard/activity/repofake"
	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/config"
	"github.com/jrsteele09/monitor-dashboard/mockapi"
	orgrepofakes "github.com/jrsteele09/monitor-dashboard/organizations/repofakes"
	"github.com/jrsteele09/monitor-dashboard/server"
	"github.com/jrsteele09/monitor-dashboard/tokenstore"
	fakeuserrepo "github.com/jrsteele09/monitor-dashboard/users/repofake"
)

// TestContext holds state between test steps. Each scenario is one browser tab.
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte

	// repos is nil when the scenario runs against BASE_URL
	repos *mockapi.Repos
	stop  []func()
}

// consoleConfig is the environment's configuration pointed at an in-process backend.
type consoleConfig struct {
	config.Config
	apiBaseURL string
}

func (c consoleConfig) GetAPIBaseURL() string {
	return c.apiBaseURL
}

// NewTestContext targets BASE_URL when set. Otherwise it starts a seeded backend and
// a console in process.
func NewTestContext() (*TestContext, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	tc := &TestContext{
		BaseURL: os.Getenv("BASE_URL"),
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	if tc.BaseURL != "" {
		return tc, nil
	}
	if err := tc.startStack(); err != nil {
		tc.Close()
		return nil, err
	}
	return tc, nil
}

func (tc *TestContext) startStack() error {
	repos := mockapi.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		Organizations: orgrepofakes.NewFakeOrganizationRepo(),
		Logs:          fakelogrepo.NewFakeLogRepo(),
	}
	if _, err := mockapi.Seed(repos, time.Now()); err != nil {
		return err
	}
	tc.repos = &repos

	backend, err := mockapi.New(config.NewBackend(), repos)
	if err != nil {
		return fmt.Errorf("mockapi: %w", err)
	}
	backendSrv := httptest.NewServer(backend)
	tc.stop = append(tc.stop, backendSrv.Close)

	cfg := consoleConfig{Config: config.New(), apiBaseURL: backendSrv.URL + "/api"}
	client, err := api.New(cfg.GetAPIBaseURL(), api.WithTimeout(cfg.GetRequestTimeout()))
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}
	console, err := server.New(cfg, client, tokenstore.NewInMemoryRepo())
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	consoleSrv := httptest.NewServer(console)
	tc.stop = append(tc.stop, console.Close, consoleSrv.Close)
	tc.BaseURL = consoleSrv.URL
	return nil
}

// Close stops whatever NewTestContext started, newest first.
func (tc *TestContext) Close() {
	for i := len(tc.stop) - 1; i >= 0; i-- {
		tc.stop[i]()
	}
	tc.stop = nil
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return tc.do(req)
}

// POSTForm submits a form the way the browser does and stores the response
func (tc *TestContext) POSTForm(path string, form url.Values) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

// userID looks a seeded user up on the in-process backend.
func (tc *TestContext) userID(email string) (string, error) {
	if tc.repos == nil {
		return "", fmt.Errorf("user lookup needs the in-process backend")
	}
	u, err := tc.repos.Users.GetByEmail(email)
	if err != nil {
		return "", fmt.Errorf("no user %s: %w", email, err)
	}
	return u.ID, nil
}
