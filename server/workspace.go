package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/obs"
	"github.com/jrsteele09/monitor-dashboard/listing"
	"github.com/jrsteele09/monitor-dashboard/notify"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/jrsteele09/monitor-dashboard/session"
	"github.com/jrsteele09/monitor-dashboard/tokenstore"
	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/mssola/useragent"
	"golang.org/x/time/rate"
)

const maxNotices = 10

// workspace is everything the console keeps for one tab.
type workspace struct {
	id      string
	device  string
	session *session.Store
	client  *api.Client
	users   *listing.Controller[users.User]
	logs    *listing.Controller[activity.Log]
	notes   *notify.Queue
	limiter *rate.Limiter

	// org is the last organization the backend returned, for pages that render without fetching
	org      atomic.Pointer[organizations.Organization]
	lastSeen atomic.Int64
	cancel   context.CancelFunc
}

func (ws *workspace) touch(now time.Time) {
	ws.lastSeen.Store(now.UnixNano())
}

func (ws *workspace) idleFor(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, ws.lastSeen.Load()))
}

// forget drops everything loaded for the previous user whenever the signed-in user changes.
func (ws *workspace) forget() {
	ws.users.Reset()
	ws.logs.Reset()
	ws.org.Store(nil)
}

func (ws *workspace) organization() *organizations.Organization {
	return ws.org.Load()
}

func (ws *workspace) rememberOrganization(o organizations.Organization) {
	ws.org.Store(&o)
}

func (ws *workspace) close() {
	ws.users.Close()
	ws.logs.Close()
	ws.cancel()
}

func (s *Server) openWorkspace(id, userAgent string) *workspace {
	ctx, cancel := context.WithCancel(context.Background())
	logger := s.logger.With().Str("tab", id).Logger()
	notes := notify.NewQueue(maxNotices)
	notifier := notify.Multi{notes, notify.Log{Logger: logger}}

	store := session.NewStore(s.api, tokenstore.ForTab(s.tokens, id, s.config.GetTokenTTL()),
		session.WithNotifier(notifier),
		session.WithLogger(logger),
		session.WithNowTime(s.nowTime),
	)
	client := s.api.WithTokenSource(store)

	ws := &workspace{
		id:      id,
		device:  deviceLabel(userAgent),
		session: store,
		client:  client,
		notes:   notes,
		limiter: rate.NewLimiter(rate.Limit(s.config.GetLoginRate()), max(s.config.GetLoginBurst(), 1)),
		cancel:  cancel,
	}
	common := []listing.Option{
		listing.WithNotifier(notifier),
		listing.WithMetrics(s.metrics),
		listing.WithLogger(logger),
		listing.WithContext(ctx),
	}
	ws.users = listing.New(func(ctx context.Context, q listing.Query) api.Result[api.Page[users.User]] {
		return session.Check(ctx, store, client.ListUsers(ctx, q.Page, q.Limit))
	}, users.User.Matches, append(common, listing.WithName("users"), listing.WithLimit(s.config.GetUsersPageSize()))...)
	ws.logs = listing.New(func(ctx context.Context, q listing.Query) api.Result[api.Page[activity.Log]] {
		return session.Check(ctx, store, client.ListLogs(ctx, q.Page, q.Limit, activity.FiltersFromMap(q.Filters)))
	}, activity.Log.Matches, append(common, listing.WithName("logs"), listing.WithLimit(s.config.GetLogsPageSize()))...)
	ws.touch(s.nowTime())

	go func() {
		initCtx, done := context.WithTimeout(ctx, s.config.GetRequestTimeout())
		defer done()
		status := store.Initialize(initCtx)
		logger.Debug().Str("status", status.String()).Str("device", ws.device).Msg("workspace opened")
	}()
	return ws
}

// deviceLabel is a short description of the browser, e.g. "Firefox on Linux".
func deviceLabel(userAgent string) string {
	if userAgent == "" {
		return "Unknown device"
	}
	ua := useragent.New(userAgent)
	name, _ := ua.Browser()
	if ua.Bot() {
		return "Bot " + name
	}
	platform := ua.OSInfo().Name
	switch {
	case name == "" && platform == "":
		return "Unknown device"
	case platform == "":
		return name
	case name == "":
		return platform
	}
	return fmt.Sprintf("%s on %s", name, platform)
}

// workspaces is the registry of open tabs.
type workspaces struct {
	mu      sync.Mutex
	tabs    map[string]*workspace
	open    func(id, userAgent string) *workspace
	metrics *obs.Metrics
}

func newWorkspaces(open func(id, userAgent string) *workspace, m *obs.Metrics) *workspaces {
	return &workspaces{tabs: map[string]*workspace{}, open: open, metrics: m}
}

// attach returns the workspace of the tab id, opening one when the tab is new or was
// swept. An id that is not a uuid is replaced by a fresh one.
func (r *workspaces) attach(id, userAgent string) *workspace {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.tabs[id]; ok {
		return ws
	}
	ws := r.open(id, userAgent)
	r.tabs[id] = ws
	r.metrics.SetWorkspaces(len(r.tabs))
	return ws
}

func (r *workspaces) get(id string) (*workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.tabs[id]
	return ws, ok
}

func (r *workspaces) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tabs)
}

// sweep closes the workspaces not seen for idle and returns how many it closed.
func (r *workspaces) sweep(now time.Time, idle time.Duration) int {
	r.mu.Lock()
	var stale []*workspace
	for id, ws := range r.tabs {
		if ws.idleFor(now) >= idle {
			stale = append(stale, ws)
			delete(r.tabs, id)
		}
	}
	r.metrics.SetWorkspaces(len(r.tabs))
	r.mu.Unlock()

	for _, ws := range stale {
		ws.close()
	}
	return len(stale)
}

func (r *workspaces) closeAll() {
	r.mu.Lock()
	tabs := r.tabs
	r.tabs = map[string]*workspace{}
	r.metrics.SetWorkspaces(0)
	r.mu.Unlock()

	for _, ws := range tabs {
		ws.close()
	}
}
