// Package server is the server-rendered web console. Every browser tab gets its own
// workspace: a session, a bound resource client and the list controllers of its pages.
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/config"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/jrsteele09/monitor-dashboard/internal/obs"
	"github.com/jrsteele09/monitor-dashboard/tokenstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env        string
	router     *httpx.Router
	handler    http.Handler
	config     config.Config
	api        *api.Client
	tokens     tokenstore.Repo
	metrics    *obs.Metrics
	gatherer   prometheus.Gatherer
	logger     zerolog.Logger
	nowTime    func() time.Time
	workspaces *workspaces

	loadingTmpl *template.Template

	stopSweep context.CancelFunc
	sweepDone chan struct{}
	closeOnce sync.Once
}

type ServerOption func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// WithMetrics records console metrics and serves g on the metrics route.
func WithMetrics(m *obs.Metrics, g prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

func WithLogger(l zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// New builds the console around a resource client for the backend and a token store
// for the tabs. The idle workspace sweep runs until Close.
func New(cfg config.Config, client *api.Client, tokens tokenstore.Repo, options ...ServerOption) (*Server, error) {
	if client == nil {
		return nil, fmt.Errorf("[Server New] a resource client is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("[Server New] a token store is required")
	}

	s := &Server{
		env:      cfg.GetEnv(),
		router:   httpx.NewRouter(),
		config:   cfg,
		api:      client,
		tokens:   tokens,
		gatherer: prometheus.DefaultGatherer,
		logger:   log.Logger,
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	s.workspaces = newWorkspaces(s.openWorkspace, s.metrics)

	var err error
	if s.loadingTmpl, err = ParseTemplate("loading.html"); err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse loading template: %w", err)
	}

	s.initRoutes()
	s.router.LogRoutes(s.env)
	s.handler = s.metrics.Instrument(s.router)

	ctx, cancel := context.WithCancel(context.Background())
	s.stopSweep = cancel
	s.sweepDone = make(chan struct{})
	go s.sweepIdle(ctx)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops the sweep and closes every workspace. Persisted tokens are kept so a
// returning tab is signed straight back in.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.stopSweep()
		<-s.sweepDone
		s.workspaces.closeAll()
	})
}

func (s *Server) sweepIdle(ctx context.Context) {
	defer close(s.sweepDone)

	idle := s.config.GetTabIdleTimeout()
	ticker := time.NewTicker(min(max(idle/2, time.Second), time.Minute))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.workspaces.sweep(s.nowTime(), idle); n > 0 {
				s.logger.Debug().Int("closed", n).Msg("swept idle workspaces")
			}
		}
	}
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
