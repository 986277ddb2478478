// Package mockapi is a development implementation of the monitoring REST backend
// the console talks to. It keeps everything in memory.
package mockapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/monitor-dashboard/activity"
	"github.com/jrsteele09/monitor-dashboard/auth"
	"github.com/jrsteele09/monitor-dashboard/internal/config"
	"github.com/jrsteele09/monitor-dashboard/internal/httpx"
	"github.com/jrsteele09/monitor-dashboard/organizations"
	"github.com/jrsteele09/monitor-dashboard/token"
	"github.com/jrsteele09/monitor-dashboard/users"
)

// Repos holds all repository dependencies for the Server
type Repos struct {
	Users         users.Repo
	Organizations organizations.Repo
	Logs          activity.Repo
}

type Server struct {
	env     string
	router  *httpx.Router
	config  config.BackendConfig
	auth    *auth.Service
	repos   Repos
	nowTime func() time.Time
}

type ServerOption func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

func New(cfg config.BackendConfig, repos Repos, options ...ServerOption) (*Server, error) {
	if repos.Users == nil || repos.Organizations == nil || repos.Logs == nil {
		return nil, fmt.Errorf("[mockapi New] all repos are required")
	}

	s := &Server{
		env:     cfg.GetEnv(),
		router:  httpx.NewRouter(),
		config:  cfg,
		repos:   repos,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}

	signer, err := token.NewHMACSigner(cfg.GetJWTSigningKey())
	if err != nil {
		return nil, fmt.Errorf("[mockapi New] signer: %w", err)
	}
	s.auth, err = auth.NewService(
		auth.Repos{Users: repos.Users, Organizations: repos.Organizations},
		token.NewIssuer(signer, cfg.GetTokenTTL()),
		auth.WithNowTime(s.nowTime),
	)
	if err != nil {
		return nil, fmt.Errorf("[mockapi New] failed to create auth service: %w", err)
	}

	s.initRoutes()
	s.router.LogRoutes(s.env)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
