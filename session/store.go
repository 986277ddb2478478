package session

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/monitor-dashboard/access"
	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/internal/validation"
	"github.com/jrsteele09/monitor-dashboard/notify"
	"github.com/jrsteele09/monitor-dashboard/users"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	MsgWelcome        = "Welcome back!"
	MsgLoginFailed    = "Login failed"
	MsgLoggedOut      = "Logged out successfully"
	MsgSessionExpired = "Your session has expired. Please sign in again."
	MsgMissingFields  = "Email and password are required"
	MsgLoginCancelled = "Signed out before the login completed"
)

// snapshot is replaced whole on every write so readers never see a torn session.
type snapshot struct {
	status  Status
	session Session
}

var unknown = &snapshot{status: StatusUnknown}

// Store is the session of one tab. Reads are lock free; writes are serialised.
type Store struct {
	auth     Authenticator
	tokens   TokenStore
	notifier notify.Notifier
	logger   zerolog.Logger
	now      func() time.Time

	state     atomic.Pointer[snapshot]
	writeLock sync.Mutex
	logouts   uint64 // guarded by writeLock
	ready     chan struct{}
	readyOnce sync.Once
}

var _ oauth2.TokenSource = (*Store)(nil)

type StoreOption func(*Store)

func WithNotifier(n notify.Notifier) StoreOption {
	return func(s *Store) {
		s.notifier = n
	}
}

func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// WithNowTime sets the clock (primarily for testing)
func WithNowTime(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(auth Authenticator, tokens TokenStore, options ...StoreOption) *Store {
	s := &Store{
		auth:     auth,
		tokens:   tokens,
		notifier: notify.Discard,
		logger:   zerolog.Nop(),
		now:      time.Now,
		ready:    make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}
	s.state.Store(unknown)
	return s
}

// Initialize validates a persisted token with the backend. Any failure, network
// errors included, clears the token and leaves the tab anonymous.
func (s *Store) Initialize(ctx context.Context) Status {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	defer s.markReady()

	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load persisted token")
	}
	if token == "" {
		s.set(&snapshot{status: StatusAnonymous})
		return StatusAnonymous
	}

	if exp, ok := tokenExpiry(token); ok && !s.now().Before(exp) {
		s.logger.Debug().Msg("persisted token expired")
		return s.clearLocked(ctx)
	}

	res := s.auth.CurrentUser(ctx, token)
	if !res.Success {
		s.logger.Debug().Int("status", res.Status).Str("reason", res.Message).Msg("persisted token rejected")
		return s.clearLocked(ctx)
	}

	s.set(&snapshot{status: StatusAuthenticated, session: newSession(res.Data, token)})
	return StatusAuthenticated
}

// Login leaves any existing session untouched when the attempt fails.
func (s *Store) Login(ctx context.Context, creds users.Credentials) api.Result[Session] {
	if err := validation.Validate(creds); err != nil {
		s.notifier.Notify(notify.LevelError, MsgMissingFields)
		return api.Result[Session]{Message: MsgMissingFields}
	}

	s.writeLock.Lock()
	logouts := s.logouts
	s.writeLock.Unlock()

	res := s.auth.Login(ctx, creds)
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = MsgLoginFailed
		}
		s.notifier.Notify(notify.LevelError, msg)
		return api.Result[Session]{Message: msg, Status: res.Status}
	}

	sess := newSession(res.Data.User, res.Data.Token)

	s.writeLock.Lock()
	if s.logouts != logouts {
		s.writeLock.Unlock()
		s.logger.Info().Str("user", sess.UserID).Msg("login dropped, signed out while it was in flight")
		return api.Result[Session]{Message: MsgLoginCancelled, Status: http.StatusConflict}
	}
	if err := s.tokens.Save(ctx, sess.Token); err != nil {
		s.logger.Error().Err(err).Str("user", sess.UserID).Msg("failed to persist token")
	}
	s.set(&snapshot{status: StatusAuthenticated, session: sess})
	s.writeLock.Unlock()
	s.markReady()

	s.logger.Info().Str("user", sess.UserID).Str("role", string(sess.Role)).Msg("signed in")
	s.notifier.Notify(notify.LevelSuccess, MsgWelcome)
	return api.Result[Session]{Success: true, Message: MsgWelcome, Data: sess, Status: res.Status}
}

// Logout needs no backend call and always succeeds.
func (s *Store) Logout(ctx context.Context) {
	s.writeLock.Lock()
	s.logouts++
	s.clearLocked(ctx)
	s.writeLock.Unlock()
	s.markReady()
	s.notifier.Notify(notify.LevelSuccess, MsgLoggedOut)
}

// Invalidate ends a session the backend no longer accepts.
func (s *Store) Invalidate(ctx context.Context) {
	s.writeLock.Lock()
	wasAuthenticated := s.state.Load().status == StatusAuthenticated
	s.clearLocked(ctx)
	s.writeLock.Unlock()
	s.markReady()
	if wasAuthenticated {
		s.notifier.Notify(notify.LevelError, MsgSessionExpired)
	}
}

func (s *Store) clearLocked(ctx context.Context) Status {
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear persisted token")
	}
	s.set(&snapshot{status: StatusAnonymous})
	return StatusAnonymous
}

func (s *Store) set(next *snapshot) {
	s.state.Store(next)
}

func (s *Store) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Status reports an expired session as anonymous.
func (s *Store) Status() Status {
	snap := s.state.Load()
	if snap.status == StatusAuthenticated && snap.session.Expired(s.now()) {
		return StatusAnonymous
	}
	return snap.status
}

// Current returns a copy of the session, if there is a live one.
func (s *Store) Current() (Session, bool) {
	snap := s.state.Load()
	if snap.status != StatusAuthenticated || snap.session.Expired(s.now()) {
		return Session{}, false
	}
	return snap.session, true
}

// HasRole is false without a session and for an empty role list.
func (s *Store) HasRole(roles ...users.Role) bool {
	cur, ok := s.Current()
	if !ok || len(roles) == 0 {
		return false
	}
	return access.IsAllowed(cur.Role, roles...)
}

// Token is the bearer credential for outgoing requests. Each request reads it once.
func (s *Store) Token() (*oauth2.Token, error) {
	snap := s.state.Load()
	if snap.status != StatusAuthenticated {
		return nil, errors.ErrNoSession
	}
	if snap.session.Expired(s.now()) {
		return nil, errors.ErrSessionExpired
	}
	return &oauth2.Token{AccessToken: snap.session.Token, TokenType: "Bearer", Expiry: snap.session.ExpiresAt}, nil
}

// Ready is closed once the first Initialize, Login or Logout has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the store is ready or ctx is done.
func (s *Store) Wait(ctx context.Context) (Status, error) {
	select {
	case <-s.ready:
		return s.Status(), nil
	case <-ctx.Done():
		return StatusUnknown, ctx.Err()
	}
}

// Check hands a 401 Result to the store, which ends the session. The Result is returned unchanged.
func Check[T any](ctx context.Context, s *Store, res api.Result[T]) api.Result[T] {
	if res.Unauthorized() {
		// the fetch that saw the 401 may already be cancelled; clearing the token must not be
		s.Invalidate(context.WithoutCancel(ctx))
	}
	return res
}
