// Package listing drives a server-paginated list: page and filter changes start a
// fetch, late responses for superseded parameters are dropped, and free-text search
// runs over the loaded page only.
package listing

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/monitor-dashboard/api"
	"github.com/jrsteele09/monitor-dashboard/internal/obs"
	"github.com/jrsteele09/monitor-dashboard/notify"
	"github.com/rs/zerolog"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return "idle"
	}
}

const (
	DefaultLimit   = 10
	msgFetchPanic  = "Unexpected error while loading the list"
	defaultListTag = "list"
)

// FetchFunc loads one page. It should honour ctx; a late answer is discarded either way.
type FetchFunc[T any] func(ctx context.Context, q Query) api.Result[api.Page[T]]

// Matcher reports whether item matches a search term.
type Matcher[T any] func(item T, term string) bool

type Controller[T any] struct {
	fetch    FetchFunc[T]
	match    Matcher[T]
	name     string
	notifier notify.Notifier
	metrics  *obs.Metrics
	logger   zerolog.Logger
	base     context.Context
	stop     context.CancelFunc

	mu         sync.Mutex
	state      State
	query      Query
	items      []T
	total      int
	totalPages int
	loaded     bool // a fetch has succeeded, so totalPages is known
	search     string
	errMsg     string
	gen        uint64
	cancel     context.CancelFunc
	done       chan struct{} // closed when the fetch of gen has settled
	closed     bool
}

type Option func(*settings)

type settings struct {
	name     string
	limit    int
	filters  Filters
	notifier notify.Notifier
	metrics  *obs.Metrics
	logger   zerolog.Logger
	parent   context.Context
}

// WithName labels metrics and log lines.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithLimit fixes the page size.
func WithLimit(limit int) Option {
	return func(s *settings) { s.limit = limit }
}

func WithFilters(f Filters) Option {
	return func(s *settings) { s.filters = f }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *settings) { s.notifier = n }
}

func WithMetrics(m *obs.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithContext bounds every fetch by parent.
func WithContext(parent context.Context) Option {
	return func(s *settings) { s.parent = parent }
}

// New returns an idle controller on page 1. Nothing is fetched until Refresh or a parameter change.
func New[T any](fetch FetchFunc[T], match Matcher[T], opts ...Option) *Controller[T] {
	cfg := settings{
		name:     defaultListTag,
		limit:    DefaultLimit,
		notifier: notify.Discard,
		logger:   zerolog.Nop(),
		parent:   context.Background(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if match == nil {
		match = func(T, string) bool { return true }
	}
	base, stop := context.WithCancel(cfg.parent)
	return &Controller[T]{
		fetch:    fetch,
		match:    match,
		name:     cfg.name,
		notifier: cfg.notifier,
		metrics:  cfg.metrics,
		logger:   cfg.logger,
		base:     base,
		stop:     stop,
		query:    Query{Page: 1, Limit: max(cfg.limit, 1), Filters: cfg.filters.Clone()},
	}
}

// Refresh refetches the current parameters.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked()
}

// SetPage moves to page. Once a load has succeeded the page is clamped to [1, totalPages].
func (c *Controller[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setPageLocked(page)
}

func (c *Controller[T]) setPageLocked(page int) bool {
	page = c.clampLocked(page)
	if page == c.query.Page && c.state != StateIdle {
		return false
	}
	c.query.Page = page
	c.startLocked()
	return true
}

func (c *Controller[T]) clampLocked(page int) int {
	page = max(page, 1)
	if c.loaded {
		page = min(page, max(c.totalPages, 1))
	}
	return page
}

// Next is a no-op on the last page.
func (c *Controller[T]) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query.Page >= max(c.totalPages, 1) {
		return
	}
	c.setPageLocked(c.query.Page + 1)
}

// Previous is a no-op on page 1.
func (c *Controller[T]) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query.Page <= 1 {
		return
	}
	c.setPageLocked(c.query.Page - 1)
}

// SetFilters replaces the filters and returns to page 1.
func (c *Controller[T]) SetFilters(f Filters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.Equal(c.query.Filters) && c.state != StateIdle {
		return
	}
	c.query.Filters = f.Clone()
	c.query.Page = 1
	c.startLocked()
}

// Navigate applies a page and filter set in one step, as a page request carries both.
// Changed filters reset the page to 1, except on the first load after New or Reset. It reports whether
// a fetch was started.
func (c *Controller[T]) Navigate(page int, f Filters) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.state == StateIdle:
		c.query.Filters = f.Clone()
		c.query.Page = max(page, 1)
		c.startLocked()
		return true
	case !f.Equal(c.query.Filters):
		c.query.Filters = f.Clone()
		c.query.Page = 1
		c.startLocked()
		return true
	default:
		return c.setPageLocked(page)
	}
}

// Reset drops the loaded page and any in-flight fetch and returns to an idle page 1,
// so a list never shows one user's rows to the next.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.done = nil
	c.state = StateIdle
	c.query.Page = 1
	c.query.Filters = nil
	c.items = nil
	c.total, c.totalPages = 0, 0
	c.loaded = false
	c.search, c.errMsg = "", ""
}

// SetSearch filters the loaded page. It never fetches.
func (c *Controller[T]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// Mutate edits the loaded items in place, e.g. after a role change or delete.
// The next fetch replaces them.
func (c *Controller[T]) Mutate(f func([]T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = f(append([]T(nil), c.items...))
}

// Close cancels any in-flight fetch. Results arriving afterwards are ignored.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stop()
}

// Await blocks until the latest fetch has settled, following any fetch that supersedes it.
func (c *Controller[T]) Await(ctx context.Context) error {
	for {
		c.mu.Lock()
		gen, done := c.gen, c.done
		c.mu.Unlock()
		if done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
		settled := c.gen == gen
		c.mu.Unlock()
		if settled {
			return nil
		}
	}
}

func (c *Controller[T]) startLocked() {
	if c.closed {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.state = StateLoading
	c.done = make(chan struct{})
	go c.run(ctx, c.gen, c.query.clone(), c.done)
}

func (c *Controller[T]) run(ctx context.Context, gen uint64, q Query, done chan struct{}) {
	defer close(done)
	c.apply(gen, q, c.safeFetch(ctx, q))
}

func (c *Controller[T]) safeFetch(ctx context.Context, q Query) (res api.Result[api.Page[T]]) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().Str("list", c.name).Str("panic", fmt.Sprint(r)).Msg("list fetch panicked")
			res = api.Result[api.Page[T]]{Message: msgFetchPanic}
		}
	}()
	return c.fetch(ctx, q)
}

func (c *Controller[T]) apply(gen uint64, q Query, res api.Result[api.Page[T]]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen || !q.Equal(c.query) {
		c.metrics.ObserveListFetch(c.name, obs.OutcomeStale)
		c.logger.Debug().Str("list", c.name).Int("page", q.Page).Msg("discarded stale response")
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if !res.Success {
		c.state = StateErrored
		c.errMsg = res.Message
		c.metrics.ObserveListFetch(c.name, obs.OutcomeFailed)
		c.notifier.Notify(notify.LevelError, res.Message)
		return
	}

	c.items = append([]T(nil), res.Data.Items...)
	c.total = res.Data.Total
	c.totalPages = max(res.Data.TotalPages, 1)
	c.loaded = true
	c.state = StateLoaded
	c.errMsg = ""
	c.metrics.ObserveListFetch(c.name, obs.OutcomeApplied)

	if q.Page > c.totalPages {
		c.logger.Debug().Str("list", c.name).Int("page", q.Page).Int("total_pages", c.totalPages).Msg("page past the end, loading the last page")
		c.query.Page = c.totalPages
		c.startLocked()
	}
}
