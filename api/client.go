// Package api is the console's client for the monitoring backend's REST API.
// Every call returns a Result; transport errors never escape.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/monitor-dashboard/internal/errors"
	"github.com/jrsteele09/monitor-dashboard/internal/obs"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

const (
	DefaultTimeout = 30 * time.Second
	maxBodyBytes   = 4 << 20
	tracerName     = "github.com/jrsteele09/monitor-dashboard/api"
)

const timeoutMessage = "Request timed out"

type Client struct {
	baseURL *url.URL
	base    *http.Client // no credentials
	http    *http.Client // carries the bearer token when bound to a token source
	metrics *obs.Metrics
	tracer  trace.Tracer
	logger  zerolog.Logger
	timeout time.Duration
}

type Option func(*Client)

// WithHTTPClient uses a copy of hc. Its Timeout is kept unless WithTimeout is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		cp := *hc
		c.base = &cp
	}
}

// WithTimeout bounds every request, whatever the order of the options.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithMetrics(m *obs.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New returns an unauthenticated client for baseURL, for example "http://localhost:5000/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid API base URL %q", baseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("API base URL must be absolute: " + baseURL)
	}
	c := &Client{
		baseURL: u,
		base:    &http.Client{Timeout: DefaultTimeout},
		tracer:  otel.Tracer(tracerName),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		c.base.Timeout = c.timeout
	}
	c.http = c.base
	return c, nil
}

// WithTokenSource returns a copy whose calls carry the token from src as a bearer
// credential. The token is read once per request, when the request starts.
func (c *Client) WithTokenSource(src oauth2.TokenSource) *Client {
	bound := *c
	bound.http = authorised(c.base, src)
	return &bound
}

func authorised(base *http.Client, src oauth2.TokenSource) *http.Client {
	hc := *base
	hc.Transport = &oauth2.Transport{Source: src, Base: base.Transport}
	return &hc
}

// request describes one backend call.
type request struct {
	endpoint string // metric and span label, e.g. "GET /users"
	method   string
	path     string
	query    url.Values
	body     any
	client   *http.Client
	fallback string // failure message when the backend gives none
}

// response is a completed exchange with a 2xx status.
type response struct {
	status int
	body   []byte
}

func (c *Client) do(ctx context.Context, req request) (response, Result[struct{}]) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "api "+req.endpoint, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", req.method), attribute.String("http.path", req.path)))
	defer span.End()

	resp, failed := c.exchange(ctx, req)
	outcome := obs.OutcomeSuccess
	switch {
	case failed.Status == http.StatusUnauthorized:
		outcome = obs.OutcomeUnauthorized
	case failed.Message == timeoutMessage:
		outcome = obs.OutcomeTimeout
	case failed.Message != "":
		outcome = obs.OutcomeFailure
	}
	c.metrics.ObserveAPI(req.endpoint, outcome, time.Since(start))

	if failed.Message != "" {
		span.SetStatus(codes.Error, failed.Message)
		span.SetAttributes(attribute.Int("http.status_code", failed.Status))
		c.logger.Debug().Str("endpoint", req.endpoint).Int("status", failed.Status).Str("outcome", outcome).Msg(failed.Message)
		return response{}, failed
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.status))
	return resp, Result[struct{}]{Success: true, Status: resp.status}
}

func (c *Client) exchange(ctx context.Context, req request) (response, Result[struct{}]) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return response{}, fail[struct{}](0, "", req.fallback)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return response{}, fail[struct{}](0, "", req.fallback)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	client := req.client
	if client == nil {
		client = c.http
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return response{}, fail[struct{}](0, timeoutMessage, req.fallback)
		}
		if errors.Is(err, errors.ErrNoSession) || errors.Is(err, errors.ErrSessionExpired) {
			return response{}, fail[struct{}](http.StatusUnauthorized, "You are not signed in", req.fallback)
		}
		return response{}, fail[struct{}](0, "", req.fallback)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if isTimeout(err) {
			return response{}, fail[struct{}](resp.StatusCode, timeoutMessage, req.fallback)
		}
		return response{}, fail[struct{}](resp.StatusCode, "", req.fallback)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return response{}, fail[struct{}](resp.StatusCode, backendMessage(data), req.fallback)
	}
	return response{status: resp.StatusCode, body: data}, Result[struct{}]{}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// backendMessage extracts {"message": ...} or {"error": ...} from an error body.
func backendMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

// unwrap returns the value under the first present key, or body itself.
func unwrap(body []byte, keys ...string) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return trimmed
	}
	for _, k := range keys {
		if v, ok := fields[k]; ok && len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return trimmed
}

// decode finishes a call whose 2xx body holds a T under one of keys.
func decode[T any](c *Client, ctx context.Context, req request, success string, keys ...string) Result[T] {
	resp, res := c.do(ctx, req)
	if !res.Success {
		return Result[T]{Message: res.Message, Status: res.Status}
	}
	var data T
	if err := json.Unmarshal(unwrap(resp.body, keys...), &data); err != nil {
		c.logger.Warn().Err(err).Str("endpoint", req.endpoint).Msg("malformed backend response")
		return fail[T](resp.status, "", req.fallback)
	}
	if msg := backendMessage(resp.body); msg != "" {
		success = msg
	}
	return ok(data, success, resp.status)
}

// discard finishes a call whose body is ignored.
func discard(c *Client, ctx context.Context, req request, success string) Result[struct{}] {
	resp, res := c.do(ctx, req)
	if !res.Success {
		return res
	}
	if msg := backendMessage(resp.body); msg != "" {
		success = msg
	}
	return ok(struct{}{}, success, resp.status)
}
