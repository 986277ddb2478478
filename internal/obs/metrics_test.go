package obs

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                           "/",
		"/metrics":                                   "/metrics",
		"/users/42/role":                             "/users/:id/role",
		"/users/0b0e6a4e-3f4c-4c9b-9a57-3a1d9f1c2b7e": "/users/:id",
		"/logs?page=2":                               "/logs",
	}
	for input, expected := range cases {
		require.Equal(t, expected, CanonicalPath(input), input)
	}
}

func TestInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	h := m.Instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/7", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/users/:id", "418")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestObserveCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveAPI("GET /logs", OutcomeSuccess, 10*time.Millisecond)
	m.ObserveListFetch("logs", OutcomeStale)
	m.ObserveListFetch("logs", OutcomeStale)

	require.Equal(t, 1.0, testutil.ToFloat64(m.apiRequestsTotal.WithLabelValues("GET /logs", OutcomeSuccess)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.listFetchesTotal.WithLabelValues("logs", OutcomeStale)))

	t.Run("nil metrics are no-ops", func(t *testing.T) {
		var nilMetrics *Metrics
		nilMetrics.ObserveAPI("x", OutcomeFailure, time.Second)
		nilMetrics.ObserveListFetch("x", OutcomeFailed)
		nilMetrics.SetWorkspaces(3)
	})

	t.Run("handler exposes series", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.True(t, strings.Contains(rec.Body.String(), "dashboard_list_fetches_total"))
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "PROD", "warn")
	logger.Info().Msg("hidden")
	logger.Warn().Str("tab", "t1").Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"tab":"t1"`)
}
