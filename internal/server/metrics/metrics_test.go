package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200").Inc()
	m.LoginsTotal.WithLabelValues("success").Inc()
	m.CommentsNotifiedTotal.Add(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CommentsNotifiedTotal))

	n, err := testutil.GatherAndCount(reg, "handlekeeper_logins_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestHandler_Exposition(t *testing.T) {
	m := New(nil)
	m.PollRunsTotal.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `handlekeeper_comment_poll_runs_total{result="ok"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
