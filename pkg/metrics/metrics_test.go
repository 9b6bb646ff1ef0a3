package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillsync-backend/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRecording(t *testing.T) {
	m := metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))

	m.ObserveCompletion("openai", "ok", 120*time.Millisecond)
	m.ObserveCompletion("openai", "ok", 80*time.Millisecond)
	m.ObserveCompletion("openai", "error", time.Second)
	m.RecordParseFallback("compare", "invalid_json")
	m.RecordAnalysis("degraded", 3*time.Second)
	m.RecordHTTPRequest("/api/ai/analyze", "POST", "200", 3*time.Second)

	count, err := testutil.GatherAndCount(m.Registry(),
		"skillsync_api_completion_requests_total",
		"skillsync_api_parse_fallbacks_total",
		"skillsync_api_analyses_total",
		"skillsync_api_http_requests_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `skillsync_api_completion_requests_total{outcome="ok",provider="openai"} 2`)
	assert.Contains(t, rec.Body.String(), `skillsync_api_parse_fallbacks_total{reason="invalid_json",step="compare"} 1`)
}

func TestNilManagerIsNoop(t *testing.T) {
	var m *metrics.Manager
	assert.NotPanics(t, func() {
		m.ObserveCompletion("openai", "ok", time.Millisecond)
		m.RecordParseFallback("compare", "invalid_json")
		m.RecordAnalysis("ok", time.Millisecond)
		m.RecordHTTPRequest("/", "GET", "200", time.Millisecond)
	})
}

func TestManagerOptions(t *testing.T) {
	m := metrics.NewManager(
		metrics.WithRegistry(prometheus.NewRegistry()),
		metrics.WithNamespace("custom"),
		metrics.WithSubsystem("test"),
	)
	m.RecordAnalysis("ok", time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "custom_test_analyses_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
