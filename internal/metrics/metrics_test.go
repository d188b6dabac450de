package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	r := New()

	r.ObserveEvent("button", "ok")
	r.ObserveEvent("button", "ok")
	r.ObserveEvent("text", "invalid")
	r.ObserveAction("admin_main", "denied")
	r.ObserveDenied("maintenance")
	r.ObserveBroadcast(2, 1)
	r.ObserveSent(3, true)
	r.ObserveSent(0, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.events.WithLabelValues("button", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.events.WithLabelValues("text", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.actions.WithLabelValues("admin_main", "denied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.denials.WithLabelValues("maintenance")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.broadcasts))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.deliveries.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.deliveries.WithLabelValues("fail")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.sent.WithLabelValues("true")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.sent), "zero sends add no series")
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.ObserveDenied("admin")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `servicebot_access_denials_total{gate="admin"} 1`), body)
}
