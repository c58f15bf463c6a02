package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveCall(t *testing.T) {
	r := NewRecorder()
	r.ObserveCall(KindEmail, "anthropic", nil, 2*time.Second)
	r.ObserveCall(KindEmail, "anthropic", errors.New("boom"), time.Second)
	r.ObserveCall(KindSummary, "openai", nil, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.callsTotal.WithLabelValues(KindEmail, "anthropic", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.callsTotal.WithLabelValues(KindEmail, "anthropic", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.callsTotal.WithLabelValues(KindSummary, "openai", "success")))
}

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()
	r.IncSuperseded()
	r.IncSuperseded()
	r.ObserveIngest("", "rejected")
	r.ObserveIngest("txt", "accepted")
	r.ObserveEvent("start", "applied")
	r.SetActiveSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.supersededTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ingestTotal.WithLabelValues("none", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ingestTotal.WithLabelValues("txt", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.transitions.WithLabelValues("start", "applied")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.activeSessions))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveCall(KindEmail, "anthropic", nil, time.Second)
	r.IncSuperseded()
	r.ObserveIngest("txt", "accepted")
	r.ObserveEvent("start", "applied")
	r.SetActiveSessions(1)
	assert.Nil(t, r.Registry())

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.IncSuperseded()

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "brief_generation_superseded_total 1"))
}
