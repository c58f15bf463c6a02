// Package metrics provides Prometheus metrics for wizard sessions and model
// calls. A nil *Recorder is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Call kinds.
const (
	KindEmail    = "email"
	KindRevision = "revision"
	KindSummary  = "summary"
)

// Recorder owns its registry so tests can create as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	callsTotal      *prometheus.CounterVec
	callDuration    *prometheus.HistogramVec
	supersededTotal prometheus.Counter
	ingestTotal     *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brief_model_calls_total",
				Help: "Model calls by kind, provider and status",
			},
			[]string{"kind", "provider", "status"},
		),
		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brief_model_call_duration_seconds",
				Help:    "Duration of model calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind", "provider"},
		),
		supersededTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "brief_generation_superseded_total",
				Help: "Generation results discarded because a newer request was issued",
			},
		),
		ingestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brief_file_ingest_total",
				Help: "File uploads by extension and outcome",
			},
			[]string{"extension", "outcome"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brief_wizard_events_total",
				Help: "Wizard events by type and outcome",
			},
			[]string{"event", "outcome"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "brief_sessions_active",
				Help: "Wizard sessions currently held in memory",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveCall records a completed model call.
func (r *Recorder) ObserveCall(kind, provider string, err error, d time.Duration) {
	if r == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	r.callsTotal.WithLabelValues(kind, provider, status).Inc()
	r.callDuration.WithLabelValues(kind, provider).Observe(d.Seconds())
}

// IncSuperseded counts a discarded stale generation result.
func (r *Recorder) IncSuperseded() {
	if r == nil {
		return
	}
	r.supersededTotal.Inc()
}

// ObserveIngest counts an upload; outcome is "accepted", "rejected" (file
// policy) or "refused" (the session could not take a file).
func (r *Recorder) ObserveIngest(extension, outcome string) {
	if r == nil {
		return
	}
	if extension == "" {
		extension = "none"
	}
	r.ingestTotal.WithLabelValues(extension, outcome).Inc()
}

// ObserveEvent counts a wizard event; outcome is "applied" or an error code.
func (r *Recorder) ObserveEvent(event, outcome string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(event, outcome).Inc()
}

// SetActiveSessions reports the live session count.
func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.activeSessions.Set(float64(n))
}
